package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/claude/meetprep/internal/ingest/alpha"
	"github.com/claude/meetprep/internal/upload"
)

func (a *app) newTrainingSyncCmd() *cobra.Command {
	var serverURL, stateDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync <export-dir>",
		Short: "Import every new Alpha Progression export in a folder",
		Long: "Walk a folder of Alpha Progression CSV exports and import the files not seen before. " +
			"With --server the files are posted to a running meetprep server; otherwise they go to the configured store. " +
			"Imported files are remembered by content hash, so re-running is safe.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return fmt.Errorf("export directory not found: %s", dir)
			}
			if stateDir == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("resolving home directory: %w", err)
				}
				stateDir = filepath.Join(home, ".meetprep-sync")
			}

			state, err := upload.OpenStateDB(stateDir)
			if err != nil {
				return err
			}
			defer state.Close()

			ctx := cmd.Context()
			var importFn upload.ImportFunc
			switch {
			case dryRun:
			case serverURL != "":
				importFn = upload.NewClient(serverURL).Send
			default:
				store, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer store.Close()
				importFn = alpha.NewProvider(store, a.log).Ingest
			}

			stats, err := upload.New(importFn, state, dir, dryRun, a.log).Run(ctx)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Files: %d total, %d imported, %d already imported, %d failed\n",
				stats.FilesTotal, stats.FilesSynced, stats.FilesSkipped, stats.FilesErrored)
			fmt.Fprintf(out, "Sets: %d added, %d warmups skipped\n", stats.EntriesAdded, stats.WarmupsSkipped)
			if stats.FilesErrored > 0 {
				return fmt.Errorf("%d files failed to import", stats.FilesErrored)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "meetprep server URL (e.g. https://meetprep.tail1234.ts.net)")
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "Where imported files are remembered (default ~/.meetprep-sync)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse the exports but import nothing")
	return cmd
}
