package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/claude/meetprep/internal/config"
	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/storage"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the global flags and the lazily loaded config.
type app struct {
	configPath string
	jsonOutput bool
	today      string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "meetprep-cli",
		Short:        "Powerlifting competition prep from the command line",
		Long:         "Show the prep schedule, today's workout and macro targets, and manage the bodyweight and training logs without running the server.",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "",
		"Config file (defaults and MEETPREP_* env vars when empty)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false,
		"Output in JSON format")
	root.PersistentFlags().StringVar(&a.today, "today", "",
		"Evaluate as if today were this date (YYYY-MM-DD)")

	root.AddCommand(
		a.newScheduleCmd(),
		a.newPlanCmd(),
		a.newDietCmd(),
		a.newWeightCmd(),
		a.newTrainingCmd(),
		a.newExportCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.Log.NewLogger(cmd.ErrOrStderr())
	if a.today != "" {
		if _, err := time.Parse(models.DateLayout, a.today); err != nil {
			return fmt.Errorf("--today: want YYYY-MM-DD, got %q", a.today)
		}
	}
	return nil
}

func (a *app) now() time.Time {
	if t, err := time.Parse(models.DateLayout, a.today); err == nil {
		return t
	}
	return time.Now()
}

func (a *app) todayString() string {
	return a.now().Format(models.DateLayout)
}

func (a *app) openStore(ctx context.Context) (storage.Store, error) {
	return storage.Open(ctx, a.cfg.StorageOptions())
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// confirm asks the user to type word before a destructive action.
func confirm(cmd *cobra.Command, prompt, word string) (bool, error) {
	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "WARNING: %s\n", prompt)
	fmt.Fprintf(errOut, "Type %q to confirm: ", word)

	reader := bufio.NewReader(cmd.InOrStdin())
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if strings.TrimSpace(input) != word {
		fmt.Fprintln(errOut, "Aborted.")
		return false, nil
	}
	return true, nil
}

func num(f float64) string {
	return fmt.Sprint(f)
}
