package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/prep"
	"github.com/claude/meetprep/internal/storage"
)

// Deps are the stores and defaults the MCP tools read and write.
type Deps struct {
	Store       storage.Store
	Tables      *prep.TableHolder
	Competition models.Competition
	Bodyweight  storage.WeightRange

	// BodyweightTarget draws the target line; zero leaves it out.
	BodyweightTarget float64
}

// New creates an MCP server with all tools and resources registered.
func New(deps Deps, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("meetprep", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("meetprep competition-prep server. Look up the prep schedule, today's workout with loads from the lifter's 1RMs, and macro targets. Read and append the bodyweight and training logs."),
	)

	h := &handlers{deps: deps, log: log, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetSchedule, Handler: h.getSchedule},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetMacroTargets, Handler: h.getMacroTargets},
		server.ServerTool{Tool: toolLogBodyweight, Handler: h.logBodyweight},
		server.ServerTool{Tool: toolGetBodyweightLog, Handler: h.getBodyweightLog},
		server.ServerTool{Tool: toolLogTraining, Handler: h.logTraining},
		server.ServerTool{Tool: toolGetTrainingLog, Handler: h.getTrainingLog},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resToday, Handler: h.today},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	deps Deps
	log  *slog.Logger
	now  func() time.Time
}

// --- Resource definitions ---

var resToday = mcp.NewResource(
	"meetprep://today",
	"Today",
	mcp.WithResourceDescription("Today's prep week and phase, macro targets, latest bodyweight and the training logged today"),
	mcp.WithMIMEType("application/json"),
)
