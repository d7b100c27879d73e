package mcp

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/mailtag/internal/ops"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"email", "customer", "pattern", "metrics"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"email_classify": {
		def:     classifyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClassify },
	},
	"email_sample": {
		def:     sampleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSample },
	},
	"email_list": {
		def:     listEmailsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListEmails },
	},
	"email_get": {
		def:     getEmailToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetEmail },
	},
	"customer_list": {
		def:     customersToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCustomers },
	},
	"customer_tags": {
		def:     customerTagsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCustomerTags },
	},
	"pattern_list": {
		def:     patternsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePatterns },
	},
	"pattern_antipatterns": {
		def:     antiPatternsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAntiPatterns },
	},
	"metrics_summary": {
		def:     metricsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMetrics },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "email_classify" → "email").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server with the mailtag tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration; unknown names are logged as warnings.
func NewServer(env *ops.Env, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"mailtag",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(env)
	cfg := env.Cfg

	if unknown := ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		env.Log.Warn("unknown disabled_types in config", "types", unknown)
	}
	if unknown := ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		env.Log.Warn("unknown disabled_tools in config", "tools", unknown)
	}

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	registered := 0
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
		registered++
	}
	env.Log.Debug("mcp tools registered", "count", registered)

	return s
}

// Run starts the MCP server using stdio transport.
func Run(env *ops.Env, version string) error {
	env.Log.Info("mcp server starting", "transport", "stdio", "version", version)
	return server.ServeStdio(NewServer(env, version))
}
