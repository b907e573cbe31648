package tools

import (
	"sync"

	"calbot/internal/logger"
	"calbot/internal/scheduling"
)

var (
	// Global singleton registry instance
	registry   *ToolRegistry
	registryMu sync.Mutex
)

// InitializeRegistry builds the global registry and registers the scheduling
// tools against the given client. Calling it again replaces the registry,
// which tests rely on.
func InitializeRegistry(client *scheduling.Client, notify func(string)) *ToolRegistry {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry = NewToolRegistry()

	defaultTools := []Tool{
		NewCreateEventTool(client, notify),
		NewListEventsTool(client, notify),
	}

	for _, tool := range defaultTools {
		registry.RegisterTool(tool)
	}

	logger.Successf("Initialized tool registry with %d tools", len(defaultTools))
	return registry
}

// GetRegistry returns the singleton registry instance. Before
// InitializeRegistry has run it returns an empty registry, so tool dispatch
// fails with a clear unknown-tool error instead of a nil dereference.
func GetRegistry() *ToolRegistry {
	registryMu.Lock()
	defer registryMu.Unlock()

	if registry == nil {
		registry = NewToolRegistry()
	}
	return registry
}
