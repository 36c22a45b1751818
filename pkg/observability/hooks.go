// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and carries no backend dependency. Consumers
// register hooks at startup and receive events about canvas interactions and
// live connections.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so there are no import
// cycles and the editor core stays free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetInteractionHooks(&myInteractionHooks{})
//	    observability.SetLiveHooks(&myLiveHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Interaction().OnModeChange("idle", "dragging")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives events from editor sessions. Calls happen while
// the session is locked, so implementations must not call back into it.
type InteractionHooks interface {
	// OnModeChange records an interaction mode transition.
	OnModeChange(from, to string)

	// OnRerender records a synchronous render pass. skipped counts wires
	// whose endpoints could not be resolved.
	OnRerender(wires, skipped int, duration time.Duration)

	// OnSelectionChange records the selection size after a change.
	OnSelectionChange(nodes, wires int)
}

// =============================================================================
// Live Hooks
// =============================================================================

// LiveHooks receives events from the live editing service.
type LiveHooks interface {
	// OnConnect records a client attaching to a session.
	OnConnect(ctx context.Context, sessionID string)

	// OnDisconnect records a client leaving. err is nil on a clean close.
	OnDisconnect(ctx context.Context, sessionID string, duration time.Duration, err error)

	// OnEvent records one input event applied to a session.
	OnEvent(ctx context.Context, sessionID, kind string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnModeChange(string, string)        {}
func (NoopInteractionHooks) OnRerender(int, int, time.Duration) {}
func (NoopInteractionHooks) OnSelectionChange(int, int)         {}

// NoopLiveHooks is a no-op implementation of LiveHooks.
type NoopLiveHooks struct{}

func (NoopLiveHooks) OnConnect(context.Context, string)                          {}
func (NoopLiveHooks) OnDisconnect(context.Context, string, time.Duration, error) {}
func (NoopLiveHooks) OnEvent(context.Context, string, string)                    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	interactionHooks InteractionHooks = NoopInteractionHooks{}
	liveHooks        LiveHooks        = NoopLiveHooks{}
	hooksMu          sync.RWMutex
)

// SetInteractionHooks registers custom interaction hooks.
// This should be called once at application startup before any session is created.
func SetInteractionHooks(h InteractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		interactionHooks = h
	}
}

// SetLiveHooks registers custom live service hooks.
func SetLiveHooks(h LiveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		liveHooks = h
	}
}

// Interaction returns the registered interaction hooks.
func Interaction() InteractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return interactionHooks
}

// Live returns the registered live service hooks.
func Live() LiveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return liveHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	interactionHooks = NoopInteractionHooks{}
	liveHooks = NoopLiveHooks{}
}
