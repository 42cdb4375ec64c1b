// Package observability provides hooks for metrics and tracing of badge
// renders.
//
// Libraries emit events through the registered hooks; the binary decides
// where they go (prometheus counters in the server, nothing in the CLI).
// This keeps pkg/badge free of any metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&promHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx)
//	// ... normalize, measure, compose ...
//	observability.Render().OnRenderComplete(ctx, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names reported through OnStageComplete.
const (
	StageNormalize = "normalize"
	StageMeasure   = "measure"
	StageCompose   = "compose"
)

// RenderHooks receives events from the badge pipeline.
type RenderHooks interface {
	// OnRenderStart records a render attempt.
	OnRenderStart(ctx context.Context)

	// OnRenderComplete records the outcome of a render attempt. err is nil
	// on success.
	OnRenderComplete(ctx context.Context, duration time.Duration, err error)

	// OnStageComplete records one pipeline stage.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context)                                 {}
func (NoopRenderHooks) OnRenderComplete(context.Context, time.Duration, error)        {}
func (NoopRenderHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any render.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores the no-op hooks.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
}
