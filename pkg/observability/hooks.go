// Package observability lets callers instrument builds, cache access and the
// curation server without the libraries depending on a metrics backend.
//
// Hooks are registered once at startup, before any work runs:
//
//	observability.SetBuildHooks(observability.NewLogHooks(logger))
//
// Libraries emit events through the registry:
//
//	observability.Build().OnImportStart(ctx, dir)
//	// ... import ...
//	observability.Build().OnImportComplete(ctx, dir, imported, skipped, time.Since(start), err)
//
// Every category defaults to a no-op implementation.
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildHooks receives build pipeline events.
type BuildHooks interface {
	OnImportStart(ctx context.Context, dir string)
	OnImportComplete(ctx context.Context, dir string, imported, skipped int, duration time.Duration, err error)

	OnExportStart(ctx context.Context, fontID string, formats []string)
	OnExportComplete(ctx context.Context, fontID string, formats []string, glyphs int, duration time.Duration, err error)
}

// CacheHooks receives parsed-source cache events. keyType is the source
// kind, "image" or "font".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives curation API events.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

// NoopBuildHooks ignores all build events.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnImportStart(context.Context, string) {}
func (NoopBuildHooks) OnImportComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopBuildHooks) OnExportStart(context.Context, string, []string) {}
func (NoopBuildHooks) OnExportComplete(context.Context, string, []string, int, time.Duration, error) {
}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks ignores all server events.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                       {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	hooksMu     sync.RWMutex
	buildHooks  BuildHooks  = NoopBuildHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	serverHooks ServerHooks = NoopServerHooks{}
)

// SetBuildHooks registers build hooks. A nil argument is ignored.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil argument is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers server hooks. A nil argument is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores the no-op defaults. Used by tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
