// Package observability lets a host program watch optimizer runs, cache
// traffic and API requests without the floorplan packages depending on any
// metrics or tracing backend.
//
// Three hook interfaces cover the three event sources. Each starts out as a
// no-op and is replaced once by main:
//
//	observability.SetAnnealHooks(promHooks)
//	observability.SetCacheHooks(promHooks)
//
// Instrumented code fetches the current hooks at the call site:
//
//	observability.Anneal().OnStage(ctx, st.Index, st.Temperature, st.Cost, st.RejectRatio())
//
// [LogHooks] implements all three interfaces on top of a charmbracelet
// logger and is what "floorplan -v" installs.
package observability

import (
	"context"
	"sync"
	"time"
)

// AnnealHooks observes the optimization pipeline.
type AnnealHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, modules int, duration time.Duration, err error)

	OnAnnealStart(ctx context.Context, modules int, seed uint64)
	// OnStage fires once per temperature stage.
	OnStage(ctx context.Context, index int, temperature, cost, rejectRatio float64)
	OnAnnealComplete(ctx context.Context, bestCost float64, stages int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks observes cache lookups. keyType is "result" or "cost".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes API requests. route is the chi route pattern.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, route string, err error)
}

type NoopAnnealHooks struct{}

func (NoopAnnealHooks) OnLoadStart(context.Context, string)                                  {}
func (NoopAnnealHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)    {}
func (NoopAnnealHooks) OnAnnealStart(context.Context, int, uint64)                           {}
func (NoopAnnealHooks) OnStage(context.Context, int, float64, float64, float64)              {}
func (NoopAnnealHooks) OnAnnealComplete(context.Context, float64, int, time.Duration, error) {}
func (NoopAnnealHooks) OnRenderStart(context.Context, []string)                              {}
func (NoopAnnealHooks) OnRenderComplete(context.Context, []string, time.Duration, error)     {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// registry holds the installed hooks. Reads vastly outnumber writes.
var registry = struct {
	sync.RWMutex
	anneal AnnealHooks
	cache  CacheHooks
	http   HTTPHooks
}{anneal: NoopAnnealHooks{}, cache: NoopCacheHooks{}, http: NoopHTTPHooks{}}

// SetAnnealHooks installs h. A nil h is ignored.
func SetAnnealHooks(h AnnealHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.anneal = h
	registry.Unlock()
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.cache = h
	registry.Unlock()
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.http = h
	registry.Unlock()
}

func Anneal() AnnealHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.anneal
}

func Cache() CacheHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.cache
}

func HTTP() HTTPHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.http
}

// Reset reinstalls the no-op hooks. Tests that install hooks defer it.
func Reset() {
	registry.Lock()
	registry.anneal = NoopAnnealHooks{}
	registry.cache = NoopCacheHooks{}
	registry.http = NoopHTTPHooks{}
	registry.Unlock()
}
