package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug line on Logger.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ AnnealHooks = LogHooks{}
	_ CacheHooks  = LogHooks{}
	_ HTTPHooks   = LogHooks{}
)

// done logs a finished step at debug level, or at warn level when it failed.
func (h LogHooks) done(msg string, d time.Duration, err error, keyvals ...any) {
	keyvals = append(keyvals, "took", d.Round(time.Microsecond))
	if err != nil {
		h.Logger.Warn(msg, append(keyvals, "err", err)...)
		return
	}
	h.Logger.Debug(msg, keyvals...)
}

func (h LogHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("loading catalog", "source", source)
}

func (h LogHooks) OnLoadComplete(_ context.Context, source string, modules int, d time.Duration, err error) {
	h.done("catalog loaded", d, err, "source", source, "modules", modules)
}

func (h LogHooks) OnAnnealStart(_ context.Context, modules int, seed uint64) {
	h.Logger.Debug("annealing", "modules", modules, "seed", seed)
}

func (h LogHooks) OnStage(_ context.Context, index int, temperature, cost, rejectRatio float64) {
	h.Logger.Debug("stage", "index", index, "T", temperature, "cost", cost, "reject", rejectRatio)
}

func (h LogHooks) OnAnnealComplete(_ context.Context, bestCost float64, stages int, d time.Duration, err error) {
	h.done("annealed", d, err, "best", bestCost, "stages", stages)
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("rendering", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("rendered", d, err, "formats", formats)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "key", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "key", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.done("response", d, nil, "method", method, "route", route, "status", status)
}

func (h LogHooks) OnError(_ context.Context, method, route string, err error) {
	h.Logger.Warn("request failed", "method", method, "route", route, "err", err)
}
