package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingHooks struct {
	NoopAnnealHooks
	stages int
}

func (h *countingHooks) OnStage(context.Context, int, float64, float64, float64) { h.stages++ }

type cacheRecorder struct {
	NoopCacheHooks
	hits []string
}

func (r *cacheRecorder) OnCacheHit(_ context.Context, keyType string) {
	r.hits = append(r.hits, keyType)
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Anneal().(NoopAnnealHooks); !ok {
		t.Errorf("default Anneal() = %T", Anneal())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("default HTTP() = %T", HTTP())
	}

	counter := &countingHooks{}
	SetAnnealHooks(counter)
	SetAnnealHooks(nil)
	for i := range 3 {
		Anneal().OnStage(context.Background(), i, 1, 1, 0)
	}
	if counter.stages != 3 {
		t.Errorf("stages = %d, want 3", counter.stages)
	}

	rec := &cacheRecorder{}
	SetCacheHooks(rec)
	Cache().OnCacheHit(context.Background(), "cost")
	Cache().OnCacheMiss(context.Background(), "result")
	if len(rec.hits) != 1 || rec.hits[0] != "cost" {
		t.Errorf("hits = %v, want [cost]", rec.hits)
	}

	Reset()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() after Reset = %T", Cache())
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := LogHooks{Logger: log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})}
	ctx := context.Background()

	h.OnLoadComplete(ctx, "soc.txt", 12, time.Millisecond, nil)
	h.OnStage(ctx, 4, 17.5, 36, 0.25)
	h.OnAnnealComplete(ctx, 0, 0, time.Second, errors.New("interrupted"))
	h.OnCacheSet(ctx, "result", 512)

	out := buf.String()
	for _, want := range []string{"catalog loaded", "modules=12", "index=4", "reject=0.25", "WARN", "err=interrupted", "bytes=512"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := LogHooks{Logger: log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})}

	h.OnCacheHit(context.Background(), "cost")
	h.OnResponse(context.Background(), "GET", "/healthz", 200, time.Millisecond)
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}
}
