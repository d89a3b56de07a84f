package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorplan/pkg/cache"
	errs "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/observability"
	"github.com/matzehuels/floorplan/pkg/pipeline"
	"github.com/matzehuels/floorplan/pkg/store"
)

const scenarioModules = `[
	{"name": "A", "width": 4, "height": 2},
	{"name": "B", "width": 2, "height": 2},
	{"name": "C", "width": 3, "height": 6}
]`

// squareModules returns n unit squares as a JSON array.
func squareModules(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"name": "m%d", "width": 1, "height": 1}`, i)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func newTestServer(t *testing.T) (*httptest.Server, *pipeline.Runner) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(&bytes.Buffer{})
	runner := pipeline.NewRunner(fc, nil, fs, logger)
	srv := httptest.NewServer(New(runner, logger).Handler())
	t.Cleanup(srv.Close)
	return srv, runner
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return resp, buf.Bytes()
}

func decodeError(t *testing.T, data []byte) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("error body %q: %v", data, err)
	}
	return body
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, data := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(data), `"status":"ok"`) || !strings.Contains(string(data), `"version":"`) {
		t.Errorf("body = %s", data)
	}
}

func TestCost(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"modules": ` + scenarioModules + `, "expression": "A B V C V"}`

	resp, data := do(t, http.MethodPost, srv.URL+"/v1/cost", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, data)
	}
	var ev pipeline.Evaluation
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Cost != 36 {
		t.Errorf("cost = %g, want 36", ev.Cost)
	}
	if ev.Expression.String() != "A B V C V" || len(ev.Shapes) == 0 {
		t.Errorf("evaluation = %+v", ev)
	}
}

func TestCostErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		code errs.Code
	}{
		{"bad json", `{"modules": [`, errs.ErrCodeInvalidInput},
		{"unknown field", `{"modules": ` + scenarioModules + `, "expr": "A"}`, errs.ErrCodeInvalidInput},
		{"missing expression", `{"modules": ` + scenarioModules + `}`, errs.ErrCodeInvalidInput},
		{"no modules", `{"modules": [], "expression": "A"}`, errs.ErrCodeInvalidInput},
		{"too many modules", `{"modules": ` + squareModules(maxModules+1) + `, "expression": "m0"}`, errs.ErrCodeInvalidInput},
		{"bad module", `{"modules": [{"name": "A", "width": -1, "height": 1}], "expression": "A"}`, errs.ErrCodeInvalidModule},
		{"not skewed", `{"modules": ` + scenarioModules + `, "expression": "A B C V V"}`, errs.ErrCodeInvalidExpression},
		{"unknown module", `{"modules": ` + scenarioModules + `, "expression": "A Z V"}`, errs.ErrCodeUnknownModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, srv.URL+"/v1/cost", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", resp.StatusCode, data)
			}
			if got := decodeError(t, data); got.Code != tt.code || got.Message == "" {
				t.Errorf("error = %+v, want code %s", got, tt.code)
			}
		})
	}
}

func TestAnnealAndRuns(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"modules": ` + scenarioModules + `, "save": true}`

	resp, data := do(t, http.MethodPost, srv.URL+"/v1/anneal", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, data)
	}
	var rep struct {
		RunID    string  `json:"run_id"`
		Best     string  `json:"best"`
		BestCost float64 `json:"best_cost"`
		Cached   bool    `json:"cached"`
	}
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatal(err)
	}
	if rep.RunID == "" || rep.Best == "" || rep.BestCost <= 0 {
		t.Fatalf("anneal response = %s", data)
	}
	if rep.Cached {
		t.Error("first anneal should not be cached")
	}

	// Same request again hits the cache.
	_, data = do(t, http.MethodPost, srv.URL+"/v1/anneal", `{"modules": `+scenarioModules+`}`)
	var again struct {
		Cached bool `json:"cached"`
	}
	_ = json.Unmarshal(data, &again)
	if !again.Cached {
		t.Errorf("second anneal should be cached: %s", data)
	}

	resp, data = do(t, http.MethodGet, srv.URL+"/v1/runs", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list runsResponse
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Runs) != 1 || list.Runs[0].ID != rep.RunID {
		t.Fatalf("runs = %s", data)
	}

	resp, data = do(t, http.MethodGet, srv.URL+"/v1/runs/"+rep.RunID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var run store.Run
	if err := json.Unmarshal(data, &run); err != nil {
		t.Fatal(err)
	}
	if run.Best != rep.Best || run.BestCost != rep.BestCost {
		t.Errorf("run = %+v", run)
	}

	resp, _ = do(t, http.MethodDelete, srv.URL+"/v1/runs/"+rep.RunID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
	resp, data = do(t, http.MethodGet, srv.URL+"/v1/runs/"+rep.RunID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
	if got := decodeError(t, data); got.Code != errs.ErrCodeRunNotFound {
		t.Errorf("code = %s, want RUN_NOT_FOUND", got.Code)
	}
	resp, data = do(t, http.MethodDelete, srv.URL+"/v1/runs/"+rep.RunID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404 (%s)", resp.StatusCode, data)
	}
}

func TestAnnealErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		code errs.Code
	}{
		{"no modules", `{}`, errs.ErrCodeInvalidInput},
		{"catalog path", `{"catalog_path": "/etc/passwd"}`, errs.ErrCodeInvalidInput},
		{"bad initial", `{"modules": ` + scenarioModules + `, "expression": "A B V"}`, errs.ErrCodeInvalidExpression},
		{"bad schedule", `{"modules": ` + scenarioModules + `, "schedule": {"cooling_ratio": 2}}`, errs.ErrCodeInvalidConfig},
		{"too many modules", `{"modules": ` + squareModules(maxModules+1) + `}`, errs.ErrCodeInvalidInput},
		{"stage too long", `{"modules": ` + scenarioModules + `, "schedule": {"moves_per_module": 5000000}}`, errs.ErrCodeInvalidInput},
		{"probe too long", `{"modules": ` + scenarioModules + `, "schedule": {"probe_moves": 10001}}`, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, srv.URL+"/v1/anneal", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", resp.StatusCode, data)
			}
			if got := decodeError(t, data); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestRunsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := do(t, http.MethodGet, srv.URL+"/v1/runs?limit=-3", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, srv.URL+"/v1/runs/not-a-uuid", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", resp.StatusCode)
	}
	resp, data := do(t, http.MethodGet, srv.URL+"/v1/runs", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), `"runs":[]`) {
		t.Errorf("empty list = %d %s", resp.StatusCode, data)
	}
}

type recordingHTTPHooks struct {
	mu        sync.Mutex
	responses []string
	errors    int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, method+" "+route+" "+http.StatusText(status))
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv, _ := newTestServer(t)
	do(t, http.MethodGet, srv.URL+"/healthz", "")
	do(t, http.MethodGet, srv.URL+"/v1/runs/not-a-uuid", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	want := []string{"GET /healthz OK", "GET /v1/runs/{id} Bad Request"}
	if len(hooks.responses) != len(want) {
		t.Fatalf("responses = %v, want %v", hooks.responses, want)
	}
	for i := range want {
		if hooks.responses[i] != want[i] {
			t.Errorf("response[%d] = %q, want %q", i, hooks.responses[i], want[i])
		}
	}
	if hooks.errors != 1 {
		t.Errorf("errors = %d, want 1", hooks.errors)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeInvalidModule, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeUnknownModule, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeRunNotFound, "x"), http.StatusNotFound},
		{store.ErrNotFound, http.StatusNotFound},
		{errs.New(errs.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{errs.New(errs.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
