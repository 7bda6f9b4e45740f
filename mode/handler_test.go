package mode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/khaledhikmat/lvef-go/model"
	"github.com/khaledhikmat/lvef-go/pipeline"
	"github.com/khaledhikmat/lvef-go/service/config"
	"github.com/khaledhikmat/lvef-go/service/inference"
)

// --- test helpers -----------------------------------------------------------

func stubPredictor(result model.PredictionResult) pipeline.Predictor {
	return func(_ context.Context, _ pipeline.ServicesFactory, _ string, _ chan interface{}, _ chan interface{}) model.PredictionResult {
		return result
	}
}

func newTestHandler(t *testing.T, predictor pipeline.Predictor) http.Handler {
	t.Helper()

	cfgSvc := config.NewEnvVars()
	svcs := pipeline.ServicesFactory{
		CfgSvc:       cfgSvc,
		InferenceSvc: inference.NewFake(),
	}

	return newHandler(context.Background(), svcs, predictor,
		make(chan interface{}, 10), make(chan interface{}, 10))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/predict --------------------------------------------------------

func TestPredict_PostSuccess(t *testing.T) {
	h := newTestHandler(t, stubPredictor(model.PredictionResult{
		Status: "success", LVEF: 61.2, Units: "%",
	}))

	rr := do(t, h, http.MethodPost, "/api/v1/predict", `{"video_url":"https://x/valid.mp4"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)

	if resp["status"] != "success" {
		t.Errorf("status: got %v", resp["status"])
	}
	if resp["lvef"].(float64) != 61.2 {
		t.Errorf("lvef: got %v", resp["lvef"])
	}
	if resp["units"] != "%" {
		t.Errorf("units: got %v", resp["units"])
	}
}

func TestPredict_GetQueryParam(t *testing.T) {
	h := newTestHandler(t, stubPredictor(model.PredictionResult{
		Status: "success", LVEF: 55.0, Units: "%",
	}))

	rr := do(t, h, http.MethodGet, "/api/v1/predict?video_url=https://x/valid.mp4", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
}

func TestPredict_PipelineErrorStaysStructured(t *testing.T) {
	h := newTestHandler(t, stubPredictor(model.PredictionResult{
		Err: "Download failed: status 404", Kind: model.KindDownload,
	}))

	rr := do(t, h, http.MethodPost, "/api/v1/predict", `{"video_url":"https://x/404.mp4"}`)

	// Pipeline failures answer 200 with a structured error body.
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)
	if resp["error"] != "Download failed: status 404" {
		t.Errorf("error: got %v", resp["error"])
	}
}

func TestPredict_MissingURLRejected(t *testing.T) {
	h := newTestHandler(t, stubPredictor(model.PredictionResult{}))

	rr := do(t, h, http.MethodPost, "/api/v1/predict", `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestPredict_InvalidBodyRejected(t *testing.T) {
	h := newTestHandler(t, stubPredictor(model.PredictionResult{}))

	rr := do(t, h, http.MethodPost, "/api/v1/predict", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestPredict_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, stubPredictor(model.PredictionResult{}))

	rr := do(t, h, http.MethodDelete, "/api/v1/predict", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth(t *testing.T) {
	h := newTestHandler(t, stubPredictor(model.PredictionResult{}))

	rr := do(t, h, http.MethodGet, "/api/v1/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp map[string]interface{}
	decode(t, rr, &resp)
	if resp["status"] != "ready" {
		t.Errorf("status: got %v, want ready", resp["status"])
	}
	if resp["testMode"] != true {
		t.Errorf("testMode: got %v, want true (fake inference service)", resp["testMode"])
	}
}

// --- /metrics ---------------------------------------------------------------

func TestMetricsExposed(t *testing.T) {
	h := newTestHandler(t, stubPredictor(model.PredictionResult{
		Status: "success", LVEF: 50.0, Units: "%",
	}))

	// Drive one request so the counters exist.
	do(t, h, http.MethodPost, "/api/v1/predict", `{"video_url":"https://x/valid.mp4"}`)

	rr := do(t, h, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "lvef_requests_total") {
		t.Error("metrics body missing lvef_requests_total")
	}
}
