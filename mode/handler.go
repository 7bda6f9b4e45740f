package mode

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khaledhikmat/lvef-go/model"
	"github.com/khaledhikmat/lvef-go/pipeline"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lvef_requests_total",
		Help: "Predict requests by outcome status.",
	}, []string{"status"})

	requestSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lvef_request_duration_seconds",
		Help:    "End-to-end predict request duration.",
		Buckets: prometheus.DefBuckets,
	})
)

// handler is the HTTP surface of the server mode. One remote-invocable
// operation (predict) plus health and metrics.
type handler struct {
	canxCtx     context.Context
	svcs        pipeline.ServicesFactory
	predictor   pipeline.Predictor
	errorStream chan interface{}
	statsStream chan interface{}
	mux         *http.ServeMux
}

func newHandler(canxCtx context.Context,
	svcs pipeline.ServicesFactory,
	predictor pipeline.Predictor,
	errorStream chan interface{},
	statsStream chan interface{}) http.Handler {
	h := &handler{
		canxCtx:     canxCtx,
		svcs:        svcs,
		predictor:   predictor,
		errorStream: errorStream,
		statsStream: statsStream,
		mux:         http.NewServeMux(),
	}

	h.mux.HandleFunc("/api/v1/predict", h.predict)
	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.Handle("/metrics", promhttp.Handler())

	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type predictRequest struct {
	VideoURL string `json:"video_url"`
}

func (h *handler) predict(w http.ResponseWriter, r *http.Request) {
	var videoURL string

	switch r.Method {
	case http.MethodPost:
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonErr(w, http.StatusBadRequest, "invalid request body")
			return
		}
		videoURL = req.VideoURL
	case http.MethodGet:
		videoURL = r.URL.Query().Get("video_url")
	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if videoURL == "" {
		jsonErr(w, http.StatusBadRequest, "video_url is required")
		return
	}

	started := time.Now()
	result := h.predictor(h.canxCtx, h.svcs, videoURL, h.errorStream, h.statsStream)
	requestSeconds.Observe(time.Since(started).Seconds())

	if result.Err == "" {
		requestsTotal.WithLabelValues("success").Inc()
	} else {
		requestsTotal.WithLabelValues("error").Inc()
	}

	// Pipeline failures still answer 200 with a structured error body;
	// status-code semantics are delegated to the transport layer.
	jsonResp(w, http.StatusOK, result)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jsonResp(w, http.StatusOK, struct {
		Status   string `json:"status"`
		TestMode bool   `json:"testMode"`
	}{
		Status:   "ready",
		TestMode: h.svcs.InferenceSvc.TestMode(),
	})
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, model.PredictionResult{Err: msg})
}
