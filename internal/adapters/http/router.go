package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vegin/skin-analysis-service/internal/config"
	"github.com/vegin/skin-analysis-service/internal/core/ports"
	"github.com/vegin/skin-analysis-service/internal/observability/metrics"
)

const serviceName = "skin-analysis-api"

type Router struct {
	submitter ports.AnalysisSubmitter
	results   ports.ResultMaterializer
	profiles  ports.ProfileProjector
	editor    ports.ProfileEditor

	metrics        *metrics.HTTPServerMetrics
	jwtSecret      []byte
	maxUploadBytes int64
}

func NewRouter(
	submitter ports.AnalysisSubmitter,
	results ports.ResultMaterializer,
	profiles ports.ProfileProjector,
	editor ports.ProfileEditor,
	m *metrics.HTTPServerMetrics,
	cfg config.Config,
) *Router {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	return &Router{
		submitter:      submitter,
		results:        results,
		profiles:       profiles,
		editor:         editor,
		metrics:        m,
		jwtSecret:      []byte(cfg.JWTSecret),
		maxUploadBytes: maxUpload,
	}
}

// Handler assembles the middleware chain. Order matters: request id and
// access logging wrap everything, traffic control sits in front of the
// routes so rejected requests are still logged, auth guards only /v1.
func (rt *Router) Handler(cfg config.Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	api := http.NewServeMux()
	api.HandleFunc("/v1/analyses", rt.submitAnalysis)
	api.HandleFunc("/v1/analyses/direct", rt.directAnalyze)
	api.HandleFunc("/v1/analyses/", rt.getAnalysisResult)
	api.HandleFunc("/v1/profile", rt.profile)
	api.HandleFunc("/v1/profile/image", rt.updateProfileImage)
	mux.Handle("/v1/", rt.authMiddleware(api))

	var handler http.Handler = mux
	if cfg.APIMaxInFlight > 0 {
		handler = backpressureMiddleware(handler, cfg.APIMaxInFlight, 50*time.Millisecond)
	}
	if cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
