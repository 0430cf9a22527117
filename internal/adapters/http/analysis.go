package httpadapter

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

// submitAnalysis handles POST /v1/analyses: multipart parts "file" (the
// image) and "survey" (a JSON object). The response is the submission
// receipt; the enriched result is fetched separately by id.
func (rt *Router) submitAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	image, filename, survey, ok := rt.readAnalysisParts(w, r)
	if !ok {
		return
	}

	receipt, err := rt.submitter.Submit(r.Context(), userID, image, filename, survey)
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.RecordSubmission(serviceName, submissionOutcome(err))
		}
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordSubmission(serviceName, submissionOutcome(nil))
		rt.metrics.RecordUploadSize(serviceName, len(image))
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// submissionOutcome labels the submissions counter per error kind so
// caller mistakes and pipeline failures never share a bucket.
func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "invalid_input"
	case domain.IsKind(err, domain.ErrStorageFailure):
		return "storage_failure"
	case domain.IsKind(err, domain.ErrInferenceFailure):
		return "inference_failure"
	case domain.IsKind(err, domain.ErrTemporary):
		return "temporary"
	default:
		return "error"
	}
}

// directAnalyze handles POST /v1/analyses/direct: same parts as submit,
// but the image bypasses blob storage and nothing is persisted. The raw
// inference payload is returned as is.
func (rt *Router) directAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if _, ok := userIDFromContext(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	image, filename, survey, ok := rt.readAnalysisParts(w, r)
	if !ok {
		return
	}
	contentType := http.DetectContentType(image)

	resp, err := rt.submitter.DirectAnalyze(r.Context(), image, filename, contentType, survey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) getAnalysisResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	rawID := strings.TrimPrefix(r.URL.Path, "/v1/analyses/")
	analysisID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || analysisID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "analysis id must be a positive integer"})
		return
	}

	view, err := rt.results.Materialize(r.Context(), analysisID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// readAnalysisParts parses the shared multipart layout of the analysis
// endpoints. Reports its own HTTP errors and returns ok=false on failure.
func (rt *Router) readAnalysisParts(w http.ResponseWriter, r *http.Request) (image []byte, filename string, survey []byte, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	if err := r.ParseMultipartForm(rt.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return nil, "", nil, false
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return nil, "", nil, false
	}
	defer file.Close()

	image, err = io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read image"})
		return nil, "", nil, false
	}

	return image, fileHeader.Filename, []byte(r.FormValue("survey")), true
}
