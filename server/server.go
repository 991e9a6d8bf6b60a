// Package server exposes the runtime over HTTP: envelope submission, account
// inspection, health and Prometheus metrics.
package server

import (
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/runtime"
	"github.com/bitfsorg/mediapay-go/signer"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// Server handles HTTP requests against a Runtime.
type Server struct {
	rt     *runtime.Runtime
	logger *zap.Logger
}

// New returns the HTTP handler. Metrics are served from gatherer; a nil
// gatherer disables /metrics.
func New(rt *runtime.Runtime, logger *zap.Logger, gatherer prometheus.Gatherer) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{rt: rt, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/instructions", s.handleSubmit)
		r.Get("/accounts/{id}", s.handleAccount)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitRequest carries a hex-encoded runtime envelope.
type SubmitRequest struct {
	Envelope string `json:"envelope"`
}

// SubmitResponse reports the outcome of a submission.
type SubmitResponse struct {
	ID          string   `json:"id,omitempty"`
	Instruction string   `json:"instruction,omitempty"`
	OK          bool     `json:"ok"`
	Code        *uint32  `json:"code,omitempty"`
	CodeName    string   `json:"code_name,omitempty"`
	Error       string   `json:"error,omitempty"`
	Modified    []string `json:"modified,omitempty"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	if len(body) > maxRequestBodySize {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var req SubmitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	raw, err := hex.DecodeString(req.Envelope)
	if err != nil {
		writeError(w, http.StatusBadRequest, "envelope must be hex")
		return
	}
	env, err := runtime.DecodeEnvelope(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := s.rt.Submit(r.Context(), env)
	if receipt == nil {
		writeError(w, submitStatus(err), err.Error())
		return
	}

	resp := SubmitResponse{ID: receipt.ID.String(), Instruction: receipt.Instruction, OK: receipt.OK()}
	if !receipt.OK() {
		code := uint32(receipt.Code)
		resp.Code = &code
		resp.CodeName = receipt.Code.String()
		resp.Error = receipt.Err.Error()
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	for _, id := range receipt.Modified {
		resp.Modified = append(resp.Modified, id.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func submitStatus(err error) int {
	switch {
	case errors.Is(err, signer.ErrInvalidSignature), errors.Is(err, signer.ErrInvalidPublicKey):
		return http.StatusUnauthorized
	case errors.Is(err, runtime.ErrUnknownProgram):
		return http.StatusNotFound
	case errors.Is(err, runtime.ErrDuplicateEnvelope):
		return http.StatusConflict
	case errors.Is(err, runtime.ErrNilParam):
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	id, err := ledger.ParseIdentity(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	acct, err := s.rt.Account(id)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("account lookup failed", zap.Stringer("account", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "account lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, NewAccountView(acct, s.rt.TokenProgram()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
