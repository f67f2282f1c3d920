// Package server provides an HTTP service that decodes raw messages posted to
// it.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"

	email "github.com/zostay/go-maildecode"
	"github.com/zostay/go-maildecode/attachment"
	"github.com/zostay/go-maildecode/message/header"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	logger         *slog.Logger
	policy         *attachment.Policy
	sink           attachment.Sink
	maxMessageSize int64
	sanitizer      *bluemonday.Policy
}

// New creates a new Server. Attachments are offered to the sink when the
// policy allows. Request bodies larger than maxMessageSize are refused.
func New(logger *slog.Logger, policy *attachment.Policy, sink attachment.Sink, maxMessageSize int64) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		logger:         logger,
		policy:         policy,
		sink:           sink,
		maxMessageSize: maxMessageSize,
		sanitizer:      bluemonday.UGCPolicy(),
	}
}

// Routes returns the router serving every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.Health)
	r.Post("/decode", s.Decode)
	r.Post("/headers", s.Headers)
	r.Post("/body", s.Body)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// readMessage reads the posted message, writing the error response itself
// when that fails.
func (s *Server) readMessage(w http.ResponseWriter, r *http.Request) (*email.Message, bool) {
	body := r.Body
	if s.maxMessageSize > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxMessageSize)
	}

	m, err := email.ReadMessage(body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "message too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}

		s.logger.Debug("unable to read posted message", "error", err)
		http.Error(w, "unable to read message", http.StatusBadRequest)
		return nil, false
	}

	return m, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("unable to write response", "error", err)
	}
}

// Health reports that the service is up.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// Decode decodes the posted message and responds with the bodies and the
// attachments as JSON.
func (s *Server) Decode(w http.ResponseWriter, r *http.Request) {
	m, ok := s.readMessage(w, r)
	if !ok {
		return
	}

	d, err := m.Decode(
		email.WithLogger(s.logger),
		email.WithPolicy(s.policy),
		email.WithSink(s.sink),
	)
	if err != nil {
		s.logger.Error("unable to decode message", "error", err)
		http.Error(w, "unable to decode message", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, d)
}

// Field is a single header field in the response of Headers.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Headers responds with the header fields of the posted message, in order and
// with encoded words decoded.
func (s *Server) Headers(w http.ResponseWriter, r *http.Request) {
	m, ok := s.readMessage(w, r)
	if !ok {
		return
	}

	h := m.GetHeader()
	fields := make([]Field, 0, h.Len())
	for _, name := range h.Names() {
		for _, v := range h.GetAll(name) {
			fields = append(fields, Field{name, header.DecodeWords(v)})
		}
	}

	s.writeJSON(w, fields)
}

// Body responds with the plain text body of the posted message. With the html
// query parameter set, the HTML body is sent instead, and with sanitize also
// set, unsafe markup is removed from it first.
func (s *Server) Body(w http.ResponseWriter, r *http.Request) {
	m, ok := s.readMessage(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	if q.Get("html") == "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(m.Plain()))
		return
	}

	html := m.HTML()
	if q.Get("sanitize") != "" {
		html = s.sanitizer.Sanitize(html)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
