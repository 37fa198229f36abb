package server

import (
	"context"
	"net/http"
	"time"

	"domainscope/pkg/core"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Analyzer is the slice of the core the HTTP boundary needs.
type Analyzer interface {
	Analyze(paramURL string, dwell time.Duration) (*core.Report, error)
}

// Config for the HTTP boundary.
type Config struct {
	Username              string
	Password              string
	MaxConcurrent         int
	DefaultTimeoutSeconds int
}

type Server struct {
	analyzer Analyzer
	cfg      Config
	gate     *Gate
}

func New(analyzer Analyzer, cfg Config) *Server {
	return &Server{analyzer: analyzer, cfg: cfg, gate: NewGate(cfg.MaxConcurrent)}
}

// Handler assembles the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/analyze", basicAuth(s.cfg.Username, s.cfg.Password, http.HandlerFunc(s.handleAnalyze)))
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

type analyzeRequest struct {
	URL     string `json:"url"`
	Timeout int    `json:"timeout"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "Missing 'url' in request body")
		return
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.cfg.DefaultTimeoutSeconds
	}

	release, ok := s.gate.TryAcquire()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "Server is busy, please try again later")
		return
	}
	defer release()

	report, err := s.analyzer.Analyze(req.URL, time.Duration(timeout)*time.Second)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Error while encoding response : %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// Run serves handler on addr until ctx is canceled, then shuts down
// gracefully. No WriteTimeout: an analysis dwells for up to the
// caller's timeout before the response can be written.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Graceful shutdown failed : %v", err)
		}
	}()

	log.Infof("Listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
