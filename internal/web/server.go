package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/slok/taskbreak/internal/app/breakdown"
	"github.com/slok/taskbreak/internal/conventions"
	"github.com/slok/taskbreak/internal/log"
	"github.com/slok/taskbreak/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Runner runs breakdown submissions.
type Runner interface {
	Run(ctx context.Context, req breakdown.Request) (*model.Submission, error)
}

// RunnerFactory returns a runner using the credentials received on a submission.
type RunnerFactory func(ctx context.Context, creds model.Credentials) (Runner, error)

// ServerConfig is the configuration for the HTTP server.
type ServerConfig struct {
	ListenAddr string
	// Runner is used when the server has its own credentials.
	Runner Runner
	// RunnerFactory is used when Runner is not set, users send their API key on every submission.
	RunnerFactory RunnerFactory
	// Template is the prompt template in use, it decides the form fields.
	Template model.PromptTemplate
	Logger   log.Logger
}

func (c *ServerConfig) defaults() error {
	if c.ListenAddr == "" {
		c.ListenAddr = conventions.DefaultListenAddress
	}
	if c.Runner == nil && c.RunnerFactory == nil {
		return fmt.Errorf("runner or runner factory is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "web.Server"})
	return nil
}

// Server serves the task breakdown form, the JSON API and the health check.
type Server struct {
	server        *http.Server
	runner        Runner
	runnerFactory RunnerFactory
	tpl           model.PromptTemplate
	page          *template.Template
	logger        log.Logger
}

// NewServer creates a new HTTP server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	page, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("could not parse page template: %w", err)
	}

	s := &Server{
		runner:        cfg.Runner,
		runnerFactory: cfg.RunnerFactory,
		tpl:           cfg.Template,
		page:          page,
		logger:        cfg.Logger,
	}

	s.server = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /{$}", s.handleSubmit)
	mux.HandleFunc("POST /api/v1/breakdown", s.handleAPIBreakdown)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Run starts the server and blocks until ctx is cancelled. It performs a
// graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("server listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Infof("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	}
}

// errMissingAPIKey is returned when the server has no credentials and the user didn't send any.
var errMissingAPIKey = errors.New("please enter your API key to use the application")

// runnerFor returns the runner for a submission.
func (s *Server) runnerFor(ctx context.Context, apiKey string) (Runner, error) {
	if s.runner != nil {
		return s.runner, nil
	}
	if apiKey == "" {
		return nil, errMissingAPIKey
	}

	r, err := s.runnerFactory(ctx, model.Credentials{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("could not prepare the LLM client: %w", err)
	}
	return r, nil
}
