// Package httpapi serves the todo app over HTTP. Every request runs against
// one shared App, one at a time.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5"

	"github.com/idilsaglam/tada/internal/app"
	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/metrics"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/router"
)

// view keeps no screen; it only queues bulk toggles for replay.
type view struct {
	app.ToggleQueue
}

func (*view) RefreshControls(app.Controls)                {}
func (*view) RefreshList(*model.Collection, model.Filter) {}

// Server owns the app, its router and the HTTP routes.
type Server struct {
	mu     sync.Mutex
	ctx    context.Context
	app    *app.App
	view   *view
	loc    *router.MemoryLocation
	router *router.Router

	metrics *metrics.Collector
	logger  *log.Logger
	token   string
}

type Option func(*Server)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records events on c and serves it at /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithToken requires "Authorization: Bearer <token>" on every route but /healthz.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// New loads the list from repo and routes it from loc.
func New(ctx context.Context, repo app.Repository, loc *router.MemoryLocation, opts ...Option) *Server {
	s := &Server{
		ctx:    ctx,
		view:   &view{},
		loc:    loc,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	appOpts := []app.Option{app.WithLogger(s.logger)}
	if s.metrics != nil {
		appOpts = append(appOpts, app.WithObserver(s.metrics))
	}
	s.app = app.New(ctx, repo, s.view, appOpts...)
	if s.metrics != nil {
		s.metrics.Set(s.app.Controls())
	}
	s.router = router.New(loc, func(f model.Filter) {
		if err := s.app.Dispatch(s.ctx, app.EventFilterChange, f); err != nil {
			s.logger.Warn("filter change failed", "err", err)
		}
	})
	s.router.Start()
	return s
}

// Close detaches the router from the location.
func (s *Server) Close() { s.router.Stop() }

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		if s.metrics != nil {
			r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
		}
		r.Get("/todos", s.list)
		r.Post("/todos", s.create)
		r.Post("/todos/clear-completed", s.clearCompleted)
		r.Post("/todos/toggle-all", s.toggleAll)
		r.Patch("/todos/{id}", s.update)
		r.Delete("/todos/{id}", s.remove)
		r.Post("/todos/{id}/toggle", s.toggle)
		r.Put("/route", s.navigate)
	})
	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("handled", "method", r.Method, "path", r.URL.Path, "status", m.Code, "duration", m.Duration)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && !auth.Matches(r.Header.Get("Authorization"), s.token) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="tada"`)
			writeError(w, http.StatusUnauthorized, errors.New("missing or invalid token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// State is the body of every successful response.
type State struct {
	Route              string        `json:"route"`
	Filter             string        `json:"filter"`
	Todos              []*model.Todo `json:"todos"`
	Remaining          int           `json:"remaining"`
	Completed          int           `json:"completed"`
	Total              int           `json:"total"`
	ShowClearCompleted bool          `json:"showClearCompleted"`
	ToggleAllChecked   bool          `json:"toggleAllChecked"`
}

func (s *Server) state() State {
	c := s.app.Controls()
	todos := s.app.Display().ToArray()
	if todos == nil {
		todos = []*model.Todo{}
	}
	return State{
		Route:              s.loc.Fragment(),
		Filter:             c.Filter.String(),
		Todos:              todos,
		Remaining:          c.Remaining,
		Completed:          c.Completed,
		Total:              c.Total,
		ShowClearCompleted: c.ShowClearCompleted,
		ToggleAllChecked:   c.ToggleAllChecked,
	}
}

// dispatch runs ev and any toggles it queued. Callers hold s.mu.
func (s *Server) dispatch(ctx context.Context, ev app.Event, payload any) error {
	if err := s.app.Dispatch(ctx, ev, payload); err != nil {
		return err
	}
	return s.view.Replay(ctx, s.app)
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.state())
}

type createRequest struct {
	Title string `json:"title"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dispatch(r.Context(), app.EventNewItem, body.Title); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.state())
}

type updateRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var body updateRequest
	if !decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	todo, ok := s.app.Todos().GetByID(id)
	if !ok {
		s.fail(w, model.ErrTodoNotFound)
		return
	}
	if body.Completed != nil && *body.Completed != todo.Completed {
		if err := s.dispatch(r.Context(), app.EventItemToggle, id); err != nil {
			s.fail(w, err)
			return
		}
	}
	if body.Title != nil {
		if err := s.dispatch(r.Context(), app.EventItemEdited, app.Edit{ID: id, Title: *body.Title}); err != nil {
			s.fail(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	s.byID(w, r, app.EventItemDestroy)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	s.byID(w, r, app.EventItemToggle)
}

func (s *Server) byID(w http.ResponseWriter, r *http.Request, ev app.Event) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.app.Todos().GetByID(id); !ok {
		s.fail(w, model.ErrTodoNotFound)
		return
	}
	if err := s.dispatch(r.Context(), ev, id); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) clearCompleted(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dispatch(r.Context(), app.EventClearCompleted, nil); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

type toggleAllRequest struct {
	Completed bool `json:"completed"`
}

func (s *Server) toggleAll(w http.ResponseWriter, r *http.Request) {
	var body toggleAllRequest
	if !decode(w, r, &body) {
		return
	}
	ev := app.EventToggleAllCheck
	if !body.Completed {
		ev = app.EventToggleAllOff
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dispatch(r.Context(), ev, nil); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

type routeRequest struct {
	Fragment string `json:"fragment"`
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request) {
	var body routeRequest
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loc.Navigate(body.Fragment)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrTodoNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrEmptyTitle), errors.Is(err, app.ErrBadPayload):
		status = http.StatusBadRequest
	default:
		s.logger.Error("request failed", "err", err)
	}
	writeError(w, status, err)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
