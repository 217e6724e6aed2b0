package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/idilsaglam/tada/internal/app"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/repository"
	"github.com/idilsaglam/tada/internal/router"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/store/memstore"
	"github.com/idilsaglam/tada/internal/store/redisstore"
	"github.com/idilsaglam/tada/internal/store/sqlitestore"
)

// openStore picks the key-value backend named in cfg.
func openStore(ctx context.Context, cfg config.StorageConfig) (store.KV, error) {
	switch cfg.Driver {
	case config.DriverFile:
		return jsonstore.New(cfg.Path)
	case config.DriverMemory:
		return memstore.New(), nil
	case config.DriverSQLite:
		return sqlitestore.Open(ctx, cfg.Path)
	case config.DriverRedis:
		var opts []redisstore.Option
		if cfg.RedisPrefix != "" {
			opts = append(opts, redisstore.WithPrefix(cfg.RedisPrefix))
		}
		s := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func (e *env) openRepository(ctx context.Context) (*repository.Repository, store.KV, error) {
	kv, err := openStore(ctx, e.cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	opts := []repository.Option{repository.WithLogger(e.logger)}
	if e.cfg.Storage.Key != "" {
		opts = append(opts, repository.WithKey(e.cfg.Storage.Key))
	}
	return repository.New(kv, opts...), kv, nil
}

// cliView has nothing to redraw; it replays bulk toggles.
type cliView struct {
	app.ToggleQueue
}

func (*cliView) RefreshControls(app.Controls)                {}
func (*cliView) RefreshList(*model.Collection, model.Filter) {}

// session is one command's run of the app, routed from --route.
type session struct {
	ctx    context.Context
	app    *app.App
	view   *cliView
	router *router.Router
	kv     store.KV
}

func (e *env) openSession(ctx context.Context) (*session, error) {
	repo, kv, err := e.openRepository(ctx)
	if err != nil {
		return nil, err
	}
	s := &session{ctx: ctx, view: &cliView{}, kv: kv}
	s.app = app.New(ctx, repo, s.view, app.WithLogger(e.logger))

	var routeErr error
	s.router = router.New(router.NewMemoryLocation(e.cfg.Route), func(f model.Filter) {
		routeErr = s.app.Dispatch(ctx, app.EventFilterChange, f)
	})
	s.router.Start()
	if routeErr != nil {
		s.close()
		return nil, routeErr
	}
	return s, nil
}

func (s *session) close() {
	s.router.Stop()
	_ = s.kv.Close()
}

func (s *session) dispatch(ev app.Event, payload any) error {
	if err := s.app.Dispatch(s.ctx, ev, payload); err != nil {
		return err
	}
	return s.view.Replay(s.ctx, s.app)
}

// at resolves a 1-based index into the displayed list.
func (s *session) at(arg string) (*model.Todo, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, usagef("not a number: %s", arg)
	}
	todos := s.app.Display().ToArray()
	if n < 1 || n > len(todos) {
		return nil, usagef("index out of range: have %d, got %d", len(todos), n)
	}
	return todos[n-1], nil
}
