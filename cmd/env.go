package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inovacc/countrydesk/internal/application"
	"github.com/inovacc/countrydesk/internal/config"
	"github.com/inovacc/countrydesk/internal/countries"
	"github.com/inovacc/countrydesk/internal/database"
	"github.com/inovacc/countrydesk/internal/logging"
	"github.com/inovacc/countrydesk/internal/model"
	"github.com/inovacc/countrydesk/internal/process"
	"github.com/inovacc/countrydesk/internal/reactive"
	"github.com/inovacc/countrydesk/internal/session"
)

// environment is what every command that touches the profile or the API needs. One per
// process, so every front end in it shares the same profile cell.
type environment struct {
	cfg      config.Config
	logger   *slog.Logger
	store    database.Store
	registry *reactive.Registry
	profile  *reactive.Cell[model.Profile]
	source   countries.Source
}

func openEnv(cfg config.Config, logger *slog.Logger) (*environment, error) {
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, err
	}

	store, err := database.Open(cfg.Storage.Backend, path)
	if errors.Is(err, database.ErrLocked) {
		return nil, lockedError(err)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	logger.Debug("storage opened", "backend", cfg.Storage.Backend, "path", path)

	registry := reactive.NewRegistry(store, reactive.WithLogger(logger))

	profile, err := reactive.Register(registry, model.EmptyProfile(), model.ProfileStorageKey)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var source countries.Source = countries.NewGraphQL(cfg.Countries.Endpoint, cfg.Countries.Timeout, logger)
	if cfg.Countries.CacheTTL > 0 {
		source = countries.NewCached(source, cfg.Countries.CacheSize, cfg.Countries.CacheTTL)
	}

	return &environment{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		registry: registry,
		profile:  profile,
		source:   source,
	}, nil
}

func (e *environment) gate() *session.Gate {
	return session.NewGate(e.profile, e.logger)
}

// watchSession logs every session transition for as long as a server runs.
func (e *environment) watchSession() (stop func()) {
	last := e.profile.Read().Complete()

	return e.profile.Watch(func(p model.Profile) {
		if p.Complete() == last {
			e.logger.Info("profile updated", "username", p.Username)
			return
		}

		last = p.Complete()

		if last {
			e.logger.Info("session started", "username", p.Username)
		} else {
			e.logger.Info("session ended")
		}
	})
}

func (e *environment) Close() error {
	return e.store.Close()
}

// withEnv loads config, sets up stderr logging and opens the environment for a
// non-interactive command.
func withEnv(fn func(env *environment) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.Log)

	env, err := openEnv(cfg, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	return fn(env)
}

// lockedError names the other countrydesk processes, usually the web service, that may hold
// the bolt file.
func lockedError(err error) error {
	others := process.NewFinder().Named(application.AppName)
	if len(others) == 0 {
		return err
	}

	pids := make([]string, len(others))
	for i, p := range others {
		pids[i] = fmt.Sprint(p.PID)
	}

	return fmt.Errorf("%w (running countrydesk pids: %s); stop them or switch storage.backend to sqlite",
		err, strings.Join(pids, ", "))
}
