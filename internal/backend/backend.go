// Package backend opens the task store selected by the configuration.
package backend

import (
	"context"
	"fmt"

	"todo/internal/backend/httpapi"
	"todo/internal/backend/localstore"
	"todo/internal/config"
	"todo/internal/service"
)

// Open returns the service for cfg.Backend. The local store holds a
// database handle and must be closed; the dispatcher does that through
// io.Closer.
func Open(ctx context.Context, cfg *config.Config) (service.Service, error) {
	log := cfg.Logger().Named(cfg.Backend)

	switch cfg.Backend {
	case config.BackendHTTP:
		client, err := httpapi.New(cfg.API.BaseURL,
			httpapi.WithTimeout(cfg.API.Timeout),
			httpapi.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return client, nil

	case config.BackendLocal:
		kv, err := localstore.OpenSQLite(ctx, cfg.LocalPath())
		if err != nil {
			return nil, err
		}
		store, err := localstore.Open(ctx, kv, localstore.WithLogger(log))
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
