package backend

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/backend/httpapi"
	"todo/internal/backend/localstore"
	"todo/internal/config"
	"todo/internal/service"
)

func TestOpen_HTTP(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)

	svc, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &httpapi.Client{}, svc)
}

func TestOpen_Local(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.Backend = config.BackendLocal
	cfg.Local.Path = filepath.Join(cfg.Dir, "tasks.db")

	svc, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &localstore.Store{}, svc)

	require.NoError(t, svc.AddTask(ctx, service.NewTask{Name: "buy milk"}))
	closer, ok := svc.(io.Closer)
	require.True(t, ok)
	require.NoError(t, closer.Close())

	reopened, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer reopened.(io.Closer).Close()

	tasks, err := reopened.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Name)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.Backend = "carrier-pigeon"

	_, err = Open(context.Background(), cfg)
	assert.EqualError(t, err, "unknown backend: carrier-pigeon")
}
