package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew_DebugWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	log := New(true, &buf)

	log.Debug("fetched tasks", zap.Int("count", 2))

	assert.Contains(t, buf.String(), "fetched tasks")
	assert.Contains(t, buf.String(), "count")
}

func TestNew_DisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	log := New(false, &buf)

	log.Error("should not appear")

	assert.Empty(t, buf.String())
}

func TestNew_NilWriter(t *testing.T) {
	log := New(true, nil)
	assert.NotPanics(t, func() { log.Info("ignored") })
}
