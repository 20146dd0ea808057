package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_TeesIntoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, cleanup, err := New("production", "info", path)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("invoice exported", zap.String("invoice_number", "INV-1"))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"invoice exported"`)
	assert.Contains(t, out, `"invoice_number":"INV-1"`)
	assert.False(t, strings.Contains(out, "hidden"))
}

func TestNew_RejectsBadLevel(t *testing.T) {
	_, _, err := New("development", "loud", "")
	assert.Error(t, err)
}

func TestOpenLogFile_Empty(t *testing.T) {
	f, err := OpenLogFile("")
	assert.NoError(t, err)
	assert.Nil(t, f)
}
