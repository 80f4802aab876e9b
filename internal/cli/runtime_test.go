package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/chatnow/internal/answer"
	"github.com/ppiankov/chatnow/internal/result"
	"github.com/ppiankov/chatnow/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("", false, true)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel), "interactive mode without a file logs nothing")

	path := filepath.Join(t.TempDir(), "chatnow.log")
	logger, err = newLogger(path, true, true)
	require.NoError(t, err)
	logger.Debug("hello", zap.String("request_id", "r1"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"request_id":"r1"`)
}

func TestStartMetrics_Disabled(t *testing.T) {
	rec, err := startMetrics(context.Background(), "", zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestNewAnswerer(t *testing.T) {
	ans, err := newAnswerer(context.Background(), Settings{APIKey: "k", Backend: answer.BackendREST}, nil)
	require.NoError(t, err)
	assert.IsType(t, answer.Client{}, ans)

	_, err = newAnswerer(context.Background(), Settings{APIKey: "k", Backend: "grpc"}, nil)
	require.Error(t, err)
	assert.Equal(t, util.ExitInvalidInput, util.CodeFor(err))
}

func TestReplyExporter(t *testing.T) {
	base := filepath.Join(t.TempDir(), "reply.txt")
	export := replyExporter(base)

	r := result.NewReply("id", "q", "exported text", "m", "rest", time.Second, time.Now())
	path, err := export(r)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "reply-"))
	assert.Equal(t, ".txt", filepath.Ext(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "exported text\n", string(data))
}
