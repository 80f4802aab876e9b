package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
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
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"
)

type stubAnswerer struct {
	reply string
	err   error
	got   string
}

func (s *stubAnswerer) GenerateAnswer(_ context.Context, message string) (string, error) {
	s.got = message
	return s.reply, s.err
}

func testAskRun(format, output string) (askRun, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return askRun{
		AskConfig: AskConfig{Format: format, OutputFile: output},
		settings:  Settings{Model: "gemini-test", Backend: answer.BackendREST},
		logger:    zap.NewNop(),
		stdout:    &stdout,
		stderr:    &stderr,
	}, &stdout, &stderr
}

func TestReadMessage(t *testing.T) {
	msg, err := readMessage([]string{"hello", "there"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg)

	msg, err = readMessage(nil, strings.NewReader("  line one\nline two\n"))
	require.NoError(t, err)
	assert.Equal(t, "  line one\nline two", msg)

	msg, err = readMessage(nil, strings.NewReader("windows\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "windows", msg)

	for _, blank := range []string{"", "   \n", "\t"} {
		_, err = readMessage(nil, strings.NewReader(blank))
		require.Error(t, err)
		assert.Equal(t, util.ExitInvalidInput, util.CodeFor(err))
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"human", "json", "yaml"} {
		assert.NoError(t, validateFormat(f))
	}
	err := validateFormat("xml")
	require.Error(t, err)
	assert.Equal(t, util.ExitInvalidInput, util.CodeFor(err))
}

func TestRunAsk_Human(t *testing.T) {
	stub := &stubAnswerer{reply: "* one\n* two"}
	run, stdout, _ := testAskRun("human", "")

	require.NoError(t, runAsk(context.Background(), stub, "list", run))
	assert.Equal(t, "list", stub.got)
	assert.Equal(t, "• one\n• two\n", stdout.String())
}

func TestRunAsk_JSON(t *testing.T) {
	stub := &stubAnswerer{reply: "see https://example.com"}
	run, stdout, _ := testAskRun("json", "")

	require.NoError(t, runAsk(context.Background(), stub, "q", run))

	var r result.Reply
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &r))
	assert.Equal(t, "q", r.Message)
	assert.Equal(t, "see https://example.com", r.Reply)
	assert.Equal(t, "gemini-test", r.Model)
	assert.NotEmpty(t, r.ID)
	require.Len(t, r.Segments, 2)
	assert.Equal(t, "https://example.com", r.Segments[1].Text)
}

func TestRunAsk_YAML(t *testing.T) {
	run, stdout, _ := testAskRun("yaml", "")
	require.NoError(t, runAsk(context.Background(), &stubAnswerer{reply: "plain"}, "q", run))

	var r result.Reply
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &r))
	assert.Equal(t, "plain", r.Reply)
	assert.Equal(t, answer.BackendREST, r.Backend)
}

func TestRunAsk_Output(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.md")
	run, stdout, stderr := testAskRun("human", path)

	require.NoError(t, runAsk(context.Background(), &stubAnswerer{reply: "saved reply"}, "q", run))

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Reply saved to: "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "saved reply")
}

func TestRunAsk_Failure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	run, stdout, _ := testAskRun("human", "")
	run.logger = zap.New(core)
	stub := &stubAnswerer{err: &answer.TransportError{Err: errors.New("connection refused")}}

	err := runAsk(context.Background(), stub, "q", run)
	require.Error(t, err)
	assert.Equal(t, util.ExitRuntimeError, util.CodeFor(err))
	var te *answer.TransportError
	assert.ErrorAs(t, err, &te)
	assert.Empty(t, stdout.String())

	entries := logs.FilterMessage("answer request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "transport", entries[0].ContextMap()["kind"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
}

func TestExportToFile_FailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.json")
	var stderr bytes.Buffer

	err := exportToFile(nil, path, &stderr)
	require.Error(t, err)
	assert.NoFileExists(t, path)
	assert.Empty(t, stderr.String())
}

func TestExportToFile_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "reply.md")
	r := result.NewReply("id", "q", "text", "m", "rest", 0, time.Now())

	err := exportToFile(r, path, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write output file")
}
