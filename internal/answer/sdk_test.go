package answer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestSDKClient(t *testing.T, handler http.HandlerFunc) *SDKClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewSDKClient(context.Background(), Config{
		Endpoint:   srv.URL,
		APIVersion: "v1",
		Model:      "gemini-1.5-pro",
		APIKey:     testKey,
	})
	require.NoError(t, err)
	return c
}

func TestSDKClient_GenerateAnswer(t *testing.T) {
	var gotPath string
	c := newTestSDKClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, replyJSON("**Go** is a language"))
	})

	got, err := c.GenerateAnswer(context.Background(), "what is go?")
	require.NoError(t, err)
	assert.Equal(t, "Go is a language", got)
	assert.True(t, strings.HasSuffix(gotPath, "gemini-1.5-pro:generateContent"), gotPath)
}

func TestSDKClient_GenerateAnswer_APIError(t *testing.T) {
	c := newTestSDKClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`)
	})

	_, err := c.GenerateAnswer(context.Background(), "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.NotContains(t, err.Error(), testKey)
}

func TestSDKReplyText(t *testing.T) {
	ok := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "hello"}}},
		}},
	}
	got, err := sdkReplyText(ok)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	bad := []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{}}}}}},
	}
	for i, resp := range bad {
		_, err := sdkReplyText(resp)
		var malformed *MalformedResponseError
		assert.True(t, errors.As(err, &malformed), "case %d", i)
	}
}

func TestSDKClient_ClassifyTransport(t *testing.T) {
	c := &SDKClient{}
	err := c.classify(context.DeadlineExceeded)
	var transport *TransportError
	assert.True(t, errors.As(err, &transport))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
