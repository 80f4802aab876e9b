package answer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/ppiankov/chatnow/internal/metrics"
	"github.com/ppiankov/chatnow/internal/util"
	"google.golang.org/genai"
)

// SDKClient talks to the same endpoint through the official genai SDK.
type SDKClient struct {
	client   *genai.Client
	model    string
	redactor *util.Redactor
	metrics  *metrics.Recorder
}

// NewSDKClient creates a genai-backed client for the Gemini API.
func NewSDKClient(ctx context.Context, cfg Config) (*SDKClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(endpoint, "/") + "/",
			APIVersion: version,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &SDKClient{
		client:   client,
		model:    model,
		redactor: util.NewRedactor(cfg.APIKey),
		metrics:  cfg.Metrics,
	}, nil
}

// GenerateAnswer sends message through the SDK and returns the cleaned reply.
func (c *SDKClient) GenerateAnswer(ctx context.Context, message string) (string, error) {
	done := c.metrics.Start(BackendSDK)
	raw, err := c.generate(ctx, message)
	done(Kind(err))
	if err != nil {
		return "", err
	}
	return Clean(raw), nil
}

func (c *SDKClient) generate(ctx context.Context, message string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(message), nil)
	if err != nil {
		return "", c.classify(err)
	}
	return sdkReplyText(resp)
}

// classify maps SDK failures onto the package error taxonomy.
func (c *SDKClient) classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Err: redacted(err, c.redactor)}
	}
	return &APIError{Err: redacted(err, c.redactor)}
}

func sdkReplyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &MalformedResponseError{Reason: "no candidates"}
	}
	first := resp.Candidates[0]
	if first == nil || first.Content == nil {
		return "", &MalformedResponseError{Reason: "candidate has no content"}
	}
	if len(first.Content.Parts) == 0 || first.Content.Parts[0] == nil {
		return "", &MalformedResponseError{Reason: "content has no parts"}
	}
	// The SDK decodes a missing text field as "", so both mean no reply.
	if first.Content.Parts[0].Text == "" {
		return "", &MalformedResponseError{Reason: "first part has no text"}
	}
	return first.Content.Parts[0].Text, nil
}
