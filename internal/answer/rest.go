package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/chatnow/internal/metrics"
	"github.com/ppiankov/chatnow/internal/util"
)

// Client calls the generateContent REST endpoint directly.
type Client struct {
	Endpoint   string        // e.g. https://generativelanguage.googleapis.com
	APIVersion string        // e.g. v1
	Model      string        // e.g. gemini-1.5-pro
	APIKey     string        // sent as the key query parameter, never logged
	Timeout    time.Duration // 0 leaves the transport default in place

	// HTTPClient overrides the client built from Timeout (tests).
	HTTPClient *http.Client
	Metrics    *metrics.Recorder
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Fields are pointers so a missing level can be told apart from an empty one.
type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// maxErrorBody bounds how much of a failed response is kept in APIError.
const maxErrorBody = 4 << 10

// GenerateAnswer sends message as the only content part and returns the cleaned reply.
func (c Client) GenerateAnswer(ctx context.Context, message string) (string, error) {
	done := c.Metrics.Start(BackendREST)
	raw, err := c.generate(ctx, message)
	done(Kind(err))
	if err != nil {
		return "", err
	}
	return Clean(raw), nil
}

func (c Client) generate(ctx context.Context, message string) (string, error) {
	if c.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: message}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", c.redact(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", &TransportError{Err: c.redact(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		redactor := util.NewRedactor(c.APIKey)
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Body:       redactor.String(strings.TrimSpace(string(body))),
		}
	}

	return replyText(body)
}

// replyText extracts candidates[0].content.parts[0].text.
func replyText(body []byte) (string, error) {
	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", &MalformedResponseError{Reason: "decode body", Err: err}
	}
	if len(gr.Candidates) == 0 {
		return "", &MalformedResponseError{Reason: "no candidates"}
	}
	first := gr.Candidates[0]
	if first.Content == nil {
		return "", &MalformedResponseError{Reason: "candidate has no content"}
	}
	if len(first.Content.Parts) == 0 {
		return "", &MalformedResponseError{Reason: "content has no parts"}
	}
	if first.Content.Parts[0].Text == nil {
		return "", &MalformedResponseError{Reason: "first part has no text"}
	}
	return *first.Content.Parts[0].Text, nil
}

func (c Client) url() string {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	version := c.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	return fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		strings.TrimRight(endpoint, "/"), version, model, url.QueryEscape(c.APIKey))
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.Timeout}
}

// redact strips the API key from errors that embed the request URL.
func (c Client) redact(err error) error {
	redactor := util.NewRedactor(c.APIKey, url.QueryEscape(c.APIKey))
	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: redactor.String(ue.URL), Err: ue.Err}
	}
	return err
}
