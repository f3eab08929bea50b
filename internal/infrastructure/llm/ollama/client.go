package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func New(baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SentimentClassifier asks a local generative model for a binary
// POSITIVE/NEGATIVE verdict with a confidence.
type SentimentClassifier struct {
	client   *Client
	executor *resilience.Executor
}

func NewSentimentClassifier(client *Client, executor *resilience.Executor) *SentimentClassifier {
	return &SentimentClassifier{client: client, executor: executor}
}

func (c *SentimentClassifier) ClassifySentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	const operation = "ollama classify sentiment"

	raw, err := resilience.ExecuteValue(ctx, c.executor, "ollama.generate", func(ctx context.Context) (string, error) {
		return c.client.generateJSON(ctx, buildSentimentPrompt(text))
	}, resilience.ClassifyHTTPError)
	if err != nil {
		return domain.Sentiment{}, domain.WrapError(domain.ErrClassification, operation, resilience.WrapTemporary(operation, err))
	}

	sentiment, err := parseSentiment(raw)
	if err != nil {
		return domain.Sentiment{}, domain.WrapError(domain.ErrClassification, operation, err)
	}
	return sentiment, nil
}

func parseSentiment(raw string) (domain.Sentiment, error) {
	var payload struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &payload); err != nil {
		return domain.Sentiment{}, fmt.Errorf("parse sentiment json: %w", err)
	}
	label, ok := domain.ParseSentimentLabel(payload.Label)
	if !ok {
		return domain.Sentiment{}, fmt.Errorf("unexpected sentiment label %q", payload.Label)
	}
	if payload.Confidence < 0 || payload.Confidence > 1 {
		return domain.Sentiment{}, fmt.Errorf("confidence %v out of range", payload.Confidence)
	}
	return domain.Sentiment{Label: label, Confidence: payload.Confidence}, nil
}

func (c *Client) generateJSON(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
		"options": map[string]any{
			"temperature": 0,
		},
	}
	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
