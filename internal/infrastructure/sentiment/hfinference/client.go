// Package hfinference classifies sentiment with a hosted text-classification
// model (distilbert-base-uncased-finetuned-sst-2-english by default) served
// over the Hugging Face inference HTTP API or a compatible TEI endpoint.
package hfinference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/resilience"
)

const DefaultModel = "distilbert-base-uncased-finetuned-sst-2-english"

type Classifier struct {
	baseURL    string
	model      string
	token      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model, token string, timeout time.Duration, executor *resilience.Executor) *Classifier {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Classifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *Classifier) ClassifySentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	const operation = "hf classify sentiment"

	scores, err := resilience.ExecuteValue(ctx, c.executor, "hf.classify", func(ctx context.Context) ([]labelScore, error) {
		return c.classify(ctx, text)
	}, resilience.ClassifyHTTPError)
	if err != nil {
		return domain.Sentiment{}, domain.WrapError(domain.ErrClassification, operation, resilience.WrapTemporary(operation, err))
	}

	sentiment, err := pickTop(scores)
	if err != nil {
		return domain.Sentiment{}, domain.WrapError(domain.ErrClassification, operation, err)
	}
	return sentiment, nil
}

func (c *Classifier) classify(ctx context.Context, text string) ([]labelScore, error) {
	body, err := json.Marshal(map[string]any{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+c.model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hf classify request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read classify response: %w", err)
	}
	if resp.StatusCode >= 300 {
		if len(raw) > 2048 {
			raw = raw[:2048]
		}
		return nil, &resilience.HTTPStatusError{
			Service:    "hf",
			Operation:  "classify",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}
	return decodeScores(raw)
}

// decodeScores accepts both the nested [[...]] shape of the inference API and
// the flat [...] shape returned by TEI.
func decodeScores(raw []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, errors.New("empty classify response")
		}
		return nested[0], nil
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}
	return flat, nil
}

func pickTop(scores []labelScore) (domain.Sentiment, error) {
	var (
		best  domain.Sentiment
		found bool
	)
	for _, item := range scores {
		label, ok := domain.ParseSentimentLabel(item.Label)
		if !ok {
			continue
		}
		if !found || item.Score > best.Confidence {
			best = domain.Sentiment{Label: label, Confidence: item.Score}
			found = true
		}
	}
	if !found {
		return domain.Sentiment{}, fmt.Errorf("no binary sentiment label in %d scores", len(scores))
	}
	if best.Confidence < 0 || best.Confidence > 1 {
		return domain.Sentiment{}, fmt.Errorf("confidence %v out of range", best.Confidence)
	}
	return best, nil
}
