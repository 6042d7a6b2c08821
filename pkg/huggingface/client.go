package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"time"
)

// ErrNoCandidateLabels signals a client configured without a label set; the
// zero-shot endpoint rejects requests that carry none.
var ErrNoCandidateLabels = errors.New("no candidate labels configured")

// HTTPClient calls the Hugging Face inference API for zero-shot text
// classification against a fixed candidate label set.
type HTTPClient struct {
	apiKey          string
	baseURL         string
	model           string
	minScore        float64
	candidateLabels []string
	httpClient      *http.Client
}

// Config holds configuration for the Hugging Face client
type Config struct {
	APIKey          string
	BaseURL         string        // Default: https://api-inference.huggingface.co
	Model           string        // Default: facebook/bart-large-mnli
	MinScore        float64       // Default: 0.3; labels below this are dropped
	Timeout         time.Duration // Default: 30s
	CandidateLabels []string      // Required; the labels the model scores text against
}

// NewHTTPClient creates a new Hugging Face HTTP client
func NewHTTPClient(config Config) *HTTPClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api-inference.huggingface.co"
	}
	if config.Model == "" {
		config.Model = "facebook/bart-large-mnli"
	}
	if config.MinScore == 0 {
		config.MinScore = 0.3
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClient{
		apiKey:          config.APIKey,
		baseURL:         config.BaseURL,
		model:           config.Model,
		minScore:        config.MinScore,
		candidateLabels: config.CandidateLabels,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
	}
}

// Classify scores the text against the configured candidate labels and
// returns them sorted by descending score.
func (c *HTTPClient) Classify(ctx context.Context, text string) ([]Classification, error) {
	if len(c.candidateLabels) == 0 {
		return nil, ErrNoCandidateLabels
	}

	body, err := json.Marshal(classifyRequest{
		Inputs: text,
		Parameters: classifyParameters{
			CandidateLabels: c.candidateLabels,
			MultiLabel:      true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Labels) != len(decoded.Scores) {
		return nil, fmt.Errorf("mismatched labels and scores: %d vs %d", len(decoded.Labels), len(decoded.Scores))
	}

	results := make([]Classification, len(decoded.Labels))
	for i, label := range decoded.Labels {
		results[i] = Classification{Label: label, Score: decoded.Scores[i]}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// Labels returns the label strings scoring at or above the configured
// minimum, best first.
func (c *HTTPClient) Labels(ctx context.Context, text string) ([]string, error) {
	results, err := c.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	var labels []string
	for _, r := range results {
		if r.Score >= c.minScore {
			labels = append(labels, r.Label)
		}
	}
	return labels, nil
}
