package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hqvjet/TourAI/internal/adapters/observability"
	"github.com/hqvjet/TourAI/internal/domain"
)

// Client calls the external sentiment classification endpoint. A prediction
// is part of a one-shot review submission, so there is no retry here: any
// failure surfaces to the user and a new submission starts the flow over.
type Client struct {
	url string
	hc  *http.Client
}

func New(url string, timeout time.Duration) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("classifier URL is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{url: url, hc: &http.Client{Timeout: timeout}}, nil
}

type predictRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type predictResponse struct {
	// One row per input document; each row is [negative, neutral, positive].
	Prediction [][]float64 `json:"prediction"`
}

// Predict returns the class scores for one review, ordered
// negative, neutral, positive.
func (c *Client) Predict(ctx context.Context, title, content string) (domain.Scores, error) {
	body, err := json.Marshal(predictRequest{Title: title, Content: content})
	if err != nil {
		return domain.Scores{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domain.Scores{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Scores{}, ctx.Err()
		}
		observability.ObserveExternal("classifier", "/predict", 0, time.Since(start))
		return domain.Scores{}, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("classifier", "/predict", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return domain.Scores{}, fmt.Errorf("%w: remote %d", domain.ErrClassifierUnavailable, resp.StatusCode)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return domain.Scores{}, fmt.Errorf("%w: decode: %v", domain.ErrClassifierUnavailable, err)
	}
	if len(pr.Prediction) == 0 || len(pr.Prediction[0]) != 3 {
		return domain.Scores{}, fmt.Errorf("%w: malformed prediction", domain.ErrClassifierUnavailable)
	}
	row := pr.Prediction[0]
	return domain.Scores{row[0], row[1], row[2]}, nil
}
