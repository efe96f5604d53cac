package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/fekuna/ecomarche-risk-service/internal/risk"
)

// Client calls an external inference server that serves the trained waste
// classifier. Predictions are best-effort: the caller treats any error as
// "model unavailable" and scores on the heuristic alone.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a classifier client, or nil when no URL is configured.
// A nil *Client is a valid "no model" classifier for the risk engine.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Probability float64 `json:"probability"`
}

// PredictProbability returns the model's waste probability for one feature
// vector. The request is bounded by both the client timeout and ctx.
func (c *Client) PredictProbability(ctx context.Context, features [risk.FeatureCount]float64) (float64, error) {
	body, err := json.Marshal(predictRequest{Features: features[:]})
	if err != nil {
		return 0, errors.Wrap(err, "marshal features")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, errors.Wrap(err, "build predict request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "call classifier")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, errors.Wrap(err, "decode classifier response")
	}
	return out.Probability, nil
}
