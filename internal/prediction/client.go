// Package prediction calls the external price prediction service.
package prediction

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single prediction call.
const DefaultTimeout = 2 * time.Second

type tickPayload struct {
	Timestamp string  `json:"timestamp"`
	Price     float64 `json:"price"`
}

type predictRequest struct {
	Ticks []tickPayload `json:"ticks"`
}

type predictResponse struct {
	Prediction *string `json:"prediction"`
}

// Client is a Predictor backed by the HTTP prediction service.
// It never retries. The per-call context deadline is the only timeout.
type Client struct {
	http    *resty.Client
	timeout time.Duration
	logger  *logger.Logger
}

// NewClient creates a client for the service at baseURL. Requests are sent
// to {baseURL}/predict.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0)

	return &Client{
		http:    client,
		timeout: timeout,
		logger:  log,
	}
}

// Predict posts the ticks and returns the service's prediction. Fewer than
// MinTicks ticks, transport errors, non-2xx statuses and bodies without a
// prediction are reported as failures.
func (c *Client) Predict(ctx context.Context, ticks []types.Tick) types.PredictionResult {
	if len(ticks) < MinTicks {
		return types.PredictionFailed(errors.Newf(errors.ErrCodeInvalidParameter,
			"prediction needs at least %d ticks, got %d", MinTicks, len(ticks)))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := predictRequest{Ticks: make([]tickPayload, len(ticks))}
	for i, t := range ticks {
		body.Ticks[i] = tickPayload{
			Timestamp: t.Time.UTC().Format(time.RFC3339Nano),
			Price:     t.Price,
		}
	}

	var out predictResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/predict")
	if err != nil {
		if ctx.Err() != nil {
			return c.failed(errors.Wrap(errors.ErrCodeTimeout, "prediction request timed out", err))
		}

		return c.failed(errors.Wrap(errors.ErrCodePredictionFailed, "prediction request failed", err))
	}

	if resp.IsError() {
		return c.failed(errors.Newf(errors.ErrCodePredictionFailed,
			"prediction service returned status %d", resp.StatusCode()))
	}

	if out.Prediction == nil {
		return c.failed(errors.New(errors.ErrCodePredictionMalformed, "prediction missing from response"))
	}

	return types.PredictionOK(*out.Prediction)
}

func (c *Client) failed(err error) types.PredictionResult {
	c.logger.Warn("Prediction unavailable", zap.Error(err))

	return types.PredictionFailed(err)
}
