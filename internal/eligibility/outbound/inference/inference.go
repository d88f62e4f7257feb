// Package inference calls the external loan scoring endpoint.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
	"github.com/finlens/loanadvisor/internal/pkg/hash"
	"github.com/finlens/loanadvisor/internal/pkg/instrument"
)

// HeaderSignature carries the HMAC of the request body so the scoring
// service can reject tampered payloads.
const HeaderSignature = "X-Signature"

const maxResponseBytes = 1 << 20

type Client struct {
	httpClient *http.Client
	url        string
	signer     hash.Hash
	ins        instrument.Instrumentation
}

func New(url string, timeout time.Duration, signer hash.Hash, ins instrument.Instrumentation) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		signer:     signer,
		ins:        ins,
	}
}

type predictResponse struct {
	Status      string   `json:"status"`
	Eligibility string   `json:"eligibility"`
	Probability float64  `json:"probability"`
	Reasons     []string `json:"reasons"`
}

// Predict posts the form to the scoring endpoint and returns its outcome.
// Transport errors and 5xx responses are retried with a capped fibonacci
// backoff; 4xx responses fail immediately.
func (c *Client) Predict(ctx context.Context, form entity.ApplicationForm) (_ *entity.Prediction, err error) {
	ctx, span := c.ins.Tracer("eligibility.outbound.inference").Start(ctx, "Predict")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(form)
	if err != nil {
		return nil, err
	}

	signature, err := c.signer.Hash(string(body))
	if err != nil {
		return nil, err
	}

	b := retry.NewFibonacci(300 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxRetries(2, b)

	var result predictResponse
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderSignature, signature)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			_, _ = io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(fmt.Errorf("inference endpoint returned %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("inference endpoint returned %d", resp.StatusCode)
		}

		return json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result)
	})
	if err != nil {
		return nil, err
	}

	return &entity.Prediction{
		Eligible:    result.Eligibility == "eligible",
		Probability: result.Probability,
		Reasons:     result.Reasons,
		Source:      entity.SourceModel,
	}, nil
}
