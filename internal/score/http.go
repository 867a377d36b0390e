package score

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

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/rcliao/climate-sentiment/internal/model"
)

// HTTPOracle scores text with a remote sentiment service.
// The service accepts {"text": "..."} and answers with
// {"neg": .., "neu": .., "pos": .., "compound": ..}.
type HTTPOracle struct {
	url      string
	apiKey   string
	client   *http.Client
	executor failsafe.Executor[model.Polarity]
}

type scoreRequest struct {
	Text string `json:"text"`
}

// scoreResponse keeps track of which keys the service actually sent.
type scoreResponse struct {
	Neg      *float64 `json:"neg"`
	Neu      *float64 `json:"neu"`
	Pos      *float64 `json:"pos"`
	Compound *float64 `json:"compound"`
	Error    string   `json:"error"`
}

// polarity returns the scores or an error naming every missing key.
func (r scoreResponse) polarity() (model.Polarity, error) {
	var missing []string
	get := func(name string, v *float64) float64 {
		if v == nil {
			missing = append(missing, name)
			return 0
		}
		return *v
	}
	p := model.Polarity{
		Neg:      get("neg", r.Neg),
		Neu:      get("neu", r.Neu),
		Pos:      get("pos", r.Pos),
		Compound: get("compound", r.Compound),
	}
	if len(missing) > 0 {
		err := fmt.Errorf("oracle response missing %s", strings.Join(missing, ", "))
		if r.Error != "" {
			err = fmt.Errorf("%w (service error: %s)", err, r.Error)
		}
		return model.Polarity{}, err
	}
	return p, nil
}

// retryableError marks failures worth another attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// NewHTTPOracle creates an oracle posting to cfg.URL. Transport errors,
// 429 and 5xx responses are retried with exponential backoff.
func NewHTTPOracle(cfg Config) *HTTPOracle {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	retry := retrypolicy.NewBuilder[model.Polarity]().
		HandleIf(func(_ model.Polarity, err error) bool {
			var re *retryableError
			return errors.As(err, &re)
		}).
		WithBackoff(50*time.Millisecond, 2*time.Second).
		WithMaxRetries(retries).
		WithJitterFactor(0.1).
		Build()

	return &HTTPOracle{
		url:      cfg.URL,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
		executor: failsafe.With[model.Polarity](retry),
	}
}

func (o *HTTPOracle) Score(ctx context.Context, text string) (model.Polarity, error) {
	return o.executor.WithContext(ctx).Get(func() (model.Polarity, error) {
		return o.post(ctx, text)
	})
}

func (o *HTTPOracle) post(ctx context.Context, text string) (model.Polarity, error) {
	body, _ := json.Marshal(scoreRequest{Text: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return model.Polarity{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return model.Polarity{}, ctx.Err()
		}
		return model.Polarity{}, &retryableError{fmt.Errorf("oracle request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("oracle error %d: %s", resp.StatusCode, bytes.TrimSpace(b))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return model.Polarity{}, &retryableError{err}
		}
		return model.Polarity{}, err
	}

	var sr scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return model.Polarity{}, fmt.Errorf("decode oracle response: %w", err)
	}
	return sr.polarity()
}
