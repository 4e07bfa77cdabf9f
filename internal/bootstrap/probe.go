package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// ErrNotJSON is returned when the endpoint answers with a body that is not JSON
var ErrNotJSON = errors.New("response body is not JSON")

// Prober performs the page bootstrap fetch
type Prober struct {
	client   *http.Client
	endpoint string
	logger   zerolog.Logger
}

// NewProber creates a prober. A nil client means http.DefaultClient.
func NewProber(client *http.Client, endpoint string, logger zerolog.Logger) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	return &Prober{client: client, endpoint: endpoint, logger: logger}
}

// Run issues one GET against the endpoint and writes exactly one log entry:
// the JSON body on success, an error otherwise. The status code is not checked
// and there is no retry; only ctx bounds the call.
func (p *Prober) Run(ctx context.Context) (json.RawMessage, error) {
	body, err := p.fetch(ctx)
	if err != nil {
		p.logger.Error().Err(err).Str("endpoint", p.endpoint).Msg("Bootstrap fetch failed")
		return nil, err
	}

	p.logger.Info().RawJSON("response", body).Msg("Bootstrap response")
	return body, nil
}

func (p *Prober) fetch(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w (status %d)", ErrNotJSON, resp.StatusCode)
	}
	return json.RawMessage(data), nil
}
