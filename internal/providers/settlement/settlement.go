package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairlance/treasury_backend/internal/core/domain"
	portssvc "github.com/fairlance/treasury_backend/internal/core/ports/services"
)

// HTTPProvider settles payouts against an external payment rail over HTTP.
type HTTPProvider struct {
	endpoint string
	client   *http.Client
}

var _ portssvc.SettlementProvider = (*HTTPProvider)(nil)

// NewHTTPProvider creates a provider targeting the given settlement endpoint.
func NewHTTPProvider(endpoint string) *HTTPProvider {
	return &HTTPProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type settleRequest struct {
	PayoutID         string          `json:"payout_id"`
	FundingSourceID  string          `json:"funding_source_id"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currency_code"`
	Channel          string          `json:"channel"`
	DestinationLabel string          `json:"destination_label"`
}

type settleResponse struct {
	ExternalReference string `json:"external_reference"`
}

// Settle submits the payout to the rail and returns its external reference.
func (p *HTTPProvider) Settle(ctx context.Context, payout domain.PayoutRequest) (string, error) {
	body, err := json.Marshal(settleRequest{
		PayoutID:         payout.PayoutID,
		FundingSourceID:  payout.FundingSourceID,
		Amount:           payout.Amount,
		CurrencyCode:     payout.CurrencyCode,
		Channel:          payout.Channel,
		DestinationLabel: payout.DestinationLabel,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal settlement request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build settlement request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("settlement call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("settlement rail returned status %d", resp.StatusCode)
	}

	var result settleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode settlement response: %w", err)
	}
	if result.ExternalReference == "" {
		return "", fmt.Errorf("settlement rail returned no external reference")
	}
	return result.ExternalReference, nil
}

// StubProvider settles every payout locally. Used in development when no
// settlement endpoint is configured.
type StubProvider struct{}

var _ portssvc.SettlementProvider = (*StubProvider)(nil)

// NewStubProvider creates the in-process stub.
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

// Settle fabricates an external reference without leaving the process.
func (p *StubProvider) Settle(_ context.Context, payout domain.PayoutRequest) (string, error) {
	return "stub-" + payout.PayoutID + "-" + uuid.NewString()[:8], nil
}
