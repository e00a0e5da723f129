package fx

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/httpclient"
)

// HTTPSource fetches rates from a configurable external exchange-rate API
// (FX_SERVICE_URL in internal/config), reusing the shared retrying client.
type HTTPSource struct {
	client  *httpclient.Client
	apiKey  string
}

func NewHTTPSource(baseURL, apiKey string, logger *zap.Logger) *HTTPSource {
	client := httpclient.New(logger, httpclient.WithBaseURL(baseURL))
	return &HTTPSource{client: client, apiKey: apiKey}
}

type rateResponse struct {
	Rate float64 `json:"rate"`
}

func (s *HTTPSource) FetchRate(ctx context.Context, fromCurrency, toCurrency string) (float64, error) {
	path := fmt.Sprintf("/latest?base=%s&symbols=%s", fromCurrency, toCurrency)
	resp, err := s.client.Get(ctx, path, httpclient.WithQueryParam("api_key", s.apiKey))
	if err != nil {
		return 0, errs.Wrap(errs.ProviderUnavailable, "fx: fetch rate", err)
	}

	var parsed rateResponse
	if err := httpclient.DecodeJSON(resp, &parsed); err != nil {
		return 0, errs.Wrap(errs.ProviderUnavailable, "fx: decode rate response", err)
	}
	if parsed.Rate <= 0 {
		return 0, errs.New(errs.ProviderUnavailable, "fx: non-positive rate returned")
	}
	return parsed.Rate, nil
}
