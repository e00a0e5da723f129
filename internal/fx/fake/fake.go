// Package fake provides an in-memory fx.Source for applier/checkout tests.
package fake

import (
	"context"
	"fmt"
)

type Source struct {
	Rates map[string]float64 // key: "FROM_TO", e.g. "NGN_USD"
	Err   error
}

func New() *Source {
	return &Source{Rates: make(map[string]float64)}
}

func (s *Source) FetchRate(ctx context.Context, fromCurrency, toCurrency string) (float64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	key := fmt.Sprintf("%s_%s", fromCurrency, toCurrency)
	rate, ok := s.Rates[key]
	if !ok {
		return 0, fmt.Errorf("fake fx: no rate configured for %s", key)
	}
	return rate, nil
}
