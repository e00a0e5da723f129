// Package router implements the Provider Router (spec §4.2): given a
// checkout request, it picks PROV-G or PROV-R for a creator. Routing is
// advisory for UX but authoritative for the checkout call itself.
package router

import (
	"github.com/creatorpay/platform/internal/domain"
	"github.com/creatorpay/platform/internal/errs"
	"github.com/creatorpay/platform/internal/feeengine"
)

// Route is the outcome of routing a checkout request to a provider.
type Route struct {
	Provider domain.Provider
}

// Request describes the inputs the router needs from a checkout call.
type Request struct {
	Creator      *domain.Creator
	PayerCountry string // untrusted, client-supplied; absent/invalid falls back to default
}

// Pick selects the provider for req per spec §4.2:
//  1. Only one connected -> use it.
//  2. Both connected -> cross-border payer countries route to PROV-R, others to PROV-G.
//  3. PayerCountry absent/invalid -> creator default.
func Pick(req Request) (Route, error) {
	if req.Creator == nil {
		return Route{}, errs.New(errs.InvalidRequest, "router: creator is required")
	}

	hasG := req.Creator.HasProvG()
	hasR := req.Creator.HasProvR()

	if !hasG && !hasR {
		return Route{}, errs.New(errs.InvalidRequest, "router: creator has no connected provider")
	}

	if hasG && !hasR {
		return Route{Provider: domain.ProviderG}, nil
	}
	if hasR && !hasG {
		return Route{Provider: domain.ProviderR}, nil
	}

	// Both connected: country-based routing with a default fallback.
	if req.PayerCountry == "" || !isValidCountryCode(req.PayerCountry) {
		return Route{Provider: req.Creator.DefaultProvider}, nil
	}

	if feeengine.IsCrossBorderCountry(req.PayerCountry) {
		return Route{Provider: domain.ProviderR}, nil
	}
	return Route{Provider: domain.ProviderG}, nil
}

func isValidCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			if r < 'a' || r > 'z' {
				return false
			}
		}
	}
	return true
}
