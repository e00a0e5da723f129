package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/creatorpay/platform/internal/domain"
)

func bothConnectedCreator(def domain.Provider) *domain.Creator {
	return &domain.Creator{
		DefaultProvider:     def,
		ProvGAccountID:      "acct_123",
		ProvRSubaccountCode: "SUB_123",
	}
}

func TestPick_OnlyOneConnected(t *testing.T) {
	creatorG := &domain.Creator{ProvGAccountID: "acct_123"}
	route, err := Pick(Request{Creator: creatorG})
	assert.NoError(t, err)
	assert.Equal(t, domain.ProviderG, route.Provider)

	creatorR := &domain.Creator{ProvRSubaccountCode: "SUB_123"}
	route, err = Pick(Request{Creator: creatorR})
	assert.NoError(t, err)
	assert.Equal(t, domain.ProviderR, route.Provider)
}

func TestPick_BothConnectedCrossBorderCountry(t *testing.T) {
	creator := bothConnectedCreator(domain.ProviderG)
	route, err := Pick(Request{Creator: creator, PayerCountry: "NG"})
	assert.NoError(t, err)
	assert.Equal(t, domain.ProviderR, route.Provider)
}

func TestPick_BothConnectedNonCrossBorder(t *testing.T) {
	creator := bothConnectedCreator(domain.ProviderR)
	route, err := Pick(Request{Creator: creator, PayerCountry: "US"})
	assert.NoError(t, err)
	assert.Equal(t, domain.ProviderG, route.Provider)
}

func TestPick_MissingCountryFallsBackToDefault(t *testing.T) {
	creator := bothConnectedCreator(domain.ProviderR)
	route, err := Pick(Request{Creator: creator})
	assert.NoError(t, err)
	assert.Equal(t, domain.ProviderR, route.Provider)
}

func TestPick_InvalidCountryFallsBackToDefault(t *testing.T) {
	creator := bothConnectedCreator(domain.ProviderG)
	route, err := Pick(Request{Creator: creator, PayerCountry: "not-a-country"})
	assert.NoError(t, err)
	assert.Equal(t, domain.ProviderG, route.Provider)
}

func TestPick_NoProviderConnected(t *testing.T) {
	_, err := Pick(Request{Creator: &domain.Creator{}})
	assert.Error(t, err)
}
