package testing

import (
	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
)

// Amt parses a decimal amount literal.
func Amt(s string) amount.Amount {
	return amount.MustParse(s)
}

// Price parses a decimal price literal.
func Price(s string) amount.Price {
	p, err := amount.ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// USD returns the USD credit of an issuer.
func USD(issuer string) asset.Asset {
	return asset.Credit("USD", issuer)
}

// EUR returns the EUR credit of an issuer.
func EUR(issuer string) asset.Asset {
	return asset.Credit("EUR", issuer)
}

// BTC returns the BTC credit of an issuer.
func BTC(issuer string) asset.Asset {
	return asset.Credit("BTC", issuer)
}

// Native returns the native asset.
func Native() asset.Asset {
	return asset.Native()
}
