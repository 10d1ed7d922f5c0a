// Package offer holds order-book and offer-crossing tests.
package offer

import (
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/tx"
	jtx "github.com/lumenforge/lumend/internal/testing"
)

// Create builds a ManageOffer creating a new offer.
func Create(selling, buying asset.Asset, amt, price string) *tx.ManageOffer {
	return &tx.ManageOffer{
		Selling: selling,
		Buying:  buying,
		Amount:  jtx.Amt(amt),
		Price:   jtx.Price(price),
	}
}

// Update builds a ManageOffer replacing an existing offer.
func Update(id uint64, selling, buying asset.Asset, amt, price string) *tx.ManageOffer {
	op := Create(selling, buying, amt, price)
	op.OfferID = id
	return op
}

// Cancel builds a ManageOffer deleting an offer.
func Cancel(id uint64, selling, buying asset.Asset) *tx.ManageOffer {
	return &tx.ManageOffer{
		Selling: selling,
		Buying:  buying,
		OfferID: id,
	}
}

// CreatePassive builds a CreatePassiveOffer.
func CreatePassive(selling, buying asset.Asset, amt, price string) *tx.CreatePassiveOffer {
	return &tx.CreatePassiveOffer{
		Selling: selling,
		Buying:  buying,
		Amount:  jtx.Amt(amt),
		Price:   jtx.Price(price),
	}
}
