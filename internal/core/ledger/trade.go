package ledger

import (
	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
)

// SyntheticOfferID marks the taker side of a trade that was generated
// by a payment rather than a resting offer.
const SyntheticOfferID uint64 = 0

// Trade is one committed exchange between a resting offer (the maker)
// and an incoming order (the taker). AmountSold is what the maker gave
// (its selling asset) and AmountBought is what it received in return.
// The taker's numbers are the same two quantities viewed from the other
// side, so conservation holds per record.
type Trade struct {
	LedgerSeq uint32

	Maker        string
	Taker        string
	SoldAsset    asset.Asset
	BoughtAsset  asset.Asset
	AmountSold   amount.Amount
	AmountBought amount.Amount

	// MakerOfferID is the resting offer consumed. TakerOfferID is the
	// incoming offer's id, or SyntheticOfferID for payment-generated
	// crossing orders.
	MakerOfferID uint64
	TakerOfferID uint64
}
