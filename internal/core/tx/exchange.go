package tx

import (
	"errors"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/ledger"
)

// mulFloorSat is MulFloor with saturation: caps derived from the
// "unbounded" sentinel overflow by construction and simply stay
// unbounded.
func mulFloorSat(a amount.Amount, n, d int32) (amount.Amount, Result) {
	v, err := amount.MulFloor(a, n, d)
	if err != nil {
		if errors.Is(err, amount.ErrAmountRange) {
			return maxAmount, OpSuccess
		}
		return 0, OpInternal
	}
	return v, OpSuccess
}

// takerOrder is an incoming order driven through the book: an offer
// being created, or one conversion hop of a path payment.
type takerOrder struct {
	account string
	selling asset.Asset
	buying  asset.Asset

	// sellLimit caps what the taker gives, buyLimit what it acquires.
	// Offers cap the sell side and leave the buy side open; receive-
	// driven path hops do the opposite.
	sellLimit amount.Amount
	buyLimit  amount.Amount

	// limit is the taker's worst acceptable price in buying per selling,
	// or nil to take any price (payments).
	limit   *amount.Price
	passive bool

	// offerID is recorded as the taker side of emitted trades;
	// ledger.SyntheticOfferID for payment-driven orders.
	offerID uint64

	// settle moves the taker's own balances for each fill. Path hops
	// leave it false: the conversion legs only touch maker balances,
	// and the payment endpoints settle once at the edges.
	settle bool
}

// crossOrders walks the opposing book side best-first, filling the
// taker against resting offers at each resting offer's price until a
// limit is reached, the prices no longer cross, or the book runs dry.
// Unfunded resting offers encountered on the way are removed.
//
// Execution price is always the maker's. Sub-unit rounding favors the
// maker on both legs: the maker's give is rounded down, the maker's
// take is rounded up.
func crossOrders(ctx *applyContext, ord takerOrder) (sold, bought amount.Amount, res Result) {
	st := ctx.state

	for {
		remainingSell := ord.sellLimit - sold
		remainingBuy := ord.buyLimit - bought
		if remainingSell <= 0 || remainingBuy <= 0 {
			break
		}

		best := st.Book().Best(ord.buying, ord.selling)
		if best == nil {
			break
		}
		if ord.limit != nil && !ord.limit.Crosses(best.Price, ord.passive) {
			break
		}

		// The maker gives best.Selling and takes best.Buying. Offers
		// that can no longer move in either direction are stale; drop
		// them and keep walking.
		makerGive := amount.Min(best.Amount, available(st, best.Seller, best.Selling))
		makerTakeCap := receiveCapacity(st, best.Seller, best.Buying)
		capByMakerTake, r := mulFloorSat(makerTakeCap, best.Price.D, best.Price.N)
		if !r.IsSuccess() {
			return sold, bought, r
		}
		if makerGive <= 0 || capByMakerTake <= 0 {
			st.Book().Remove(best.ID)
			continue
		}

		capBySell, r := mulFloorSat(remainingSell, best.Price.D, best.Price.N)
		if !r.IsSuccess() {
			return sold, bought, r
		}
		bExec := amount.Min(amount.Min(makerGive, capByMakerTake), amount.Min(remainingBuy, capBySell))
		if bExec <= 0 {
			// The taker's remaining budget does not buy a whole unit at
			// this price.
			break
		}

		sPaid, err := amount.MulCeil(bExec, best.Price.N, best.Price.D)
		if err != nil {
			return sold, bought, OpInternal
		}

		if ord.settle {
			if r := transfer(st, ord.account, best.Seller, ord.selling, sPaid); !r.IsSuccess() {
				return sold, bought, r
			}
			if r := transfer(st, best.Seller, ord.account, ord.buying, bExec); !r.IsSuccess() {
				return sold, bought, r
			}
		} else {
			if r := debit(st, best.Seller, best.Selling, bExec); !r.IsSuccess() {
				return sold, bought, r
			}
			if r := credit(st, best.Seller, best.Buying, sPaid); !r.IsSuccess() {
				return sold, bought, r
			}
		}

		st.Book().Consume(best.ID, bExec)
		ctx.trades = append(ctx.trades, ledger.Trade{
			LedgerSeq:    ctx.seq,
			Maker:        best.Seller,
			Taker:        ord.account,
			SoldAsset:    best.Selling,
			BoughtAsset:  best.Buying,
			AmountSold:   bExec,
			AmountBought: sPaid,
			MakerOfferID: best.ID,
			TakerOfferID: ord.offerID,
		})

		sold += sPaid
		bought += bExec
	}

	return sold, bought, OpSuccess
}
