package tx

import (
	"errors"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/book"
)

// ManageOffer creates, updates, or deletes an offer. OfferID zero
// creates a new offer; a non-zero OfferID replaces that offer, and
// Amount zero deletes it. A replaced offer keeps its id, so at an
// equal price it also keeps its original time priority.
type ManageOffer struct {
	BaseOp
	Selling asset.Asset
	Buying  asset.Asset
	Amount  amount.Amount
	Price   amount.Price
	OfferID uint64
}

func (op *ManageOffer) Kind() OpKind { return KindManageOffer }

func (op *ManageOffer) Validate() error {
	if op.Amount == 0 && op.OfferID == 0 {
		return errors.New("manage_offer: nothing to create or delete")
	}
	return validateOfferShape(op.Selling, op.Buying, op.Amount, op.Price, op.Amount == 0)
}

func (op *ManageOffer) apply(ctx *applyContext) Result {
	return applyOffer(ctx, ctx.opSource(op.BaseOp), op.Selling, op.Buying, op.Amount, op.Price, false, op.OfferID)
}

// CreatePassiveOffer creates an offer that does not consume counter-
// offers at its own price on creation; it still crosses strictly
// better-priced ones, and once resting it fills like any other offer.
type CreatePassiveOffer struct {
	BaseOp
	Selling asset.Asset
	Buying  asset.Asset
	Amount  amount.Amount
	Price   amount.Price
}

func (op *CreatePassiveOffer) Kind() OpKind { return KindCreatePassiveOffer }

func (op *CreatePassiveOffer) Validate() error {
	return validateOfferShape(op.Selling, op.Buying, op.Amount, op.Price, false)
}

func (op *CreatePassiveOffer) apply(ctx *applyContext) Result {
	return applyOffer(ctx, ctx.opSource(op.BaseOp), op.Selling, op.Buying, op.Amount, op.Price, true, 0)
}

func validateOfferShape(selling, buying asset.Asset, amt amount.Amount, price amount.Price, deleting bool) error {
	if err := selling.Validate(); err != nil {
		return err
	}
	if err := buying.Validate(); err != nil {
		return err
	}
	if selling == buying {
		return book.ErrInvalidOffer
	}
	if amt < 0 || (amt == 0 && !deleting) {
		return errors.New("offer amount must be positive")
	}
	if !deleting && !price.Valid() {
		return amount.ErrBadPrice
	}
	return nil
}

// applyOffer is the shared path of ManageOffer and CreatePassiveOffer:
// resolve any existing offer, cross the incoming order against the
// opposing book side, and rest the remainder.
func applyOffer(ctx *applyContext, src string, selling, buying asset.Asset, amt amount.Amount, price amount.Price, passive bool, offerID uint64) Result {
	st := ctx.state

	id := offerID
	if offerID != 0 {
		existing := st.Book().Get(offerID)
		if existing == nil || existing.Seller != src {
			return OpOfferNotFound
		}
		st.Book().Remove(offerID)
		if amt == 0 {
			ctx.noteOffer(offerID, 0, 0)
			return OpSuccess
		}
	} else {
		id = st.NextOfferID()
	}

	if selling == buying || !price.Valid() || amt <= 0 {
		return OpInvalidOffer
	}
	if r := canHold(st, src, buying); !r.IsSuccess() {
		return r
	}
	if r := canHold(st, src, selling); !r.IsSuccess() {
		return r
	}
	avail := available(st, src, selling)
	if avail <= 0 {
		return OpUnderfunded
	}
	buyCap := receiveCapacity(st, src, buying)
	if buyCap <= 0 {
		return OpLineFull
	}

	// An offer is never larger than what the account can actually
	// deliver at creation time, and its fills never exceed what the
	// buying line can still absorb.
	sellCap := amount.Min(amt, avail)

	sold, bought, r := crossOrders(ctx, takerOrder{
		account:   src,
		selling:   selling,
		buying:    buying,
		sellLimit: sellCap,
		buyLimit:  buyCap,
		limit:     &price,
		passive:   passive,
		offerID:   id,
		settle:    true,
	})
	if !r.IsSuccess() {
		return r
	}

	if remainder := sellCap - sold; remainder > 0 {
		if err := st.Book().Insert(&book.Offer{
			ID:      id,
			Seller:  src,
			Selling: selling,
			Buying:  buying,
			Amount:  remainder,
			Price:   price,
			Passive: passive,
		}); err != nil {
			return OpInvalidOffer
		}
	}

	ctx.noteOffer(id, sold, bought)
	return OpSuccess
}
