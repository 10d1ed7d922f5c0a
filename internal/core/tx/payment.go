package tx

import (
	"errors"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
)

// Payment moves a single asset directly from the source to the
// destination, no conversion involved.
type Payment struct {
	BaseOp
	Destination string
	Asset       asset.Asset
	Amount      amount.Amount
}

func (op *Payment) Kind() OpKind { return KindPayment }

func (op *Payment) Validate() error {
	if op.Destination == "" {
		return errors.New("payment: missing destination")
	}
	if op.Amount <= 0 {
		return errors.New("payment: amount must be positive")
	}
	if err := op.Asset.Validate(); err != nil {
		return err
	}
	return nil
}

func (op *Payment) apply(ctx *applyContext) Result {
	src := ctx.opSource(op.BaseOp)
	st := ctx.state

	if st.Account(op.Destination) == nil {
		return OpNoDestination
	}
	if r := canHold(st, op.Destination, op.Asset); !r.IsSuccess() {
		return r
	}
	if op.Destination != src && receiveCapacity(st, op.Destination, op.Asset) < op.Amount {
		return OpLineFull
	}
	return transfer(st, src, op.Destination, op.Asset, op.Amount)
}
