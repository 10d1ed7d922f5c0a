package tx

import (
	"errors"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
)

// PathPaymentStrictSend sends a fixed amount of SendAsset and delivers
// whatever DestAsset the conversion path yields, which must be at least
// DestMin.
type PathPaymentStrictSend struct {
	BaseOp
	Destination string
	SendAsset   asset.Asset
	SendAmount  amount.Amount
	DestAsset   asset.Asset
	DestMin     amount.Amount
	Path        []asset.Asset
}

func (op *PathPaymentStrictSend) Kind() OpKind { return KindPathPaymentStrictSend }

func (op *PathPaymentStrictSend) Validate() error {
	if op.Destination == "" {
		return errors.New("path_payment_strict_send: missing destination")
	}
	if op.SendAmount <= 0 || op.DestMin < 0 {
		return errors.New("path_payment_strict_send: bad amounts")
	}
	if err := op.SendAsset.Validate(); err != nil {
		return err
	}
	if err := op.DestAsset.Validate(); err != nil {
		return err
	}
	for _, a := range op.Path {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (op *PathPaymentStrictSend) apply(ctx *applyContext) Result {
	if len(op.Path) > MaxPathHops {
		return OpPathTooLong
	}
	src := ctx.opSource(op.BaseOp)
	delivered, r := executeStrictSend(ctx, src, op.Destination,
		op.SendAsset, op.SendAmount, op.DestAsset, op.DestMin, op.Path)
	if !r.IsSuccess() {
		return r
	}
	ctx.noteDelivered(op.SendAmount, delivered)
	return OpSuccess
}

// PathPaymentStrictReceive delivers a fixed amount of DestAsset and
// spends whatever SendAsset the conversion path costs, which must not
// exceed SendMax.
type PathPaymentStrictReceive struct {
	BaseOp
	Destination string
	SendAsset   asset.Asset
	SendMax     amount.Amount
	DestAsset   asset.Asset
	DestAmount  amount.Amount
	Path        []asset.Asset
}

func (op *PathPaymentStrictReceive) Kind() OpKind { return KindPathPaymentStrictReceive }

func (op *PathPaymentStrictReceive) Validate() error {
	if op.Destination == "" {
		return errors.New("path_payment_strict_receive: missing destination")
	}
	if op.DestAmount <= 0 || op.SendMax <= 0 {
		return errors.New("path_payment_strict_receive: bad amounts")
	}
	if err := op.SendAsset.Validate(); err != nil {
		return err
	}
	if err := op.DestAsset.Validate(); err != nil {
		return err
	}
	for _, a := range op.Path {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (op *PathPaymentStrictReceive) apply(ctx *applyContext) Result {
	if len(op.Path) > MaxPathHops {
		return OpPathTooLong
	}
	src := ctx.opSource(op.BaseOp)
	paid, r := executeStrictReceive(ctx, src, op.Destination,
		op.SendAsset, op.SendMax, op.DestAsset, op.DestAmount, op.Path)
	if !r.IsSuccess() {
		return r
	}
	ctx.noteDelivered(paid, op.DestAmount)
	return OpSuccess
}
