package tx

import (
	"errors"

	"github.com/lumenforge/lumend/internal/core/ledger"
)

// Account flag bits for SetOptions.
const (
	FlagAuthRequired uint32 = 1 << iota
	FlagAuthRevocable
)

const flagsAll = FlagAuthRequired | FlagAuthRevocable

// SetOptions adjusts account-level settings. Every field is optional;
// nil or zero fields leave the current value untouched. A Signer with
// weight zero removes that key from the signer set.
type SetOptions struct {
	BaseOp
	HomeDomain      *string
	MasterWeight    *uint8
	LowThreshold    *uint8
	MediumThreshold *uint8
	HighThreshold   *uint8
	SetFlags        uint32
	ClearFlags      uint32
	Signer          *ledger.Signer
}

func (op *SetOptions) Kind() OpKind { return KindSetOptions }

func (op *SetOptions) Validate() error {
	if op.SetFlags&^flagsAll != 0 || op.ClearFlags&^flagsAll != 0 {
		return errors.New("set_options: unknown flag bits")
	}
	if op.SetFlags&op.ClearFlags != 0 {
		return errors.New("set_options: flag both set and cleared")
	}
	if op.HomeDomain != nil && len(*op.HomeDomain) > 32 {
		return errors.New("set_options: home domain too long")
	}
	if op.Signer != nil && op.Signer.Key == "" {
		return errors.New("set_options: signer needs a key")
	}
	return nil
}

func (op *SetOptions) apply(ctx *applyContext) Result {
	acc := ctx.state.Account(ctx.opSource(op.BaseOp))
	if acc == nil {
		return OpNoAccount
	}

	if op.SetFlags&FlagAuthRequired != 0 {
		acc.Flags.AuthRequired = true
	}
	if op.SetFlags&FlagAuthRevocable != 0 {
		acc.Flags.AuthRevocable = true
	}
	if op.ClearFlags&FlagAuthRequired != 0 {
		acc.Flags.AuthRequired = false
	}
	if op.ClearFlags&FlagAuthRevocable != 0 {
		acc.Flags.AuthRevocable = false
	}

	if op.HomeDomain != nil {
		acc.HomeDomain = *op.HomeDomain
	}
	if op.MasterWeight != nil {
		acc.Thresholds.Master = *op.MasterWeight
	}
	if op.LowThreshold != nil {
		acc.Thresholds.Low = *op.LowThreshold
	}
	if op.MediumThreshold != nil {
		acc.Thresholds.Medium = *op.MediumThreshold
	}
	if op.HighThreshold != nil {
		acc.Thresholds.High = *op.HighThreshold
	}

	if op.Signer != nil {
		setSigner(acc, *op.Signer)
	}
	return OpSuccess
}

// setSigner updates the signer set in place: weight zero removes the
// key, anything else inserts or rewrites it.
func setSigner(acc *ledger.Account, s ledger.Signer) {
	for i, cur := range acc.Signers {
		if cur.Key == s.Key {
			if s.Weight == 0 {
				acc.Signers = append(acc.Signers[:i], acc.Signers[i+1:]...)
			} else {
				acc.Signers[i].Weight = s.Weight
			}
			return
		}
	}
	if s.Weight != 0 {
		acc.Signers = append(acc.Signers, s)
	}
}
