package tx

import (
	"errors"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/ledger"
)

// ChangeTrust creates, adjusts, or deletes the source's trustline for
// an issued asset. Limit zero deletes the line, which requires a zero
// balance. Re-running the same ChangeTrust is idempotent.
type ChangeTrust struct {
	BaseOp
	Asset asset.Asset
	Limit amount.Amount
}

func (op *ChangeTrust) Kind() OpKind { return KindChangeTrust }

func (op *ChangeTrust) Validate() error {
	if op.Asset.IsNative() {
		return errors.New("change_trust: native needs no trustline")
	}
	if op.Limit < 0 {
		return errors.New("change_trust: negative limit")
	}
	return op.Asset.Validate()
}

func (op *ChangeTrust) apply(ctx *applyContext) Result {
	src := ctx.opSource(op.BaseOp)
	st := ctx.state

	if src == op.Asset.Issuer {
		return OpMalformed
	}
	issuer := st.Account(op.Asset.Issuer)
	if issuer == nil {
		return OpNoAccount
	}

	line := st.TrustLine(src, op.Asset)
	if line == nil {
		if op.Limit == 0 {
			// Deleting a line that does not exist changes nothing.
			return OpSuccess
		}
		st.PutTrustLine(&ledger.TrustLine{
			Account:    src,
			Asset:      op.Asset,
			Limit:      op.Limit,
			Authorized: !issuer.Flags.AuthRequired,
		})
		return OpSuccess
	}

	if op.Limit < line.Balance {
		return OpLimitBelowBalance
	}
	if op.Limit == 0 {
		st.DeleteTrustLine(src, op.Asset)
		return OpSuccess
	}
	line.Limit = op.Limit
	return OpSuccess
}
