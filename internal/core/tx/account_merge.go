package tx

import (
	"errors"

	"github.com/lumenforge/lumend/internal/core/asset"
)

// AccountMerge transfers the source's remaining native balance to the
// destination and deletes the source account. The source must carry no
// obligations: no trustlines, no resting offers, no data entries, and
// no outstanding credit issued in its name.
type AccountMerge struct {
	BaseOp
	Destination string
}

func (op *AccountMerge) Kind() OpKind { return KindAccountMerge }

func (op *AccountMerge) Validate() error {
	if op.Destination == "" {
		return errors.New("account_merge: missing destination")
	}
	return nil
}

func (op *AccountMerge) apply(ctx *applyContext) Result {
	src := ctx.opSource(op.BaseOp)
	st := ctx.state

	if src == op.Destination {
		return OpMalformed
	}
	acc := st.Account(src)
	if acc == nil {
		return OpNoAccount
	}
	if st.Account(op.Destination) == nil {
		return OpNoDestination
	}

	if len(st.LinesOf(src)) > 0 || len(st.Book().BySeller(src)) > 0 || len(acc.Data) > 0 {
		return OpHasObligations
	}
	for _, line := range st.AllLines() {
		if line.Asset.Issuer == src && line.Balance > 0 {
			return OpHasObligations
		}
	}

	balance := acc.Balance
	if r := credit(st, op.Destination, asset.Native(), balance); !r.IsSuccess() {
		return r
	}
	st.DeleteAccount(src)
	return OpSuccess
}
