package tx

import (
	"errors"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/ledger"
)

// CreateAccount funds a new account entry from the source's native
// balance.
type CreateAccount struct {
	BaseOp
	Destination     string
	StartingBalance amount.Amount
}

func (op *CreateAccount) Kind() OpKind { return KindCreateAccount }

func (op *CreateAccount) Validate() error {
	if op.Destination == "" {
		return errors.New("create_account: missing destination")
	}
	if op.StartingBalance <= 0 {
		return errors.New("create_account: starting balance must be positive")
	}
	return nil
}

func (op *CreateAccount) apply(ctx *applyContext) Result {
	src := ctx.opSource(op.BaseOp)
	st := ctx.state

	if src == op.Destination {
		return OpMalformed
	}
	if st.Account(op.Destination) != nil {
		return OpAccountExists
	}
	if r := debit(st, src, asset.Native(), op.StartingBalance); !r.IsSuccess() {
		return r
	}
	st.PutAccount(&ledger.Account{
		Address:    op.Destination,
		Balance:    op.StartingBalance,
		Thresholds: ledger.Thresholds{Master: 1},
	})
	return OpSuccess
}
