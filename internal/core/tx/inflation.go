package tx

// Inflation is retained for compatibility with historic transaction
// sets. It validates, applies successfully, and changes nothing.
type Inflation struct {
	BaseOp
}

func (op *Inflation) Kind() OpKind { return KindInflation }

func (op *Inflation) Validate() error { return nil }

func (op *Inflation) apply(ctx *applyContext) Result {
	if ctx.state.Account(ctx.opSource(op.BaseOp)) == nil {
		return OpNoAccount
	}
	return OpSuccess
}
