// Package tx implements the transaction engine: the operation set, the
// matching and path-execution machinery, and the ledger close loop that
// applies pending transactions atomically.
package tx

import (
	"errors"
	"fmt"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/ledger"
)

// OpKind identifies an operation variant.
type OpKind int

const (
	KindCreateAccount OpKind = iota
	KindPayment
	KindPathPaymentStrictSend
	KindPathPaymentStrictReceive
	KindManageOffer
	KindCreatePassiveOffer
	KindChangeTrust
	KindAllowTrust
	KindSetOptions
	KindAccountMerge
	KindManageData
	KindInflation
)

var kindNames = map[OpKind]string{
	KindCreateAccount:            "create_account",
	KindPayment:                  "payment",
	KindPathPaymentStrictSend:    "path_payment_strict_send",
	KindPathPaymentStrictReceive: "path_payment_strict_receive",
	KindManageOffer:              "manage_offer",
	KindCreatePassiveOffer:       "create_passive_offer",
	KindChangeTrust:              "change_trust",
	KindAllowTrust:               "allow_trust",
	KindSetOptions:               "set_options",
	KindAccountMerge:             "account_merge",
	KindManageData:               "manage_data",
	KindInflation:                "inflation",
}

func (k OpKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Operation is one ledger mutation inside a transaction. Validate runs
// stateless checks at submission; apply runs against the transaction's
// working state during a close.
type Operation interface {
	Kind() OpKind
	Validate() error
	apply(ctx *applyContext) Result
}

// BaseOp carries the optional per-operation source override. When empty
// the transaction source is used.
type BaseOp struct {
	SourceAccount string
}

// Transaction is an ordered list of operations applied atomically: if
// any operation fails, none of them take effect.
type Transaction struct {
	Source string
	Ops    []Operation
}

// ErrEmptyTransaction is returned when submitting a transaction with no
// operations or no source.
var ErrEmptyTransaction = errors.New("transaction needs a source and at least one operation")

// Validate runs stateless checks on the transaction and every operation.
func (t *Transaction) Validate() error {
	if t.Source == "" || len(t.Ops) == 0 {
		return ErrEmptyTransaction
	}
	for i, op := range t.Ops {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind(), err)
		}
	}
	return nil
}

// OpResult is the outcome of one operation.
type OpResult struct {
	Kind   OpKind
	Result Result

	// OfferID is set for offer operations: the id assigned to the offer,
	// whether or not any remainder rested on the book.
	OfferID uint64

	// AmountSold and AmountBought summarize the crossing an offer or
	// path payment performed. Delivered is what the destination of a
	// payment actually received.
	AmountSold   amount.Amount
	AmountBought amount.Amount
	Delivered    amount.Amount
}

// TxResult is the outcome of one transaction within a close.
type TxResult struct {
	Source  string
	Applied bool
	Ops     []OpResult
}

// Err returns the first failing code, or OpSuccess.
func (r *TxResult) Err() Result {
	for _, op := range r.Ops {
		if !op.Result.IsSuccess() && op.Result != OpNotAttempted {
			return op.Result
		}
	}
	return OpSuccess
}

// CloseResult summarizes one ledger close: the per-transaction results
// in application order and every trade the close produced.
type CloseResult struct {
	Seq     uint32
	Results []TxResult
	Trades  []ledger.Trade
}

// applyContext is the per-transaction application scope: the working
// clone of the ledger state, the sequence of the closing ledger, and
// the trades accumulated so far.
type applyContext struct {
	state  *ledger.State
	seq    uint32
	source string // transaction source
	trades []ledger.Trade

	// cur is the result record of the operation being applied; ops
	// attach their payload (offer id, traded amounts) through it.
	cur *OpResult
}

// noteOffer records the id and crossing totals of an offer operation.
func (ctx *applyContext) noteOffer(id uint64, sold, bought amount.Amount) {
	if ctx.cur == nil {
		return
	}
	ctx.cur.OfferID = id
	ctx.cur.AmountSold = sold
	ctx.cur.AmountBought = bought
}

// noteDelivered records what a payment cost and delivered.
func (ctx *applyContext) noteDelivered(sold, delivered amount.Amount) {
	if ctx.cur == nil {
		return
	}
	ctx.cur.AmountSold = sold
	ctx.cur.Delivered = delivered
}

// opSource resolves the effective source of an operation.
func (ctx *applyContext) opSource(base BaseOp) string {
	if base.SourceAccount != "" {
		return base.SourceAccount
	}
	return ctx.source
}
