// Package testing provides a ledger test environment for transaction
// tests: a funded genesis engine, fluent submission helpers, and state
// assertions. Import it as jtx.
package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/book"
	"github.com/lumenforge/lumend/internal/core/ledger"
	"github.com/lumenforge/lumend/internal/core/tx"
)

// Master is the genesis account every test environment starts with.
const Master = "master"

// TestEnv wraps an engine for transaction tests.
type TestEnv struct {
	t      *testing.T
	engine *tx.Engine
}

// NewTestEnv returns an environment whose genesis holds one master
// account with a large native balance.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	engine := tx.New(tx.Config{
		RootAddress: Master,
		RootBalance: amount.MustParse("1000000000"),
	})
	return &TestEnv{t: t, engine: engine}
}

// Engine exposes the underlying engine.
func (e *TestEnv) Engine() *tx.Engine {
	return e.engine
}

// Close closes a ledger over the queued transactions.
func (e *TestEnv) Close() *tx.CloseResult {
	e.t.Helper()
	res, err := e.engine.CloseLedger()
	require.NoError(e.t, err)
	return res
}

// Submit queues one transaction.
func (e *TestEnv) Submit(source string, ops ...tx.Operation) {
	e.t.Helper()
	require.NoError(e.t, e.engine.SubmitOps(source, ops...))
}

// Apply submits a single transaction, closes a ledger, and returns the
// transaction's result.
func (e *TestEnv) Apply(source string, ops ...tx.Operation) tx.TxResult {
	e.t.Helper()
	require.Zero(e.t, e.engine.PendingCount(), "queue must be empty for Apply")
	e.Submit(source, ops...)
	res := e.Close()
	require.Len(e.t, res.Results, 1)
	return res.Results[0]
}

// Fund creates an account from the master with the given native
// balance and requires success.
func (e *TestEnv) Fund(name, balance string) {
	e.t.Helper()
	res := e.Apply(Master, &tx.CreateAccount{
		Destination:     name,
		StartingBalance: amount.MustParse(balance),
	})
	RequireTxSuccess(e.t, res)
}

// Trust opens (or adjusts) a trustline and requires success.
func (e *TestEnv) Trust(account string, a asset.Asset, limit string) {
	e.t.Helper()
	res := e.Apply(account, &tx.ChangeTrust{Asset: a, Limit: amount.MustParse(limit)})
	RequireTxSuccess(e.t, res)
}

// Pay makes a direct payment and requires success.
func (e *TestEnv) Pay(from, to string, a asset.Asset, amt string) {
	e.t.Helper()
	res := e.Apply(from, &tx.Payment{Destination: to, Asset: a, Amount: amount.MustParse(amt)})
	RequireTxSuccess(e.t, res)
}

// Authorize flips a trustor's authorization on the issuer's credit and
// requires success.
func (e *TestEnv) Authorize(issuer, trustor, code string, authorize bool) {
	e.t.Helper()
	res := e.Apply(issuer, &tx.AllowTrust{Trustor: trustor, AssetCode: code, Authorize: authorize})
	RequireTxSuccess(e.t, res)
}

// Balance returns the native balance of an account, or zero when the
// account does not exist.
func (e *TestEnv) Balance(account string) amount.Amount {
	var out amount.Amount
	e.engine.View(func(st *ledger.State, _ uint32) {
		if acc := st.Account(account); acc != nil {
			out = acc.Balance
		}
	})
	return out
}

// LineBalance returns the trustline balance of (account, asset), or
// zero when no line exists.
func (e *TestEnv) LineBalance(account string, a asset.Asset) amount.Amount {
	var out amount.Amount
	e.engine.View(func(st *ledger.State, _ uint32) {
		if line := st.TrustLine(account, a); line != nil {
			out = line.Balance
		}
	})
	return out
}

// Line returns a copy of the trustline, or nil.
func (e *TestEnv) Line(account string, a asset.Asset) *ledger.TrustLine {
	var out *ledger.TrustLine
	e.engine.View(func(st *ledger.State, _ uint32) {
		if line := st.TrustLine(account, a); line != nil {
			out = line.Clone()
		}
	})
	return out
}

// Account returns a copy of the account entry, or nil.
func (e *TestEnv) Account(account string) *ledger.Account {
	var out *ledger.Account
	e.engine.View(func(st *ledger.State, _ uint32) {
		if acc := st.Account(account); acc != nil {
			out = acc.Clone()
		}
	})
	return out
}

// Offers returns the resting offers owned by an account, in id order.
func (e *TestEnv) Offers(account string) []*book.Offer {
	var out []*book.Offer
	e.engine.View(func(st *ledger.State, _ uint32) {
		for _, o := range st.Book().BySeller(account) {
			out = append(out, o.Clone())
		}
	})
	return out
}

// BookOffers returns the resting offers of a directed pair, best
// first.
func (e *TestEnv) BookOffers(selling, buying asset.Asset) []*book.Offer {
	var out []*book.Offer
	e.engine.View(func(st *ledger.State, _ uint32) {
		for _, o := range st.Book().Offers(selling, buying) {
			out = append(out, o.Clone())
		}
	})
	return out
}
