package tx

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/ledger"
)

// CloseHook observes a finished close. Hooks run in registration order
// after the state is committed; the state they receive is the committed
// post-close state and must be treated as read-only.
type CloseHook func(res *CloseResult, state *ledger.State) error

// Config seeds a fresh engine with its genesis root account.
type Config struct {
	RootAddress string
	RootBalance amount.Amount
}

// Engine queues submitted transactions and applies them in ledger
// closes. Each transaction runs against a deep clone of the committed
// state and commits by swapping the clone in, so a failed transaction
// leaves no trace beyond its consumed sequence number.
type Engine struct {
	mu      sync.Mutex
	state   *ledger.State
	seq     uint32
	pending []*Transaction
	hooks   []CloseHook
}

// New returns an engine over a genesis state.
func New(cfg Config) *Engine {
	return &Engine{
		state: ledger.Genesis(cfg.RootAddress, cfg.RootBalance),
		seq:   1,
	}
}

// NewWithState returns an engine resuming from a restored state at the
// given last-closed sequence.
func NewWithState(state *ledger.State, seq uint32) *Engine {
	return &Engine{state: state, seq: seq}
}

// RegisterCloseHook adds an observer called after every close.
func (e *Engine) RegisterCloseHook(h CloseHook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = append(e.hooks, h)
}

// Submit queues a transaction for the next close after stateless
// validation.
func (e *Engine) Submit(t *Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, t)
	return nil
}

// SubmitOps wraps the operations in a single transaction and queues it.
func (e *Engine) SubmitOps(source string, ops ...Operation) error {
	return e.Submit(&Transaction{Source: source, Ops: ops})
}

// Seq returns the sequence of the last closed ledger.
func (e *Engine) Seq() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// PendingCount returns the number of queued transactions.
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Snapshot returns a deep copy of the committed state.
func (e *Engine) Snapshot() *ledger.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// View runs fn with the committed state under the engine lock. fn must
// not mutate the state or retain it.
func (e *Engine) View(fn func(state *ledger.State, seq uint32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state, e.seq)
}

// CloseLedger drains the pending queue into a new ledger. Application
// order is a shuffle seeded by the closing sequence, so it is
// reproducible for a given queue but independent of submission order.
func (e *Engine) CloseLedger() (*CloseResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seq++
	res := &CloseResult{Seq: e.seq}

	txs := e.pending
	e.pending = nil
	rng := rand.New(rand.NewSource(int64(e.seq)))
	rng.Shuffle(len(txs), func(i, j int) {
		txs[i], txs[j] = txs[j], txs[i]
	})

	for _, t := range txs {
		txRes, trades, next := e.applyTx(t)
		res.Results = append(res.Results, txRes)
		if txRes.Applied {
			res.Trades = append(res.Trades, trades...)
			e.state = next
		}
	}

	for _, h := range e.hooks {
		if err := h(res, e.state); err != nil {
			return res, fmt.Errorf("close hook: %w", err)
		}
	}
	return res, nil
}

// applyTx runs one transaction against a clone of the committed state.
// It returns the result, the trades produced, and the clone to commit
// when the transaction applied. A failed transaction still consumes the
// source's sequence number.
func (e *Engine) applyTx(t *Transaction) (TxResult, []ledger.Trade, *ledger.State) {
	res := TxResult{Source: t.Source, Ops: make([]OpResult, len(t.Ops))}
	for i, op := range t.Ops {
		res.Ops[i] = OpResult{Kind: op.Kind(), Result: OpNotAttempted}
	}

	working := e.state.Clone()
	src := working.Account(t.Source)
	if src == nil {
		if len(res.Ops) > 0 {
			res.Ops[0].Result = OpNoAccount
		}
		return res, nil, nil
	}
	src.Sequence++

	ctx := &applyContext{state: working, seq: e.seq, source: t.Source}
	for i, op := range t.Ops {
		ctx.cur = &res.Ops[i]
		r := op.apply(ctx)
		res.Ops[i].Result = r
		if !r.IsSuccess() {
			// Atomicity: the clone is discarded, only the sequence bump
			// survives on the committed state.
			if acc := e.state.Account(t.Source); acc != nil {
				acc.Sequence++
			}
			return res, nil, nil
		}
	}

	res.Applied = true
	return res, ctx.trades, working
}
