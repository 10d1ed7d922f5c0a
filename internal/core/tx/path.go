package tx

import (
	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/ledger"
)

// MaxPathHops caps the number of intermediate assets in a path payment.
const MaxPathHops = 5

// conversionChain lists the assets a payment flows through, endpoints
// included, with consecutive duplicates collapsed. A single-element
// chain means no conversion at all.
func conversionChain(send asset.Asset, path []asset.Asset, dest asset.Asset) []asset.Asset {
	chain := make([]asset.Asset, 0, len(path)+2)
	chain = append(chain, send)
	for _, a := range path {
		if a != chain[len(chain)-1] {
			chain = append(chain, a)
		}
	}
	if dest != chain[len(chain)-1] {
		chain = append(chain, dest)
	}
	return chain
}

// executeStrictSend pushes exactly sendAmount of sendAsset through the
// books hop by hop and delivers whatever comes out the far end, failing
// if the books cannot absorb the full send or the delivery undershoots
// destMin.
//
// Intermediate conversions only move maker balances; the source is
// debited once for sendAsset and the destination credited once for
// destAsset, so no account ever holds a transient intermediate balance.
func executeStrictSend(ctx *applyContext, source, dest string, sendAsset asset.Asset, sendAmount amount.Amount, destAsset asset.Asset, destMin amount.Amount, path []asset.Asset) (amount.Amount, Result) {
	st := ctx.state
	if st.Account(dest) == nil {
		return 0, OpNoDestination
	}
	if r := canHold(st, dest, destAsset); !r.IsSuccess() {
		return 0, r
	}
	if r := debit(st, source, sendAsset, sendAmount); !r.IsSuccess() {
		return 0, r
	}

	chain := conversionChain(sendAsset, path, destAsset)
	cur := sendAmount
	for i := 1; i < len(chain); i++ {
		sold, bought, r := crossOrders(ctx, takerOrder{
			account:   source,
			selling:   chain[i-1],
			buying:    chain[i],
			sellLimit: cur,
			buyLimit:  maxAmount,
			offerID:   ledger.SyntheticOfferID,
		})
		if !r.IsSuccess() {
			return 0, r
		}
		if sold < cur {
			return 0, OpInsufficientLiquidity
		}
		cur = bought
	}

	if cur < destMin {
		return 0, OpTooFewDestAssets
	}
	if r := credit(st, dest, destAsset, cur); !r.IsSuccess() {
		return 0, r
	}
	return cur, OpSuccess
}

// executeStrictReceive works the chain backwards: it buys exactly the
// amount each hop must deliver, discovering the source cost last, and
// fails if that cost exceeds sendMax. Returns what the source paid.
func executeStrictReceive(ctx *applyContext, source, dest string, sendAsset asset.Asset, sendMax amount.Amount, destAsset asset.Asset, destAmount amount.Amount, path []asset.Asset) (amount.Amount, Result) {
	st := ctx.state
	if st.Account(dest) == nil {
		return 0, OpNoDestination
	}
	if r := canHold(st, dest, destAsset); !r.IsSuccess() {
		return 0, r
	}

	chain := conversionChain(sendAsset, path, destAsset)
	need := destAmount
	for i := len(chain) - 1; i >= 1; i-- {
		sold, bought, r := crossOrders(ctx, takerOrder{
			account:   source,
			selling:   chain[i-1],
			buying:    chain[i],
			sellLimit: maxAmount,
			buyLimit:  need,
			offerID:   ledger.SyntheticOfferID,
		})
		if !r.IsSuccess() {
			return 0, r
		}
		if bought < need {
			return 0, OpInsufficientLiquidity
		}
		need = sold
	}

	if need > sendMax {
		return 0, OpTooMuchSourceAssets
	}
	if r := debit(st, source, sendAsset, need); !r.IsSuccess() {
		return 0, r
	}
	if r := credit(st, dest, destAsset, destAmount); !r.IsSuccess() {
		return 0, r
	}
	return need, OpSuccess
}
