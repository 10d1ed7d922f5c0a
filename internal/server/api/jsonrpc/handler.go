package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/book"
	"github.com/lumenforge/lumend/internal/core/ledger"
	"github.com/lumenforge/lumend/internal/core/tx"
	"github.com/lumenforge/lumend/internal/storage/historydb"
)

// Handler dispatches JSON-RPC methods against the engine and, when
// configured, the history database.
type Handler struct {
	engine  *tx.Engine
	history *historydb.Store // nil when history is disabled
}

// NewHandler returns a handler. history may be nil.
func NewHandler(engine *tx.Engine, history *historydb.Store) *Handler {
	return &Handler{engine: engine, history: history}
}

// rpcError is an application-level failure carrying a JSON-RPC code.
type rpcError struct {
	code    int
	message string
}

func (e *rpcError) Error() string { return e.message }

func invalidParams(format string, args ...interface{}) error {
	return &rpcError{code: codeInvalidParams, message: fmt.Sprintf(format, args...)}
}

// Handle runs one method and returns its result object.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	switch method {
	case "submit":
		return h.submit(params)
	case "close_ledger":
		return h.closeLedger()
	case "ledger_current":
		return map[string]uint32{"seq": h.engine.Seq()}, nil
	case "account_info":
		return h.accountInfo(params)
	case "book_offers":
		return h.bookOffers(params)
	case "account_offers":
		return h.accountOffers(params)
	case "trades":
		return h.trades(ctx, params)
	}
	return nil, &rpcError{code: codeMethodNotFound, message: fmt.Sprintf("unknown method %q", method)}
}

func (h *Handler) submit(params json.RawMessage) (interface{}, error) {
	var p struct {
		Source string            `json:"source"`
		Ops    []json.RawMessage `json:"ops"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams("submit: %v", err)
	}
	ops := make([]tx.Operation, 0, len(p.Ops))
	for i, raw := range p.Ops {
		op, err := decodeOperation(raw)
		if err != nil {
			return nil, invalidParams("submit: op %d: %v", i, err)
		}
		ops = append(ops, op)
	}
	if err := h.engine.SubmitOps(p.Source, ops...); err != nil {
		return nil, invalidParams("submit: %v", err)
	}
	return &SubmitResult{Queued: true, Pending: h.engine.PendingCount()}, nil
}

func (h *Handler) closeLedger() (interface{}, error) {
	res, err := h.engine.CloseLedger()
	if err != nil {
		return nil, &rpcError{code: codeInternalError, message: err.Error()}
	}
	return closeResultInfo(res), nil
}

func closeResultInfo(res *tx.CloseResult) *CloseResultInfo {
	out := &CloseResultInfo{Seq: res.Seq}
	for _, txRes := range res.Results {
		outcome := TxOutcome{Source: txRes.Source, Applied: txRes.Applied}
		for _, opRes := range txRes.Ops {
			o := OpOutcome{
				Kind:    opRes.Kind.String(),
				Result:  opRes.Result.String(),
				OfferID: opRes.OfferID,
			}
			if opRes.AmountSold > 0 {
				o.Sold = formatAmount(opRes.AmountSold)
			}
			if opRes.AmountBought > 0 {
				o.Bought = formatAmount(opRes.AmountBought)
			}
			if opRes.Delivered > 0 {
				o.Delivered = formatAmount(opRes.Delivered)
			}
			outcome.Ops = append(outcome.Ops, o)
		}
		out.Results = append(out.Results, outcome)
	}
	for _, t := range res.Trades {
		out.Trades = append(out.Trades, tradeInfo(t))
	}
	return out
}

func tradeInfo(t ledger.Trade) TradeInfo {
	return TradeInfo{
		CloseSeq:     t.LedgerSeq,
		Maker:        t.Maker,
		Taker:        t.Taker,
		SoldAsset:    t.SoldAsset.String(),
		BoughtAsset:  t.BoughtAsset.String(),
		AmountSold:   formatAmount(t.AmountSold),
		AmountBought: formatAmount(t.AmountBought),
		MakerOfferID: t.MakerOfferID,
		TakerOfferID: t.TakerOfferID,
	}
}

func (h *Handler) accountInfo(params json.RawMessage) (interface{}, error) {
	var p struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(params, &p); err != nil || p.Address == "" {
		return nil, invalidParams("account_info: address required")
	}

	var out *AccountInfoResult
	h.engine.View(func(st *ledger.State, _ uint32) {
		acc := st.Account(p.Address)
		if acc == nil {
			return
		}
		out = &AccountInfoResult{
			Address:    acc.Address,
			Balance:    formatAmount(acc.Balance),
			Sequence:   acc.Sequence,
			HomeDomain: acc.HomeDomain,
		}
		if acc.Flags.AuthRequired {
			out.Flags = append(out.Flags, "auth_required")
		}
		if acc.Flags.AuthRevocable {
			out.Flags = append(out.Flags, "auth_revocable")
		}
		if len(acc.Data) > 0 {
			out.Data = make(map[string]string, len(acc.Data))
			for k, v := range acc.Data {
				out.Data[k] = string(v)
			}
		}
		for _, line := range st.LinesOf(p.Address) {
			out.Lines = append(out.Lines, TrustLineInfo{
				Asset:      line.Asset.String(),
				Balance:    formatAmount(line.Balance),
				Limit:      formatAmount(line.Limit),
				Authorized: line.Authorized,
			})
		}
	})
	if out == nil {
		return nil, invalidParams("account_info: no account %q", p.Address)
	}
	return out, nil
}

func (h *Handler) bookOffers(params json.RawMessage) (interface{}, error) {
	var p struct {
		Selling string `json:"selling"`
		Buying  string `json:"buying"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams("book_offers: %v", err)
	}
	selling, err := asset.ParseAsset(p.Selling)
	if err != nil {
		return nil, invalidParams("book_offers: %v", err)
	}
	buying, err := asset.ParseAsset(p.Buying)
	if err != nil {
		return nil, invalidParams("book_offers: %v", err)
	}

	var out []OfferInfo
	h.engine.View(func(st *ledger.State, _ uint32) {
		for _, o := range st.Book().Offers(selling, buying) {
			out = append(out, offerInfo(o))
		}
	})
	return map[string]interface{}{"offers": out}, nil
}

func (h *Handler) accountOffers(params json.RawMessage) (interface{}, error) {
	var p struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(params, &p); err != nil || p.Address == "" {
		return nil, invalidParams("account_offers: address required")
	}
	var out []OfferInfo
	h.engine.View(func(st *ledger.State, _ uint32) {
		for _, o := range st.Book().BySeller(p.Address) {
			out = append(out, offerInfo(o))
		}
	})
	return map[string]interface{}{"offers": out}, nil
}

func offerInfo(o *book.Offer) OfferInfo {
	return OfferInfo{
		ID:      o.ID,
		Seller:  o.Seller,
		Selling: o.Selling.String(),
		Buying:  o.Buying.String(),
		Amount:  formatAmount(o.Amount),
		Price:   o.Price.String(),
		Passive: o.Passive,
	}
}

func (h *Handler) trades(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if h.history == nil {
		return nil, &rpcError{code: codeInternalError, message: "history database disabled"}
	}
	var p struct {
		Account string `json:"account"`
		Selling string `json:"selling"`
		Buying  string `json:"buying"`
		Limit   int    `json:"limit"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams("trades: %v", err)
	}

	var (
		records []historydb.TradeRecord
		err     error
	)
	switch {
	case p.Account != "":
		records, err = h.history.TradesForAccount(ctx, p.Account, p.Limit)
	case p.Selling != "" || p.Buying != "":
		selling, perr := asset.ParseAsset(p.Selling)
		if perr != nil {
			return nil, invalidParams("trades: %v", perr)
		}
		buying, perr := asset.ParseAsset(p.Buying)
		if perr != nil {
			return nil, invalidParams("trades: %v", perr)
		}
		records, err = h.history.TradesForPair(ctx, selling, buying, p.Limit)
	default:
		return nil, invalidParams("trades: account or pair required")
	}
	if err != nil {
		return nil, &rpcError{code: codeInternalError, message: err.Error()}
	}

	out := make([]TradeInfo, 0, len(records))
	for _, r := range records {
		out = append(out, TradeInfo{
			CloseSeq:     r.CloseSeq,
			Maker:        r.Maker,
			Taker:        r.Taker,
			SoldAsset:    r.SoldAsset,
			BoughtAsset:  r.BoughtAsset,
			AmountSold:   formatAmount(amount.Amount(r.AmountSold)),
			AmountBought: formatAmount(amount.Amount(r.AmountBought)),
			MakerOfferID: r.MakerOfferID,
			TakerOfferID: r.TakerOfferID,
		})
	}
	return map[string]interface{}{"trades": out}, nil
}
