package jsonrpc

import "encoding/json"

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      interface{}     `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Standard JSON-RPC error codes plus the application range.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// AccountInfoResult is the response of account_info.
type AccountInfoResult struct {
	Address    string            `json:"address"`
	Balance    string            `json:"balance"`
	Sequence   uint64            `json:"sequence"`
	HomeDomain string            `json:"home_domain,omitempty"`
	Flags      []string          `json:"flags,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	Lines      []TrustLineInfo   `json:"lines,omitempty"`
}

// TrustLineInfo is one trustline in account_info.
type TrustLineInfo struct {
	Asset      string `json:"asset"`
	Balance    string `json:"balance"`
	Limit      string `json:"limit"`
	Authorized bool   `json:"authorized"`
}

// OfferInfo is one resting offer in book_offers or account_offers.
type OfferInfo struct {
	ID      uint64 `json:"id"`
	Seller  string `json:"seller"`
	Selling string `json:"selling"`
	Buying  string `json:"buying"`
	Amount  string `json:"amount"`
	Price   string `json:"price"`
	Passive bool   `json:"passive,omitempty"`
}

// SubmitResult is the response of submit.
type SubmitResult struct {
	Queued  bool `json:"queued"`
	Pending int  `json:"pending"`
}

// CloseResultInfo is the response of close_ledger.
type CloseResultInfo struct {
	Seq     uint32      `json:"seq"`
	Results []TxOutcome `json:"results"`
	Trades  []TradeInfo `json:"trades,omitempty"`
}

// TxOutcome summarizes one transaction of a close.
type TxOutcome struct {
	Source  string      `json:"source"`
	Applied bool        `json:"applied"`
	Ops     []OpOutcome `json:"ops"`
}

// OpOutcome summarizes one operation result.
type OpOutcome struct {
	Kind      string `json:"kind"`
	Result    string `json:"result"`
	OfferID   uint64 `json:"offer_id,omitempty"`
	Sold      string `json:"sold,omitempty"`
	Bought    string `json:"bought,omitempty"`
	Delivered string `json:"delivered,omitempty"`
}

// TradeInfo is one trade, live or historical.
type TradeInfo struct {
	CloseSeq     uint32 `json:"close_seq"`
	Maker        string `json:"maker"`
	Taker        string `json:"taker"`
	SoldAsset    string `json:"sold_asset"`
	BoughtAsset  string `json:"bought_asset"`
	AmountSold   string `json:"amount_sold"`
	AmountBought string `json:"amount_bought"`
	MakerOfferID uint64 `json:"maker_offer_id"`
	TakerOfferID uint64 `json:"taker_offer_id"`
}
