package jsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/ledger"
	"github.com/lumenforge/lumend/internal/core/tx"
)

// parseAmount converts a decimal string from a request into base
// units, rejecting excess precision rather than truncating it.
func parseAmount(s string) (amount.Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("bad amount %q: %w", s, err)
	}
	scaled := d.Mul(decimal.New(1, 7))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than 7 decimal places", s)
	}
	v := scaled.BigInt()
	if !v.IsInt64() || v.Sign() < 0 {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	return amount.Amount(v.Int64()), nil
}

func formatAmount(a amount.Amount) string {
	return a.StringTrimmed()
}

// opEnvelope carries the discriminator; the full payload is decoded
// again into the per-type shape.
type opEnvelope struct {
	Type string `json:"type"`
}

type assetAmount struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

// decodeOperation converts one JSON operation object into an engine
// operation.
func decodeOperation(raw json.RawMessage) (tx.Operation, error) {
	var env opEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("bad operation: %w", err)
	}

	switch env.Type {
	case "create_account":
		var p struct {
			Source          string `json:"source"`
			Destination     string `json:"destination"`
			StartingBalance string `json:"starting_balance"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		bal, err := parseAmount(p.StartingBalance)
		if err != nil {
			return nil, err
		}
		return &tx.CreateAccount{
			BaseOp:          tx.BaseOp{SourceAccount: p.Source},
			Destination:     p.Destination,
			StartingBalance: bal,
		}, nil

	case "payment":
		var p struct {
			Source      string `json:"source"`
			Destination string `json:"destination"`
			Asset       string `json:"asset"`
			Amount      string `json:"amount"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		a, err := asset.ParseAsset(p.Asset)
		if err != nil {
			return nil, err
		}
		amt, err := parseAmount(p.Amount)
		if err != nil {
			return nil, err
		}
		return &tx.Payment{
			BaseOp:      tx.BaseOp{SourceAccount: p.Source},
			Destination: p.Destination,
			Asset:       a,
			Amount:      amt,
		}, nil

	case "path_payment_strict_send", "path_payment_strict_receive":
		var p struct {
			Source      string   `json:"source"`
			Destination string   `json:"destination"`
			SendAsset   string   `json:"send_asset"`
			SendAmount  string   `json:"send_amount"`
			SendMax     string   `json:"send_max"`
			DestAsset   string   `json:"dest_asset"`
			DestAmount  string   `json:"dest_amount"`
			DestMin     string   `json:"dest_min"`
			Path        []string `json:"path"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		sendAsset, err := asset.ParseAsset(p.SendAsset)
		if err != nil {
			return nil, err
		}
		destAsset, err := asset.ParseAsset(p.DestAsset)
		if err != nil {
			return nil, err
		}
		path := make([]asset.Asset, 0, len(p.Path))
		for _, s := range p.Path {
			a, err := asset.ParseAsset(s)
			if err != nil {
				return nil, err
			}
			path = append(path, a)
		}
		if env.Type == "path_payment_strict_send" {
			sendAmount, err := parseAmount(p.SendAmount)
			if err != nil {
				return nil, err
			}
			destMin, err := parseAmount(p.DestMin)
			if err != nil {
				return nil, err
			}
			return &tx.PathPaymentStrictSend{
				BaseOp:      tx.BaseOp{SourceAccount: p.Source},
				Destination: p.Destination,
				SendAsset:   sendAsset,
				SendAmount:  sendAmount,
				DestAsset:   destAsset,
				DestMin:     destMin,
				Path:        path,
			}, nil
		}
		sendMax, err := parseAmount(p.SendMax)
		if err != nil {
			return nil, err
		}
		destAmount, err := parseAmount(p.DestAmount)
		if err != nil {
			return nil, err
		}
		return &tx.PathPaymentStrictReceive{
			BaseOp:      tx.BaseOp{SourceAccount: p.Source},
			Destination: p.Destination,
			SendAsset:   sendAsset,
			SendMax:     sendMax,
			DestAsset:   destAsset,
			DestAmount:  destAmount,
			Path:        path,
		}, nil

	case "manage_offer", "create_passive_offer":
		var p struct {
			Source  string `json:"source"`
			Selling string `json:"selling"`
			Buying  string `json:"buying"`
			Amount  string `json:"amount"`
			Price   string `json:"price"`
			OfferID uint64 `json:"offer_id"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		selling, err := asset.ParseAsset(p.Selling)
		if err != nil {
			return nil, err
		}
		buying, err := asset.ParseAsset(p.Buying)
		if err != nil {
			return nil, err
		}
		var amt amount.Amount
		if p.Amount != "" && p.Amount != "0" {
			if amt, err = parseAmount(p.Amount); err != nil {
				return nil, err
			}
		}
		var price amount.Price
		if p.Price != "" {
			if price, err = amount.ParsePrice(p.Price); err != nil {
				return nil, err
			}
		}
		if env.Type == "create_passive_offer" {
			return &tx.CreatePassiveOffer{
				BaseOp:  tx.BaseOp{SourceAccount: p.Source},
				Selling: selling,
				Buying:  buying,
				Amount:  amt,
				Price:   price,
			}, nil
		}
		return &tx.ManageOffer{
			BaseOp:  tx.BaseOp{SourceAccount: p.Source},
			Selling: selling,
			Buying:  buying,
			Amount:  amt,
			Price:   price,
			OfferID: p.OfferID,
		}, nil

	case "change_trust":
		var p struct {
			Source string `json:"source"`
			Asset  string `json:"asset"`
			Limit  string `json:"limit"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		a, err := asset.ParseAsset(p.Asset)
		if err != nil {
			return nil, err
		}
		limit, err := parseAmount(p.Limit)
		if err != nil {
			return nil, err
		}
		return &tx.ChangeTrust{
			BaseOp: tx.BaseOp{SourceAccount: p.Source},
			Asset:  a,
			Limit:  limit,
		}, nil

	case "allow_trust":
		var p struct {
			Source    string `json:"source"`
			Trustor   string `json:"trustor"`
			AssetCode string `json:"asset_code"`
			Authorize bool   `json:"authorize"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &tx.AllowTrust{
			BaseOp:    tx.BaseOp{SourceAccount: p.Source},
			Trustor:   p.Trustor,
			AssetCode: p.AssetCode,
			Authorize: p.Authorize,
		}, nil

	case "set_options":
		var p struct {
			Source          string  `json:"source"`
			HomeDomain      *string `json:"home_domain"`
			MasterWeight    *uint8  `json:"master_weight"`
			LowThreshold    *uint8  `json:"low_threshold"`
			MediumThreshold *uint8  `json:"medium_threshold"`
			HighThreshold   *uint8  `json:"high_threshold"`
			SetFlags        uint32  `json:"set_flags"`
			ClearFlags      uint32  `json:"clear_flags"`
			SignerKey       string  `json:"signer_key"`
			SignerWeight    uint8   `json:"signer_weight"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		op := &tx.SetOptions{
			BaseOp:          tx.BaseOp{SourceAccount: p.Source},
			HomeDomain:      p.HomeDomain,
			MasterWeight:    p.MasterWeight,
			LowThreshold:    p.LowThreshold,
			MediumThreshold: p.MediumThreshold,
			HighThreshold:   p.HighThreshold,
			SetFlags:        p.SetFlags,
			ClearFlags:      p.ClearFlags,
		}
		if p.SignerKey != "" {
			op.Signer = &ledger.Signer{Key: p.SignerKey, Weight: p.SignerWeight}
		}
		return op, nil

	case "account_merge":
		var p struct {
			Source      string `json:"source"`
			Destination string `json:"destination"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &tx.AccountMerge{
			BaseOp:      tx.BaseOp{SourceAccount: p.Source},
			Destination: p.Destination,
		}, nil

	case "manage_data":
		var p struct {
			Source string  `json:"source"`
			Name   string  `json:"name"`
			Value  *string `json:"value"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		op := &tx.ManageData{
			BaseOp: tx.BaseOp{SourceAccount: p.Source},
			Name:   p.Name,
		}
		if p.Value != nil {
			op.Value = []byte(*p.Value)
		}
		return op, nil

	case "inflation":
		var p struct {
			Source string `json:"source"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &tx.Inflation{BaseOp: tx.BaseOp{SourceAccount: p.Source}}, nil
	}

	return nil, fmt.Errorf("unknown operation type %q", env.Type)
}
