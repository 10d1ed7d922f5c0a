// Package ledger holds the mutable ledger state the engine applies
// operations against: accounts, trustlines, and the order book, plus
// the committed trade history of each close.
package ledger

import (
	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
)

// Signer is one entry of an account's signer set.
type Signer struct {
	Key    string
	Weight uint8
}

// Thresholds are the master weight plus the low/medium/high operation
// thresholds.
type Thresholds struct {
	Master uint8
	Low    uint8
	Medium uint8
	High   uint8
}

// AccountFlags gate issuance behavior for the account's credits.
type AccountFlags struct {
	// AuthRequired means trustlines to this issuer start unauthorized.
	AuthRequired bool
	// AuthRevocable allows the issuer to revoke a granted authorization.
	AuthRevocable bool
}

// Account is one ledger account entry.
type Account struct {
	Address    string
	Balance    amount.Amount // native units
	Sequence   uint64
	Signers    []Signer
	Thresholds Thresholds
	Flags      AccountFlags
	HomeDomain string
	Data       map[string][]byte
}

// Clone returns a deep copy of the account entry.
func (a *Account) Clone() *Account {
	c := *a
	c.Signers = append([]Signer(nil), a.Signers...)
	if a.Data != nil {
		c.Data = make(map[string][]byte, len(a.Data))
		for k, v := range a.Data {
			c.Data[k] = append([]byte(nil), v...)
		}
	}
	return &c
}

// TrustLine records an account's holding of an issued asset together
// with the limit it is willing to hold and its authorization state.
type TrustLine struct {
	Account    string
	Asset      asset.Asset
	Balance    amount.Amount
	Limit      amount.Amount
	Authorized bool
}

// Clone returns a copy of the trustline.
func (l *TrustLine) Clone() *TrustLine {
	c := *l
	return &c
}

// lineKey identifies a trustline by holder and asset.
type lineKey struct {
	account string
	asset   asset.Asset
}
