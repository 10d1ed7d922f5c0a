// Package asset defines the asset identifiers exchanged on the ledger:
// the native currency and issued credits keyed by (code, issuer).
package asset

import (
	"errors"
	"fmt"
	"strings"
)

// Asset identifies either the native currency (the zero value) or a
// credit issued by an account. Assets are immutable values; compare
// them with ==.
type Asset struct {
	Code   string
	Issuer string
}

// ErrBadAsset indicates a malformed asset (missing code or issuer, or
// an over-long code).
var ErrBadAsset = errors.New("invalid asset")

// Native returns the native currency asset.
func Native() Asset {
	return Asset{}
}

// Credit returns the issued asset (code, issuer).
func Credit(code, issuer string) Asset {
	return Asset{Code: code, Issuer: issuer}
}

// IsNative reports whether a is the native currency.
func (a Asset) IsNative() bool {
	return a.Code == "" && a.Issuer == ""
}

// Validate checks structural validity: native is always valid; a credit
// needs a 1-12 character code and a non-empty issuer.
func (a Asset) Validate() error {
	if a.IsNative() {
		return nil
	}
	if a.Code == "" || len(a.Code) > 12 {
		return fmt.Errorf("%w: bad code %q", ErrBadAsset, a.Code)
	}
	if a.Issuer == "" {
		return fmt.Errorf("%w: missing issuer for %q", ErrBadAsset, a.Code)
	}
	return nil
}

func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return a.Code + ":" + a.Issuer
}

// ParseAsset is the inverse of String: "native" or "CODE:ISSUER".
func ParseAsset(s string) (Asset, error) {
	if s == "native" || s == "" {
		return Native(), nil
	}
	code, issuer, ok := strings.Cut(s, ":")
	if !ok {
		return Asset{}, fmt.Errorf("%w: %q", ErrBadAsset, s)
	}
	a := Credit(code, issuer)
	if err := a.Validate(); err != nil {
		return Asset{}, err
	}
	return a, nil
}

// Pair is a directed trading pair: offers in this pair sell Selling and
// buy Buying.
type Pair struct {
	Selling Asset
	Buying  Asset
}

// Reverse returns the opposite side of the pair.
func (p Pair) Reverse() Pair {
	return Pair{Selling: p.Buying, Buying: p.Selling}
}

func (p Pair) String() string {
	return p.Selling.String() + "->" + p.Buying.String()
}
