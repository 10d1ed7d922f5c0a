package tx

import (
	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/ledger"
)

// maxAmount is the "no cap" sentinel for capacity computations.
const maxAmount = amount.Max

// available returns how much of asset a the account can spend right
// now. Issuers can always pay in their own credit (issuance is minting),
// and an unauthorized line cannot be drawn from.
func available(st *ledger.State, account string, a asset.Asset) amount.Amount {
	if a.IsNative() {
		acc := st.Account(account)
		if acc == nil {
			return 0
		}
		return acc.Balance
	}
	if account == a.Issuer {
		return maxAmount
	}
	line := st.TrustLine(account, a)
	if line == nil || !line.Authorized {
		return 0
	}
	return line.Balance
}

// receiveCapacity returns how much of asset a the account can take on.
// Issuers absorb their own credit without bound (redemption burns it),
// and an unauthorized or missing line has zero capacity.
func receiveCapacity(st *ledger.State, account string, a asset.Asset) amount.Amount {
	if a.IsNative() {
		acc := st.Account(account)
		if acc == nil {
			return 0
		}
		return maxAmount - acc.Balance
	}
	if account == a.Issuer {
		return maxAmount
	}
	line := st.TrustLine(account, a)
	if line == nil || !line.Authorized {
		return 0
	}
	if line.Balance >= line.Limit {
		return 0
	}
	return line.Limit - line.Balance
}

// canHold reports whether the account may hold asset a at all, with the
// code explaining why not. Holding requires an authorized trustline
// unless the account is the issuer or the asset is native.
func canHold(st *ledger.State, account string, a asset.Asset) Result {
	if a.IsNative() || account == a.Issuer {
		return OpSuccess
	}
	line := st.TrustLine(account, a)
	if line == nil {
		return OpNoTrustLine
	}
	if !line.Authorized {
		return OpNotAuthorized
	}
	return OpSuccess
}

// credit deposits amt of asset a into the account. The caller is
// expected to have sized amt against receiveCapacity; a shortfall here
// reports the precise reason.
func credit(st *ledger.State, account string, a asset.Asset, amt amount.Amount) Result {
	if amt == 0 {
		return OpSuccess
	}
	if a.IsNative() {
		acc := st.Account(account)
		if acc == nil {
			return OpNoAccount
		}
		b, err := acc.Balance.Add(amt)
		if err != nil {
			return OpLineFull
		}
		acc.Balance = b
		return OpSuccess
	}
	if account == a.Issuer {
		// Redemption: credit returning to its issuer is burned.
		return OpSuccess
	}
	line := st.TrustLine(account, a)
	if line == nil {
		return OpNoTrustLine
	}
	if !line.Authorized {
		return OpNotAuthorized
	}
	b, err := line.Balance.Add(amt)
	if err != nil || b > line.Limit {
		return OpLineFull
	}
	line.Balance = b
	return OpSuccess
}

// debit withdraws amt of asset a from the account.
func debit(st *ledger.State, account string, a asset.Asset, amt amount.Amount) Result {
	if amt == 0 {
		return OpSuccess
	}
	if a.IsNative() {
		acc := st.Account(account)
		if acc == nil {
			return OpNoAccount
		}
		if acc.Balance < amt {
			return OpUnderfunded
		}
		acc.Balance -= amt
		return OpSuccess
	}
	if account == a.Issuer {
		// Issuance: the issuer mints its own credit on the way out.
		return OpSuccess
	}
	line := st.TrustLine(account, a)
	if line == nil {
		return OpNoTrustLine
	}
	if !line.Authorized {
		return OpNotAuthorized
	}
	if line.Balance < amt {
		return OpUnderfunded
	}
	line.Balance -= amt
	return OpSuccess
}

// transfer moves amt of asset a from one account to another. Debits
// before crediting so a failure cannot create value.
func transfer(st *ledger.State, from, to string, a asset.Asset, amt amount.Amount) Result {
	if from == to {
		return OpSuccess
	}
	if r := debit(st, from, a, amt); !r.IsSuccess() {
		return r
	}
	return credit(st, to, a, amt)
}
