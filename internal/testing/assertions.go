package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/tx"
)

// RequireTxSuccess asserts the transaction applied with every
// operation succeeding.
func RequireTxSuccess(t *testing.T, res tx.TxResult) {
	t.Helper()
	require.True(t, res.Applied, "transaction not applied: %s", res.Err())
	for i, op := range res.Ops {
		require.Equal(t, tx.OpSuccess, op.Result, "op %d (%s)", i, op.Kind)
	}
}

// RequireTxFailure asserts the transaction failed with the given code
// as its first failing result.
func RequireTxFailure(t *testing.T, res tx.TxResult, want tx.Result) {
	t.Helper()
	require.False(t, res.Applied, "transaction unexpectedly applied")
	require.Equal(t, want, res.Err())
}

// RequireBalance asserts an exact native balance.
func RequireBalance(t *testing.T, env *TestEnv, account, want string) {
	t.Helper()
	require.Equal(t, Amt(want), env.Balance(account), "native balance of %s", account)
}

// RequireLineBalance asserts an exact trustline balance.
func RequireLineBalance(t *testing.T, env *TestEnv, account string, a asset.Asset, want string) {
	t.Helper()
	require.Equal(t, Amt(want), env.LineBalance(account, a), "%s balance of %s", a, account)
}

// RequireOfferCount asserts how many offers an account has resting.
func RequireOfferCount(t *testing.T, env *TestEnv, account string, want int) {
	t.Helper()
	require.Len(t, env.Offers(account), want, "offers of %s", account)
}
