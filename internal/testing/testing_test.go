package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/ledger"
	"github.com/lumenforge/lumend/internal/core/tx"
)

func signer(key string, weight uint8) *ledger.Signer {
	return &ledger.Signer{Key: key, Weight: weight}
}

func TestEnv_FundCreatesAccount(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("alice", "1000")

	acc := env.Account("alice")
	require.NotNil(t, acc)
	require.Equal(t, Amt("1000"), acc.Balance)
}

func TestCreateAccount_Duplicate(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("alice", "1000")

	res := env.Apply(Master, &tx.CreateAccount{
		Destination:     "alice",
		StartingBalance: Amt("1"),
	})
	RequireTxFailure(t, res, tx.OpAccountExists)
}

func TestTransaction_AtomicRollback(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("alice", "1000")
	env.Fund("bob", "1000")

	// First op succeeds, second fails: neither may take effect.
	res := env.Apply("alice",
		&tx.Payment{Destination: "bob", Asset: Native(), Amount: Amt("100")},
		&tx.Payment{Destination: "nobody", Asset: Native(), Amount: Amt("1")},
	)
	require.False(t, res.Applied)
	require.Equal(t, tx.OpSuccess, res.Ops[0].Result)
	require.Equal(t, tx.OpNoDestination, res.Ops[1].Result)

	RequireBalance(t, env, "alice", "1000")
	RequireBalance(t, env, "bob", "1000")
}

func TestTransaction_FailureStillConsumesSequence(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("alice", "1000")
	before := env.Account("alice").Sequence

	res := env.Apply("alice", &tx.Payment{
		Destination: "nobody", Asset: Native(), Amount: Amt("1"),
	})
	require.False(t, res.Applied)
	require.Equal(t, before+1, env.Account("alice").Sequence)
}

func TestTransaction_RemainingOpsNotAttempted(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("alice", "1000")

	res := env.Apply("alice",
		&tx.Payment{Destination: "nobody", Asset: Native(), Amount: Amt("1")},
		&tx.Inflation{},
	)
	require.False(t, res.Applied)
	require.Equal(t, tx.OpNoDestination, res.Ops[0].Result)
	require.Equal(t, tx.OpNotAttempted, res.Ops[1].Result)
}

func TestTransaction_UnknownSource(t *testing.T) {
	env := NewTestEnv(t)

	res := env.Apply("ghost", &tx.Inflation{})
	RequireTxFailure(t, res, tx.OpNoAccount)
}

func TestClose_OrderIsSeededByLedgerSeq(t *testing.T) {
	// Two identical environments with identical submissions close in
	// the same order.
	run := func() []string {
		env := NewTestEnv(t)
		env.Fund("a", "1000")
		env.Fund("b", "1000")
		env.Fund("c", "1000")
		env.Submit("a", &tx.Inflation{})
		env.Submit("b", &tx.Inflation{})
		env.Submit("c", &tx.Inflation{})
		res := env.Close()
		order := make([]string, 0, len(res.Results))
		for _, r := range res.Results {
			order = append(order, r.Source)
		}
		return order
	}
	require.Equal(t, run(), run())
}

func TestAccountMerge(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("alice", "1000")
	env.Fund("bob", "500")

	res := env.Apply("bob", &tx.AccountMerge{Destination: "alice"})
	RequireTxSuccess(t, res)

	require.Nil(t, env.Account("bob"))
	RequireBalance(t, env, "alice", "1500")
}

func TestAccountMerge_BlockedByTrustLine(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("gw", "1000")
	env.Fund("bob", "500")
	env.Trust("bob", USD("gw"), "100")

	res := env.Apply("bob", &tx.AccountMerge{Destination: "gw"})
	RequireTxFailure(t, res, tx.OpHasObligations)
	require.NotNil(t, env.Account("bob"))
}

func TestAccountMerge_BlockedByOutstandingIssuance(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("gw", "1000")
	env.Fund("alice", "1000")
	env.Trust("alice", USD("gw"), "100")
	env.Pay("gw", "alice", USD("gw"), "50")

	res := env.Apply("gw", &tx.AccountMerge{Destination: "alice"})
	RequireTxFailure(t, res, tx.OpHasObligations)
}

func TestManageData_SetAndDelete(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("alice", "1000")

	set := env.Apply("alice", &tx.ManageData{Name: "memo", Value: []byte("hello")})
	RequireTxSuccess(t, set)
	require.Equal(t, []byte("hello"), env.Account("alice").Data["memo"])

	del := env.Apply("alice", &tx.ManageData{Name: "memo"})
	RequireTxSuccess(t, del)
	require.NotContains(t, env.Account("alice").Data, "memo")
}

func TestSetOptions_SignersAndThresholds(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("alice", "1000")

	low, med, high := uint8(1), uint8(2), uint8(3)
	res := env.Apply("alice", &tx.SetOptions{
		LowThreshold:    &low,
		MediumThreshold: &med,
		HighThreshold:   &high,
		Signer:          signer("key1", 2),
	})
	RequireTxSuccess(t, res)

	acc := env.Account("alice")
	require.Equal(t, uint8(1), acc.Thresholds.Low)
	require.Equal(t, uint8(2), acc.Thresholds.Medium)
	require.Equal(t, uint8(3), acc.Thresholds.High)
	require.Len(t, acc.Signers, 1)

	// Weight zero removes the signer.
	res = env.Apply("alice", &tx.SetOptions{Signer: signer("key1", 0)})
	RequireTxSuccess(t, res)
	require.Empty(t, env.Account("alice").Signers)
}

func TestInflation_IsRecordedNoOp(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("alice", "1000")
	before := env.Balance("alice")

	res := env.Apply("alice", &tx.Inflation{})
	RequireTxSuccess(t, res)
	require.Equal(t, before, env.Balance("alice"))
}

func TestConservation_AcrossCrossing(t *testing.T) {
	env := NewTestEnv(t)
	env.Fund("gw", "10000")
	env.Fund("alice", "10000")
	env.Fund("bob", "10000")
	env.Trust("alice", USD("gw"), "1000")
	env.Trust("bob", USD("gw"), "1000")
	env.Pay("gw", "bob", USD("gw"), "500")

	totalNative := func() amount.Amount {
		return env.Balance(Master) + env.Balance("gw") + env.Balance("alice") + env.Balance("bob")
	}
	totalUSD := func() amount.Amount {
		return env.LineBalance("alice", USD("gw")) + env.LineBalance("bob", USD("gw"))
	}

	nativeBefore, usdBefore := totalNative(), totalUSD()

	env.Apply("alice", &tx.ManageOffer{
		Selling: Native(), Buying: USD("gw"),
		Amount: Amt("100"), Price: Price("1"),
	})
	env.Apply("bob", &tx.ManageOffer{
		Selling: USD("gw"), Buying: Native(),
		Amount: Amt("100"), Price: Price("1"),
	})

	require.Equal(t, nativeBefore, totalNative())
	require.Equal(t, usdBefore, totalUSD())
}
