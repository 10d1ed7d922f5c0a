// Package payment holds direct and path payment tests.
package payment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/tx"
	jtx "github.com/lumenforge/lumend/internal/testing"
)

func TestPayment_Native(t *testing.T) {
	env := jtx.NewTestEnv(t)
	env.Fund("alice", "1000")
	env.Fund("bob", "1000")

	env.Pay("alice", "bob", jtx.Native(), "250")

	jtx.RequireBalance(t, env, "alice", "750")
	jtx.RequireBalance(t, env, "bob", "1250")
}

func TestPayment_NativeUnderfunded(t *testing.T) {
	env := jtx.NewTestEnv(t)
	env.Fund("alice", "100")
	env.Fund("bob", "100")

	res := env.Apply("alice", &tx.Payment{
		Destination: "bob",
		Asset:       jtx.Native(),
		Amount:      jtx.Amt("500"),
	})
	jtx.RequireTxFailure(t, res, tx.OpUnderfunded)
	jtx.RequireBalance(t, env, "alice", "100")
	jtx.RequireBalance(t, env, "bob", "100")
}

func TestPayment_IssuedRequiresDestinationLine(t *testing.T) {
	env := jtx.NewTestEnv(t)
	env.Fund("gw", "1000")
	env.Fund("bob", "1000")

	res := env.Apply("gw", &tx.Payment{
		Destination: "bob",
		Asset:       jtx.USD("gw"),
		Amount:      jtx.Amt("10"),
	})
	jtx.RequireTxFailure(t, res, tx.OpNoTrustLine)
}

func TestPayment_IssuedRespectsLimit(t *testing.T) {
	env := jtx.NewTestEnv(t)
	env.Fund("gw", "1000")
	env.Fund("bob", "1000")
	env.Trust("bob", jtx.USD("gw"), "100")

	res := env.Apply("gw", &tx.Payment{
		Destination: "bob",
		Asset:       jtx.USD("gw"),
		Amount:      jtx.Amt("150"),
	})
	jtx.RequireTxFailure(t, res, tx.OpLineFull)
	jtx.RequireLineBalance(t, env, "bob", jtx.USD("gw"), "0")
}

func TestPayment_RedemptionBurnsAtIssuer(t *testing.T) {
	env := jtx.NewTestEnv(t)
	env.Fund("gw", "1000")
	env.Fund("alice", "1000")
	env.Trust("alice", jtx.USD("gw"), "500")
	env.Pay("gw", "alice", jtx.USD("gw"), "200")

	// Paying the issuer back reduces the outstanding balance; the
	// issuer holds no line of its own credit.
	env.Pay("alice", "gw", jtx.USD("gw"), "200")
	jtx.RequireLineBalance(t, env, "alice", jtx.USD("gw"), "0")
	require.Nil(t, env.Line("gw", jtx.USD("gw")))
}

func TestPayment_MissingDestination(t *testing.T) {
	env := jtx.NewTestEnv(t)
	env.Fund("alice", "1000")

	res := env.Apply("alice", &tx.Payment{
		Destination: "nobody",
		Asset:       jtx.Native(),
		Amount:      jtx.Amt("1"),
	})
	jtx.RequireTxFailure(t, res, tx.OpNoDestination)
}

// setupMarket funds a gateway plus a market maker selling USD for
// native at 2 USD per native, 100 USD deep.
func setupMarket(t *testing.T) *jtx.TestEnv {
	t.Helper()
	env := jtx.NewTestEnv(t)
	env.Fund("gw", "10000")
	env.Fund("mm", "10000")
	env.Fund("alice", "10000")
	env.Fund("bob", "10000")
	env.Trust("mm", jtx.USD("gw"), "1000")
	env.Trust("bob", jtx.USD("gw"), "1000")
	env.Pay("gw", "mm", jtx.USD("gw"), "100")

	res := env.Apply("mm", &tx.ManageOffer{
		Selling: jtx.USD("gw"),
		Buying:  jtx.Native(),
		Amount:  jtx.Amt("100"),
		Price:   jtx.Price("0.5"),
	})
	jtx.RequireTxSuccess(t, res)
	return env
}

func TestPathPayment_StrictSendDelivers(t *testing.T) {
	env := setupMarket(t)
	USD := jtx.USD("gw")

	// 25 native buy 50 USD at the maker's 0.5 native-per-USD price.
	res := env.Apply("alice", &tx.PathPaymentStrictSend{
		Destination: "bob",
		SendAsset:   jtx.Native(),
		SendAmount:  jtx.Amt("25"),
		DestAsset:   USD,
		DestMin:     jtx.Amt("50"),
	})
	jtx.RequireTxSuccess(t, res)
	require.Equal(t, jtx.Amt("50"), res.Ops[0].Delivered)

	jtx.RequireBalance(t, env, "alice", "9975")
	jtx.RequireLineBalance(t, env, "bob", USD, "50")

	// The maker was paid in native; the source holds no USD anywhere.
	jtx.RequireBalance(t, env, "mm", "10025")
	jtx.RequireLineBalance(t, env, "mm", USD, "50")
	require.Nil(t, env.Line("alice", USD))
}

func TestPathPayment_StrictSendLiquidityExhausted(t *testing.T) {
	env := setupMarket(t)
	USD := jtx.USD("gw")

	send := func() tx.TxResult {
		return env.Apply("alice", &tx.PathPaymentStrictSend{
			Destination: "bob",
			SendAsset:   jtx.Native(),
			SendAmount:  jtx.Amt("20"),
			DestAsset:   USD,
			DestMin:     jtx.Amt("1"),
		})
	}

	// The book holds 100 USD against 50 native. Two 20-native sends
	// drain 80 USD; the third finds only 20 USD of depth left.
	jtx.RequireTxSuccess(t, send())
	jtx.RequireTxSuccess(t, send())
	third := send()
	jtx.RequireTxFailure(t, third, tx.OpInsufficientLiquidity)

	// The failed payment left no partial effects.
	jtx.RequireLineBalance(t, env, "bob", USD, "80")
	jtx.RequireBalance(t, env, "alice", "9960")
}

func TestPathPayment_StrictSendDestMin(t *testing.T) {
	env := setupMarket(t)

	res := env.Apply("alice", &tx.PathPaymentStrictSend{
		Destination: "bob",
		SendAsset:   jtx.Native(),
		SendAmount:  jtx.Amt("10"),
		DestAsset:   jtx.USD("gw"),
		DestMin:     jtx.Amt("21"),
	})
	jtx.RequireTxFailure(t, res, tx.OpTooFewDestAssets)
}

func TestPathPayment_StrictReceiveCostsAndDelivers(t *testing.T) {
	env := setupMarket(t)
	USD := jtx.USD("gw")

	res := env.Apply("alice", &tx.PathPaymentStrictReceive{
		Destination: "bob",
		SendAsset:   jtx.Native(),
		SendMax:     jtx.Amt("30"),
		DestAsset:   USD,
		DestAmount:  jtx.Amt("50"),
	})
	jtx.RequireTxSuccess(t, res)

	// 50 USD cost exactly 25 native.
	jtx.RequireBalance(t, env, "alice", "9975")
	jtx.RequireLineBalance(t, env, "bob", USD, "50")
}

func TestPathPayment_StrictReceiveSendMaxExceeded(t *testing.T) {
	env := setupMarket(t)

	res := env.Apply("alice", &tx.PathPaymentStrictReceive{
		Destination: "bob",
		SendAsset:   jtx.Native(),
		SendMax:     jtx.Amt("20"),
		DestAsset:   jtx.USD("gw"),
		DestAmount:  jtx.Amt("50"),
	})
	jtx.RequireTxFailure(t, res, tx.OpTooMuchSourceAssets)
	jtx.RequireBalance(t, env, "alice", "10000")
	jtx.RequireLineBalance(t, env, "bob", jtx.USD("gw"), "0")
}

func TestPathPayment_MultiHopConversion(t *testing.T) {
	env := jtx.NewTestEnv(t)
	env.Fund("gw", "10000")
	env.Fund("mm1", "10000")
	env.Fund("mm2", "10000")
	env.Fund("alice", "10000")
	env.Fund("bob", "10000")
	USD := jtx.USD("gw")
	EUR := jtx.EUR("gw")

	env.Trust("mm1", USD, "1000")
	env.Trust("mm2", USD, "1000")
	env.Trust("mm2", EUR, "1000")
	env.Trust("bob", EUR, "1000")
	env.Pay("gw", "mm1", USD, "100")
	env.Pay("gw", "mm2", EUR, "100")

	// native -> USD -> EUR, one maker per hop.
	jtx.RequireTxSuccess(t, env.Apply("mm1", &tx.ManageOffer{
		Selling: USD, Buying: jtx.Native(),
		Amount: jtx.Amt("100"), Price: jtx.Price("1"),
	}))
	jtx.RequireTxSuccess(t, env.Apply("mm2", &tx.ManageOffer{
		Selling: EUR, Buying: USD,
		Amount: jtx.Amt("100"), Price: jtx.Price("1"),
	}))

	res := env.Apply("alice", &tx.PathPaymentStrictSend{
		Destination: "bob",
		SendAsset:   jtx.Native(),
		SendAmount:  jtx.Amt("40"),
		DestAsset:   EUR,
		DestMin:     jtx.Amt("40"),
		Path:        []asset.Asset{USD},
	})
	jtx.RequireTxSuccess(t, res)
	require.Equal(t, jtx.Amt("40"), res.Ops[0].Delivered)

	jtx.RequireBalance(t, env, "alice", "9960")
	jtx.RequireLineBalance(t, env, "bob", EUR, "40")

	// The intermediate USD flowed maker to maker; the source and
	// destination never held any.
	jtx.RequireLineBalance(t, env, "mm1", USD, "60")
	jtx.RequireLineBalance(t, env, "mm2", USD, "40")
	jtx.RequireLineBalance(t, env, "mm2", EUR, "60")
	require.Nil(t, env.Line("alice", USD))
	require.Nil(t, env.Line("bob", USD))
}

func TestPathPayment_PathTooLong(t *testing.T) {
	env := jtx.NewTestEnv(t)
	env.Fund("gw", "1000")
	env.Fund("alice", "1000")
	env.Fund("bob", "1000")

	path := make([]asset.Asset, 0, tx.MaxPathHops+1)
	for _, code := range []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF"} {
		path = append(path, asset.Credit(code, "gw"))
	}

	res := env.Apply("alice", &tx.PathPaymentStrictSend{
		Destination: "bob",
		SendAsset:   jtx.Native(),
		SendAmount:  jtx.Amt("1"),
		DestAsset:   jtx.Native(),
		DestMin:     jtx.Amt("1"),
		Path:        path,
	})
	jtx.RequireTxFailure(t, res, tx.OpPathTooLong)
}
