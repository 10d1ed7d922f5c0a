package offer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenforge/lumend/internal/core/tx"
	jtx "github.com/lumenforge/lumend/internal/testing"
)

func TestManageOffer_UpdateKeepsID(t *testing.T) {
	env := setupGateway(t)
	USD := jtx.USD("gw")

	created := env.Apply("alice", Create(USD, jtx.Native(), "100", "2"))
	jtx.RequireTxSuccess(t, created)
	id := created.Ops[0].OfferID

	updated := env.Apply("alice", Update(id, USD, jtx.Native(), "80", "3"))
	jtx.RequireTxSuccess(t, updated)
	require.Equal(t, id, updated.Ops[0].OfferID)

	offers := env.Offers("alice")
	require.Len(t, offers, 1)
	require.Equal(t, id, offers[0].ID)
	require.Equal(t, jtx.Amt("80"), offers[0].Amount)
	require.Equal(t, jtx.Price("3"), offers[0].Price)
}

func TestManageOffer_UpdateKeepsPriceTimePriority(t *testing.T) {
	env := setupGateway(t)
	env.Fund("carol", "10000")
	env.Trust("carol", jtx.USD("gw"), "1000")
	USD := jtx.USD("gw")

	first := env.Apply("alice", Create(USD, jtx.Native(), "100", "2"))
	id := first.Ops[0].OfferID
	env.Apply("bob", Create(USD, jtx.Native(), "100", "1"))

	// Re-pricing alice's offer to bob's level keeps her original id, so
	// the equal-price tie still resolves in her favor.
	updated := env.Apply("alice", Update(id, USD, jtx.Native(), "100", "1"))
	jtx.RequireTxSuccess(t, updated)

	env.Submit("carol", Create(jtx.Native(), USD, "50", "1"))
	res := env.Close()
	require.Len(t, res.Trades, 1)
	require.Equal(t, "alice", res.Trades[0].Maker)
	require.Equal(t, id, res.Trades[0].MakerOfferID)
}

func TestManageOffer_CancelRemovesOffer(t *testing.T) {
	env := setupGateway(t)
	USD := jtx.USD("gw")

	created := env.Apply("alice", Create(USD, jtx.Native(), "100", "2"))
	id := created.Ops[0].OfferID

	canceled := env.Apply("alice", Cancel(id, USD, jtx.Native()))
	jtx.RequireTxSuccess(t, canceled)
	jtx.RequireOfferCount(t, env, "alice", 0)

	// Canceling again fails: the offer is gone.
	again := env.Apply("alice", Cancel(id, USD, jtx.Native()))
	jtx.RequireTxFailure(t, again, tx.OpOfferNotFound)
}

func TestManageOffer_CannotTouchForeignOffer(t *testing.T) {
	env := setupGateway(t)
	USD := jtx.USD("gw")

	created := env.Apply("alice", Create(USD, jtx.Native(), "100", "2"))
	id := created.Ops[0].OfferID

	res := env.Apply("bob", Cancel(id, USD, jtx.Native()))
	jtx.RequireTxFailure(t, res, tx.OpOfferNotFound)
	jtx.RequireOfferCount(t, env, "alice", 1)
}

func TestManageOffer_UnderfundedRejected(t *testing.T) {
	env := jtx.NewTestEnv(t)
	env.Fund("gw", "1000")
	env.Fund("dan", "1000")
	env.Trust("dan", jtx.USD("gw"), "1000")

	// Dan holds no USD at all.
	res := env.Apply("dan", Create(jtx.USD("gw"), jtx.Native(), "10", "1"))
	jtx.RequireTxFailure(t, res, tx.OpUnderfunded)
}

func TestManageOffer_AmountCappedByFunding(t *testing.T) {
	env := setupGateway(t)
	USD := jtx.USD("gw")

	// Alice holds 500 USD but offers 800: the resting offer is capped.
	res := env.Apply("alice", Create(USD, jtx.Native(), "800", "1"))
	jtx.RequireTxSuccess(t, res)

	offers := env.Offers("alice")
	require.Len(t, offers, 1)
	require.Equal(t, jtx.Amt("500"), offers[0].Amount)
}

func TestManageOffer_SelfCrossTradesNormally(t *testing.T) {
	env := setupGateway(t)
	USD := jtx.USD("gw")

	env.Apply("alice", Create(USD, jtx.Native(), "100", "1"))

	// Alice's own counter-offer crosses her resting offer; balances
	// net out but the trade is recorded.
	env.Submit("alice", Create(jtx.Native(), USD, "40", "1"))
	res := env.Close()
	require.Len(t, res.Trades, 1)
	require.Equal(t, "alice", res.Trades[0].Maker)
	require.Equal(t, "alice", res.Trades[0].Taker)

	jtx.RequireLineBalance(t, env, "alice", USD, "500")
	jtx.RequireBalance(t, env, "alice", "10000")

	offers := env.Offers("alice")
	require.Len(t, offers, 1)
	require.Equal(t, jtx.Amt("60"), offers[0].Amount)
}
