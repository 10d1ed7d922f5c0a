package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
)

var (
	usd = asset.Credit("USD", "gw")
	nat = asset.Native()
)

func offer(id uint64, seller string, price amount.Price, amt int64) *Offer {
	return &Offer{
		ID:      id,
		Seller:  seller,
		Selling: usd,
		Buying:  nat,
		Amount:  amount.Amount(amt),
		Price:   price,
	}
}

func TestInsertValidation(t *testing.T) {
	b := New()

	err := b.Insert(&Offer{ID: 1, Selling: usd, Buying: usd, Amount: 1, Price: amount.NewPrice(1, 1)})
	assert.ErrorIs(t, err, ErrInvalidOffer)

	err = b.Insert(&Offer{ID: 1, Selling: usd, Buying: nat, Amount: 0, Price: amount.NewPrice(1, 1)})
	assert.ErrorIs(t, err, ErrInvalidOffer)

	err = b.Insert(&Offer{ID: 1, Selling: usd, Buying: nat, Amount: 1, Price: amount.Price{}})
	assert.ErrorIs(t, err, ErrInvalidOffer)
}

func TestBestOrdering(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(offer(1, "a", amount.NewPrice(2, 1), 10)))
	require.NoError(t, b.Insert(offer(2, "b", amount.NewPrice(1, 1), 10)))
	require.NoError(t, b.Insert(offer(3, "c", amount.NewPrice(3, 2), 10)))

	best := b.Best(usd, nat)
	require.NotNil(t, best)
	assert.Equal(t, uint64(2), best.ID)

	offers := b.Offers(usd, nat)
	require.Len(t, offers, 3)
	assert.Equal(t, uint64(2), offers[0].ID)
	assert.Equal(t, uint64(3), offers[1].ID)
	assert.Equal(t, uint64(1), offers[2].ID)
}

func TestEqualPriceTieGoesToLowerID(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(offer(7, "late", amount.NewPrice(1, 1), 10)))
	require.NoError(t, b.Insert(offer(3, "early", amount.NewPrice(1, 1), 10)))

	assert.Equal(t, uint64(3), b.Best(usd, nat).ID)
}

func TestConsume(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(offer(1, "a", amount.NewPrice(1, 1), 10)))

	b.Consume(1, 4)
	require.NotNil(t, b.Get(1))
	assert.Equal(t, amount.Amount(6), b.Get(1).Amount)

	// Consuming the remainder removes the offer entirely.
	b.Consume(1, 6)
	assert.Nil(t, b.Get(1))
	assert.Nil(t, b.Best(usd, nat))
	assert.Zero(t, b.Len())
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	b := New()
	b.Remove(42)
	assert.Zero(t, b.Len())
}

func TestBySeller(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(offer(2, "a", amount.NewPrice(1, 1), 10)))
	require.NoError(t, b.Insert(offer(1, "a", amount.NewPrice(2, 1), 10)))
	require.NoError(t, b.Insert(offer(3, "b", amount.NewPrice(1, 1), 10)))

	got := b.BySeller("a")
	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].ID)
	assert.Equal(t, uint64(2), got[1].ID)
}

func TestCloneIsDeep(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(offer(1, "a", amount.NewPrice(1, 1), 10)))

	c := b.Clone()
	c.Consume(1, 10)

	require.NotNil(t, b.Get(1))
	assert.Equal(t, amount.Amount(10), b.Get(1).Amount)
	assert.Nil(t, c.Get(1))
}
