package historydb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/ledger"
	"github.com/lumenforge/lumend/internal/core/tx"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleClose(seq uint32) *tx.CloseResult {
	usd := asset.Credit("USD", "gw")
	return &tx.CloseResult{
		Seq: seq,
		Results: []tx.TxResult{
			{
				Source:  "alice",
				Applied: true,
				Ops: []tx.OpResult{
					{Kind: tx.KindManageOffer, Result: tx.OpSuccess, OfferID: 1},
				},
			},
			{
				Source:  "bob",
				Applied: false,
				Ops: []tx.OpResult{
					{Kind: tx.KindPayment, Result: tx.OpUnderfunded},
				},
			},
		},
		Trades: []ledger.Trade{
			{
				LedgerSeq:    seq,
				Maker:        "bob",
				Taker:        "alice",
				SoldAsset:    usd,
				BoughtAsset:  asset.Native(),
				AmountSold:   100,
				AmountBought: 50,
				MakerOfferID: 1,
				TakerOfferID: 2,
			},
		},
	}
}

func TestRecordAndQueryClose(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordClose(ctx, sampleClose(1)))

	rec, err := store.CloseAt(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, uint32(1), rec.Seq)
	assert.Equal(t, 2, rec.TxCount)
	assert.Equal(t, 1, rec.TradeCount)

	missing, err := store.CloseAt(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTradesForAccount(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordClose(ctx, sampleClose(1)))
	require.NoError(t, store.RecordClose(ctx, sampleClose(2)))

	trades, err := store.TradesForAccount(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	// Most recent close first.
	assert.Equal(t, uint32(2), trades[0].CloseSeq)
	assert.Equal(t, "bob", trades[0].Maker)
	assert.Equal(t, int64(100), trades[0].AmountSold)
	assert.Equal(t, uint64(1), trades[0].MakerOfferID)

	none, err := store.TradesForAccount(ctx, "carol", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTradesForPair(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordClose(ctx, sampleClose(1)))

	usd := asset.Credit("USD", "gw")
	trades, err := store.TradesForPair(ctx, usd, asset.Native(), 10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, usd.String(), trades[0].SoldAsset)

	reversed, err := store.TradesForPair(ctx, asset.Native(), usd, 10)
	require.NoError(t, err)
	assert.Empty(t, reversed)
}

func TestOperationsForAccount(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordClose(ctx, sampleClose(1)))

	ops, err := store.OperationsForAccount(ctx, "bob", 10)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "payment", ops[0].Kind)
	assert.Equal(t, tx.OpUnderfunded.String(), ops[0].Result)
	assert.False(t, ops[0].Applied)
}

func TestClosedStoreRejectsCalls(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	err := store.RecordClose(context.Background(), sampleClose(1))
	assert.ErrorIs(t, err, ErrClosed)
}
