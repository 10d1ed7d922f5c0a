package historydb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/tx"
)

// TradeRecord is one stored trade row.
type TradeRecord struct {
	CloseSeq     uint32
	Maker        string
	Taker        string
	SoldAsset    string
	BoughtAsset  string
	AmountSold   int64
	AmountBought int64
	MakerOfferID uint64
	TakerOfferID uint64
}

// OperationRecord is one stored operation outcome.
type OperationRecord struct {
	CloseSeq uint32
	TxIndex  int
	OpIndex  int
	Source   string
	Kind     string
	Result   string
	Applied  bool
}

// CloseRecord summarizes a stored close.
type CloseRecord struct {
	Seq        uint32
	ClosedAt   time.Time
	TxCount    int
	TradeCount int
}

// RecordClose stores a close result in one transaction. It is wired as
// an engine close hook; failing here fails the close call so operators
// notice broken history immediately.
func (s *Store) RecordClose(ctx context.Context, res *tx.CloseResult) error {
	if s.db == nil {
		return ErrClosed
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("historydb: begin: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		s.bind(`INSERT INTO closes (seq, closed_at, tx_count, trade_count) VALUES (?, ?, ?, ?)`),
		res.Seq, time.Now().UTC(), len(res.Results), len(res.Trades),
	); err != nil {
		return fmt.Errorf("historydb: insert close %d: %w", res.Seq, err)
	}

	opStmt := s.bind(`INSERT INTO operations
		(close_seq, tx_index, op_index, source, kind, result, applied)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for ti, txRes := range res.Results {
		for oi, opRes := range txRes.Ops {
			if _, err := dbTx.ExecContext(ctx, opStmt,
				res.Seq, ti, oi, txRes.Source,
				opRes.Kind.String(), opRes.Result.String(), txRes.Applied,
			); err != nil {
				return fmt.Errorf("historydb: insert op %d/%d/%d: %w", res.Seq, ti, oi, err)
			}
		}
	}

	tradeStmt := s.bind(`INSERT INTO trades
		(close_seq, trade_index, maker, taker, sold_asset, bought_asset,
		 amount_sold, amount_bought, maker_offer_id, taker_offer_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, trade := range res.Trades {
		if _, err := dbTx.ExecContext(ctx, tradeStmt,
			res.Seq, i, trade.Maker, trade.Taker,
			trade.SoldAsset.String(), trade.BoughtAsset.String(),
			int64(trade.AmountSold), int64(trade.AmountBought),
			int64(trade.MakerOfferID), int64(trade.TakerOfferID),
		); err != nil {
			return fmt.Errorf("historydb: insert trade %d/%d: %w", res.Seq, i, err)
		}
	}

	return dbTx.Commit()
}

// TradesForAccount returns the stored trades in which the account was
// maker or taker, most recent close first.
func (s *Store) TradesForAccount(ctx context.Context, account string, limit int) ([]TradeRecord, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, s.bind(`
		SELECT close_seq, maker, taker, sold_asset, bought_asset,
		       amount_sold, amount_bought, maker_offer_id, taker_offer_id
		FROM trades WHERE maker = ? OR taker = ?
		ORDER BY close_seq DESC, trade_index DESC LIMIT ?`),
		account, account, limit)
	if err != nil {
		return nil, fmt.Errorf("historydb: trades for %s: %w", account, err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

// TradesForPair returns trades where the maker sold `selling` for
// `buying`, most recent first.
func (s *Store) TradesForPair(ctx context.Context, selling, buying asset.Asset, limit int) ([]TradeRecord, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, s.bind(`
		SELECT close_seq, maker, taker, sold_asset, bought_asset,
		       amount_sold, amount_bought, maker_offer_id, taker_offer_id
		FROM trades WHERE sold_asset = ? AND bought_asset = ?
		ORDER BY close_seq DESC, trade_index DESC LIMIT ?`),
		selling.String(), buying.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("historydb: trades for %s/%s: %w", selling, buying, err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

func scanTrades(rows *sql.Rows) ([]TradeRecord, error) {
	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		var makerID, takerID int64
		if err := rows.Scan(&t.CloseSeq, &t.Maker, &t.Taker, &t.SoldAsset, &t.BoughtAsset,
			&t.AmountSold, &t.AmountBought, &makerID, &takerID); err != nil {
			return nil, err
		}
		t.MakerOfferID = uint64(makerID)
		t.TakerOfferID = uint64(takerID)
		out = append(out, t)
	}
	return out, rows.Err()
}

// OperationsForAccount returns the stored operation outcomes submitted
// by an account, most recent close first.
func (s *Store) OperationsForAccount(ctx context.Context, account string, limit int) ([]OperationRecord, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, s.bind(`
		SELECT close_seq, tx_index, op_index, source, kind, result, applied
		FROM operations WHERE source = ?
		ORDER BY close_seq DESC, tx_index DESC, op_index ASC LIMIT ?`),
		account, limit)
	if err != nil {
		return nil, fmt.Errorf("historydb: operations for %s: %w", account, err)
	}
	defer rows.Close()

	var out []OperationRecord
	for rows.Next() {
		var r OperationRecord
		if err := rows.Scan(&r.CloseSeq, &r.TxIndex, &r.OpIndex, &r.Source, &r.Kind, &r.Result, &r.Applied); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CloseAt returns the stored close summary for a sequence.
func (s *Store) CloseAt(ctx context.Context, seq uint32) (*CloseRecord, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	row := s.db.QueryRowContext(ctx, s.bind(`
		SELECT seq, closed_at, tx_count, trade_count FROM closes WHERE seq = ?`), seq)
	var r CloseRecord
	if err := row.Scan(&r.Seq, &r.ClosedAt, &r.TxCount, &r.TradeCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}
