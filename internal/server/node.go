// Package server assembles the node: engine, persistence, and the RPC
// endpoint, tied together with one lifecycle.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumenforge/lumend/internal/config"
	"github.com/lumenforge/lumend/internal/core/ledger"
	"github.com/lumenforge/lumend/internal/core/tx"
	"github.com/lumenforge/lumend/internal/server/api/jsonrpc"
	"github.com/lumenforge/lumend/internal/storage/checkpoint"
	"github.com/lumenforge/lumend/internal/storage/historydb"
)

// Node is a running lumend instance.
type Node struct {
	cfg         *config.Config
	engine      *tx.Engine
	checkpoints *checkpoint.Store
	history     *historydb.Store
	httpServer  *http.Server
}

// New builds a node from configuration, restoring the latest
// checkpoint when one exists.
func New(ctx context.Context, cfg *config.Config) (*Node, error) {
	n := &Node{cfg: cfg}

	if cfg.Checkpoint.Enabled {
		store, err := checkpoint.Open(cfg.Checkpoint.Backend, cfg.Checkpoint.Path)
		if err != nil {
			return nil, err
		}
		n.checkpoints = store
	}

	engine, err := n.buildEngine()
	if err != nil {
		n.shutdownStores()
		return nil, err
	}
	n.engine = engine

	if cfg.History.Enabled {
		history, err := historydb.Open(ctx, &historydb.Config{
			Driver:      cfg.History.Driver,
			DSN:         cfg.History.DSN,
			ConnTimeout: 5 * time.Second,
		})
		if err != nil {
			n.shutdownStores()
			return nil, err
		}
		n.history = history
		engine.RegisterCloseHook(func(res *tx.CloseResult, _ *ledger.State) error {
			return history.RecordClose(context.Background(), res)
		})
	}

	if n.checkpoints != nil {
		store := n.checkpoints
		engine.RegisterCloseHook(func(res *tx.CloseResult, state *ledger.State) error {
			return store.Save(res.Seq, state)
		})
	}

	handler := jsonrpc.NewHandler(engine, n.history)
	mux := http.NewServeMux()
	mux.Handle("/", jsonrpc.NewServer(handler))
	n.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return n, nil
}

func (n *Node) buildEngine() (*tx.Engine, error) {
	if n.checkpoints != nil {
		state, seq, err := n.checkpoints.LoadLatest()
		if err != nil {
			return nil, fmt.Errorf("restore checkpoint: %w", err)
		}
		if state != nil {
			log.Printf("resuming from checkpoint at close %d", seq)
			return tx.NewWithState(state, seq), nil
		}
	}
	return tx.New(tx.Config{
		RootAddress: n.cfg.RootAddress,
		RootBalance: n.cfg.RootBalanceAmount(),
	}), nil
}

// Engine exposes the transaction engine, mainly for tests and tooling.
func (n *Node) Engine() *tx.Engine {
	return n.engine
}

// Run serves RPC and closes ledgers on the configured interval until
// the context is canceled.
func (n *Node) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", n.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", n.cfg.ListenAddr, err)
	}
	log.Printf("rpc listening on %s", listener.Addr())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := n.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(n.cfg.CloseInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				res, err := n.engine.CloseLedger()
				if err != nil {
					return fmt.Errorf("close %d: %w", res.Seq, err)
				}
				if len(res.Results) > 0 {
					log.Printf("closed ledger %d: %d txs, %d trades",
						res.Seq, len(res.Results), len(res.Trades))
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return n.httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	n.shutdownStores()
	return err
}

func (n *Node) shutdownStores() {
	if n.history != nil {
		if err := n.history.Close(); err != nil {
			log.Printf("close history db: %v", err)
		}
	}
	if n.checkpoints != nil {
		if err := n.checkpoints.Close(); err != nil {
			log.Printf("close checkpoint store: %v", err)
		}
	}
}
