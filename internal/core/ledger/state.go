package ledger

import (
	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
	"github.com/lumenforge/lumend/internal/core/book"
)

// State is the complete mutable ledger state at a point in time.
//
// The engine applies each transaction against a Clone and commits by
// swapping the clone in, so a failed transaction can never leave
// partial effects behind.
type State struct {
	accounts map[string]*Account
	lines    map[lineKey]*TrustLine
	book     *book.Book

	// nextOfferID increases monotonically across the whole ledger so
	// trade history stays reproducible for a fixed submission set.
	nextOfferID uint64
}

// NewState returns an empty state with offer ids starting at 1.
func NewState() *State {
	return &State{
		accounts:    make(map[string]*Account),
		lines:       make(map[lineKey]*TrustLine),
		book:        book.New(),
		nextOfferID: 1,
	}
}

// Genesis returns a state holding a single root account funded with
// the given native balance.
func Genesis(rootAddress string, balance amount.Amount) *State {
	s := NewState()
	s.PutAccount(&Account{
		Address:    rootAddress,
		Balance:    balance,
		Thresholds: Thresholds{Master: 1},
	})
	return s
}

// Account returns the entry for an address, or nil.
func (s *State) Account(address string) *Account {
	return s.accounts[address]
}

// PutAccount inserts or replaces an account entry.
func (s *State) PutAccount(a *Account) {
	s.accounts[a.Address] = a
}

// DeleteAccount removes an account entry.
func (s *State) DeleteAccount(address string) {
	delete(s.accounts, address)
}

// TrustLine returns the line (account, asset), or nil.
func (s *State) TrustLine(account string, a asset.Asset) *TrustLine {
	return s.lines[lineKey{account: account, asset: a}]
}

// PutTrustLine inserts or replaces a trustline.
func (s *State) PutTrustLine(l *TrustLine) {
	s.lines[lineKey{account: l.Account, asset: l.Asset}] = l
}

// DeleteTrustLine removes a trustline.
func (s *State) DeleteTrustLine(account string, a asset.Asset) {
	delete(s.lines, lineKey{account: account, asset: a})
}

// LinesOf returns all trustlines held by an account.
func (s *State) LinesOf(account string) []*TrustLine {
	var out []*TrustLine
	for k, l := range s.lines {
		if k.account == account {
			out = append(out, l)
		}
	}
	return out
}

// AllLines returns every trustline. Used when snapshotting.
func (s *State) AllLines() []*TrustLine {
	out := make([]*TrustLine, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, l)
	}
	return out
}

// AllAccounts returns every account entry. Used when snapshotting.
func (s *State) AllAccounts() []*Account {
	out := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out
}

// Book returns the order book.
func (s *State) Book() *book.Book {
	return s.book
}

// NextOfferID allocates the next offer identifier.
func (s *State) NextOfferID() uint64 {
	id := s.nextOfferID
	s.nextOfferID++
	return id
}

// PeekOfferID returns the id the next allocation would produce.
func (s *State) PeekOfferID() uint64 {
	return s.nextOfferID
}

// SetNextOfferID restores the allocation counter. Used when loading a
// snapshot.
func (s *State) SetNextOfferID(id uint64) {
	s.nextOfferID = id
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := &State{
		accounts:    make(map[string]*Account, len(s.accounts)),
		lines:       make(map[lineKey]*TrustLine, len(s.lines)),
		book:        s.book.Clone(),
		nextOfferID: s.nextOfferID,
	}
	for k, a := range s.accounts {
		c.accounts[k] = a.Clone()
	}
	for k, l := range s.lines {
		c.lines[k] = l.Clone()
	}
	return c
}
