// Package book maintains the resting offers of the exchange, one side
// per directed asset pair, ordered by price-time priority.
package book

import (
	"errors"
	"sort"

	"github.com/lumenforge/lumend/internal/core/amount"
	"github.com/lumenforge/lumend/internal/core/asset"
)

// Offer is a resting order: the seller gives Amount units of Selling in
// exchange for Buying at Price (units of Buying per unit of Selling).
// Passive offers rest through equal-priced counter-offers at creation
// but are consumed normally afterwards.
type Offer struct {
	ID      uint64
	Seller  string
	Selling asset.Asset
	Buying  asset.Asset
	Amount  amount.Amount
	Price   amount.Price
	Passive bool
}

// ErrInvalidOffer is returned for offers with identical assets on both
// sides, a non-positive amount, or a non-positive price.
var ErrInvalidOffer = errors.New("invalid offer")

// Clone returns a copy of the offer.
func (o *Offer) Clone() *Offer {
	c := *o
	return &c
}

// less orders offers by ascending price, ties broken by lower id so
// that earlier offers at the same price execute first.
func less(a, b *Offer) bool {
	switch a.Price.Cmp(b.Price) {
	case -1:
		return true
	case 1:
		return false
	default:
		return a.ID < b.ID
	}
}

// side holds the offers of one directed pair, sorted best-first.
type side struct {
	offers []*Offer
}

// Book indexes every live offer on the ledger by directed asset pair
// and by id. It is an owned collection: callers pass it explicitly,
// there is no package-level book.
type Book struct {
	sides map[asset.Pair]*side
	byID  map[uint64]*Offer
}

// New returns an empty book.
func New() *Book {
	return &Book{
		sides: make(map[asset.Pair]*side),
		byID:  make(map[uint64]*Offer),
	}
}

// Insert adds an offer to its side of the book.
func (b *Book) Insert(o *Offer) error {
	if o.Selling == o.Buying {
		return errors.Join(ErrInvalidOffer, errors.New("selling and buying asset are identical"))
	}
	if o.Amount <= 0 {
		return errors.Join(ErrInvalidOffer, errors.New("amount must be positive"))
	}
	if !o.Price.Valid() {
		return errors.Join(ErrInvalidOffer, amount.ErrBadPrice)
	}

	pair := asset.Pair{Selling: o.Selling, Buying: o.Buying}
	s := b.sides[pair]
	if s == nil {
		s = &side{}
		b.sides[pair] = s
	}

	i := sort.Search(len(s.offers), func(i int) bool {
		return less(o, s.offers[i])
	})
	s.offers = append(s.offers, nil)
	copy(s.offers[i+1:], s.offers[i:])
	s.offers[i] = o
	b.byID[o.ID] = o
	return nil
}

// Best returns the best-priced offer selling `selling` for `buying`,
// or nil if that side is empty. Ties go to the lowest offer id.
func (b *Book) Best(selling, buying asset.Asset) *Offer {
	s := b.sides[asset.Pair{Selling: selling, Buying: buying}]
	if s == nil || len(s.offers) == 0 {
		return nil
	}
	return s.offers[0]
}

// Offers returns the resting offers for a directed pair, best first.
// The returned slice is a copy.
func (b *Book) Offers(selling, buying asset.Asset) []*Offer {
	s := b.sides[asset.Pair{Selling: selling, Buying: buying}]
	if s == nil {
		return nil
	}
	out := make([]*Offer, len(s.offers))
	copy(out, s.offers)
	return out
}

// Get returns the offer with the given id, or nil.
func (b *Book) Get(id uint64) *Offer {
	return b.byID[id]
}

// Remove deletes an offer by id. Removing an absent id is a no-op.
func (b *Book) Remove(id uint64) {
	o := b.byID[id]
	if o == nil {
		return
	}
	delete(b.byID, id)

	pair := asset.Pair{Selling: o.Selling, Buying: o.Buying}
	s := b.sides[pair]
	if s == nil {
		return
	}
	for i, cur := range s.offers {
		if cur.ID == id {
			s.offers = append(s.offers[:i], s.offers[i+1:]...)
			break
		}
	}
	if len(s.offers) == 0 {
		delete(b.sides, pair)
	}
}

// Consume reduces an offer's remaining amount by the executed quantity,
// removing it from the book when exhausted. An offer reduced to zero is
// never retained.
func (b *Book) Consume(id uint64, executed amount.Amount) {
	o := b.byID[id]
	if o == nil {
		return
	}
	if executed >= o.Amount {
		b.Remove(id)
		return
	}
	o.Amount -= executed
}

// BySeller returns every offer owned by the given account, in id order.
func (b *Book) BySeller(seller string) []*Offer {
	var out []*Offer
	for _, o := range b.byID {
		if o.Seller == seller {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the total number of resting offers.
func (b *Book) Len() int {
	return len(b.byID)
}

// All returns every resting offer in id order. Used when snapshotting.
func (b *Book) All() []*Offer {
	out := make([]*Offer, 0, len(b.byID))
	for _, o := range b.byID {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clone returns a deep copy of the book.
func (b *Book) Clone() *Book {
	c := New()
	for _, o := range b.byID {
		// Insert preserves ordering; errors are impossible for offers
		// that were already accepted once.
		_ = c.Insert(o.Clone())
	}
	return c
}
