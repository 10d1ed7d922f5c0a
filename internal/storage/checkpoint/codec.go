package checkpoint

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/pierrec/lz4"
	"github.com/ugorji/go/codec"

	"github.com/lumenforge/lumend/internal/core/book"
	"github.com/lumenforge/lumend/internal/core/ledger"
)

// snapshot is the wire form of one close: the full ledger state plus
// the close sequence it belongs to. Entries are sorted so the encoding
// of a given state is byte-stable.
type snapshot struct {
	Seq         uint32
	NextOfferID uint64
	Accounts    []*ledger.Account
	Lines       []*ledger.TrustLine
	Offers      []*book.Offer
}

func snapshotFromState(seq uint32, st *ledger.State) *snapshot {
	snap := &snapshot{
		Seq:         seq,
		NextOfferID: st.PeekOfferID(),
		Accounts:    st.AllAccounts(),
		Lines:       st.AllLines(),
		Offers:      st.Book().All(),
	}
	sort.Slice(snap.Accounts, func(i, j int) bool {
		return snap.Accounts[i].Address < snap.Accounts[j].Address
	})
	sort.Slice(snap.Lines, func(i, j int) bool {
		a, b := snap.Lines[i], snap.Lines[j]
		if a.Account != b.Account {
			return a.Account < b.Account
		}
		return a.Asset.String() < b.Asset.String()
	})
	return snap
}

func (s *snapshot) restore() (*ledger.State, error) {
	st := ledger.NewState()
	for _, a := range s.Accounts {
		st.PutAccount(a)
	}
	for _, l := range s.Lines {
		st.PutTrustLine(l)
	}
	for _, o := range s.Offers {
		if err := st.Book().Insert(o); err != nil {
			return nil, fmt.Errorf("checkpoint: corrupt snapshot offer %d: %w", o.ID, err)
		}
	}
	st.SetNextOfferID(s.NextOfferID)
	return st, nil
}

var cborHandle codec.CborHandle

// encodeSnapshot renders the snapshot as lz4-compressed CBOR. The
// frame is a 1-byte compression flag plus the 4-byte original length,
// so incompressible payloads can be stored raw.
func encodeSnapshot(snap *snapshot) ([]byte, error) {
	var raw []byte
	if err := codec.NewEncoderBytes(&raw, &cborHandle).Encode(snap); err != nil {
		return nil, fmt.Errorf("checkpoint: encode snapshot: %w", err)
	}

	out := make([]byte, 5+lz4.CompressBlockBound(len(raw)))
	binary.LittleEndian.PutUint32(out[1:5], uint32(len(raw)))

	n, err := lz4.CompressBlock(raw, out[5:], nil)
	if err != nil || n == 0 || n >= len(raw) {
		out[0] = 0
		return append(out[:5], raw...), nil
	}
	out[0] = 1
	return out[:5+n], nil
}

func decodeSnapshot(data []byte) (*snapshot, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("checkpoint: snapshot frame too short (%d bytes)", len(data))
	}
	origLen := binary.LittleEndian.Uint32(data[1:5])

	var raw []byte
	switch data[0] {
	case 0:
		raw = data[5:]
	case 1:
		raw = make([]byte, origLen)
		n, err := lz4.UncompressBlock(data[5:], raw)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: decompress snapshot: %w", err)
		}
		raw = raw[:n]
	default:
		return nil, fmt.Errorf("checkpoint: unknown compression flag %d", data[0])
	}

	snap := new(snapshot)
	if err := codec.NewDecoderBytes(raw, &cborHandle).Decode(snap); err != nil {
		return nil, fmt.Errorf("checkpoint: decode snapshot: %w", err)
	}
	return snap, nil
}
