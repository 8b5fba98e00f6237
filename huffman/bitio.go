package huffman

import (
	"github.com/pkg/errors"

	"github.com/octu0/subband"
)

type bitWriter struct {
	out   []byte
	cache byte
	bits  uint8
	n     int
}

func (w *bitWriter) WriteBit(bit uint8) {
	if 0 < bit {
		w.cache |= (1 << (7 - w.bits))
	}
	w.bits += 1
	w.n += 1
	if w.bits == 8 {
		w.out = append(w.out, w.cache)
		w.bits = 0
		w.cache = 0
	}
}

func (w *bitWriter) Flush() subband.Bits {
	if 0 < w.bits {
		w.out = append(w.out, w.cache)
		w.bits = 0
		w.cache = 0
	}
	return subband.Bits{Data: w.out, Len: w.n}
}

type bitReader struct {
	data []byte
	pos  int
	len  int
}

func (r *bitReader) ReadBit() (uint8, bool) {
	if r.len <= r.pos {
		return 0, false
	}
	bit := (r.data[r.pos/8] >> (7 - uint(r.pos%8))) & 1
	r.pos += 1
	return bit, true
}

// Pack writes the code of every symbol, MSB first.
func Pack(symbols []int32, table subband.CodeTable) (subband.Bits, error) {
	w := &bitWriter{out: make([]byte, 0, len(symbols)/2)}
	for i, s := range symbols {
		code, ok := table[s]
		if ok != true {
			return subband.Bits{}, errors.Wrapf(ErrBadTable, "symbol %d at %d has no code", s, i)
		}
		for j := 0; j < len(code); j += 1 {
			w.WriteBit(code[j] - '0')
		}
	}
	return w.Flush(), nil
}

type trie struct {
	leaf   bool
	symbol int32
	next   [2]*trie
}

func buildTrie(table subband.CodeTable) (*trie, error) {
	root := &trie{}
	for s, code := range table {
		if code == "" {
			return nil, errors.Wrapf(ErrBadTable, "symbol %d has an empty code", s)
		}
		t := root
		for i := 0; i < len(code); i += 1 {
			if t.leaf {
				return nil, errors.Wrapf(ErrBadTable, "code %q of %d extends another code", code, s)
			}
			var b int
			switch code[i] {
			case '0':
				b = 0
			case '1':
				b = 1
			default:
				return nil, errors.Wrapf(ErrBadTable, "code %q of %d is not binary", code, s)
			}
			if t.next[b] == nil {
				t.next[b] = &trie{}
			}
			t = t.next[b]
		}
		if t.leaf || t.next[0] != nil || t.next[1] != nil {
			return nil, errors.Wrapf(ErrBadTable, "code %q of %d is not prefix free", code, s)
		}
		t.leaf = true
		t.symbol = s
	}
	return root, nil
}

// Unpack decodes bits with table. Bits that stop in the middle of a code
// are reported as corruption.
func Unpack(bits subband.Bits, table subband.CodeTable) ([]int32, error) {
	if bits.Len < 0 || len(bits.Data)*8 < bits.Len {
		return nil, errors.Wrapf(ErrCorrupt, "%d bits declared, %d bytes present", bits.Len, len(bits.Data))
	}
	root, err := buildTrie(table)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	out := make([]int32, 0, bits.Len)
	r := &bitReader{data: bits.Data, len: bits.Len}
	t := root
	for {
		bit, ok := r.ReadBit()
		if ok != true {
			break
		}
		t = t.next[bit]
		if t == nil {
			return nil, errors.Wrapf(ErrCorrupt, "no code matches at bit %d", r.pos-1)
		}
		if t.leaf {
			out = append(out, t.symbol)
			t = root
		}
	}
	if t != root {
		return nil, errors.Wrapf(ErrCorrupt, "stream ends inside a code at bit %d", r.pos)
	}
	return out, nil
}
