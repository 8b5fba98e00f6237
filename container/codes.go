package container

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/octu0/subband"
)

// writeCodes stores the table sorted by symbol: count, then per entry the
// symbol, the code length and the code packed MSB first.
func writeCodes(w *bytes.Buffer, codes subband.CodeTable) error {
	symbols := make([]int32, 0, len(codes))
	for s := range codes {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	if err := binary.Write(w, binary.BigEndian, uint32(len(symbols))); err != nil {
		return errors.WithStack(err)
	}
	for _, s := range symbols {
		code := codes[s]
		if len(code) == 0 || maxCodeLen < len(code) {
			return errors.Wrapf(ErrFormat, "code of symbol %d has length %d", s, len(code))
		}
		packed := make([]byte, (len(code)+7)/8)
		for i := 0; i < len(code); i += 1 {
			switch code[i] {
			case '1':
				packed[i/8] |= 1 << (7 - uint(i%8))
			case '0':
			default:
				return errors.Wrapf(ErrFormat, "code %q of symbol %d is not binary", code, s)
			}
		}
		if err := binary.Write(w, binary.BigEndian, s); err != nil {
			return errors.WithStack(err)
		}
		if err := w.WriteByte(uint8(len(code))); err != nil {
			return errors.WithStack(err)
		}
		if _, err := w.Write(packed); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func readCodes(r *bytes.Reader) (subband.CodeTable, error) {
	count := uint32(0)
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, errors.Wrapf(ErrFormat, "code count: %v", err)
	}
	// every entry takes at least 6 bytes
	if uint32(r.Len()/6) < count {
		return nil, errors.Wrapf(ErrFormat, "%d codes in %d bytes", count, r.Len())
	}
	codes := make(subband.CodeTable, count)
	for i := uint32(0); i < count; i += 1 {
		s := int32(0)
		if err := binary.Read(r, binary.BigEndian, &s); err != nil {
			return nil, errors.Wrapf(ErrFormat, "code %d: %v", i, err)
		}
		l, err := r.ReadByte()
		if err != nil || l == 0 {
			return nil, errors.Wrapf(ErrFormat, "code %d length", i)
		}
		packed := make([]byte, (int(l)+7)/8)
		if _, err := io.ReadFull(r, packed); err != nil {
			return nil, errors.Wrapf(ErrFormat, "code %d: %v", i, err)
		}
		code := make([]byte, l)
		for j := range code {
			code[j] = '0' + (packed[j/8]>>(7-uint(j%8)))&1
		}
		if _, ok := codes[s]; ok {
			return nil, errors.Wrapf(ErrFormat, "symbol %d defined twice", s)
		}
		codes[s] = string(code)
	}
	return codes, nil
}

func writeBits(w *bytes.Buffer, bits subband.Bits) error {
	if bits.Len < 0 || len(bits.Data)*8 < bits.Len {
		return errors.Wrapf(ErrFormat, "%d bits in %d bytes", bits.Len, len(bits.Data))
	}
	if err := binary.Write(w, binary.BigEndian, uint64(bits.Len)); err != nil {
		return errors.WithStack(err)
	}
	_, err := w.Write(bits.Data[:(bits.Len+7)/8])
	return errors.WithStack(err)
}

func readBits(r *bytes.Reader) (subband.Bits, error) {
	n := uint64(0)
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return subband.Bits{}, errors.Wrapf(ErrFormat, "bit length: %v", err)
	}
	size := (n + 7) / 8
	if uint64(r.Len()) < size {
		return subband.Bits{}, errors.Wrapf(ErrFormat, "%d bits declared, %d bytes left", n, r.Len())
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return subband.Bits{}, errors.WithStack(err)
	}
	return subband.Bits{Data: data, Len: int(n)}, nil
}
