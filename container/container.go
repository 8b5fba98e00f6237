// Package container persists a codec.Stream: a fixed header followed by a
// body holding the quantization layout, length record, code table and
// entropy-coded bits, optionally compressed as a whole.
package container

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/octu0/runlength"
	"github.com/pkg/errors"

	"github.com/octu0/subband"
	"github.com/octu0/subband/codec"
)

const (
	magic   = "SBC1"
	version = uint8(1)

	maxCodeLen = 255
	maxSide    = 1 << 16
)

var (
	ErrFormat = errors.New("container: malformed data")
)

type Compression uint8

const (
	None      Compression = 0
	RunLength Compression = 1
	Zstd      Compression = 2
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case RunLength:
		return "runlength"
	case Zstd:
		return "zstd"
	}
	return "unknown"
}

func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return None, nil
	case "runlength", "rle":
		return RunLength, nil
	case "zstd":
		return Zstd, nil
	}
	return None, errors.Wrapf(ErrFormat, "unknown compression %q", s)
}

type header struct {
	Version     uint8
	Kind        uint8
	Compression uint8
	Width       uint32
	Height      uint32
}

// Write serializes s to w, compressing the body with c.
func Write(w io.Writer, s *codec.Stream, c Compression) error {
	if s.Width <= 0 || s.Height <= 0 || maxSide < s.Width || maxSide < s.Height {
		return errors.Wrapf(ErrFormat, "image size %dx%d", s.Width, s.Height)
	}
	body := bytes.NewBuffer(nil)
	if err := writeBody(body, s); err != nil {
		return errors.WithStack(err)
	}

	if _, err := io.WriteString(w, magic); err != nil {
		return errors.WithStack(err)
	}
	h := header{
		Version:     version,
		Kind:        uint8(s.Kind),
		Compression: uint8(c),
		Width:       uint32(s.Width),
		Height:      uint32(s.Height),
	}
	if err := binary.Write(w, binary.BigEndian, h); err != nil {
		return errors.WithStack(err)
	}
	if err := compress(w, body.Bytes(), c); err != nil {
		return errors.Wrapf(err, "compress %s", c)
	}
	return nil
}

func compress(w io.Writer, body []byte, c Compression) error {
	switch c {
	case None:
		if _, err := w.Write(body); err != nil {
			return errors.WithStack(err)
		}
		return nil
	case RunLength:
		if err := runlength.NewEncoder(w).Encode(body); err != nil {
			return errors.WithStack(err)
		}
		return nil
	case Zstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return errors.WithStack(err)
		}
		if _, err := enc.Write(body); err != nil {
			enc.Close()
			return errors.WithStack(err)
		}
		if err := enc.Close(); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}
	return errors.Wrapf(ErrFormat, "unknown compression %d", c)
}

func decompress(r io.Reader, c Compression) ([]byte, error) {
	switch c {
	case None:
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return b, nil
	case RunLength:
		b, err := runlength.NewDecoder().Decode(r)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return b, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer dec.Close()

		b, err := io.ReadAll(dec)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return b, nil
	}
	return nil, errors.Wrapf(ErrFormat, "unknown compression %d", c)
}

// Read parses a stream written by Write.
func Read(r io.Reader) (*codec.Stream, error) {
	m := make([]byte, len(magic))
	if _, err := io.ReadFull(r, m); err != nil {
		return nil, errors.Wrap(ErrFormat, "missing magic")
	}
	if string(m) != magic {
		return nil, errors.Wrapf(ErrFormat, "bad magic %q", m)
	}
	h := header{}
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, errors.Wrapf(ErrFormat, "header: %v", err)
	}
	if h.Version != version {
		return nil, errors.Wrapf(ErrFormat, "unsupported version %d", h.Version)
	}
	if h.Width == 0 || h.Height == 0 || maxSide < h.Width || maxSide < h.Height {
		return nil, errors.Wrapf(ErrFormat, "image size %dx%d", h.Width, h.Height)
	}

	body, err := decompress(r, Compression(h.Compression))
	if err != nil {
		return nil, errors.Wrapf(err, "decompress %s", Compression(h.Compression))
	}
	s := &codec.Stream{
		Kind:   codec.Kind(h.Kind),
		Width:  int(h.Width),
		Height: int(h.Height),
	}
	if err := readBody(bytes.NewReader(body), s); err != nil {
		return nil, errors.WithStack(err)
	}
	return s, nil
}

func writeBody(w *bytes.Buffer, s *codec.Stream) error {
	switch s.Kind {
	case codec.KindWavelet:
		if err := writeWavelet(w, s); err != nil {
			return errors.WithStack(err)
		}
	case codec.KindBlock:
		if err := writeBlock(w, s); err != nil {
			return errors.WithStack(err)
		}
	default:
		return errors.Wrapf(ErrFormat, "unknown stream kind %d", s.Kind)
	}
	if err := writeCodes(w, s.Codes); err != nil {
		return errors.WithStack(err)
	}
	return writeBits(w, s.Bits)
}

func readBody(r *bytes.Reader, s *codec.Stream) error {
	switch s.Kind {
	case codec.KindWavelet:
		if err := readWavelet(r, s); err != nil {
			return errors.WithStack(err)
		}
	case codec.KindBlock:
		if err := readBlock(r, s); err != nil {
			return errors.WithStack(err)
		}
	default:
		return errors.Wrapf(ErrFormat, "unknown stream kind %d", s.Kind)
	}
	codes, err := readCodes(r)
	if err != nil {
		return errors.WithStack(err)
	}
	s.Codes = codes
	bits, err := readBits(r)
	if err != nil {
		return errors.WithStack(err)
	}
	s.Bits = bits
	if 0 < r.Len() {
		return errors.Wrapf(ErrFormat, "%d trailing bytes", r.Len())
	}
	return nil
}

func writeWavelet(w *bytes.Buffer, s *codec.Stream) error {
	if s.Lengths == nil {
		return errors.Wrap(ErrFormat, "wavelet stream without length record")
	}
	if err := binary.Write(w, binary.BigEndian, s.SubbandTable); err != nil {
		return errors.WithStack(err)
	}
	if err := writeChunk(w, []byte(s.Plan.String())); err != nil {
		return errors.WithStack(err)
	}
	record, err := s.Lengths.MarshalBinary()
	if err != nil {
		return errors.WithStack(err)
	}
	return writeChunk(w, record)
}

func readWavelet(r *bytes.Reader, s *codec.Stream) error {
	if err := binary.Read(r, binary.BigEndian, &s.SubbandTable); err != nil {
		return errors.Wrapf(ErrFormat, "subband table: %v", err)
	}
	planText, err := readChunk(r)
	if err != nil {
		return errors.Wrap(err, "plan")
	}
	plan, err := subband.ParsePlan(string(planText))
	if err != nil {
		return errors.WithStack(err)
	}
	s.Plan = plan
	record, err := readChunk(r)
	if err != nil {
		return errors.Wrap(err, "length record")
	}
	lengths := new(subband.Lengths)
	if err := lengths.UnmarshalBinary(record); err != nil {
		return errors.WithStack(err)
	}
	s.Lengths = lengths
	return nil
}

func writeBlock(w *bytes.Buffer, s *codec.Stream) error {
	if err := s.BlockTable.Validate(s.BlockSize); err != nil {
		return errors.WithStack(err)
	}
	if err := binary.Write(w, binary.BigEndian, uint16(s.BlockSize)); err != nil {
		return errors.WithStack(err)
	}
	for _, row := range s.BlockTable {
		if err := binary.Write(w, binary.BigEndian, row); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func readBlock(r *bytes.Reader, s *codec.Stream) error {
	size := uint16(0)
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return errors.Wrapf(ErrFormat, "block size: %v", err)
	}
	if size == 0 || r.Len() < int(size)*int(size)*4 {
		return errors.Wrapf(ErrFormat, "block size %d", size)
	}
	table := make(subband.BlockTable, size)
	for i := range table {
		table[i] = make([]int32, size)
		if err := binary.Read(r, binary.BigEndian, table[i]); err != nil {
			return errors.Wrapf(ErrFormat, "block table: %v", err)
		}
	}
	s.BlockSize = int(size)
	s.BlockTable = table
	return nil
}

func writeChunk(w *bytes.Buffer, b []byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(b))); err != nil {
		return errors.WithStack(err)
	}
	_, err := w.Write(b)
	return errors.WithStack(err)
}

func readChunk(r *bytes.Reader) ([]byte, error) {
	size := uint32(0)
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return nil, errors.Wrapf(ErrFormat, "chunk size: %v", err)
	}
	if uint32(r.Len()) < size {
		return nil, errors.Wrapf(ErrFormat, "chunk of %d bytes, %d left", size, r.Len())
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}
