package container

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octu0/subband"
	"github.com/octu0/subband/codec"
)

func testImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 1 {
		for x := 0; x < w; x += 1 {
			img.SetGray(x, y, color.Gray{Y: uint8((x*7 + y*3) % 256)})
		}
	}
	return img
}

func testStreams(t *testing.T) map[string]*codec.Stream {
	plan, err := subband.ParsePlan("[[0, [[0]]], [1]]")
	require.NoError(t, err)
	c, err := codec.New(codec.WithPlan(plan), codec.WithSubbandTable(subband.SubbandTable{1, 2, 3, 4}))
	require.NoError(t, err)

	img := testImage(32, 24)
	wavelet, err := c.EncodeWavelet(img)
	require.NoError(t, err)
	block, err := c.EncodeBlocks(img)
	require.NoError(t, err)
	return map[string]*codec.Stream{
		"wavelet": wavelet,
		"block":   block,
	}
}

func TestRoundTrip(t *testing.T) {
	streams := testStreams(t)
	for _, comp := range []Compression{None, RunLength, Zstd} {
		for name, s := range streams {
			t.Run(name+"/"+comp.String(), func(tt *testing.T) {
				buf := bytes.NewBuffer(nil)
				require.NoError(tt, Write(buf, s, comp))

				got, err := Read(bytes.NewReader(buf.Bytes()))
				require.NoError(tt, err)
				assert.Equal(tt, s.Kind, got.Kind)
				assert.Equal(tt, s.Width, got.Width)
				assert.Equal(tt, s.Height, got.Height)
				assert.Equal(tt, s.Codes, got.Codes)
				assert.Equal(tt, s.Bits.Len, got.Bits.Len)
				assert.Equal(tt, s.Bits.Data, got.Bits.Data)

				switch s.Kind {
				case codec.KindWavelet:
					assert.Equal(tt, s.Plan.String(), got.Plan.String())
					assert.Equal(tt, s.SubbandTable, got.SubbandTable)
					assert.Equal(tt, s.Lengths.String(), got.Lengths.String())
				case codec.KindBlock:
					assert.Equal(tt, s.BlockSize, got.BlockSize)
					assert.Equal(tt, s.BlockTable, got.BlockTable)
				}
			})
		}
	}
}

func TestDecodeAfterRead(t *testing.T) {
	streams := testStreams(t)
	c, err := codec.New()
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	require.NoError(t, Write(buf, streams["block"], Zstd))
	s, err := Read(buf)
	require.NoError(t, err)

	expect, err := c.DecodeBlocks(streams["block"])
	require.NoError(t, err)
	actual, err := c.DecodeBlocks(s)
	require.NoError(t, err)
	assert.Equal(t, expect.Pix, actual.Pix)
}

func TestReadErrors(t *testing.T) {
	streams := testStreams(t)
	buf := bytes.NewBuffer(nil)
	require.NoError(t, Write(buf, streams["wavelet"], None))
	data := buf.Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("XXXX"), data[4:]...)},
		{"truncated header", data[:7]},
		{"truncated body", data[:len(data)-3]},
		{"trailing", append(append([]byte(nil), data...), 0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(tt *testing.T) {
			_, err := Read(bytes.NewReader(tc.data))
			require.Error(tt, err)
			assert.True(tt, errors.Is(err, ErrFormat), "%+v", err)
		})
	}
	t.Run("version", func(tt *testing.T) {
		b := append([]byte(nil), data...)
		b[len(magic)] = version + 1
		_, err := Read(bytes.NewReader(b))
		assert.True(tt, errors.Is(err, ErrFormat))
	})
}

func TestWriteErrors(t *testing.T) {
	t.Run("size", func(tt *testing.T) {
		err := Write(bytes.NewBuffer(nil), &codec.Stream{Kind: codec.KindBlock}, None)
		assert.True(tt, errors.Is(err, ErrFormat))
	})
	t.Run("kind", func(tt *testing.T) {
		err := Write(bytes.NewBuffer(nil), &codec.Stream{Kind: 9, Width: 8, Height: 8}, None)
		assert.True(tt, errors.Is(err, ErrFormat))
	})
	t.Run("compression", func(tt *testing.T) {
		s := testStreams(tt)["block"]
		err := Write(bytes.NewBuffer(nil), s, Compression(7))
		assert.True(tt, errors.Is(err, ErrFormat))
	})
}

func TestParseCompression(t *testing.T) {
	for in, expect := range map[string]Compression{"": None, "none": None, "rle": RunLength, "runlength": RunLength, "zstd": Zstd} {
		c, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, expect, c)
	}
	_, err := ParseCompression("gzip")
	assert.True(t, errors.Is(err, ErrFormat))
}

// replaceRecord swaps the length record chunk of an uncompressed wavelet
// stream for record.
func replaceRecord(t *testing.T, data, record []byte) []byte {
	t.Helper()
	off := len(magic) + binary.Size(header{}) + binary.Size(subband.SubbandTable{})
	planLen := int(binary.BigEndian.Uint32(data[off:]))
	off += 4 + planLen
	recordLen := int(binary.BigEndian.Uint32(data[off:]))

	out := append([]byte(nil), data[:off]...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(record)))
	out = append(out, record...)
	return append(out, data[off+4+recordLen:]...)
}

func TestMalformedRecord(t *testing.T) {
	c, err := codec.New()
	require.NoError(t, err)
	s, err := c.EncodeWavelet(testImage(16, 16))
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	require.NoError(t, Write(buf, s, None))
	data := buf.Bytes()

	t.Run("unchanged", func(tt *testing.T) {
		record, err := s.Lengths.MarshalBinary()
		require.NoError(tt, err)
		got, err := Read(bytes.NewReader(replaceRecord(tt, data, record)))
		require.NoError(tt, err)
		_, err = c.DecodeWavelet(got)
		require.NoError(tt, err)
	})
	t.Run("count overflows int", func(tt *testing.T) {
		record := []byte{0, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
		_, err := Read(bytes.NewReader(replaceRecord(tt, data, record)))
		assert.True(tt, errors.Is(err, subband.ErrMalformedRecord), "%+v", err)
	})
	t.Run("count exceeds int32", func(tt *testing.T) {
		record := binary.AppendUvarint([]byte{0}, 1<<40)
		_, err := Read(bytes.NewReader(replaceRecord(tt, data, record)))
		assert.True(tt, errors.Is(err, subband.ErrMalformedRecord), "%+v", err)
	})
	t.Run("total differs from image", func(tt *testing.T) {
		record, err := (&subband.Lengths{Count: 64}).MarshalBinary()
		require.NoError(tt, err)
		got, err := Read(bytes.NewReader(replaceRecord(tt, data, record)))
		require.NoError(tt, err)
		_, err = c.DecodeWavelet(got)
		assert.True(tt, errors.Is(err, subband.ErrLengthMismatch), "%+v", err)
	})
}
