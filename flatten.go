package subband

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Lengths mirrors the shape of a subband tree, holding the number of
// coefficients each leaf contributed to the flattened stream.
type Lengths struct {
	Count    int
	Children *[4]*Lengths
}

func (l *Lengths) IsLeaf() bool {
	return l.Children == nil
}

// Total is the number of coefficients described by l. Missing nodes count
// as zero; Validate reports them.
func (l *Lengths) Total() int {
	if l == nil {
		return 0
	}
	if l.IsLeaf() {
		return l.Count
	}
	total := 0
	for _, c := range l.Children {
		total += c.Total()
	}
	return total
}

// Validate checks that every branch has four children, every leaf count
// fits an int32 and the tree is no deeper than a plan can make it.
func (l *Lengths) Validate() error {
	return l.validate("root", 0)
}

func (l *Lengths) validate(path string, depth int) error {
	if l == nil {
		return errors.Wrapf(ErrMalformedRecord, "%s: missing node", path)
	}
	if MaxDepth+1 < depth {
		return errors.Wrapf(ErrMalformedRecord, "%s: nesting deeper than %d", path, MaxDepth+1)
	}
	if l.IsLeaf() {
		if l.Count < 0 || math.MaxInt32 < l.Count {
			return errors.Wrapf(ErrMalformedRecord, "%s: leaf count %d", path, l.Count)
		}
		return nil
	}
	for _, r := range roles {
		if err := l.Children[r].validate(path+"/"+r.String(), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// String renders l as a nested list, e.g. "[[16, 16, 16, 16], 64, 64, 64]".
func (l *Lengths) String() string {
	sb := new(strings.Builder)
	l.write(sb)
	return sb.String()
}

func (l *Lengths) write(sb *strings.Builder) {
	if l == nil {
		sb.WriteString("nil")
		return
	}
	if l.IsLeaf() {
		sb.WriteString(strconv.Itoa(l.Count))
		return
	}
	sb.WriteByte('[')
	for i, c := range l.Children {
		if 0 < i {
			sb.WriteString(", ")
		}
		c.write(sb)
	}
	sb.WriteByte(']')
}

const (
	recordLeaf   byte = 0
	recordBranch byte = 1
)

// MarshalBinary writes l in pre-order: a tag byte per node, followed by a
// uvarint count for leaves.
func (l *Lengths) MarshalBinary() ([]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return l.appendBinary(nil), nil
}

func (l *Lengths) appendBinary(buf []byte) []byte {
	if l.IsLeaf() {
		buf = append(buf, recordLeaf)
		return binary.AppendUvarint(buf, uint64(l.Count))
	}
	buf = append(buf, recordBranch)
	for _, c := range l.Children {
		buf = c.appendBinary(buf)
	}
	return buf
}

func (l *Lengths) UnmarshalBinary(data []byte) error {
	parsed, n, err := parseRecord(data, 0)
	if err != nil {
		return errors.WithStack(err)
	}
	if n != len(data) {
		return errors.Wrapf(ErrMalformedRecord, "%d trailing bytes", len(data)-n)
	}
	*l = *parsed
	return nil
}

func parseRecord(data []byte, depth int) (*Lengths, int, error) {
	if MaxDepth+1 < depth {
		return nil, 0, errors.Wrapf(ErrMalformedRecord, "nesting deeper than %d", MaxDepth+1)
	}
	if len(data) == 0 {
		return nil, 0, errors.Wrap(ErrMalformedRecord, "truncated")
	}
	switch data[0] {
	case recordLeaf:
		count, n := binary.Uvarint(data[1:])
		if n <= 0 {
			return nil, 0, errors.Wrap(ErrMalformedRecord, "bad leaf count")
		}
		if math.MaxInt32 < count {
			return nil, 0, errors.Wrapf(ErrMalformedRecord, "leaf count %d exceeds %d", count, math.MaxInt32)
		}
		return &Lengths{Count: int(count)}, 1 + n, nil
	case recordBranch:
		children := [4]*Lengths{}
		read := 1
		for i := range children {
			c, n, err := parseRecord(data[read:], depth+1)
			if err != nil {
				return nil, 0, err
			}
			children[i] = c
			read += n
		}
		return &Lengths{Children: &children}, read, nil
	}
	return nil, 0, errors.Wrapf(ErrMalformedRecord, "unknown tag %d", data[0])
}

// Flatten serializes n depth-first in role order, zigzag scanning every
// leaf, and returns the stream with its length record.
func Flatten(n *Node) ([]int32, *Lengths) {
	stream := make([]int32, 0, n.size())
	stream, lengths := flatten(n, stream)
	return stream, lengths
}

func (n *Node) size() int {
	if n.IsLeaf() {
		return n.Leaf.Rows() * n.Leaf.Cols()
	}
	total := 0
	for _, c := range n.Children {
		total += c.size()
	}
	return total
}

func flatten(n *Node, stream []int32) ([]int32, *Lengths) {
	if n.IsLeaf() {
		z := Zigzag(n.Leaf)
		return append(stream, z...), &Lengths{Count: len(z)}
	}
	children := [4]*Lengths{}
	for _, r := range roles {
		var l *Lengths
		stream, l = flatten(n.Children[r], stream)
		children[r] = l
	}
	return stream, &Lengths{Children: &children}
}

// Rebuild inverts Flatten. rows and cols are the dimensions of the matrix
// the root of the tree was built from; every branch halves them.
func Rebuild(stream []int32, lengths *Lengths, rows, cols int) (*Node, error) {
	if lengths == nil {
		return nil, errors.Wrap(ErrLengthMismatch, "no length record")
	}
	if err := lengths.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if total := lengths.Total(); total != len(stream) {
		return nil, errors.Wrapf(ErrLengthMismatch, "record describes %d coefficients, stream has %d", total, len(stream))
	}
	n, _, err := rebuild(stream, lengths, rows, cols, "root")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return n, nil
}

func rebuild(stream []int32, l *Lengths, rows, cols int, path string) (*Node, int, error) {
	if l.IsLeaf() {
		if l.Count != rows*cols {
			return nil, 0, errors.Wrapf(ErrLengthMismatch, "%s: %dx%d subband needs %d coefficients, record has %d", path, rows, cols, rows*cols, l.Count)
		}
		m, err := Unzigzag(stream[:l.Count], rows, cols)
		if err != nil {
			return nil, 0, errors.Wrap(err, path)
		}
		return NewLeaf(m), l.Count, nil
	}
	if rows%2 != 0 || cols%2 != 0 {
		return nil, 0, errors.Wrapf(ErrDimension, "%s: %dx%d cannot be split", path, rows, cols)
	}
	children := [4]*Node{}
	read := 0
	for _, r := range roles {
		c, n, err := rebuild(stream[read:], l.Children[r], rows/2, cols/2, path+"/"+r.String())
		if err != nil {
			return nil, 0, err
		}
		children[r] = c
		read += n
	}
	return &Node{Children: &children}, read, nil
}
