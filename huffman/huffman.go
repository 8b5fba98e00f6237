// Package huffman is the default entropy coder of the subband codec: a
// canonical Huffman code built from the symbol frequencies of one stream.
package huffman

import (
	"container/heap"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/octu0/subband"
)

var (
	ErrCorrupt  = errors.New("huffman: corrupt bit stream")
	ErrBadTable = errors.New("huffman: invalid code table")
)

type node struct {
	symbol int32
	count  int
	order  int
	left   *node
	right  *node
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].count == h[j].count {
		return h[i].order < h[j].order
	}
	return h[i].count < h[j].count
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Coder implements subband.EntropyCoder.
type Coder struct{}

var _ subband.EntropyCoder = Coder{}

func New() Coder {
	return Coder{}
}

func (Coder) Encode(symbols []int32) (subband.Bits, subband.CodeTable, error) {
	table := Build(symbols)
	bits, err := Pack(symbols, table)
	if err != nil {
		return subband.Bits{}, nil, errors.WithStack(err)
	}
	return bits, table, nil
}

func (Coder) Decode(bits subband.Bits, table subband.CodeTable) ([]int32, error) {
	return Unpack(bits, table)
}

// Build derives a canonical code from the symbol frequencies. A stream with
// a single distinct symbol gets the one-bit code "0".
func Build(symbols []int32) subband.CodeTable {
	freq := make(map[int32]int)
	for _, s := range symbols {
		freq[s] += 1
	}
	table := make(subband.CodeTable, len(freq))
	if len(freq) == 0 {
		return table
	}

	keys := make([]int32, 0, len(freq))
	for s := range freq {
		keys = append(keys, s)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	if len(keys) == 1 {
		table[keys[0]] = "0"
		return table
	}

	h := make(nodeHeap, 0, len(keys))
	for i, s := range keys {
		h = append(h, &node{symbol: s, count: freq[s], order: i})
	}
	heap.Init(&h)
	order := len(keys)
	for 1 < h.Len() {
		left := heap.Pop(&h).(*node)
		right := heap.Pop(&h).(*node)
		heap.Push(&h, &node{count: left.count + right.count, order: order, left: left, right: right})
		order += 1
	}

	lengths := make(map[int32]int, len(keys))
	walk(h[0], 0, lengths)
	return canonical(keys, lengths)
}

func walk(n *node, depth int, lengths map[int32]int) {
	if n.left == nil && n.right == nil {
		lengths[n.symbol] = depth
		return
	}
	walk(n.left, depth+1, lengths)
	walk(n.right, depth+1, lengths)
}

// canonical assigns codes in (length, symbol) order.
func canonical(keys []int32, lengths map[int32]int) subband.CodeTable {
	sorted := append([]int32(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool {
		li, lj := lengths[sorted[i]], lengths[sorted[j]]
		if li == lj {
			return sorted[i] < sorted[j]
		}
		return li < lj
	})

	table := make(subband.CodeTable, len(sorted))
	code := uint64(0)
	prevLen := lengths[sorted[0]]
	for i, s := range sorted {
		l := lengths[s]
		if 0 < i {
			code = (code + 1) << (l - prevLen)
		}
		table[s] = formatCode(code, l)
		prevLen = l
	}
	return table
}

func formatCode(code uint64, length int) string {
	sb := new(strings.Builder)
	sb.Grow(length)
	for i := length - 1; 0 <= i; i -= 1 {
		if (code>>i)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
