package subband

// Bits is a packed MSB-first bit string of Len bits.
type Bits struct {
	Data []byte
	Len  int
}

// CodeTable maps a symbol to its variable-length code written as a string
// of '0' and '1'.
type CodeTable map[int32]string

// EntropyCoder turns a symbol stream into bits and back. The table produced
// by Encode must travel with the bits.
type EntropyCoder interface {
	Encode(symbols []int32) (Bits, CodeTable, error)
	Decode(bits Bits, table CodeTable) ([]int32, error)
}
