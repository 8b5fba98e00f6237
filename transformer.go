package subband

// Transformer runs the parallel stages on at most Workers goroutines each.
// The zero value uses GOMAXPROCS.
type Transformer struct {
	Workers int
}

func (t Transformer) Decompose(m Matrix, q SubbandTable) (*Node, error) {
	return decompose(m, q, t.Workers)
}

func (t Transformer) Build(m Matrix, plan Plan, q SubbandTable) (*Node, error) {
	return build(m, plan, q, t.Workers)
}

func (t Transformer) ForwardBlocks(blocks [][][]uint8, table BlockTable) ([][][]int32, error) {
	return forwardBlocks(blocks, table, t.Workers)
}

func (t Transformer) InverseBlocks(blocks [][][]int32, size int) ([][][]uint8, error) {
	return inverseBlocks(blocks, size, t.Workers)
}
