package subband_test

import (
	"fmt"

	"github.com/octu0/subband"
)

func ExampleZigzag() {
	matrix := [][]int16{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	}
	zigzag := subband.Zigzag(matrix)
	fmt.Println(zigzag)

	orig, err := subband.Unzigzag(zigzag, 4, 4)
	if err != nil {
		panic(err)
	}
	fmt.Println(orig)

	// Output:
	// [1 2 5 9 6 3 4 7 10 13 14 11 8 12 15 16]
	// [[1 2 3 4] [5 6 7 8] [9 10 11 12] [13 14 15 16]]
}

func ExampleRunLengthEncode() {
	data := []int32{5, 0, 0, 0, -3, 0}
	encoded := subband.RunLengthEncode(data)
	fmt.Println(encoded)

	decoded, err := subband.RunLengthDecode(encoded)
	if err != nil {
		panic(err)
	}
	fmt.Println(decoded)

	// Output:
	// [5 0 2 -3 0 0]
	// [5 0 0 0 -3 0]
}

func ExampleFlatten() {
	plan, err := subband.ParsePlan("[[0]]")
	if err != nil {
		panic(err)
	}
	tree, err := subband.Build(subband.NewMatrix(32, 32), plan, subband.UnitSubbandTable)
	if err != nil {
		panic(err)
	}
	stream, lengths := subband.Flatten(tree)
	fmt.Println(len(stream), lengths)
	fmt.Println(subband.RunLengthEncode(stream))

	// Output:
	// 1024 [[64, 64, 64, 64], 256, 256, 256]
	// [0 1023]
}

func ExampleParsePlan() {
	plan, err := subband.ParsePlan("[[0, [[0], [1]]], [3]]")
	if err != nil {
		panic(err)
	}
	fmt.Println(plan.Depth())
	for _, s := range plan {
		fmt.Println(s.Role, len(s.Next))
	}

	// Output:
	// 2
	// LL 2
	// HH 0
}
