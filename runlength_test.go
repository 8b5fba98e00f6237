package subband

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestRunLength(t *testing.T) {
	tests := []struct {
		name    string
		data    []int32
		encoded []int32
	}{
		{"empty", []int32{}, []int32{}},
		{"literals", []int32{3, -1, 7}, []int32{3, -1, 7}},
		{"single zero", []int32{0}, []int32{0, 0}},
		{"256 zeros", make([]int32, 256), []int32{0, 255}},
		{"mixed", []int32{5, 0, 0, 0, -3, 0}, []int32{5, 0, 2, -3, 0, 0}},
		{"leading", []int32{0, 0, 9, 0, 1}, []int32{0, 1, 9, 0, 0, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(tt *testing.T) {
			encoded := RunLengthEncode(tc.data)
			if cmp.Equal(encoded, tc.encoded) != true {
				tt.Errorf("%v != %v", encoded, tc.encoded)
			}
			decoded, err := RunLengthDecode(encoded)
			if err != nil {
				tt.Fatalf("no error expected: %+v", err)
			}
			if cmp.Equal(decoded, tc.data) != true {
				tt.Errorf("%v != %v", decoded, tc.data)
			}
		})
	}
}

func TestRunLengthRoundtrip(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i += 1 {
		data := make([]int32, r.Intn(300))
		for j := range data {
			if r.Intn(4) == 0 {
				data[j] = int32(r.Intn(41) - 20)
			}
		}
		decoded, err := RunLengthDecode(RunLengthEncode(data))
		if err != nil {
			t.Fatalf("no error expected: %+v", err)
		}
		if cmp.Equal(decoded, data) != true {
			t.Fatalf("%v != %v", decoded, data)
		}
	}
}

func TestRunLengthNarrow(t *testing.T) {
	// 300 zeros do not fit one int8 count
	data := make([]int8, 300)
	data[299] = 5
	encoded := RunLengthEncode(data)
	expect := []int8{0, 127, 0, 127, 0, 42, 5}
	if cmp.Equal(encoded, expect) != true {
		t.Errorf("%v != %v", encoded, expect)
	}
	decoded, err := RunLengthDecode(encoded)
	if err != nil {
		t.Fatalf("no error expected: %+v", err)
	}
	if cmp.Equal(decoded, data) != true {
		t.Errorf("roundtrip failed")
	}
}

func TestRunLengthDecodeErrors(t *testing.T) {
	t.Run("dangling marker", func(tt *testing.T) {
		_, err := RunLengthDecode([]int32{4, 0, 3, 0})
		if errors.Is(err, ErrMalformedRun) != true {
			tt.Errorf("expected run error, got %v", err)
		}
	})
	t.Run("negative count", func(tt *testing.T) {
		_, err := RunLengthDecode([]int32{0, -2})
		if errors.Is(err, ErrMalformedRun) != true {
			tt.Errorf("expected run error, got %v", err)
		}
	})
	t.Run("limit", func(tt *testing.T) {
		if _, err := RunLengthDecodeLimit([]int32{1, 0, 2}, 4); err != nil {
			tt.Errorf("exact limit must pass: %+v", err)
		}
		_, err := RunLengthDecodeLimit([]int32{1, 0, 2}, 3)
		if errors.Is(err, ErrMalformedRun) != true {
			tt.Errorf("expected run error, got %v", err)
		}
		_, err = RunLengthDecodeLimit([]int32{1, 2, 3}, 2)
		if errors.Is(err, ErrMalformedRun) != true {
			tt.Errorf("expected run error, got %v", err)
		}
	})
}
