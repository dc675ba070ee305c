package main

import (
	"slices"
	"testing"
)

func TestChunkWidths(t *testing.T) {
	tests := []struct {
		n, max int
		want   []int
	}{
		{4688, 4096, []int{4096, 592}},
		{4688, 2048, []int{2048, 2048, 592}},
		{8, 4096, []int{8}},
		{4096, 4096, []int{4096}},
		{10, 0, []int{10}},
		{0, 4096, nil},
	}
	for _, tt := range tests {
		if got := chunkWidths(tt.n, tt.max); !slices.Equal(got, tt.want) {
			t.Errorf("chunkWidths(%d, %d) = %v, want %v", tt.n, tt.max, got, tt.want)
		}
	}
}

// Every texel lands in chunk i/max at column i%max and no chunk exceeds max.
func TestChunkWidthsCoverTexels(t *testing.T) {
	const n, max = 4688, 2048
	ws := chunkWidths(n, max)
	i := 0
	for c, w := range ws {
		if w > max {
			t.Fatalf("chunk %d has width %d > %d", c, w, max)
		}
		for col := 0; col < w; col++ {
			if i/max != c || i%max != col {
				t.Fatalf("texel %d at chunk %d col %d, want %d col %d", i, c, col, i/max, i%max)
			}
			i++
		}
	}
	if i != n {
		t.Fatalf("covered %d texels, want %d", i, n)
	}
}
