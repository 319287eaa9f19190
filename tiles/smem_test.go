package tiles

import (
	"math"
	"testing"
)

func TestBufferingDepth(t *testing.T) {
	tests := []struct {
		d, dv int
		want  int
	}{
		{64, 64, 2},
		{128, 128, 2},
		{192, 192, 2},
		{64, 256, 1},  // wide value head
		{320, 160, 2}, // 480 combined
		{320, 192, 1}, // 512 combined
		{256, 256, 1},
		{320, 512, 1},
	}
	for _, tt := range tests {
		if got := BufferingDepth(tt.d, tt.dv); got != tt.want {
			t.Errorf("BufferingDepth(%d, %d) = %d, want %d", tt.d, tt.dv, got, tt.want)
		}
	}
}

func TestSmemEstimateBytes(t *testing.T) {
	tests := []struct {
		name string
		dims TileDims
		cfg  KernelShapeConfig
		want int
	}{
		{"double buffered", TileDims{128, 64}, NewKernelShapeConfig(64, 64), 2 * 192 * 128 * 2},
		{"single buffered", TileDims{32, 16}, NewKernelShapeConfig(320, 512), 1 * 48 * 832 * 2},
		{"fp8", TileDims{128, 64}, KernelShapeConfig{HeadDim: 128, HeadDimV: 128, ElementSize: 1}, 2 * 192 * 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SmemEstimateBytes(tt.dims, tt.cfg); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFitsBudget_Boundary(t *testing.T) {
	// 64x80 at d=96, dv=256: 1 x 144 x 352 x 2 = 101376, exactly the limit.
	cfg := NewKernelShapeConfig(96, 256)
	if !FitsBudget(TileDims{64, 80}, cfg, SmemLimitBytes) {
		t.Error("an estimate equal to the limit must fit")
	}
	if FitsBudget(TileDims{64, 96}, cfg, SmemLimitBytes) {
		t.Error("an estimate above the limit must not fit")
	}
}

func TestSmemEstimateBytes_SaturatesOnOverflow(t *testing.T) {
	tests := []struct {
		name string
		cfg  KernelShapeConfig
	}{
		{"head dims near 2^62", KernelShapeConfig{HeadDim: 1 << 62, HeadDimV: 1 << 62, ElementSize: 2}},
		{"element size 2^30", KernelShapeConfig{HeadDim: 1 << 30, HeadDimV: 1 << 30, ElementSize: 1 << 30}},
		{"max int head dim", KernelShapeConfig{HeadDim: math.MaxInt, HeadDimV: 1, ElementSize: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SmemEstimateBytes(TileDims{BlockM: 16, BlockN: 16}, tt.cfg)
			if got != math.MaxInt {
				t.Errorf("got %d, want saturation at math.MaxInt", got)
			}
			if FitsBudget(TileDims{BlockM: 16, BlockN: 16}, tt.cfg, SmemLimitBytes) {
				t.Error("an overflowing footprint must not fit")
			}
		})
	}
}

func TestBufferingDepth_HugeHeadDimsSingleBuffered(t *testing.T) {
	if got := BufferingDepth(1<<62, 1<<62); got != 1 {
		t.Errorf("BufferingDepth(2^62, 2^62) = %d, want 1", got)
	}
}
