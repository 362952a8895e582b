package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhe/model"
)

func uniform(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// 壁温与进口温度相同时无换热
func TestBrineEquilibrium(t *testing.T) {
	L := []float64{100, 120, 140}
	for _, method := range []model.BrineMethod{model.BrineDynamic, model.BrineStationary} {
		b, err := newBrine(method, 60, 5e4, L, 4, 1000)
		require.NoError(t, err)
		tu := uniform(6, 8)
		q := make([]float64, 3)
		src := b.Refresh(uniform(3, 8), tu, q, 8)
		assert.InDelta(t, 8.0, src, 1e-12, method)
		assert.InDeltaSlice(t, []float64{0, 0, 0}, q, 1e-9, method)
	}
}

// 进口低于壁温时盐水被加热，热流为正
func TestBrineExtraction(t *testing.T) {
	L := []float64{100, 120, 140}
	tw := []float64{10, 10.5, 11}
	for _, method := range []model.BrineMethod{model.BrineDynamic, model.BrineStationary} {
		b, err := newBrine(method, 60, 5e4, L, 4, 1000)
		require.NoError(t, err)
		tu := uniform(6, 5)
		q := make([]float64, 3)
		var src float64
		for n := 0; n < 200; n++ {
			src = b.Refresh(tw, tu, q, 5)
		}
		assert.Greater(t, src, 5.0, method)
		assert.Less(t, src, 11.0, method)
		for i := range q {
			assert.Greater(t, q[i], 0.0, method)
		}
	}
}

// 关泵 U = 0 时稳态模型盐水温度等于壁温
func TestStationaryPumpOff(t *testing.T) {
	b := NewStationaryBrine([]float64{100, 100}, 0)
	tw := []float64{9, 11}
	tu := make([]float64, 4)
	q := make([]float64, 2)
	src := b.Refresh(tw, tu, q, -3)
	assert.Equal(t, []float64{9, 11, 11, 9}, tu)
	assert.Equal(t, 9.0, src)
	assert.Equal(t, []float64{0, 0}, q)
}

// 稳态模型的能量平衡: U*(T_out - T_in) = sum(q)
func TestStationaryEnergyBalance(t *testing.T) {
	U := 800.0
	b := NewStationaryBrine([]float64{150, 200, 250, 300}, U)
	tw := []float64{10, 11, 12, 13}
	tu := make([]float64, 8)
	q := make([]float64, 4)
	src := b.Refresh(tw, tu, q, 4)
	sum := 0.0
	for _, v := range q {
		sum += v
	}
	assert.InEpsilon(t, U*(src-4), sum, 1e-9)
}
