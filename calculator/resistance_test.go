package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"dhe/model"
)

var testBrine = model.Fluid{Material: model.Material{Rho: 1040, C: 3800, Lambda: 0.48}, Nu: 3e-6}

// 给定雷诺数对应的体积流量
func flowForRe(re, D, thickness float64) float64 {
	Di := D - 2*thickness
	return re * testBrine.Nu * math.Pi * Di / 2
}

func TestAlpha1Laminar(t *testing.T) {
	Di := 0.026 - 2*0.0024
	a := Alpha1(testBrine, flowForRe(1000, 0.026, 0.0024), 0.026, 0.0024)
	assert.InDelta(t, 4.36*0.48/Di, a, 1e-9)
}

// 过渡区两端连续，且随流量单调增加
func TestAlpha1Continuity(t *testing.T) {
	at := func(re float64) float64 { return Alpha1(testBrine, flowForRe(re, 0.026, 0.0024), 0.026, 0.0024) }
	assert.InEpsilon(t, at(9999.99), at(10000.01), 1e-4)
	assert.InEpsilon(t, at(2299.99), at(2300.01), 1e-4)
	prev := at(100)
	for _, re := range []float64{2300, 3000, 5000, 8000, 10000, 20000} {
		cur := at(re)
		assert.Greater(t, cur, prev*0.999, "Re %g", re)
		prev = cur
	}
}

func TestAlpha0(t *testing.T) {
	assert.InDelta(t, 2*0.5/(0.03*(1-math.Sqrt(0.5))), Alpha0(0.5, 0.03), 1e-9)
}

func TestResistanceModes(t *testing.T) {
	dl := 10.0
	r := RGrid(0.026, 0.115, 1.5-0.0575, 4, 2)
	rz := RzGrid(r)
	lambda := []float64{2}
	alpha := 800.0

	d := model.DefaultDHE()
	d.Ra, d.Rb = 0.4, 0.1
	assert.InDelta(t, 0.4/(4*dl), R1(&d, alpha, dl, r, rz), 1e-12)
	assert.InDelta(t, (0.1-0.1)/dl+math.Log(rz[2]/r[1])/(2*math.Pi*dl*2), R2(&d, dl, lambda, r, rz)[0], 1e-12)

	d.Ra = 0
	fill := math.Log(r[1]/rz[1]) / (2 * math.Pi * dl * d.Fill.Lambda)
	assert.InDelta(t, 0.1/dl-fill, R1(&d, alpha, dl, r, rz), 1e-12)
	// Rb 模式下 R1 + R2 中回填部分抵消
	r2 := R2(&d, dl, lambda, r, rz)[0]
	assert.InDelta(t, 0.1/dl+math.Log(rz[2]/r[1])/(2*math.Pi*dl*2), R1(&d, alpha, dl, r, rz)+r2, 1e-12)

	d.Rb = 0
	want := (1/(alpha*r[0]) + math.Log((r[1]-rz[1])/r[0])/d.Fill.Lambda) / (8 * math.Pi * dl)
	assert.InDelta(t, want, R1(&d, alpha, dl, r, rz), 1e-12)

	// 显式给定的 R1 原样使用，与分层厚度无关
	d.R1 = 0.05
	assert.Equal(t, 0.05, R1(&d, alpha, dl, r, rz))
	assert.Equal(t, 0.05, R1(&d, alpha, 2*dl, r, rz))
}

func TestPressureDrop(t *testing.T) {
	dp, laminar := PressureDrop(0.01, testBrine, 0.026, 0.0024, 200)
	assert.True(t, laminar)
	assert.Greater(t, dp, 0.0)

	dpTurb, laminar := PressureDrop(1.0, testBrine, 0.026, 0.0024, 200)
	assert.False(t, laminar)
	assert.Greater(t, dpTurb, dp)

	// 压降与管长成正比
	dp2, _ := PressureDrop(1.0, testBrine, 0.026, 0.0024, 400)
	assert.InEpsilon(t, 2*dpTurb, dp2, 1e-12)
}
