package calculator

import (
	"fmt"

	"dhe/model"
)

// Brine 盐水回路模型
// tw 为壁温(长 dimAx)，tu 为下行管和上行管盐水温度(长 2*dimAx)，
// q 写出各层壁面热流，返回出口温度
type Brine interface {
	Refresh(tw, tu, q []float64, tSink float64) float64
}

// 显式子步推进的动态模型
type DynamicBrine struct {
	nSub        int
	lambdaBrine []float64 // 0.5*L/nSub
	kappaRad    []float64 // 径向松弛系数
	kappaAx     float64   // 轴向对流系数
}

func NewDynamicBrine(dt, cBrine float64, L []float64, nSub int, U float64) *DynamicBrine {
	b := &DynamicBrine{
		nSub:        nSub,
		lambdaBrine: make([]float64, len(L)),
		kappaRad:    make([]float64, len(L)),
		kappaAx:     U / cBrine * dt / float64(nSub),
	}
	for i, l := range L {
		b.lambdaBrine[i] = 0.5 * l / float64(nSub)
		b.kappaRad[i] = b.lambdaBrine[i] * dt / cBrine
	}
	return b
}

func (b *DynamicBrine) Refresh(tw, tu, q []float64, tSink float64) float64 {
	n := len(tw)
	for i := range q {
		q[i] = 2 * float64(b.nSub) * tw[i]
	}
	tOut := 0.0
	for s := 0; s < b.nSub; s++ {
		prev := tSink
		// 下行管
		for i := 0; i < n; i++ {
			t := tu[i]
			t += (prev-t)*b.kappaAx + (tw[i]-t)*b.kappaRad[i]
			tu[i] = t
			q[i] -= t
			prev = t
		}
		// 上行管，自下而上
		for i := 0; i < n; i++ {
			m := n - 1 - i
			t := tu[n+i]
			t += (prev-t)*b.kappaAx + (tw[m]-t)*b.kappaRad[m]
			tu[n+i] = t
			q[m] -= t
			prev = t
		}
		tOut += tu[2*n-1]
	}
	for i := range q {
		q[i] *= b.lambdaBrine[i]
	}
	return tOut / float64(b.nSub)
}

// 稳态解析模型
type StationaryBrine struct {
	kappaSoil  []float64 // L/(L+2U)
	kappaBrine []float64 // U/(0.5L+U)
	L          []float64
}

func NewStationaryBrine(L []float64, U float64) *StationaryBrine {
	b := &StationaryBrine{
		kappaSoil:  make([]float64, len(L)),
		kappaBrine: make([]float64, len(L)),
		L:          append([]float64(nil), L...),
	}
	for i, l := range L {
		b.kappaSoil[i] = l / (l + 2*U)
		b.kappaBrine[i] = U / (0.5*l + U)
	}
	return b
}

func (b *StationaryBrine) Refresh(tw, tu, q []float64, tSink float64) float64 {
	n := len(tw)
	prev := tSink
	for i := 0; i < n; i++ {
		tu[i] = b.kappaSoil[i]*tw[i] + b.kappaBrine[i]*prev
		prev = tu[i]
	}
	for i := 0; i < n; i++ {
		m := n - 1 - i
		tu[n+i] = b.kappaSoil[m]*tw[m] + b.kappaBrine[m]*prev
		prev = tu[n+i]
	}
	for i := 0; i < n; i++ {
		q[i] = (2*tw[i] - tu[i] - tu[2*n-1-i]) * 0.5 * b.L[i]
	}
	return tu[2*n-1]
}

// 按配置选择盐水模型
func newBrine(method model.BrineMethod, dt, cBrine float64, L []float64, nSub int, U float64) (Brine, error) {
	switch method {
	case model.BrineDynamic:
		return NewDynamicBrine(dt, cBrine, L, nSub, U), nil
	case model.BrineStationary:
		return NewStationaryBrine(L, U), nil
	}
	return nil, fmt.Errorf("brine_method %q: %w", method, ErrInvalidConfig)
}
