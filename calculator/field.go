package calculator

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FieldAggregate 换热器场的叠加系数，步进过程中只读
type FieldAggregate struct {
	dimAx int
	sumG  []float64 // 所有换热器 g 值之和，[chunk][ax]
	dg    []float64 // 每个换热器的几何修正
}

// newFieldAggregate sumG 表示"自身+其余"，dg[k] = sum_{l!=k} ln(d_kl / R_l) 扣除 k 的重复部分
func newFieldAggregate(exs []*Exchanger, nChunks int, dtb float64) *FieldAggregate {
	dimAx := exs[0].dimAx
	f := &FieldAggregate{
		dimAx: dimAx,
		sumG:  make([]float64, nChunks*dimAx),
		dg:    make([]float64, len(exs)),
	}
	for _, ex := range exs {
		floats.Add(f.sumG, ex.boundaryResponse(nChunks, dtb))
	}
	for k, ek := range exs {
		for l, el := range exs {
			if l == k {
				continue
			}
			f.dg[k] += math.Log(math.Hypot(ek.X-el.X, ek.Y-el.Y) / el.R)
		}
	}
	return f
}

// deltaTBoundary 已完成 n 个块后刷新换热器 ex 的远场虚拟节点
func (f *FieldAggregate) deltaTBoundary(ex *Exchanger, st *exchangerState, n int) {
	dimAx := f.dimAx
	ghost := st.soil[len(st.soil)-dimAx:]
	dg := f.dg[ex.Index]
	for j := 0; j < dimAx; j++ {
		dT := 0.0
		for i := 0; i < n; i++ {
			dT += (f.sumG[i*dimAx+j] - dg) * st.history.BackwardDifference(n, i, j)
		}
		ghost[j] = st.boundary[j] + dT/(2*math.Pi*ex.dLambda[j])
	}
}
