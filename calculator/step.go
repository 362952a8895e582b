package calculator

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// 进口温度超出该值视为发散
const sinkDivergence = 100.0

// soilStep 推进 NSteps 个微步：盐水回路刷新，管壁虚拟节点，累计热流，土壤演化
// 返回微步平均出口温度
func soilStep(ex *Exchanger, st *exchangerState, tSink float64, pump *PumpState) float64 {
	dimAx := ex.dimAx
	src := 0.0
	for n := 0; n < ex.NSteps; n++ {
		wall := st.wall(dimAx)
		src += pump.brine.Refresh(wall, st.brine, st.qWall, tSink)
		for i := 0; i < dimAx; i++ {
			st.soil[i] = wall[i] - st.qWall[i]/pump.L[i]
		}
		floats.Add(st.sumQ, st.qWall)
		pump.evo.refreshSoil(st.soil, st.x)
	}
	return src / float64(ex.NSteps)
}

// boundaryStep 逐个采样点求进口温度，使出口与进口温差满足需求功率
// P <= 0 时关泵，进口温度直接取壁温
func boundaryStep(ex *Exchanger, st *exchangerState, power []float64, offset int, out *Result, precision float64, maxIter int) error {
	dimAx := ex.dimAx
	size := len(st.soil)
	on := &ex.pump[1]
	off := &ex.pump[0]
	for i, P := range power {
		sample := offset + i
		var sink, src float64
		if P > 0 {
			sink = st.tSink - P*(1/ex.L1On+1/ex.U)
			st.snapshot()
			src = soilStep(ex, st, sink, on)
			sink = src - P/ex.U
			ref := sink + 2*precision
			for iter := 1; math.Abs(sink-ref) > precision; iter++ {
				if maxIter > 0 && iter > maxIter {
					return fmt.Errorf("dhe %d sample %d: %d iterations, sink %.4f: %w",
						ex.Index, sample, maxIter, sink, ErrConvergenceFailure)
				}
				st.restore()
				src = soilStep(ex, st, sink, on)
				ref = sink
				sink = src - P/ex.U
				if math.Abs(sink) > sinkDivergence {
					log.WithFields(log.Fields{
						"dhe":    ex.Index,
						"sample": sample,
						"sink":   sink,
					}).Warn("进口温度发散，重置为 -1")
					sink = -1
					ref = sink + 2*precision
				}
			}
		} else {
			soilStep(ex, st, st.tSink, off)
			sink = st.soil[dimAx]
			src = sink
		}
		st.tSink = sink
		out.TSink[sample] = sink
		out.TSource[sample] = src
		copy(out.TSoil[sample*size:(sample+1)*size], st.soil)
	}
	return nil
}
