package numerics

import (
	"math"
	"sort"
)

// Interpolate 分段线性插值，tp 须递增，超出范围取端点值
func Interpolate(t, tp, fp []float64) []float64 {
	out := make([]float64, len(t))
	if len(tp) == 0 {
		return out
	}
	last := len(tp) - 1
	for i, ti := range t {
		switch {
		case ti <= tp[0]:
			out[i] = fp[0]
		case ti >= tp[last]:
			out[i] = fp[last]
		default:
			j := sort.SearchFloat64s(tp, ti)
			if tp[j] == ti {
				out[i] = fp[j]
				continue
			}
			w := (ti - tp[j-1]) / (tp[j] - tp[j-1])
			out[i] = fp[j-1] + w*(fp[j]-fp[j-1])
		}
	}
	return out
}

// Arange 返回 [start, stop) 内步长为 step 的等差序列
func Arange(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	n := int(math.Ceil((stop-start)/step - 1e-9))
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
