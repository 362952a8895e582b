package calculator

import (
	"math"

	"dhe/model"
)

// InitialSoilTemperature 未扰动地温 T_mean + T_grad*z，
// 若给定起始偏移 t0 和此前的取热量，再扣除其在 rz 各节点上的温降
// 返回 len(rz)*dimAx，下标 [k*dimAx + a]
func InitialSoilTemperature(env *model.Env, d *model.DHE, dl float64, cV, lambda, rz []float64) ([]float64, error) {
	dimAx, dimR := env.DimAx, len(rz)
	qDrain := env.SoilParameters.QDrain

	var g []float64
	if env.T0 != 0 && len(qDrain) == dimAx {
		coefs, uMin, err := GPoly(d.G.GCoefs, d.G.DDHE, model.RefDDHE)
		if err != nil {
			return nil, err
		}
		gf := &PolynomialGFunc{Coefs: coefs, UMin: uMin, L: float64(dimAx) * dl, GoConst: goConstInitial}
		g = gf.G([]float64{env.T0}, cV, lambda, rz)
	}

	out := make([]float64, dimR*dimAx)
	for k := 0; k < dimR; k++ {
		for a := 0; a < dimAx; a++ {
			v := env.SoilParameters.TSoilMean + env.SoilParameters.TGrad*dl*(float64(a)+0.5)
			if g != nil {
				rq := g[a*dimR+k] / (2 * math.Pi * lambda[a])
				v -= rq * qDrain[a] / dl
			}
			out[k*dimAx+a] = v
		}
	}
	return out, nil
}
