package calculator

import (
	"math"

	"dhe/model"
)

const (
	reLaminar   = 2300.0
	reTurbulent = 10000.0
	nuLaminar   = 4.36
)

// Alpha0 零流量时管内换热系数
func Alpha0(lambdaBrine, D float64) float64 {
	return 2 * lambdaBrine / (D * (1 - math.Sqrt(0.5)))
}

// Petukhov 摩擦系数
func petukhovXi(re float64) float64 {
	x := 1.82*math.Log10(re) - 1.64
	return 1 / (x * x)
}

func petukhovStanton(xi, pr float64) float64 {
	k1 := 1 + 27.2*xi/8
	k2 := 11.7 + 1.8/math.Cbrt(pr)
	return xi / 8 / (k1 + k2*math.Sqrt(xi/8)*(math.Pow(pr, 2.0/3)-1))
}

// 双U管单根管内流速
func pipeVelocity(phiV, Di float64) float64 {
	return 2 * phiV / (Di * Di) / math.Pi
}

// Alpha1 管内对流换热系数，phiV 为体积流量
// 层流 Nu = 4.36，紊流 Petukhov，过渡区在 ln(Re) 上对数插值
func Alpha1(brine model.Fluid, phiV, D, thickness float64) float64 {
	Di := D - 2*thickness
	re := pipeVelocity(phiV, Di) * Di / brine.Nu
	pr := brine.Nu * brine.CV() / brine.Lambda

	var nu float64
	switch {
	case re >= reTurbulent:
		nu = petukhovStanton(petukhovXi(re), pr) * re * pr
	case re <= reLaminar:
		nu = nuLaminar
	default:
		nu0 := petukhovStanton(petukhovXi(reTurbulent), pr) * reTurbulent * pr
		nu = nuLaminar * math.Exp(math.Log(nu0/nuLaminar)/math.Log(reTurbulent/reLaminar)*math.Log(re/reLaminar))
	}
	return nu * brine.Lambda / Di
}

// R1 管-回填热阻(单个分层)
// Ra、Rb 均给定；仅给定 Rb；否则由 alpha1 和回填导热推导
func R1(d *model.DHE, alpha, dl float64, r, rz []float64) float64 {
	if d.R1 > 0 {
		return d.R1
	}
	r0, r1, rz1 := r[0], r[1], rz[1]
	switch {
	case d.Ra > 0 && d.Rb > 0:
		return d.Ra / (4 * dl)
	case d.Rb > 0:
		return d.Rb/dl - math.Log(r1/rz1)/(2*math.Pi*dl*d.Fill.Lambda)
	default:
		return (1/(alpha*r0) + math.Log((r1-rz1)/r0)/d.Fill.Lambda) / (8 * math.Pi * dl)
	}
}

// R2 回填-首个土壤环热阻，每个轴向分层一个值
func R2(d *model.DHE, dl float64, lambda, r, rz []float64) []float64 {
	r1, rz1, rz2 := r[1], rz[1], rz[2]
	out := make([]float64, len(lambda))
	for a, l := range lambda {
		if d.Ra > 0 && d.Rb > 0 {
			out[a] = (d.Rb-0.25*d.Ra)/dl + math.Log(rz2/r1)/(2*math.Pi*dl*l)
		} else {
			out[a] = (math.Log(r1/rz1)/d.Fill.Lambda + math.Log(rz2/r1)/l) / (2 * math.Pi * dl)
		}
	}
	return out
}

// PressureDrop 管路压降 Pa，返回是否层流
func PressureDrop(phiM float64, brine model.Fluid, D, thickness, length float64) (float64, bool) {
	Di := D - 2*thickness
	w := pipeVelocity(phiM/brine.Rho, Di)
	re := w * Di / brine.Nu
	laminar := re < reLaminar
	var xi float64
	if laminar {
		xi = 64 / re
	} else {
		xi = petukhovXi(re)
	}
	return 0.5 * length * xi / Di * brine.Rho * w * w, laminar
}
