package calculator

import (
	"fmt"
	"math"

	"dhe/model"
	"dhe/numerics"
)

// GFunc 远场边界响应，返回值下标 [t][ax][r]
type GFunc interface {
	G(t, cV, lambda, r []float64) []float64
}

const (
	gRefDelta = 0.05
	// 初始地温计算用的线性段常数
	goConstInitial = 6.907755
	eulerGamma     = 0.5772156649015329
)

// 多项式 g 函数，u = ln(t/ts)
type PolynomialGFunc struct {
	Coefs   []float64 // 5 次多项式系数，升幂
	UMin    float64   // 低于此值用线性段
	L       float64   // 换热器长度
	GoConst float64
}

func (p *PolynomialGFunc) G(t, cV, lambda, r []float64) []float64 {
	dimAx, dimR := len(cV), len(r)
	out := make([]float64, len(t)*dimAx*dimR)
	ts := make([]float64, dimAx)
	for a := range ts {
		ts[a] = p.L * p.L / (9 * lambda[a]) * cV[a]
	}
	logR := make([]float64, dimR)
	for j := range r {
		logR[j] = math.Log(r[j] / (p.L * 0.0005))
	}

	l := 0
	for _, tk := range t {
		for a := 0; a < dimAx; a++ {
			u := math.Min(math.Log(tk/ts[a]), 2.5)
			gLin := 0.5*u + p.GoConst
			g := gLin
			if u >= p.UMin {
				g = numerics.Polyval(p.Coefs, u)
			}
			if u < -2 && gLin-0.3 > g {
				g = gLin
			}
			for j := range r {
				out[l] = g - logR[j]
				l++
			}
		}
	}
	return out
}

// 锥形公式(Theis 井函数)，u > 1 的短时段不计
type ConeGFunc struct{}

func (ConeGFunc) G(t, cV, lambda, r []float64) []float64 {
	dimAx, dimR := len(cV), len(r)
	out := make([]float64, len(t)*dimAx*dimR)
	l := 0
	for _, tk := range t {
		for a := 0; a < dimAx; a++ {
			u0 := cV[a] / (4 * lambda[a])
			for j := range r {
				out[l] = 0.5 * wellFunction(u0*r[j]*r[j]/tk)
				l++
			}
		}
	}
	return out
}

// 指数积分 E1(u) 级数展开，末项小于当前值 1% 时停止
func wellFunction(u float64) float64 {
	if u > 1 {
		return 0
	}
	w := -eulerGamma - math.Log(u) + u
	term, sign, fac := u, 1.0, 1.0
	for n := 2; ; n++ {
		sign = -sign
		term *= u
		fac *= float64(n)
		delta := term / (fac * float64(n))
		last := delta <= 0.01*math.Abs(w)
		w += sign * delta
		if last {
			break
		}
	}
	return w
}

// GPoly 由 5 个名义控制点得到多项式 g 函数系数与线性段下限 uMin
// 间距与参考间距不同时先做指数外推，间距比小于 0.4 时外推失效
func GPoly(g [5]float64, dDHE, dRef float64) ([]float64, float64, error) {
	if math.Abs(dDHE-dRef) > gRefDelta {
		bh := dDHE / dRef
		if bh < 0.4 {
			return nil, 0, fmt.Errorf("spacing ratio %.3f: %w", bh, ErrSpacingOutOfRange)
		}
		exA := g[4] - 6.29
		exB := -math.Log((g[2]-6.29)/(g[4]-6.6)) / 27
		g0 := [5]float64{4.82, 5.69, 6.29, 6.57, 6.6}
		gExp := [5]float64{343, 125, 27, 1, 0}
		for i := range g0 {
			corr := exA / bh * math.Exp(-bh*exB*gExp[i])
			// 控制点等于参考值时 exB 为无穷，修正项视为 0
			if math.IsNaN(corr) || corr < 0 {
				corr = 0
			}
			g[i] = g0[i] + corr
		}
	}

	x := []float64{-4, -2, 0, 2.5, 3, math.Min(-4.5, -4-(g[0]-4.82)/2)}
	y := []float64{g[0], g[1], g[2], g[3], g[4] * 0.99, (math.Log(0.5/0.0005) + 0.5*x[5]) * 0.95}
	y[3] = (y[3] + y[4]) / 2 * 0.99
	uMin := math.Max(x[5]+0.5, -6)
	coefs, err := numerics.PolyFit(x, y)
	if err != nil {
		return nil, 0, err
	}
	return coefs, uMin, nil
}

// 按配置选择 g 函数
func newGFunc(env *model.Env, d *model.DHE) (GFunc, error) {
	switch env.GMethod {
	case model.GMethodCone:
		return ConeGFunc{}, nil
	case model.GMethodPolynomial:
		coefs, uMin, err := GPoly(d.G.GCoefs, d.G.DDHE, model.RefDDHE)
		if err != nil {
			return nil, err
		}
		return &PolynomialGFunc{Coefs: coefs, UMin: uMin, L: d.L, GoConst: env.GoConst}, nil
	}
	return nil, fmt.Errorf("g_method %q: %w", env.GMethod, ErrInvalidConfig)
}
