package calculator

import (
	"fmt"
	"math"

	"dhe/model"
)

// 网格约定
// 1. 径向 r[0] 管半径，r[1] 钻孔半径，r[dimRad] 计算域半径
// 2. rz 为相邻 r 的平方平均，rz[0] = r[0]，rz[dimRad+1] = r[dimRad]
// 3. 土壤温度 T[k*dimAx + a]，k = 0 为管壁虚拟节点，k = dimRad+1 为远场虚拟节点
// 4. C[a*dimRad + k]，L[a*(dimRad+1) + k]，L[k] 连接节点 k 与 k+1

// RGrid 径向网格，钻孔外 dimRad-1 个环的宽度按 gamma 等比增长，覆盖 rDomain
func RGrid(D, DBorehole, rDomain float64, dimRad int, gamma float64) []float64 {
	r := make([]float64, dimRad+1)
	r[0] = 0.5 * D
	r[1] = 0.5 * DBorehole
	var c float64
	if gamma == 1 {
		c = rDomain / float64(dimRad-1)
	} else {
		c = rDomain * (1 - gamma) / (1 - math.Pow(gamma, float64(dimRad-1)))
	}
	x, p := 0.0, 1.0
	for i := 2; i <= dimRad; i++ {
		x += p
		p *= gamma
		r[i] = r[1] + c*x
	}
	return r
}

// RzGrid 半步网格
func RzGrid(r []float64) []float64 {
	n := len(r)
	rz := make([]float64, n+1)
	rz[0] = r[0]
	for i := 1; i < n; i++ {
		rz[i] = math.Sqrt(0.5 * (r[i]*r[i] + r[i-1]*r[i-1]))
	}
	rz[n] = r[n-1]
	return rz
}

// 深度 z 以上的物性积分，最后一层向下无限延伸，中间厚度为 0 的层不起作用
func layerIntegral(layers []model.SoilLayer, z float64, prop func(l model.SoilLayer) float64) float64 {
	acc, top := 0.0, 0.0
	for i, l := range layers {
		infinite := i == len(layers)-1 || math.IsInf(l.D, 1)
		if infinite || z <= top+l.D {
			return acc + prop(l)*(z-top)
		}
		acc += prop(l) * l.D
		top += l.D
	}
	return acc
}

// SampleSoilLayers 将土层物性按长度加权平均到 dimAx 个等长轴向分层
func SampleSoilLayers(layers []model.SoilLayer, L float64, dimAx int) (cV, lambda []float64, err error) {
	if len(layers) == 0 {
		return nil, nil, ErrEmptyLayerList
	}
	dl := L / float64(dimAx)
	cV = make([]float64, dimAx)
	lambda = make([]float64, dimAx)
	cvOf := func(l model.SoilLayer) float64 { return l.Rho * l.C }
	lambdaOf := func(l model.SoilLayer) float64 { return l.Lambda }
	for a := 0; a < dimAx; a++ {
		top, bottom := float64(a)*dl, float64(a+1)*dl
		cV[a] = (layerIntegral(layers, bottom, cvOf) - layerIntegral(layers, top, cvOf)) / dl
		lambda[a] = (layerIntegral(layers, bottom, lambdaOf) - layerIntegral(layers, top, lambdaOf)) / dl
	}
	return cV, lambda, nil
}

// CMatrix 各环热容，环 0 为回填(扣除四根管)，其余为土壤环
func CMatrix(dl float64, r []float64, cVFill float64, cVSoil []float64) []float64 {
	dimAx, dimRad := len(cVSoil), len(r)-1
	C := make([]float64, dimAx*dimRad)
	for a := 0; a < dimAx; a++ {
		C[a*dimRad] = math.Pi * cVFill * (r[1]*r[1] - 4*r[0]*r[0]) * dl
		for k := 1; k < dimRad; k++ {
			C[a*dimRad+k] = math.Pi * dl * cVSoil[a] * (r[k+1]*r[k+1] - r[k]*r[k])
		}
	}
	return C
}

// LPump 开泵时的导热系数场: L1 管-回填，1/R2 回填-土壤，中间环按对数半径，外环乘 (1-adiabat)
func LPump(L1 float64, R2 []float64, dl float64, lambda, r, rz []float64, adiabat float64) []float64 {
	dimAx, dimRad := len(lambda), len(r)-1
	dimR := dimRad + 1
	out := make([]float64, dimAx*dimR)
	for a := 0; a < dimAx; a++ {
		row := out[a*dimR : (a+1)*dimR]
		k := 2 * math.Pi * dl * lambda[a]
		row[0] = L1
		row[1] = 1 / R2[a]
		for j := 2; j < dimR-1; j++ {
			row[j] = k / math.Log(rz[j+1]/rz[j])
		}
		row[dimR-1] = (1 - adiabat) * k / math.Log(r[dimRad]/rz[dimRad])
	}
	return out
}

// 关泵场只替换最内侧导热
func withInnerConductance(L []float64, dimR int, L1 float64) []float64 {
	out := append([]float64(nil), L...)
	for a := 0; a < len(out)/dimR; a++ {
		out[a*dimR] = L1
	}
	return out
}

// OptimalNSteps 每个宏步的隐式微步数，取内侧几个节点 C/L 的最小值作为特征时间
func OptimalNSteps(L, C []float64, dimAx, dimRad int, dt, multiplier float64) int {
	dimR := dimRad + 1
	dtMin := C[0] / L[0]
	pairs := [3][2]int{{0, 0}, {0, 1}, {1, 1}}
	for a := 0; a < dimAx; a++ {
		for _, p := range pairs {
			dtMin = math.Min(dtMin, C[a*dimRad+p[0]]/L[a*dimR+p[1]])
		}
	}
	n := int(math.Ceil(multiplier * dt / dtMin))
	if n < 1 {
		return 1
	}
	return n
}

func checkFinite(name string, v ...float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s[%d] = %g: %w", name, i, x, ErrInvalidConfig)
		}
	}
	return nil
}
