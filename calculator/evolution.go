package calculator

import (
	"fmt"

	"dhe/numerics"
)

// Evolution 单个泵状态下的土壤演化张量
// B[a*s0 + j*s1 + k]：第 a 层第 j 个环的新温度对节点 k(含两个虚拟节点)旧温度的权重
type Evolution struct {
	dimAx  int
	dimRad int
	B      []float64
}

// SoilEvolution 每个轴向分层构造 A*T_new = F*T_old，A、F 分别取 +dt、-dt，
// 虚拟节点 0 和 dimRad+1 并入首末行，批量求解 A^-1 F
func SoilEvolution(L, C []float64, dimAx, dimRad int, dt float64) (*Evolution, error) {
	dimR := dimRad + 1
	s1 := dimRad + 2
	s0 := dimRad * s1
	e := &Evolution{dimAx: dimAx, dimRad: dimRad, B: make([]float64, dimAx*s0)}

	diag := make([]float64, dimRad)
	off := make([]float64, dimRad-1)
	// F 按列存放：F[k*dimRad + j] 为第 j 行第 k 列
	F := make([]float64, s0)
	for a := 0; a < dimAx; a++ {
		La := L[a*dimR : (a+1)*dimR]
		Ca := C[a*dimRad : (a+1)*dimRad]
		for i := range F {
			F[i] = 0
		}
		for r := 0; r < dimRad; r++ {
			sum := La[r] + La[r+1]
			diag[r] = 2*Ca[r] + dt*sum
			F[(r+1)*dimRad+r] = 2*Ca[r] - dt*sum
		}
		for r := 0; r < dimRad-1; r++ {
			off[r] = -dt * La[r+1]
			F[(r+1)*dimRad+r+1] = dt * La[r+1]
			F[(r+2)*dimRad+r] = dt * La[r+1]
		}
		F[0] = 2 * dt * La[0]
		F[s0-1] = 2 * dt * La[dimRad]

		if err := numerics.SolveTridiagonal(diag, off, off, F, s1); err != nil {
			return nil, fmt.Errorf("evolution slice %d: %w", a, err)
		}
		for j := 0; j < dimRad; j++ {
			for k := 0; k < s1; k++ {
				e.B[a*s0+j*s1+k] = F[k*dimRad+j]
			}
		}
	}
	return e, nil
}

// refreshSoil 推进一个微步，更新 1..dimRad 环，虚拟节点不变。x 为长度 dimRad 的缓存
func (e *Evolution) refreshSoil(T, x []float64) {
	dimAx, dimRad := e.dimAx, e.dimRad
	s1 := dimRad + 2
	s0 := dimRad * s1
	for a := 0; a < dimAx; a++ {
		for j := 0; j < dimRad; j++ {
			row := e.B[a*s0+j*s1 : a*s0+(j+1)*s1]
			v := 0.0
			for k, b := range row {
				v += b * T[k*dimAx+a]
			}
			x[j] = v
		}
		for j := 0; j < dimRad; j++ {
			T[(j+1)*dimAx+a] = x[j]
		}
	}
}
