package numerics

import "fmt"

// lagrangeBasis 返回拉格朗日基函数的多项式系数 a[i][k]，
// 满足 sum_k a[i][k]*x_j^k = delta_ij。
// 主多项式 prod(x-x_j) 逐个综合除法，复杂度 O(n^2)。
func lagrangeBasis(x []float64) ([][]float64, error) {
	n := len(x)
	// 主多项式系数，升幂
	c := make([]float64, n+1)
	c[0] = 1
	for j, xj := range x {
		for k := j + 1; k > 0; k-- {
			c[k] = c[k-1] - xj*c[k]
		}
		c[0] = -xj * c[0]
	}

	a := make([][]float64, n)
	for i, xi := range x {
		b := make([]float64, n)
		b[n-1] = c[n]
		for k := n - 1; k > 0; k-- {
			b[k-1] = c[k] + xi*b[k]
		}
		s := Polyval(b, xi)
		if s == 0 {
			return nil, fmt.Errorf("vandermonde node %d repeated: %w", i, ErrSingularSystem)
		}
		for k := range b {
			b[k] /= s
		}
		a[i] = b
	}
	return a, nil
}

// SolveVandermonde 求解 sum_i x_i^k w_i = q_k, k = 0..n-1
func SolveVandermonde(x, q []float64) ([]float64, error) {
	if len(x) != len(q) {
		return nil, fmt.Errorf("vandermonde %d nodes, %d values: %w", len(x), len(q), ErrDimensionMismatch)
	}
	if len(x) == 1 {
		return []float64{q[0]}, nil
	}
	a, err := lagrangeBasis(x)
	if err != nil {
		return nil, err
	}
	w := make([]float64, len(x))
	for i := range a {
		for k, aik := range a[i] {
			w[i] += aik * q[k]
		}
	}
	return w, nil
}

// PolyFit 求过点 (x_i, y_i) 的插值多项式系数(升幂)，即 sum_k c_k x_i^k = y_i
func PolyFit(x, y []float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("polyfit %d nodes, %d values: %w", len(x), len(y), ErrDimensionMismatch)
	}
	a, err := lagrangeBasis(x)
	if err != nil {
		return nil, err
	}
	c := make([]float64, len(x))
	for i := range a {
		for k, aik := range a[i] {
			c[k] += aik * y[i]
		}
	}
	return c, nil
}

// Polyval 秦九韶算法求多项式值，系数升幂
func Polyval(c []float64, x float64) float64 {
	v := 0.0
	for k := len(c) - 1; k >= 0; k-- {
		v = v*x + c[k]
	}
	return v
}
