package numerics

import "fmt"

// SolveTridiagonal 追赶法(Thomas)求解三对角方程组。
// rhs 按批存放 batch 个右端项，每个长度为 len(diag)，解直接覆盖 rhs。
// upper[i] 为 (i, i+1) 元素，lower[i] 为 (i+1, i) 元素。
func SolveTridiagonal(diag, upper, lower, rhs []float64, batch int) error {
	n := len(diag)
	if n == 0 {
		return nil
	}
	if len(upper) < n-1 || len(lower) < n-1 || len(rhs) < n*batch {
		return fmt.Errorf("tridiagonal n=%d batch=%d rhs=%d: %w", n, batch, len(rhs), ErrDimensionMismatch)
	}

	// 消元后的对角元和上对角系数，与右端项无关，只算一次
	pivot := make([]float64, n)
	cp := make([]float64, n)
	pivot[0] = diag[0]
	if pivot[0] == 0 {
		return fmt.Errorf("tridiagonal pivot 0: %w", ErrSingularSystem)
	}
	for i := 1; i < n; i++ {
		cp[i-1] = upper[i-1] / pivot[i-1]
		pivot[i] = diag[i] - lower[i-1]*cp[i-1]
		if pivot[i] == 0 {
			return fmt.Errorf("tridiagonal pivot %d: %w", i, ErrSingularSystem)
		}
	}

	for b := 0; b < batch; b++ {
		d := rhs[b*n : (b+1)*n]
		d[0] /= pivot[0]
		for i := 1; i < n; i++ {
			d[i] = (d[i] - lower[i-1]*d[i-1]) / pivot[i]
		}
		for i := n - 2; i >= 0; i-- {
			d[i] -= cp[i] * d[i+1]
		}
	}
	return nil
}
