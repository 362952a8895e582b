package numerics

import "errors"

var (
	// ErrSingularSystem 三对角消元出现零主元，或范德蒙德节点重复
	ErrSingularSystem = errors.New("numerics: singular system")
	// ErrDimensionMismatch 输入向量长度不一致
	ErrDimensionMismatch = errors.New("numerics: dimension mismatch")
)
