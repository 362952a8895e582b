package model

// 默认参数
// 1. 时间单位 s，长度单位 m
// 2. 物性取常见双U管、乙二醇溶液和花岗岩量级

const (
	DefaultDimAx   = 10
	DefaultDimRad  = 12
	DefaultR       = 1.5
	DefaultGamma   = 2.0
	DefaultDt      = 600.0
	DefaultDtBound = 7 * 24 * 3600.0

	DefaultNSteps0    = 4
	DefaultMultiplier = 2.0
	DefaultGoConst    = 6.84
	DefaultPrecision  = 0.05
	DefaultMaxIter    = 1000

	// 参考间距下的名义 g 值
	RefDDHE = 10.0
)

var DefaultGCoefs = [5]float64{4.82, 5.69, 6.29, 6.57, 6.6}

func DefaultDHE() DHE {
	return DHE{
		L:         100,
		D:         0.026,
		DBorehole: 0.115,
		Thickness: 0.0024,
		PhiM:      0.3,
		Fill:      Material{Rho: 1800, C: 1000, Lambda: 0.8},
		Brine:     Fluid{Material: Material{Rho: 1040, C: 3800, Lambda: 0.48}, Nu: 3e-6},
		G:         GFuncParameters{GCoefs: DefaultGCoefs, DDHE: RefDDHE},
	}
}

func DefaultEnv() Env {
	return Env{
		DimAx:                   DefaultDimAx,
		DimRad:                  DefaultDimRad,
		R:                       DefaultR,
		Gamma:                   DefaultGamma,
		Dt:                      DefaultDt,
		DtBoundaryRefresh:       DefaultDtBound,
		NSteps0:                 DefaultNSteps0,
		OptimalNStepsMultiplier: DefaultMultiplier,
		SoilLayers:              []SoilLayer{{D: 0, Rho: 2600, C: 850, Lambda: 2.2}},
		SoilParameters:          SoilParameters{TSoilMean: 10, TGrad: 0.03},
		GMethod:                 GMethodPolynomial,
		GoConst:                 DefaultGoConst,
		BrineMethod:             BrineStationary,
		Precision:               DefaultPrecision,
		MaxIterations:           DefaultMaxIter,
		Workers:                 1,
		DHE:                     []DHE{DefaultDHE()},
	}
}
