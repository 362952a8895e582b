package model

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("model: invalid config")

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), ErrInvalidConfig)
}

// 宏步数与边界刷新周期的比值
func (e *Env) RefreshSteps() int {
	return int(math.Round(e.DtBoundaryRefresh / e.Dt))
}

// Validate 检查离散参数、时间步、策略名称与换热器布置
func (e *Env) Validate() error {
	if e.DimAx < 1 {
		return invalid("dim_ax = %d", e.DimAx)
	}
	if e.DimRad < 2 {
		return invalid("dim_rad = %d, need at least 2 soil rings", e.DimRad)
	}
	if e.Dt <= 0 {
		return invalid("dt = %g", e.Dt)
	}
	n := e.RefreshSteps()
	if n < 1 || math.Abs(float64(n)*e.Dt-e.DtBoundaryRefresh) > 1e-6*e.Dt {
		return invalid("dt_boundary_refresh = %g is not a multiple of dt = %g", e.DtBoundaryRefresh, e.Dt)
	}
	if e.Gamma <= 0 {
		return invalid("gamma = %g", e.Gamma)
	}
	if e.Adiabat < 0 || e.Adiabat > 1 {
		return invalid("adiabat = %g", e.Adiabat)
	}
	if e.Precision <= 0 {
		return invalid("precision = %g", e.Precision)
	}
	if e.NSteps0 < 1 || e.OptimalNStepsMultiplier <= 0 {
		return invalid("n_steps_0 = %d, multiplier = %g", e.NSteps0, e.OptimalNStepsMultiplier)
	}
	switch e.GMethod {
	case GMethodPolynomial, GMethodCone:
	default:
		return invalid("g_method %q", e.GMethod)
	}
	switch e.BrineMethod {
	case BrineDynamic, BrineStationary:
	default:
		return invalid("brine_method %q", e.BrineMethod)
	}
	// 只有最后一层可以用 0 或 Inf 表示向下无限延伸
	for i, l := range e.SoilLayers {
		last := i == len(e.SoilLayers)-1
		if math.IsNaN(l.D) || l.D < 0 || (!last && l.D == 0) {
			return invalid("soil layer %d thickness %g", i, l.D)
		}
		if !(l.Rho > 0 && l.C > 0 && l.Lambda > 0) {
			return invalid("soil layer %d properties rho = %g, c = %g, lambda = %g", i, l.Rho, l.C, l.Lambda)
		}
	}
	if len(e.SoilParameters.QDrain) != 0 && len(e.SoilParameters.QDrain) != e.DimAx {
		return invalid("q_drain has %d values, dim_ax = %d", len(e.SoilParameters.QDrain), e.DimAx)
	}
	if len(e.DHE) == 0 {
		return invalid("no exchangers")
	}
	for k, d := range e.DHE {
		if err := d.validate(e.R); err != nil {
			return fmt.Errorf("dhe %d: %w", k, err)
		}
		for l := 0; l < k; l++ {
			if d.X == e.DHE[l].X && d.Y == e.DHE[l].Y {
				return invalid("dhe %d and %d share position (%g, %g)", l, k, d.X, d.Y)
			}
		}
	}
	return nil
}

func (d *DHE) validate(R float64) error {
	if d.L <= 0 || d.PhiM <= 0 {
		return invalid("L = %g, Phi_m = %g", d.L, d.PhiM)
	}
	if d.D <= 0 || d.DBorehole <= 2*d.D {
		return invalid("D = %g, D_borehole = %g", d.D, d.DBorehole)
	}
	if 2*d.Thickness >= d.D {
		return invalid("wall thickness %g", d.Thickness)
	}
	if R <= 0.5*d.DBorehole {
		return invalid("domain radius %g inside borehole", R)
	}
	if d.Brine.Rho <= 0 || d.Brine.C <= 0 || d.Brine.Lambda <= 0 || d.Brine.Nu <= 0 {
		return invalid("brine properties %+v", d.Brine)
	}
	if d.Fill.CV() <= 0 || d.Fill.Lambda <= 0 {
		return invalid("fill properties %+v", d.Fill)
	}
	return nil
}
