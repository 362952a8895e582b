package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhe/model"
)

func TestFieldAggregateGeometry(t *testing.T) {
	env := testEnv()
	base := env.DHE[0]
	for _, p := range [][2]float64{{3, 0}, {0, 4}} {
		d := base
		d.X, d.Y = p[0], p[1]
		env.DHE = append(env.DHE, d)
	}
	c, err := NewCalculator(env)
	require.NoError(t, err)
	f := newFieldAggregate(c.Exchangers(), 2, env.DtBoundaryRefresh)
	R := env.R
	assert.InDelta(t, math.Log(3/R)+math.Log(4/R), f.dg[0], 1e-12)
	assert.InDelta(t, math.Log(3/R)+math.Log(5/R), f.dg[1], 1e-12)
	assert.InDelta(t, math.Log(4/R)+math.Log(5/R), f.dg[2], 1e-12)

	g := c.Exchangers()[0].boundaryResponse(2, env.DtBoundaryRefresh)
	for i := range g {
		assert.InDelta(t, 3*g[i], f.sumG[i], 1e-12)
	}
}

// 一个块后: ghost = T0 + sumG*(Q0 - Q1)/(2*pi*lambda*dl)
func TestDeltaTBoundary(t *testing.T) {
	env := testEnv()
	env.GMethod = model.GMethodPolynomial
	c, err := NewCalculator(env)
	require.NoError(t, err)
	ex := c.Exchangers()[0]
	f := newFieldAggregate(c.Exchangers(), 2, env.DtBoundaryRefresh)
	st := newExchangerState(ex, 2)

	for i := range st.sumQ {
		st.sumQ[i] = float64(6*ex.NSteps) * 100
	}
	st.closeChunk(ex.NSteps, 6)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, st.sumQ, 0)
	f.deltaTBoundary(ex, st, 1)

	ghost := st.soil[len(st.soil)-env.DimAx:]
	for j := 0; j < env.DimAx; j++ {
		q := st.history.Get(1, j)
		assert.InDelta(t, 100.0, q, 1e-9)
		want := st.boundary[j] - f.sumG[j]*q/(2*math.Pi*ex.dLambda[j])
		assert.InDelta(t, want, ghost[j], 1e-12)
		assert.NotEqual(t, st.boundary[j], ghost[j])
	}
}

func TestInitialSoilTemperature(t *testing.T) {
	env := testEnv()
	d := &env.DHE[0]
	dl := d.L / float64(env.DimAx)
	cV, lambda, err := SampleSoilLayers(env.SoilLayers, d.L, env.DimAx)
	require.NoError(t, err)
	rz := RzGrid(RGrid(d.D, d.DBorehole, env.R-0.5*d.DBorehole, env.DimRad, env.Gamma))

	T, err := InitialSoilTemperature(env, d, dl, cV, lambda, rz)
	require.NoError(t, err)
	require.Len(t, T, (env.DimRad+2)*env.DimAx)
	for k := 0; k < env.DimRad+2; k++ {
		for a := 0; a < env.DimAx; a++ {
			assert.InDelta(t, undisturbed(env, a), T[k*env.DimAx+a], 1e-12)
		}
	}

	// 起始前已取热一年
	env.T0 = 3.15e7
	env.SoilParameters.QDrain = []float64{500, 500, 500}
	T, err = InitialSoilTemperature(env, d, dl, cV, lambda, rz)
	require.NoError(t, err)
	last := env.DimRad + 1
	for a := 0; a < env.DimAx; a++ {
		for k := 0; k <= last; k++ {
			assert.Less(t, T[k*env.DimAx+a], undisturbed(env, a))
		}
		assert.Less(t, T[a], T[last*env.DimAx+a])
	}
}

func TestNewExchanger(t *testing.T) {
	env := testEnv()
	ex, err := NewExchanger(env, 0)
	require.NoError(t, err)
	d := env.DHE[0]
	assert.Equal(t, d.Brine.C*d.PhiM, ex.U)
	assert.GreaterOrEqual(t, ex.NSteps, 1)
	assert.GreaterOrEqual(t, ex.NStepsOn, 1)
	assert.GreaterOrEqual(t, ex.NStepsOff, 1)
	assert.Len(t, ex.R2, env.DimAx)
	assert.Greater(t, ex.PressureDrop, 0.0)
	for _, p := range ex.pump {
		assert.Len(t, p.L, env.DimAx)
		assert.Len(t, p.evo.B, env.DimAx*env.DimRad*(env.DimRad+2))
	}
	assert.Equal(t, ex.L1On, ex.pump[1].L[0])
	assert.IsType(t, &StationaryBrine{}, ex.pump[1].brine)
}

// 显式 R1 即单个分层的管-回填热阻
func TestNewExchangerExplicitR1(t *testing.T) {
	env := testEnv()
	env.DHE[0].R1 = 0.05
	ex, err := NewExchanger(env, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.05, ex.R1)
	assert.InDelta(t, 20.0, ex.L1On, 1e-12)
	assert.Equal(t, ex.L1On, ex.pump[1].L[0])
}

// 几何修正 ln(d/R) 随间距增大，远场叠加使远离的换热器对比单个换热器偏暖，
// 第一次边界刷新之前两者一致
func TestDistantPairWarmerThanSingle(t *testing.T) {
	load := constant(48, 2000)
	single := run(t, testEnv(), load)[0]

	pairAt := func(x float64) *Result {
		env := testEnv()
		second := env.DHE[0]
		second.X = x
		env.DHE = append(env.DHE, second)
		res := run(t, env, load, load)
		assert.Equal(t, res[0].TSink, res[1].TSink)
		return res[0]
	}
	near := pairAt(100)
	far := pairAt(1000)

	nbr := testEnv().RefreshSteps()
	assert.Equal(t, single.TSink[:nbr], far.TSink[:nbr])
	assert.Equal(t, single.TSink[:nbr], near.TSink[:nbr])
	last := len(load) - 1
	assert.Greater(t, near.TSink[last], single.TSink[last])
	assert.Greater(t, far.TSink[last], near.TSink[last])
}
