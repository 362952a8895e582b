package calculator

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dhe/history"
	"dhe/model"
)

// 泵状态相关参数，0 关泵，1 开泵
type PumpState struct {
	L     []float64 // 最内侧导热，每层一个
	evo   *Evolution
	brine Brine
}

// Exchanger 单个换热器预计算后的静态数据，计算过程中只读
type Exchanger struct {
	Index int
	X, Y  float64
	L     float64 // 长度
	R     float64 // 计算域半径

	dimAx, dimRad int
	dl            float64
	cV, lambda    []float64
	dLambda       []float64 // lambda*dl

	NSteps    int     // 每个宏步的微步数
	NStepsOn  int     // 开泵盐水子步
	NStepsOff int     // 关泵盐水子步
	L1On      float64 // 开泵管-回填导热
	U         float64 // 开泵热容流量 c*Phi_m
	Alpha     float64
	R1        float64
	R2        []float64

	PressureDrop float64
	Laminar      bool

	pump  [2]PumpState
	gfunc GFunc
	tInit []float64 // 初始土壤温度
}

func column0(L []float64, dimR int) []float64 {
	out := make([]float64, len(L)/dimR)
	for a := range out {
		out[a] = L[a*dimR]
	}
	return out
}

// NewExchanger 几何、热阻、两种泵状态的演化张量和盐水模型
func NewExchanger(env *model.Env, index int) (*Exchanger, error) {
	d := &env.DHE[index]
	dimAx, dimRad := env.DimAx, env.DimRad
	dimR := dimRad + 1
	dl := d.L / float64(dimAx)

	cV, lambda, err := SampleSoilLayers(env.SoilLayers, d.L, dimAx)
	if err != nil {
		return nil, err
	}
	r := RGrid(d.D, d.DBorehole, env.R-0.5*d.DBorehole, dimRad, env.Gamma)
	rz := RzGrid(r)

	ex := &Exchanger{
		Index:   index,
		X:       d.X,
		Y:       d.Y,
		L:       d.L,
		R:       env.R,
		dimAx:   dimAx,
		dimRad:  dimRad,
		dl:      dl,
		cV:      cV,
		lambda:  lambda,
		dLambda: make([]float64, dimAx),
		U:       d.Brine.C * d.PhiM,
	}
	floats.ScaleTo(ex.dLambda, dl, lambda)

	ex.Alpha = Alpha1(d.Brine, d.PhiM/d.Brine.Rho, d.D, d.Thickness)
	ex.R1 = R1(d, ex.Alpha, dl, r, rz)
	ex.R2 = R2(d, dl, lambda, r, rz)
	ex.L1On = 1 / ex.R1
	l1Off := 1 / (ex.R1 + (1/Alpha0(d.Brine.Lambda, d.D)-1/ex.Alpha)/(8*math.Pi*r[0]*dl))
	if err := checkFinite("conductance", ex.L1On, l1Off); err != nil {
		return nil, err
	}
	if ex.L1On <= 0 || l1Off <= 0 {
		return nil, fmt.Errorf("R1 = %g gives non-positive conductance: %w", ex.R1, ErrInvalidConfig)
	}

	lOn := LPump(ex.L1On, ex.R2, dl, lambda, r, rz, env.Adiabat)
	lOff := withInnerConductance(lOn, dimR, l1Off)
	C := CMatrix(dl, r, d.Fill.CV(), cV)
	if err := checkFinite("L_on", lOn...); err != nil {
		return nil, err
	}

	ex.NSteps = OptimalNSteps(lOn, C, dimAx, dimRad, env.Dt, env.OptimalNStepsMultiplier)
	dtStep := env.Dt / float64(ex.NSteps)
	cBrine := 2 * d.Brine.C * d.Brine.Rho * math.Pi * 0.25 * d.D * d.D * dl
	lmMin := cBrine / math.Max(ex.U, ex.L1On)
	ex.NStepsOn = int(float64(env.NSteps0)*dtStep/lmMin) + 1
	ex.NStepsOff = int(float64(env.NSteps0)*dtStep/cBrine*l1Off) + 1

	params := [2]struct {
		L     []float64
		nSub  int
		U     float64
		label string
	}{
		{L: lOff, nSub: ex.NStepsOff, U: 0, label: "off"},
		{L: lOn, nSub: ex.NStepsOn, U: ex.U, label: "on"},
	}
	for i, p := range params {
		evo, err := SoilEvolution(p.L, C, dimAx, dimRad, dtStep)
		if err != nil {
			return nil, fmt.Errorf("pump %s: %w", p.label, err)
		}
		L0 := column0(p.L, dimR)
		brine, err := newBrine(env.BrineMethod, dtStep, cBrine, L0, p.nSub, p.U)
		if err != nil {
			return nil, err
		}
		ex.pump[i] = PumpState{L: L0, evo: evo, brine: brine}
	}

	if ex.gfunc, err = newGFunc(env, d); err != nil {
		return nil, err
	}
	if ex.tInit, err = InitialSoilTemperature(env, d, dl, cV, lambda, rz); err != nil {
		return nil, err
	}
	ex.PressureDrop, ex.Laminar = PressureDrop(d.PhiM, d.Brine, d.D, d.Thickness, 2*d.L)

	log.WithFields(log.Fields{
		"dhe":         index,
		"n_steps":     ex.NSteps,
		"n_steps_on":  ex.NStepsOn,
		"n_steps_off": ex.NStepsOff,
		"alpha1":      ex.Alpha,
		"R1":          ex.R1,
		"R2":          ex.R2[0],
		"dp":          ex.PressureDrop,
		"laminar":     ex.Laminar,
	}).Info("换热器预计算完成")
	return ex, nil
}

// 边界刷新时刻 (i+1)*dtb 的 g 值，[chunk][ax]
func (ex *Exchanger) boundaryResponse(nChunks int, dtb float64) []float64 {
	t := make([]float64, nChunks)
	for i := range t {
		t[i] = float64(i+1) * dtb
	}
	return ex.gfunc.G(t, ex.cV, ex.lambda, []float64{ex.R})
}

// exchangerState 单个换热器的可变状态
type exchangerState struct {
	soil     []float64 // (dimRad+2)*dimAx
	brine    []float64 // 下行管 + 上行管
	tSink    float64
	sumQ     []float64 // 本块累计壁面热流
	history  *history.FluxHistory
	boundary []float64 // 远场基准温度

	// 迭代快照与缓存
	soilOld  []float64
	brineOld []float64
	sumQOld  []float64
	qWall    []float64
	x        []float64
}

func newExchangerState(ex *Exchanger, nChunks int) *exchangerState {
	dimAx, dimRad := ex.dimAx, ex.dimRad
	size := (dimRad + 2) * dimAx
	st := &exchangerState{
		soil:     append([]float64(nil), ex.tInit...),
		brine:    make([]float64, 2*dimAx),
		sumQ:     make([]float64, dimAx),
		history:  history.NewFluxHistory(nChunks+1, dimAx),
		boundary: append([]float64(nil), ex.tInit[(dimRad+1)*dimAx:]...),
		soilOld:  make([]float64, size),
		brineOld: make([]float64, 2*dimAx),
		sumQOld:  make([]float64, dimAx),
		qWall:    make([]float64, dimAx),
		x:        make([]float64, dimRad),
	}
	for a := 0; a < dimAx; a++ {
		st.brine[a] = st.soil[a]
		st.brine[dimAx+a] = st.soil[dimAx-1-a]
	}
	st.tSink = stat.Mean(st.wall(dimAx), nil)
	return st
}

// 壁面温度即第一个环(回填)
func (st *exchangerState) wall(dimAx int) []float64 {
	return st.soil[dimAx : 2*dimAx]
}

func (st *exchangerState) snapshot() {
	copy(st.soilOld, st.soil)
	copy(st.brineOld, st.brine)
	copy(st.sumQOld, st.sumQ)
}

func (st *exchangerState) restore() {
	copy(st.soil, st.soilOld)
	copy(st.brine, st.brineOld)
	copy(st.sumQ, st.sumQOld)
}

// closeChunk 记录本块平均热流，远场节点回到基准温度
func (st *exchangerState) closeChunk(nSteps, nbr int) {
	row := make([]float64, len(st.sumQ))
	floats.ScaleTo(row, 1/float64(nSteps*nbr), st.sumQ)
	st.history.AddLast(row)
	for i := range st.sumQ {
		st.sumQ[i] = 0
	}
	dimAx := len(st.boundary)
	copy(st.soil[len(st.soil)-dimAx:], st.boundary)
}
