package calculator

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"dhe/model"
	"dhe/numerics"
)

// calculator 的接口定义
type Calculator interface {
	// 获取CalcHub
	GetCalcHub() *CalcHub

	// 预计算后的换热器
	Exchangers() []*Exchanger

	// 按每个换热器的需求功率序列计算
	Calculate(load [][]float64) ([]*Result, error)

	// 单条功率曲线插值到 dt 网格后作用于所有换热器
	CalculateProfile(t, P []float64) ([]*Result, error)
}

// Result 单个换热器的输出时间序列
type Result struct {
	DimAx   int       `json:"dim_ax"`
	DimRad  int       `json:"dim_rad"`
	TSink   []float64 `json:"T_sink"`
	TSource []float64 `json:"T_source"`
	TSoil   []float64 `json:"T_soil"` // [sample][k][a]，k 含两个虚拟节点
}

func newResult(dimT, dimAx, dimRad int) *Result {
	return &Result{
		DimAx:   dimAx,
		DimRad:  dimRad,
		TSink:   make([]float64, dimT),
		TSource: make([]float64, dimT),
		TSoil:   make([]float64, dimT*(dimRad+2)*dimAx),
	}
}

// Soil 第 i 个采样点的土壤温度场
func (r *Result) Soil(i int) []float64 {
	size := (r.DimRad + 2) * r.DimAx
	return r.TSoil[i*size : (i+1)*size]
}

// WallMean 第 i 个采样点壁温的轴向平均
func (r *Result) WallMean(i int) float64 {
	return stat.Mean(r.Soil(i)[r.DimAx:2*r.DimAx], nil)
}

type FieldCalculator struct {
	env        *model.Env
	exchangers []*Exchanger
	hub        *CalcHub
}

// NewCalculator 校验配置并完成所有换热器的预计算，任何失败都不会进入时间步进
func NewCalculator(env *model.Env) (*FieldCalculator, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	c := &FieldCalculator{
		env:        env,
		exchangers: make([]*Exchanger, len(env.DHE)),
		hub:        NewCalcHub(),
	}
	for k := range env.DHE {
		ex, err := NewExchanger(env, k)
		if err != nil {
			return nil, fmt.Errorf("dhe %d: %w", k, err)
		}
		c.exchangers[k] = ex
	}
	return c, nil
}

func (c *FieldCalculator) GetCalcHub() *CalcHub {
	return c.hub
}

func (c *FieldCalculator) Exchangers() []*Exchanger {
	return c.exchangers
}

func (c *FieldCalculator) CalculateProfile(t, P []float64) ([]*Result, error) {
	if len(t) == 0 || len(t) != len(P) {
		return nil, fmt.Errorf("load profile %d times, %d values: %w", len(t), len(P), ErrInvalidConfig)
	}
	// 网格止于 t_last，跨度不是 dt 整数倍时不在 t_last 之后补点
	p := ResampleLoad(t, P, c.env.Dt)
	load := make([][]float64, len(c.exchangers))
	for k := range load {
		load[k] = p
	}
	return c.Calculate(load)
}

// ResampleLoad 负荷曲线线性插值到从 t[0] 开始、步长 dt 的宏步网格
func ResampleLoad(t, P []float64, dt float64) []float64 {
	grid := numerics.Arange(t[0], t[len(t)-1]+0.5*dt, dt)
	return numerics.Interpolate(grid, t, P)
}

// Calculate 按边界刷新周期分块推进，块内各换热器独立步进，块结束后做远场叠加
func (c *FieldCalculator) Calculate(load [][]float64) ([]*Result, error) {
	env := c.env
	exs := c.exchangers
	if len(load) != len(exs) {
		return nil, fmt.Errorf("%d load series for %d exchangers: %w", len(load), len(exs), ErrInvalidConfig)
	}
	dimT := len(load[0])
	for k := range load {
		if len(load[k]) != dimT {
			return nil, fmt.Errorf("load series %d has %d samples, want %d: %w", k, len(load[k]), dimT, ErrInvalidConfig)
		}
	}
	defer c.hub.FinishSignal()

	results := make([]*Result, len(exs))
	for k := range results {
		results[k] = newResult(dimT, env.DimAx, env.DimRad)
	}
	if dimT == 0 {
		return results, nil
	}

	nbr := env.RefreshSteps()
	nChunks := int(math.Ceil(float64(dimT) / float64(nbr)))
	field := newFieldAggregate(exs, nChunks, env.DtBoundaryRefresh)
	states := make([]*exchangerState, len(exs))
	for k, ex := range exs {
		states[k] = newExchangerState(ex, nChunks)
	}

	e := newExecutor(env.Workers)
	defer e.stop()

	start := time.Now()
	for chunk := 0; chunk < nChunks; chunk++ {
		if c.hub.stopped() {
			return nil, fmt.Errorf("chunk %d: %w", chunk, ErrStopped)
		}
		first := chunk * nbr
		last := first + nbr
		if last > dimT {
			last = dimT
		}
		cost, err := e.dispatchTask(len(exs), func(k int) error {
			return boundaryStep(exs[k], states[k], load[k][first:last], first, results[k], env.Precision, env.MaxIterations)
		})
		if err != nil {
			return nil, err
		}

		// 完整的块且后面还有采样点时刷新远场边界
		if last-first == nbr && last < dimT {
			for k, ex := range exs {
				states[k].closeChunk(ex.NSteps, nbr)
				field.deltaTBoundary(ex, states[k], chunk+1)
			}
		}

		log.WithFields(log.Fields{
			"chunk":   chunk,
			"samples": last - first,
			"cost":    cost,
		}).Debug("边界刷新块计算完成")
		c.hub.PushSignal(chunkResult(chunk, first, last, results))
	}
	log.WithFields(log.Fields{
		"dhe":     len(exs),
		"samples": dimT,
		"chunks":  nChunks,
		"cost":    time.Since(start),
	}).Info("计算完成")
	return results, nil
}

func chunkResult(chunk, first, last int, results []*Result) ChunkResult {
	r := ChunkResult{
		Chunk:   chunk,
		Start:   first,
		End:     last,
		TSink:   make([][]float64, len(results)),
		TSource: make([][]float64, len(results)),
	}
	for k, res := range results {
		r.TSink[k] = append([]float64(nil), res.TSink[first:last]...)
		r.TSource[k] = append([]float64(nil), res.TSource[first:last]...)
	}
	return r
}
