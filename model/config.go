package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// LoadEnv 从 ini 文件读取配置，缺省项取 DefaultEnv
func LoadEnv(path string) (*Env, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("配置文件读取错误 %s: %w", path, err)
	}
	return loadEnv(file)
}

// ParseEnv 解析内存中的 ini 内容
func ParseEnv(data []byte) (*Env, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, err
	}
	return loadEnv(file)
}

func loadEnv(file *ini.File) (*Env, error) {
	def := DefaultEnv()
	field := file.Section("field")
	env := Env{
		DimAx:                   field.Key("dim_ax").MustInt(def.DimAx),
		DimRad:                  field.Key("dim_rad").MustInt(def.DimRad),
		R:                       field.Key("R").MustFloat64(def.R),
		Gamma:                   field.Key("gamma").MustFloat64(def.Gamma),
		Adiabat:                 field.Key("adiabat").MustFloat64(def.Adiabat),
		Dt:                      field.Key("dt").MustFloat64(def.Dt),
		DtBoundaryRefresh:       field.Key("dt_boundary_refresh").MustFloat64(def.DtBoundaryRefresh),
		T0:                      field.Key("t0").MustFloat64(def.T0),
		NSteps0:                 field.Key("n_steps_0").MustInt(def.NSteps0),
		OptimalNStepsMultiplier: field.Key("optimal_n_steps_multiplier").MustFloat64(def.OptimalNStepsMultiplier),
		GMethod:                 GMethod(field.Key("g_method").MustString(string(def.GMethod))),
		GoConst:                 field.Key("go_const").MustFloat64(def.GoConst),
		BrineMethod:             BrineMethod(field.Key("brine_method").MustString(string(def.BrineMethod))),
		Precision:               field.Key("precision").MustFloat64(def.Precision),
		MaxIterations:           field.Key("max_iterations").MustInt(def.MaxIterations),
		Workers:                 field.Key("workers").MustInt(def.Workers),
	}

	soil := file.Section("soil")
	env.SoilParameters = SoilParameters{
		TSoilMean: soil.Key("T_soil_mean").MustFloat64(def.SoilParameters.TSoilMean),
		TGrad:     soil.Key("T_grad").MustFloat64(def.SoilParameters.TGrad),
	}
	if soil.HasKey("q_drain") {
		env.SoilParameters.QDrain = soil.Key("q_drain").Float64s(",")
	}

	for _, sec := range indexedSections(file, "soil_layer") {
		env.SoilLayers = append(env.SoilLayers, SoilLayer{
			D:      sec.Key("d").MustFloat64(0),
			Rho:    sec.Key("rho").MustFloat64(0),
			C:      sec.Key("c").MustFloat64(0),
			Lambda: sec.Key("lambda").MustFloat64(0),
		})
	}
	if len(env.SoilLayers) == 0 {
		env.SoilLayers = def.SoilLayers
	}

	for _, sec := range indexedSections(file, "dhe") {
		d, err := loadDHE(file, sec)
		if err != nil {
			return nil, err
		}
		env.DHE = append(env.DHE, d)
	}
	if len(env.DHE) == 0 {
		env.DHE = def.DHE
	}
	return &env, nil
}

func loadDHE(file *ini.File, sec *ini.Section) (DHE, error) {
	def := DefaultDHE()
	d := DHE{
		X:         sec.Key("x").MustFloat64(def.X),
		Y:         sec.Key("y").MustFloat64(def.Y),
		L:         sec.Key("L").MustFloat64(def.L),
		D:         sec.Key("D").MustFloat64(def.D),
		DBorehole: sec.Key("D_borehole").MustFloat64(def.DBorehole),
		Thickness: sec.Key("thickness").MustFloat64(def.Thickness),
		Ra:        sec.Key("Ra").MustFloat64(def.Ra),
		Rb:        sec.Key("Rb").MustFloat64(def.Rb),
		R1:        sec.Key("R1").MustFloat64(def.R1),
		PhiM:      sec.Key("Phi_m").MustFloat64(def.PhiM),
		G:         def.G,
	}
	fill := file.Section(sec.Name() + ".fill")
	d.Fill = Material{
		Rho:    fill.Key("rho").MustFloat64(def.Fill.Rho),
		C:      fill.Key("c").MustFloat64(def.Fill.C),
		Lambda: fill.Key("lambda").MustFloat64(def.Fill.Lambda),
	}
	brine := file.Section(sec.Name() + ".brine")
	d.Brine = Fluid{
		Material: Material{
			Rho:    brine.Key("rho").MustFloat64(def.Brine.Rho),
			C:      brine.Key("c").MustFloat64(def.Brine.C),
			Lambda: brine.Key("lambda").MustFloat64(def.Brine.Lambda),
		},
		Nu: brine.Key("nu").MustFloat64(def.Brine.Nu),
	}
	g := file.Section(sec.Name() + ".g")
	if g.HasKey("g_coefs") {
		coefs := g.Key("g_coefs").Float64s(",")
		if len(coefs) != len(d.G.GCoefs) {
			return d, fmt.Errorf("%s.g: %d g_coefs, want %d: %w", sec.Name(), len(coefs), len(d.G.GCoefs), ErrInvalidConfig)
		}
		copy(d.G.GCoefs[:], coefs)
	}
	d.G.DDHE = g.Key("d_DHE").MustFloat64(def.G.DDHE)
	return d, nil
}

// 形如 prefix.N 的分区，按 N 排序
func indexedSections(file *ini.File, prefix string) []*ini.Section {
	type indexed struct {
		n   int
		sec *ini.Section
	}
	var found []indexed
	for _, sec := range file.Sections() {
		rest := strings.TrimPrefix(sec.Name(), prefix+".")
		if rest == sec.Name() {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		found = append(found, indexed{n: n, sec: sec})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	out := make([]*ini.Section, len(found))
	for i := range found {
		out[i] = found[i].sec
	}
	return out
}
