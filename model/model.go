package model

// 整个换热器场的计算配置
type Env struct {
	DimAx                   int            `json:"dim_ax"`                     // 轴向分层数
	DimRad                  int            `json:"dim_rad"`                    // 径向土壤环数
	R                       float64        `json:"R"`                          // 计算域半径 m
	Gamma                   float64        `json:"gamma"`                      // 径向网格增长系数
	Adiabat                 float64        `json:"adiabat"`                    // 外边界绝热比例
	Dt                      float64        `json:"dt"`                         // 宏时间步 s
	DtBoundaryRefresh       float64        `json:"dt_boundary_refresh"`        // 远场边界刷新周期 s
	T0                      float64        `json:"t0"`                         // 模拟起始偏移 s
	NSteps0                 int            `json:"n_steps_0"`                  // 盐水子步安全系数
	OptimalNStepsMultiplier float64        `json:"optimal_n_steps_multiplier"` // 隐式微步系数
	SoilLayers              []SoilLayer    `json:"soil_layers"`
	SoilParameters          SoilParameters `json:"soil_parameters"`
	GMethod                 GMethod        `json:"g_method"`
	GoConst                 float64        `json:"go_const"` // 多项式 g 函数线性段常数
	BrineMethod             BrineMethod    `json:"brine_method"`
	Precision               float64        `json:"precision"`      // 进口温度收敛精度 K
	MaxIterations           int            `json:"max_iterations"` // 单个采样点最大迭代次数
	Workers                 int            `json:"workers"`        // 换热器并行数
	DHE                     []DHE          `json:"dhe"`
}

// 土层，D 为厚度，0 或 +Inf 表示半无限
type SoilLayer struct {
	D      float64 `json:"d"`
	Rho    float64 `json:"rho"`
	C      float64 `json:"c"`
	Lambda float64 `json:"lambda"`
}

// 初始地温
type SoilParameters struct {
	TSoilMean float64   `json:"T_soil_mean"` // 地表平均温度
	TGrad     float64   `json:"T_grad"`      // 地温梯度 K/m
	QDrain    []float64 `json:"q_drain"`     // 起始前已取出的热量，每层 W，可为空
}

// 固体材料物性
type Material struct {
	Rho    float64 `json:"rho"`
	C      float64 `json:"c"`
	Lambda float64 `json:"lambda"`
}

// 容积比热 rho*c
func (m Material) CV() float64 {
	return m.Rho * m.C
}

// 流体物性
type Fluid struct {
	Material
	Nu float64 `json:"nu"` // 运动粘度 m^2/s
}

// 多项式 g 函数的名义控制点
type GFuncParameters struct {
	GCoefs [5]float64 `json:"g_coefs"`
	DDHE   float64    `json:"d_DHE"` // 换热器间距 m
}

// 单个地埋管换热器
type DHE struct {
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	L         float64         `json:"L"`          // 长度 m
	D         float64         `json:"D"`          // 管外径 m
	DBorehole float64         `json:"D_borehole"` // 钻孔直径 m
	Thickness float64         `json:"thickness"`  // 管壁厚 m
	Ra        float64         `json:"Ra"`         // 钻孔内部热阻
	Rb        float64         `json:"Rb"`         // 钻孔热阻
	R1        float64         `json:"R1"`         // 显式给定的单个轴向分层管-回填热阻 K/W，<=0 时计算
	PhiM      float64         `json:"Phi_m"`      // 质量流量 kg/s
	Fill      Material        `json:"fill_properties"`
	Brine     Fluid           `json:"brine_properties"`
	G         GFuncParameters `json:"T_soil_0_parameters"`
}

type GMethod string

const (
	GMethodPolynomial GMethod = "polynomial"
	GMethodCone       GMethod = "cone"
)

type BrineMethod string

const (
	BrineDynamic    BrineMethod = "dynamic"
	BrineStationary BrineMethod = "stationary"
)

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
