package recorder

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"dhe/calculator"
)

const hour = 3600.0

// PlotTemperatures 进出口温度随时间变化曲线，图片格式由扩展名决定
func PlotTemperatures(path string, dt float64, results []*calculator.Result) error {
	p := plot.New()
	p.Title.Text = "Downhole heat exchanger"
	p.X.Label.Text = "t (h)"
	p.Y.Label.Text = "T (°C)"
	p.Add(plotter.NewGrid())

	for k, res := range results {
		sink, source := temperatureLines(dt, res)
		for j, xy := range [2]plotter.XYs{sink, source} {
			line, err := plotter.NewLine(xy)
			if err != nil {
				return fmt.Errorf("dhe %d: %w", k, err)
			}
			line.LineStyle.Width = vg.Points(1)
			line.LineStyle.Color = plotutil.Color(k)
			name := "T_sink"
			if j == 1 {
				name = "T_source"
				line.LineStyle.Dashes = plotutil.Dashes(1)
			}
			p.Add(line)
			p.Legend.Add(fmt.Sprintf("%s %d", name, k), line)
		}
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return err
	}
	log.WithField("path", path).Info("温度曲线已保存")
	return nil
}

func temperatureLines(dt float64, res *calculator.Result) (plotter.XYs, plotter.XYs) {
	sink := make(plotter.XYs, len(res.TSink))
	source := make(plotter.XYs, len(res.TSource))
	for i := range sink {
		x := float64(i) * dt / hour
		sink[i].X, sink[i].Y = x, res.TSink[i]
		source[i].X, source[i].Y = x, res.TSource[i]
	}
	return sink, source
}
