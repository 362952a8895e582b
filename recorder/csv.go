package recorder

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"dhe/calculator"
)

var (
	ErrEmptyProfile   = errors.New("recorder: empty load profile")
	ErrUnsortedTimes  = errors.New("recorder: load profile times not increasing")
	ErrResultMismatch = errors.New("recorder: load and results do not match")
)

// 负荷曲线的一行，P > 0 取热
type LoadRow struct {
	T float64 `csv:"t"`
	P float64 `csv:"P"`
}

// 输出结果的一行
type ResultRow struct {
	T       float64 `csv:"t"`
	DHE     int     `csv:"dhe"`
	P       float64 `csv:"P"`
	TSink   float64 `csv:"T_sink"`
	TSource float64 `csv:"T_source"`
	TWall   float64 `csv:"T_wall"`
}

func ReadLoadProfile(path string) ([]float64, []float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	return ReadLoadProfileFrom(file)
}

// ReadLoadProfileFrom 读取 t,P 两列，时间必须严格递增
func ReadLoadProfileFrom(r io.Reader) ([]float64, []float64, error) {
	var rows []*LoadRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyProfile
	}
	t := make([]float64, len(rows))
	P := make([]float64, len(rows))
	for i, row := range rows {
		if i > 0 && row.T <= rows[i-1].T {
			return nil, nil, fmt.Errorf("row %d t = %g: %w", i+1, row.T, ErrUnsortedTimes)
		}
		t[i], P[i] = row.T, row.P
	}
	log.WithFields(log.Fields{
		"rows":  len(rows),
		"start": t[0],
		"end":   t[len(t)-1],
	}).Debug("负荷曲线读取完成")
	return t, P, nil
}

func WriteResults(path string, dt float64, load [][]float64, results []*calculator.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteResultsTo(file, dt, load, results); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteResultsTo 按采样点、换热器顺序逐行输出
func WriteResultsTo(w io.Writer, dt float64, load [][]float64, results []*calculator.Result) error {
	if len(load) != len(results) {
		return fmt.Errorf("%d load series, %d results: %w", len(load), len(results), ErrResultMismatch)
	}
	if len(results) == 0 {
		return gocsv.Marshal([]*ResultRow{}, w)
	}
	dimT := len(results[0].TSink)
	rows := make([]*ResultRow, 0, dimT*len(results))
	for i := 0; i < dimT; i++ {
		for k, res := range results {
			if len(load[k]) != dimT || len(res.TSink) != dimT {
				return fmt.Errorf("dhe %d: %w", k, ErrResultMismatch)
			}
			rows = append(rows, &ResultRow{
				T:       float64(i) * dt,
				DHE:     k,
				P:       load[k][i],
				TSink:   res.TSink[i],
				TSource: res.TSource[i],
				TWall:   res.WallMean(i),
			})
		}
	}
	return gocsv.Marshal(rows, w)
}
