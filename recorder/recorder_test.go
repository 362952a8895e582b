package recorder

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhe/calculator"
)

func TestReadLoadProfile(t *testing.T) {
	in := "t,P\n0,1000\n3600,2500.5\n7200,0\n"
	tt, P, err := ReadLoadProfileFrom(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3600, 7200}, tt)
	assert.Equal(t, []float64{1000, 2500.5, 0}, P)

	path := filepath.Join(t.TempDir(), "load.csv")
	require.NoError(t, os.WriteFile(path, []byte(in), 0o644))
	tf, Pf, err := ReadLoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, tt, tf)
	assert.Equal(t, P, Pf)
}

func TestReadLoadProfileErrors(t *testing.T) {
	_, _, err := ReadLoadProfileFrom(strings.NewReader("t,P\n"))
	assert.ErrorIs(t, err, ErrEmptyProfile)

	_, _, err = ReadLoadProfileFrom(strings.NewReader("t,P\n0,1\n0,2\n"))
	assert.ErrorIs(t, err, ErrUnsortedTimes)

	_, _, err = ReadLoadProfileFrom(strings.NewReader("t,P\nx,1\n"))
	assert.Error(t, err)

	_, _, err = ReadLoadProfile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func sampleResult() *calculator.Result {
	// dimAx 1, dimRad 2，每个采样点 4 个土壤节点，壁温在下标 1
	return &calculator.Result{
		DimAx:   1,
		DimRad:  2,
		TSink:   []float64{8, 7.5},
		TSource: []float64{9, 8.5},
		TSoil:   []float64{8.5, 9.5, 10, 10, 8, 9.25, 10, 10},
	}
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	load := [][]float64{{1000, 1000}}
	require.NoError(t, WriteResultsTo(&buf, 3600, load, []*calculator.Result{sampleResult()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "t,dhe,P,T_sink,T_source,T_wall", lines[0])
	assert.Equal(t, "0,0,1000,8,9,9.5", lines[1])
	assert.Equal(t, "3600,0,1000,7.5,8.5,9.25", lines[2])

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteResults(path, 3600, load, []*calculator.Result{sampleResult()}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}

func TestWriteResultsMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := WriteResultsTo(&buf, 3600, nil, []*calculator.Result{sampleResult()})
	assert.ErrorIs(t, err, ErrResultMismatch)

	err = WriteResultsTo(&buf, 3600, [][]float64{{1}}, []*calculator.Result{sampleResult()})
	assert.ErrorIs(t, err, ErrResultMismatch)
}

func TestPlotTemperatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "T.png")
	require.NoError(t, PlotTemperatures(path, 3600, []*calculator.Result{sampleResult(), sampleResult()}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	sink, source := temperatureLines(1800, sampleResult())
	assert.Equal(t, 0.5, sink[1].X)
	assert.Equal(t, 8.5, source[1].Y)
}
