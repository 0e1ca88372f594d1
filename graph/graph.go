package graph

import (
	"bytes"
	"cacheprofiler/cmd/util"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	Title  = "Cache Profiler Results"
	XLabel = "Test Size (KB)"
	YLabel = "Median Latency (ns)"

	// headroom above the largest latency, none below the smallest
	yHeadroom = 1.05

	width  = 6.4 * vg.Inch
	height = 4.8 * vg.Inch
)

// ErrEmptyDataset is returned when there is nothing to plot
var ErrEmptyDataset = errors.New("empty dataset")

// Bounds are the axis ranges of the chart
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// ComputeBounds spans the x axis over exactly the test sizes and the y axis from the
// smallest latency to 5% above the largest. A single point gives zero-width ranges.
func ComputeBounds(data *util.Dataset) (Bounds, error) {
	if data == nil || data.Len() == 0 {
		return Bounds{}, ErrEmptyDataset
	}
	if err := data.Validate(); err != nil {
		return Bounds{}, err
	}
	xs := toFloats(data.TestSizes)
	return Bounds{
		XMin: floats.Min(xs),
		XMax: floats.Max(xs),
		YMin: floats.Min(data.Latencies),
		YMax: floats.Max(data.Latencies) * yHeadroom,
	}, nil
}

// FileName is graph_<timestamp>.png for the current clock
func FileName() string {
	return "graph_" + util.Timestamp() + ".png"
}

// Render draws data as a line with circle markers and writes it as a PNG into outDir,
// creating outDir if needed. The image is fully encoded before the file is created.
// It returns the path of the written file.
func Render(data *util.Dataset, outDir string) (string, error) {
	bounds, err := ComputeBounds(data)
	if err != nil {
		return "", err
	}
	if err := util.EnsureDirectory(outDir); err != nil {
		return "", err
	}
	// captured here so the name reflects when the chart was made
	path := filepath.Join(outDir, FileName())

	p, err := newPlot(data, bounds)
	if err != nil {
		return "", err
	}
	encoder, err := p.WriterTo(width, height, "png")
	if err != nil {
		return "", fmt.Errorf("encoding chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := encoder.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("encoding chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func newPlot(data *util.Dataset, bounds Bounds) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel

	line, points, err := plotter.NewLinePoints(toXYs(data))
	if err != nil {
		return nil, fmt.Errorf("building line series: %w", err)
	}
	line.Color = plotutil.Color(0)
	points.Color = plotutil.Color(0)
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	// Add widens the axes to the data, so the fixed ranges go in afterwards
	p.X.Min, p.X.Max = bounds.XMin, bounds.XMax
	p.Y.Min, p.Y.Max = bounds.YMin, bounds.YMax
	return p, nil
}

func toXYs(data *util.Dataset) plotter.XYs {
	pts := make(plotter.XYs, data.Len())
	for i := range pts {
		pts[i].X = float64(data.TestSizes[i])
		pts[i].Y = data.Latencies[i]
	}
	return pts
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
