// Package visualize は射影結果の散布図を描画します。
package visualize

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// ScatterOption configures ProjectionScatter
type ScatterOption func(*scatterConfig)

type scatterConfig struct {
	title  string
	xLabel string
	yLabel string
	width  vg.Length
	height vg.Length
	format string
}

// WithTitle sets the plot title
func WithTitle(title string) ScatterOption {
	return func(c *scatterConfig) { c.title = title }
}

// WithAxisLabels sets the x and y axis labels (default: "PC1", "PC2")
func WithAxisLabels(x, y string) ScatterOption {
	return func(c *scatterConfig) {
		c.xLabel = x
		c.yLabel = y
	}
}

// WithSize sets the canvas size (default: 6x6 inch)
func WithSize(width, height vg.Length) ScatterOption {
	return func(c *scatterConfig) {
		c.width = width
		c.height = height
	}
}

// WithFormat sets the image format understood by plot.WriterTo, e.g. "png" or "svg" (default: "png")
func WithFormat(format string) ScatterOption {
	return func(c *scatterConfig) { c.format = format }
}

// ProjectionScatter は射影済み行列の先頭2列をラベルごとに色分けした散布図として w に書き出す。
// 系列はラベルの初出順に並ぶ。
//
//	_, Z, err := decomposition.NewPCA(2).FitTransform(X)
//	err = visualize.ProjectionScatter(f, Z, labels, visualize.WithTitle("PCA"))
func ProjectionScatter[L comparable](w io.Writer, projected mat.Matrix, labels []L, opts ...ScatterOption) error {
	const op = "ProjectionScatter"
	cfg := scatterConfig{
		xLabel: "PC1",
		yLabel: "PC2",
		width:  6 * vg.Inch,
		height: 6 * vg.Inch,
		format: "png",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if projected == nil {
		return errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	rows, cols := projected.Dims()
	if rows == 0 {
		return errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	if cols < 2 {
		return errors.NewDimensionError(op, 2, cols, 1)
	}
	if len(labels) != rows {
		return errors.NewDimensionError(op, rows, len(labels), 0)
	}
	if err := errors.CheckMatrix(op, projected, rows, 2); err != nil {
		return err
	}

	// ラベルごとに点をまとめる
	var order []L
	groups := make(map[L]plotter.XYs)
	for i, l := range labels {
		if _, ok := groups[l]; !ok {
			order = append(order, l)
		}
		groups[l] = append(groups[l], plotter.XY{X: projected.At(i, 0), Y: projected.At(i, 1)})
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = cfg.xLabel
	p.Y.Label.Text = cfg.yLabel
	p.Add(plotter.NewGrid())

	for k, l := range order {
		s, err := plotter.NewScatter(groups[l])
		if err != nil {
			return errors.Wrapf(err, "%s: build scatter for label %v", op, l)
		}
		s.Color = plotutil.Color(k)
		s.Shape = plotutil.Shape(k)
		s.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(fmt.Sprint(l), s)
	}

	wt, err := p.WriterTo(cfg.width, cfg.height, cfg.format)
	if err != nil {
		return errors.Wrapf(err, "%s: create %s canvas", op, cfg.format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrapf(err, "%s: write image", op)
	}
	return nil
}

// SaveProjectionScatter は ProjectionScatter の結果をファイルに保存する
func SaveProjectionScatter[L comparable](path string, projected mat.Matrix, labels []L, opts ...ScatterOption) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	if err := ProjectionScatter(f, projected, labels, opts...); err != nil {
		return err
	}
	return errors.Wrap(f.Close(), "close image file")
}
