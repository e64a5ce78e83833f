/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Formats lists the file extensions Export understands.
func Formats() []string {
	return []string{".png", ".svg", ".pdf", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp"}
}

// Export writes the figure to path; the format follows the extension.
func (f *Figure) Export(path string) error {
	if !f.open {
		return errors.New("figure is closed")
	}
	if len(f.order) == 0 {
		return errors.New("figure has no data to print")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return f.writeChart(path, chart.PNG)
	case ".svg":
		return f.writeChart(path, chart.SVG)
	case ".pdf":
		return f.writePDF(path)
	case ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return f.writeRaster(path, ext)
	case "":
		return fmt.Errorf("%s: missing file extension (use one of %s)", path, strings.Join(Formats(), ", "))
	default:
		return fmt.Errorf("unsupported print format %q (use one of %s)", ext, strings.Join(Formats(), ", "))
	}
}

func (f *Figure) writeChart(path string, rp chart.RendererProvider) error {
	var buf bytes.Buffer
	if err := f.render(rp, &buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (f *Figure) writeRaster(path, ext string) error {
	var buf bytes.Buffer
	if err := f.render(chart.PNG, &buf); err != nil {
		return err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	if err := encodeRaster(out, img, ext); err != nil {
		return err
	}
	return out.Close()
}

func encodeRaster(w io.Writer, img image.Image, ext string) error {
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 92})
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unsupported raster format %q", ext)
}

// writePDF embeds the PNG rendering on a single page sized to the figure.
func (f *Figure) writePDF(path string) error {
	var buf bytes.Buffer
	if err := f.render(chart.PNG, &buf); err != nil {
		return err
	}
	wPt := float64(f.opts.Width) * 72 / f.opts.DPI
	hPt := float64(f.opts.Height) * 72 / f.opts.DPI
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wPt, Ht: hPt},
	})
	pdf.SetCreator("cmdgraph", true)
	if f.opts.Title != "" {
		pdf.SetTitle(f.opts.Title, true)
	}
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("figure", opt, bytes.NewReader(buf.Bytes()))
	pdf.ImageOptions("figure", 0, 0, wPt, hPt, false, opt, 0, "")
	return pdf.OutputFileAndClose(path)
}

func (f *Figure) render(rp chart.RendererProvider, w io.Writer) error {
	xlo, xhi := f.Limits(AxisX)
	ylo, yhi := f.Limits(AxisY)
	logY := f.scales[AxisY] == ScaleLog
	base := 0.0
	if logY {
		base = ylo
	}

	series := make([]chart.Series, 0, len(f.order))
	legend := false
	for _, h := range f.order {
		p := f.series[h]
		st, err := p.chartStyle()
		if err != nil {
			return err
		}
		xs, ys := p.points(base)
		if logY {
			ys = floorAt(ys, ylo)
		}
		if f.scales[AxisX] == ScaleLog {
			xs = floorAt(xs, xlo)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    p.style.Label,
			Style:   st,
			XValues: xs,
			YValues: ys,
		})
		if p.style.Label != "" && !p.style.HideLegend {
			legend = true
		}
	}
	ch := chart.Chart{
		Title:  f.opts.Title,
		Width:  f.opts.Width,
		Height: f.opts.Height,
		DPI:    f.opts.DPI,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  chart.XAxis{Range: axisRange(f.scales[AxisX], xlo, xhi)},
		YAxis:  chart.YAxis{Range: axisRange(f.scales[AxisY], ylo, yhi)},
		Series: series,
	}
	if legend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(rp, w)
}

func axisRange(scale Scale, lo, hi float64) chart.Range {
	if scale == ScaleLog {
		return &chart.LogarithmicRange{Min: lo, Max: hi}
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func (p *plotted) chartStyle() (chart.Style, error) {
	colour, err := p.colour()
	if err != nil {
		return chart.Style{}, err
	}
	st := chart.Style{
		StrokeColor: colour,
		StrokeWidth: p.style.LineWidth,
	}
	if st.StrokeWidth <= 0 {
		st.StrokeWidth = 1.5
	}
	if dash := lineStyles[p.style.LineStyle]; len(dash) > 0 {
		st.StrokeDashArray = dash
	}
	if hiddenLine(p.style.LineStyle) {
		st.StrokeColor = drawing.ColorTransparent
	}
	if !hiddenMarker(p.style.Marker) {
		st.DotColor = colour
		st.DotWidth = p.style.MarkerSize
		if st.DotWidth <= 0 {
			st.DotWidth = 3
		}
	}
	return st, nil
}

func (p *plotted) colour() (drawing.Color, error) {
	if p.style.Colour != "" {
		return ParseColour(p.style.Colour)
	}
	return ParseColour(defaultCycle[p.cycle%len(defaultCycle)])
}
