package charts

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// Canvas size of every chart
const (
	Width  = 1200
	Height = 700
)

var (
	background = color.White
	axisColor  = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	gridColor  = color.NRGBA{R: 225, G: 225, B: 225, A: 255}
	textColor  = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	palette    = []color.NRGBA{
		{R: 31, G: 119, B: 180, A: 255},
		{R: 255, G: 127, B: 14, A: 255},
		{R: 44, G: 160, B: 44, A: 255},
		{R: 214, G: 39, B: 40, A: 255},
		{R: 148, G: 103, B: 189, A: 255},
		{R: 140, G: 86, B: 75, A: 255},
		{R: 227, G: 119, B: 194, A: 255},
		{R: 127, G: 127, B: 127, A: 255},
		{R: 188, G: 189, B: 34, A: 255},
		{R: 23, G: 190, B: 207, A: 255},
	}
)

// Chart draws itself onto a canvas
type Chart interface {
	Draw(dc *gg.Context, f *faces)
}

// plotArea is the rectangle inside the margins
type plotArea struct {
	left, top, right, bottom float64
}

func (p plotArea) width() float64  { return p.right - p.left }
func (p plotArea) height() float64 { return p.bottom - p.top }

func fillBackground(dc *gg.Context) {
	dc.SetColor(background)
	dc.Clear()
}

func drawTitle(dc *gg.Context, f *faces, title string) {
	dc.SetFontFace(f.title)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(dc.Width())/2, 36, 0.5, 0.5)
}

// drawValueAxis draws horizontal grid lines with tick labels for a vertical
// value axis and returns the value-to-y mapping
func drawValueAxis(dc *gg.Context, f *faces, area plotArea, lo, hi, step float64) func(float64) float64 {
	toY := func(v float64) float64 {
		return area.bottom - (v-lo)/(hi-lo)*area.height()
	}
	dc.SetFontFace(f.label)
	dc.SetLineWidth(1)
	for v := lo; v <= hi+step/2; v += step {
		y := toY(v)
		dc.SetColor(gridColor)
		dc.DrawLine(area.left, y, area.right, y)
		dc.Stroke()
		dc.SetColor(textColor)
		dc.DrawStringAnchored(formatTick(v), area.left-8, y, 1, 0.5)
	}
	dc.SetColor(axisColor)
	dc.SetLineWidth(1.5)
	dc.DrawLine(area.left, area.top, area.left, area.bottom)
	dc.Stroke()
	zero := toY(math.Max(lo, math.Min(0, hi)))
	dc.DrawLine(area.left, zero, area.right, zero)
	dc.Stroke()
	return toY
}

// drawCategoryLabels writes x labels under the plot, rotated, thinning
// them out to at most maxLabels
func drawCategoryLabels(dc *gg.Context, f *faces, labels []string, xs []float64, y float64) {
	const maxLabels = 15
	every := int(math.Ceil(float64(len(labels)) / maxLabels))
	if every < 1 {
		every = 1
	}
	dc.SetFontFace(f.label)
	dc.SetColor(textColor)
	for i, label := range labels {
		if i%every != 0 {
			continue
		}
		dc.Push()
		dc.RotateAbout(gg.Radians(-35), xs[i], y)
		dc.DrawStringAnchored(label, xs[i], y, 1, 0.5)
		dc.Pop()
	}
}

func drawLegend(dc *gg.Context, f *faces, names []string, x, y float64) {
	dc.SetFontFace(f.label)
	for i, name := range names {
		row := y + float64(i)*22
		dc.SetColor(palette[i%len(palette)])
		dc.DrawRectangle(x, row-7, 14, 14)
		dc.Fill()
		dc.SetColor(textColor)
		dc.DrawStringAnchored(name, x+22, row, 0, 0.5)
	}
}

// LineChart is a single series over ordered labels
type LineChart struct {
	Title  string
	Labels []string
	Values []float64
}

// Draw renders the line chart
func (c LineChart) Draw(dc *gg.Context, f *faces) {
	fillBackground(dc)
	drawTitle(dc, f, c.Title)

	area := plotArea{left: 100, top: 80, right: float64(dc.Width()) - 40, bottom: float64(dc.Height()) - 110}
	lo, hi, step := axisRange(c.Values)
	toY := drawValueAxis(dc, f, area, lo, hi, step)

	xs := make([]float64, len(c.Values))
	for i := range c.Values {
		if len(c.Values) == 1 {
			xs[i] = area.left + area.width()/2
			continue
		}
		xs[i] = area.left + area.width()*float64(i)/float64(len(c.Values)-1)
	}

	line := palette[0]
	dc.SetColor(line)
	dc.SetLineWidth(2.5)
	for i, v := range c.Values {
		if i == 0 {
			dc.MoveTo(xs[i], toY(v))
		} else {
			dc.LineTo(xs[i], toY(v))
		}
	}
	dc.Stroke()
	for i, v := range c.Values {
		dc.DrawCircle(xs[i], toY(v), 4)
		dc.Fill()
	}

	drawCategoryLabels(dc, f, c.Labels, xs, area.bottom+16)
}

// BarChart is horizontal bars, one per label, largest first as given
type BarChart struct {
	Title  string
	Labels []string
	Values []float64
	// Series names the bars when there is more than one value set.
	Series []string
	// Extra holds additional value sets drawn next to Values.
	Extra [][]float64
}

// Draw renders the bar chart
func (c BarChart) Draw(dc *gg.Context, f *faces) {
	fillBackground(dc)
	drawTitle(dc, f, c.Title)

	sets := append([][]float64{c.Values}, c.Extra...)
	var all []float64
	for _, set := range sets {
		all = append(all, set...)
	}

	legendHeight := 0.0
	if len(c.Series) > 1 {
		legendHeight = float64(len(c.Series)) * 22
	}
	area := plotArea{left: 280, top: 80 + legendHeight, right: float64(dc.Width()) - 90, bottom: float64(dc.Height()) - 60}
	lo, hi, step := axisRange(all)
	toX := func(v float64) float64 {
		return area.left + (v-lo)/(hi-lo)*area.width()
	}

	dc.SetFontFace(f.label)
	dc.SetLineWidth(1)
	for v := lo; v <= hi+step/2; v += step {
		x := toX(v)
		dc.SetColor(gridColor)
		dc.DrawLine(x, area.top, x, area.bottom)
		dc.Stroke()
		dc.SetColor(textColor)
		dc.DrawStringAnchored(formatTick(v), x, area.bottom+16, 0.5, 0.5)
	}

	slot := area.height() / float64(len(c.Labels))
	barHeight := slot * 0.7 / float64(len(sets))
	zero := toX(math.Max(lo, math.Min(0, hi)))

	for i, label := range c.Labels {
		top := area.top + float64(i)*slot + slot*0.15
		dc.SetColor(textColor)
		dc.DrawStringAnchored(truncate(label, 38), area.left-10, top+slot*0.35, 1, 0.5)

		for s, set := range sets {
			if i >= len(set) {
				continue
			}
			v := set[i]
			y := top + float64(s)*barHeight
			x0, x1 := zero, toX(v)
			if x1 < x0 {
				x0, x1 = x1, x0
			}
			dc.SetColor(palette[s%len(palette)])
			dc.DrawRectangle(x0, y, x1-x0, barHeight-2)
			dc.Fill()
			dc.SetColor(textColor)
			dc.DrawStringAnchored(formatTick(v), x1+6, y+barHeight/2, 0, 0.5)
		}
	}

	dc.SetColor(axisColor)
	dc.SetLineWidth(1.5)
	dc.DrawLine(zero, area.top, zero, area.bottom)
	dc.Stroke()

	if len(c.Series) > 1 {
		drawLegend(dc, f, c.Series, area.left, 70)
	}
}

// PieChart shows shares of a positive total
type PieChart struct {
	Title  string
	Labels []string
	Values []float64
}

// Draw renders the pie chart. Non-positive values are left out.
func (c PieChart) Draw(dc *gg.Context, f *faces) {
	fillBackground(dc)
	drawTitle(dc, f, c.Title)

	total := 0.0
	for _, v := range c.Values {
		if v > 0 {
			total += v
		}
	}

	cx, cy := float64(dc.Height())/2+40, float64(dc.Height())/2+20
	radius := float64(dc.Height())/2 - 90

	angle := -math.Pi / 2
	var legend []string
	slice := 0
	for i, v := range c.Values {
		if v <= 0 || total <= 0 {
			continue
		}
		sweep := v / total * 2 * math.Pi
		dc.SetColor(palette[slice%len(palette)])
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, angle, angle+sweep)
		dc.ClosePath()
		dc.Fill()
		angle += sweep

		legend = append(legend, truncate(c.Labels[i], 40)+" ("+formatShare(v/total)+")")
		slice++
	}

	drawLegend(dc, f, legend, cx+radius+60, cy-float64(len(legend))*11)
}

func formatShare(share float64) string {
	return formatTick(math.Round(share*1000)/10) + "%"
}
