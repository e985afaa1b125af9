package scope

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/chewxy/math32"

	"github.com/petsense/pawbeat/pkg/history"
	"github.com/petsense/pawbeat/pkg/monitor"
	"github.com/petsense/pawbeat/pkg/telemetry"
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	// Background
	grid *canvas.Rectangle

	// Beat markers (vertical lines) and their rate labels
	beatLines  []*canvas.Line
	beatLabels []*canvas.Text

	// Current rate readout
	rateLabel *canvas.Text

	// Grid lines
	gridLines []*canvas.Line
	gridTexts []*canvas.Text

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// Trace and marker colors.
var (
	pulseColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // Orange
	piezoColor = color.RGBA{R: 100, G: 200, B: 255, A: 255} // Light blue
	beatColor  = color.RGBA{R: 0, G: 100, B: 200, A: 255}   // Dark blue
	gridColor  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	// Background fills entire widget
	r.grid.Resize(size)

	// Check if size changed
	if r.lastSize.Width != size.Width || r.lastSize.Height != size.Height {
		r.lastSize = size
		// Size changed, trigger widget refresh to redraw with new dimensions
		// Use BaseWidget.Refresh() to properly trigger Fyne's refresh cycle
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	reports := r.scope.displayReports
	beats := r.scope.beats
	state := r.scope.state
	bpm := r.scope.bpm
	yMin := r.scope.yMin
	yMax := r.scope.yMax
	xMin := r.scope.xMin
	xMax := r.scope.xMax
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	// Clear old objects (but keep grid)
	r.objects = []fyne.CanvasObject{r.grid}
	r.gridLines = r.gridLines[:0]
	r.gridTexts = r.gridTexts[:0]
	r.beatLines = r.beatLines[:0]
	r.beatLabels = r.beatLabels[:0]
	r.rateLabel = nil

	// Calculate margins
	marginLeft := float32(60.0)
	marginRight := float32(20.0)
	marginTop := float32(20.0)
	marginBottom := float32(40.0)

	plotWidth := size.Width - marginLeft - marginRight
	plotHeight := size.Height - marginTop - marginBottom
	plotX := marginLeft
	plotY := marginTop

	// Draw grid
	r.drawGrid(plotX, plotY, plotWidth, plotHeight, yMin, yMax, xMin, xMax)

	// Draw pulse trace (orange)
	if len(reports) > 1 {
		r.drawTrace(plotX, plotY, plotWidth, plotHeight, reports, yMin, yMax, xMin, xMax,
			pulseColor, 1.5, func(rep telemetry.Report) float32 { return float32(rep.Pulse) })

		// Draw piezo trace (light blue, thicker)
		r.drawTrace(plotX, plotY, plotWidth, plotHeight, reports, yMin, yMax, xMin, xMax,
			piezoColor, 2.5, func(rep telemetry.Report) float32 { return float32(rep.Piezo) })
	}

	// Draw beat markers (dark blue vertical lines) with rate labels
	r.drawBeats(plotX, plotY, plotWidth, plotHeight, beats, xMin, xMax)

	// Draw the current rate readout
	r.drawRate(plotX, plotY, state, bpm)
}

// drawGrid draws the oscilloscope-style grid.
func (r *scopeRenderer) drawGrid(plotX, plotY, plotWidth, plotHeight float32, yMin, yMax float32, xMin, xMax time.Time) {
	// Horizontal grid lines (raw counts)
	numHLines := 8
	for i := range numHLines + 1 {
		y := plotY + float32(i)*plotHeight/float32(numHLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(plotX, y)
		line.Position2 = fyne.NewPos(plotX+plotWidth, y)
		line.StrokeWidth = 1
		r.gridLines = append(r.gridLines, line)
		r.objects = append(r.objects, line)

		// Y-axis label
		value := yMax - float32(i)*(yMax-yMin)/float32(numHLines)
		text := canvas.NewText(formatCounts(value), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(plotX-5, y-6))
		r.gridTexts = append(r.gridTexts, text)
		r.objects = append(r.objects, text)
	}

	// Vertical grid lines (time)
	numVLines := 10
	for i := range numVLines + 1 {
		x := plotX + float32(i)*plotWidth/float32(numVLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(x, plotY)
		line.Position2 = fyne.NewPos(x, plotY+plotHeight)
		line.StrokeWidth = 1
		r.gridLines = append(r.gridLines, line)
		r.objects = append(r.objects, line)

		// X-axis label
		timeOffset := float64(i) * xMax.Sub(xMin).Seconds() / float64(numVLines)
		timeVal := xMin.Add(time.Duration(timeOffset * float64(time.Second)))
		text := canvas.NewText(formatTime(timeVal.Sub(xMin)), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, plotY+plotHeight+5))
		r.gridTexts = append(r.gridTexts, text)
		r.objects = append(r.objects, text)
	}
}

// drawTrace draws one analog channel as connected line segments.
func (r *scopeRenderer) drawTrace(plotX, plotY, plotWidth, plotHeight float32, reports []telemetry.Report, yMin, yMax float32, xMin, xMax time.Time, clr color.Color, stroke float32, value func(telemetry.Report) float32) {
	if len(reports) < 2 {
		return
	}

	span := float32(xMax.Sub(xMin).Seconds())
	if span <= 0 {
		return
	}

	points := make([]fyne.Position, 0, len(reports))
	for _, rep := range reports {
		x := plotX + float32(rep.Received.Sub(xMin).Seconds())/span*plotWidth
		y := plotY + plotHeight - (value(rep)-yMin)/(yMax-yMin)*plotHeight
		points = append(points, fyne.NewPos(x, y))
	}

	// Draw connected line segments
	for i := range len(points) - 1 {
		line := canvas.NewLine(clr)
		line.Position1 = points[i]
		line.Position2 = points[i+1]
		line.StrokeWidth = stroke
		r.objects = append(r.objects, line)
	}
}

// drawBeats draws a vertical marker per detected beat, labelled with
// the rate the firmware reported at that moment.
func (r *scopeRenderer) drawBeats(plotX, plotY, plotWidth, plotHeight float32, beats []history.Beat, xMin, xMax time.Time) {
	span := float32(xMax.Sub(xMin).Seconds())
	if span <= 0 {
		return
	}

	for _, beat := range beats {
		if beat.Time.Before(xMin) || beat.Time.After(xMax) {
			continue
		}

		x := plotX + float32(beat.Time.Sub(xMin).Seconds())/span*plotWidth
		line := canvas.NewLine(beatColor)
		line.Position1 = fyne.NewPos(x, plotY)
		line.Position2 = fyne.NewPos(x, plotY+plotHeight)
		line.StrokeWidth = 1
		r.beatLines = append(r.beatLines, line)
		r.objects = append(r.objects, line)

		// Unconfirmed beats get a marker but no number.
		if beat.BPM <= 0 {
			continue
		}
		text := canvas.NewText(formatBPM(beat.BPM), pulseColor)
		text.TextSize = 12
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, plotY-15))
		r.beatLabels = append(r.beatLabels, text)
		r.objects = append(r.objects, text)
	}
}

// drawRate draws the current state and rate readout.
func (r *scopeRenderer) drawRate(plotX, plotY float32, state monitor.State, bpm int) {
	readout := state.String()
	if state == monitor.Monitoring && bpm > 0 {
		readout = formatBPM(bpm) + " " + readout
	}
	text := canvas.NewText(readout, color.RGBA{R: 200, G: 200, B: 200, A: 255}) // Light gray
	text.TextSize = 11
	text.Alignment = fyne.TextAlignLeading
	text.Move(fyne.NewPos(plotX+10, plotY+10))
	r.rateLabel = text
	r.objects = append(r.objects, text)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {
	// Cleanup handled by Fyne
}

// Helper functions for formatting

func formatCounts(v float32) string {
	return formatInt(int64(math32.Round(v)))
}

func formatTime(d time.Duration) string {
	if d < time.Second {
		return formatFloat(float32(d.Seconds()), 2) + "s"
	}
	return formatFloat(float32(d.Seconds()), 1) + "s"
}

func formatBPM(bpm int) string {
	return formatInt(int64(bpm)) + " BPM"
}

func formatFloat(v float32, decimals int) string {
	str := ""
	if v < 0 {
		str = "-"
		v = -v
	}
	intPart := int64(v)
	str += formatInt(intPart)
	if decimals > 0 {
		frac := v - float32(intPart)
		fracStr := formatInt(int64(frac * math32.Pow(10, float32(decimals))))
		// Pad with zeros
		for len(fracStr) < decimals {
			fracStr = "0" + fracStr
		}
		str += "." + fracStr
	}
	return str
}

func formatInt(v int64) string {
	if v == 0 {
		return "0"
	}
	str := ""
	neg := v < 0
	if neg {
		v = -v
	}
	for v > 0 {
		str = string(rune('0'+v%10)) + str
		v /= 10
	}
	if neg {
		str = "-" + str
	}
	return str
}
