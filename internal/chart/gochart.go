package chart

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"CoinMonitor/internal/model"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Series colors, reused round-robin when more symbols show up.
var palette = []drawing.Color{
	{R: 0x1f, G: 0x4e, B: 0xd8, A: 0xff}, // blue
	{R: 0xf5, G: 0x8a, B: 0x07, A: 0xff}, // orange
	{R: 0x15, G: 0x80, B: 0x3d, A: 0xff}, // green
	{R: 0xb9, G: 0x1c, B: 0x1c, A: 0xff}, // red
}

// GoChartBackend renders PNG line charts via go-chart. The first series
// gets the primary Y axis and the second series the secondary one, so an
// asset priced in the tens of thousands does not visually flatten one
// priced in the hundreds. Any further series share the primary axis.
type GoChartBackend struct{}

// NewGoChartBackend creates the go-chart rendering backend.
func NewGoChartBackend() *GoChartBackend { return &GoChartBackend{} }

func (b *GoChartBackend) Available() bool { return true }

func (b *GoChartBackend) Render(w io.Writer, history model.RecordSet) error {
	series := splitSeries(history)
	if len(series) == 0 {
		return fmt.Errorf("no plottable series")
	}

	graph := chart.Chart{
		Title:  "Price History - " + seriesTitle(series),
		Width:  1000,
		Height: 500,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Name: "Time"},
		YAxis: chart.YAxis{
			Name:  series[0].symbol + " (USD)",
			Range: paddedRange(axisValues(series, 0)),
		},
	}
	if len(series) > 1 {
		graph.YAxisSecondary = chart.YAxis{
			Name:  series[1].symbol + " (USD)",
			Range: paddedRange(series[1].prices),
		}
	}

	for i, s := range series {
		color := palette[i%len(palette)]
		ts := chart.TimeSeries{
			Name:    s.symbol,
			XValues: s.times,
			YValues: s.prices,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		}
		if i == 1 {
			ts.YAxis = chart.YAxisSecondary
		}
		graph.Series = append(graph.Series, ts)
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

type symbolSeries struct {
	symbol string
	times  []time.Time
	prices []float64
}

// Axis slots: BTC and ETH keep their customary first and second positions;
// any further symbols follow alphabetically.
var axisRank = map[string]int{"BTC": 0, "ETH": 1}

// splitSeries partitions the history per symbol and sorts each series by
// timestamp ascending, ties keeping their file order.
func splitSeries(history model.RecordSet) []symbolSeries {
	bySymbol := history.BySymbol()

	symbols := make([]string, 0, len(bySymbol))
	for symbol := range bySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Slice(symbols, func(i, j int) bool {
		ri, rj := rankOf(symbols[i]), rankOf(symbols[j])
		if ri != rj {
			return ri < rj
		}
		return symbols[i] < symbols[j]
	})

	out := make([]symbolSeries, 0, len(symbols))
	for _, symbol := range symbols {
		rows := bySymbol[symbol]
		rows.SortChronological()
		s := symbolSeries{symbol: symbol}
		for _, obs := range rows {
			s.times = append(s.times, obs.Time)
			s.prices = append(s.prices, obs.Price.InexactFloat64())
		}
		out = append(out, s)
	}
	return out
}

func rankOf(symbol string) int {
	if r, ok := axisRank[symbol]; ok {
		return r
	}
	return len(axisRank)
}

// axisValues collects the prices of every series bound to the given axis
// slot: slot 0 is the primary axis plus all extras, slot 1 the secondary.
func axisValues(series []symbolSeries, slot int) []float64 {
	var vals []float64
	for i, s := range series {
		onSecondary := i == 1
		if (slot == 1) == onSecondary {
			vals = append(vals, s.prices...)
		}
	}
	return vals
}

// paddedRange computes the axis bounds, padding a zero-height range so a
// flat series still draws instead of failing the render.
func paddedRange(vals []float64) *chart.ContinuousRange {
	if len(vals) == 0 {
		return nil
	}
	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if min == max {
		pad := math.Abs(min) * 0.01
		if pad == 0 {
			pad = 1
		}
		min -= pad
		max += pad
	}
	return &chart.ContinuousRange{Min: min, Max: max}
}

func seriesTitle(series []symbolSeries) string {
	title := ""
	for i, s := range series {
		if i > 0 {
			title += " x "
		}
		title += s.symbol
	}
	return title
}
