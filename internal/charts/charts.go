package charts

import (
	"bytes"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/repository"
)

// Renderer draws the dashboard charts.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RevenueChart renders the approved-revenue time series as a PNG. It
// returns nil bytes when there is nothing worth plotting.
func (r *Renderer) RevenueChart(points []repository.RevenuePoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, nil
	}

	xValues := make([]time.Time, 0, len(points))
	yValues := make([]float64, 0, len(points))
	var total float64
	for _, p := range points {
		day, err := time.Parse("2006-01-02", p.Day)
		if err != nil {
			continue
		}
		v, _ := p.Revenue.Float64()
		xValues = append(xValues, day)
		yValues = append(yValues, v)
		total += v
	}
	if len(xValues) < 2 || total == 0 {
		return nil, nil
	}

	graph := chart.Chart{
		Title:  "Revenue (ETB)",
		Width:  800,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Daily revenue",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2ecc71"),
					StrokeWidth: 2.5,
					FillColor:   drawing.ColorFromHex("2ecc71").WithAlpha(40),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
