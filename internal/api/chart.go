package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// handleChart renders the stored market history as an HTML line chart:
// periodic GDP against the average trading price, one point per period.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "no history store configured", http.StatusNotFound)
		return
	}
	history, err := s.Store.PeriodHistory(500)
	if err != nil {
		slog.Error("period history read failed", "error", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}

	xAxis := make([]string, 0, len(history))
	gdpSeries := make([]opts.LineData, 0, len(history))
	priceSeries := make([]opts.LineData, 0, len(history))
	valuationSeries := make([]opts.LineData, 0, len(history))
	for _, row := range history {
		xAxis = append(xAxis, fmt.Sprintf("%.0fs", row.SimSeconds))
		gdpSeries = append(gdpSeries, opts.LineData{Value: row.PeriodicGDP})
		priceSeries = append(priceSeries, opts.LineData{Value: row.AvgTradingPrice})
		valuationSeries = append(valuationSeries, opts.LineData{Value: row.AvgValuation})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Boxlands market",
			Subtitle: "periodic GDP, average trading price, average valuation",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis).
		AddSeries("GDP per period", gdpSeries).
		AddSeries("avg trading price", priceSeries).
		AddSeries("avg valuation", valuationSeries)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(w); err != nil {
		slog.Error("chart render failed", "error", err)
	}
}
