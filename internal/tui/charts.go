package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/theCampel/lightspeed/internal/model"
)

// renderPriceChart draws recent closes as a compact bar chart. Bars are
// scaled against the series minimum so small daily moves stay visible.
func renderPriceChart(history []model.PricePoint, width int) string {
	chartWidth := width
	if chartWidth > 40 {
		chartWidth = 40
	}
	if chartWidth < 10 {
		chartWidth = 10
	}

	minClose := history[0].Close
	for _, p := range history {
		if p.Close < minClose {
			minClose = p.Close
		}
	}
	base := minClose * 0.98

	bc := barchart.New(chartWidth, 4,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(2),
		barchart.WithNoAxis(),
	)

	barStyle := lipgloss.NewStyle().Foreground(ColorBlue).Background(ColorBlue)
	maxBars := chartWidth / 3
	start := 0
	if len(history) > maxBars {
		start = len(history) - maxBars
	}
	for _, p := range history[start:] {
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: "close", Value: p.Close - base, Style: barStyle},
			},
		})
	}

	bc.Draw()
	return bc.View()
}

// renderAllocationBars draws the allocation breakdown as labelled
// horizontal bars, one row per slice.
func renderAllocationBars(allocation []model.AllocationSlice, width int) string {
	barWidth := width - 26
	if barWidth < 10 {
		barWidth = 10
	}

	var maxValue float64
	for _, a := range allocation {
		if a.Value > maxValue {
			maxValue = a.Value
		}
	}
	if maxValue <= 0 {
		return ""
	}

	fill := lipgloss.NewStyle().Foreground(ColorBlue)
	var lines []string
	for _, a := range allocation {
		n := int(a.Value / maxValue * float64(barWidth))
		if n < 1 {
			n = 1
		}
		bar := fill.Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%-14s %5.1f%% %s", a.Label, a.Value, bar))
	}
	return strings.Join(lines, "\n")
}
