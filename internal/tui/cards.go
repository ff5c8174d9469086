package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theCampel/lightspeed/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderCard renders one card frame. Selection and pinning change the
// border, not the content, so cards keep their height across renders.
func renderCard(c model.Card, width int, selected bool) string {
	style := sectionStyle
	if c.Pinned {
		style = pinnedSectionStyle
	}
	if selected {
		style = activeSectionStyle
	}
	style = style.Width(width)

	title := c.Title
	if c.Pinned {
		title = "📌 " + title
	}
	header := cardTitleStyle.Render(title)

	var body string
	switch {
	case c.Loading:
		frame := spinnerFrames[time.Now().UnixMilli()/120%int64(len(spinnerFrames))]
		body = helpStyle.Italic(true).Render(frame + " Thinking...")
	case c.ErrorText != "":
		body = errorStyle.Render(c.ErrorText)
	default:
		body = renderCardBody(c, width-4)
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

func renderCardBody(c model.Card, width int) string {
	switch c.Kind {
	case model.KindStock:
		return renderStockBody(c, width)
	case model.KindFund:
		return renderFundBody(c)
	case model.KindNews:
		return renderNewsBody(c)
	case model.KindPortfolio:
		return renderPortfolioBody(c, width)
	case model.KindSummary:
		return renderSummaryBody(c)
	default:
		return c.Body
	}
}

func renderStockBody(c model.Card, width int) string {
	s := c.Stock
	if s == nil {
		return c.Body
	}

	change := gainStyle
	arrow := "▲"
	if s.Change < 0 {
		change = lossStyle
		arrow = "▼"
	}
	quote := fmt.Sprintf("%s  $%.2f  ", s.Company, s.Price) +
		change.Render(fmt.Sprintf("%s %.2f (%.2f%%)", arrow, s.Change, s.ChangePercent))

	lines := []string{quote}
	if len(s.History) > 1 {
		lines = append(lines, renderPriceChart(s.History, width))
	}
	for _, h := range s.RelatedNews {
		lines = append(lines, helpStyle.Render("· "+h.Headline+" ("+h.Source+")"))
	}
	return strings.Join(lines, "\n")
}

func renderFundBody(c model.Card) string {
	var lines []string
	for _, f := range c.Funds {
		line := fmt.Sprintf("%-34s %-5s %.2f%%", f.Name, f.Ticker, f.ExpenseRatio)
		switch {
		case f.ESGHighlight:
			line = esgStyle.Render("★ ESG  " + line)
		case f.ESG:
			line = gainStyle.Render("  ESG  ") + line
		default:
			line = "       " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderNewsBody(c model.Card) string {
	var lines []string
	for _, n := range c.News {
		sentiment := helpStyle
		if n.Sentiment == "positive" {
			sentiment = gainStyle
		} else if n.Sentiment == "negative" {
			sentiment = lossStyle
		}
		lines = append(lines, sentiment.Render("● ")+n.Title+helpStyle.Render(" — "+n.Source))
		if n.Summary != "" {
			lines = append(lines, helpStyle.Render("  "+n.Summary))
		}
	}
	return strings.Join(lines, "\n")
}

func renderPortfolioBody(c model.Card, width int) string {
	p := c.Portfolio
	if p == nil {
		return c.Body
	}

	change := gainStyle
	if p.Change < 0 {
		change = lossStyle
	}
	headline := fmt.Sprintf("Total $%.0f  ", p.TotalValue) +
		change.Render(fmt.Sprintf("%+.0f (%.2f%%) %s", p.Change, p.ChangePercent, p.Period))

	lines := []string{headline}
	if len(p.Allocation) > 0 {
		lines = append(lines, renderAllocationBars(p.Allocation, width))
	}
	return strings.Join(lines, "\n")
}

func renderSummaryBody(c model.Card) string {
	s := c.Summary
	if s == nil {
		return c.Body
	}

	var lines []string
	section := func(name string, items []string) {
		if len(items) == 0 {
			return
		}
		lines = append(lines, cardTitleStyle.Render(name))
		for _, item := range items {
			lines = append(lines, "  • "+item)
		}
	}
	section("Discussion points", s.DiscussionPoints)
	section("Action items", s.ActionItems)
	section("Goal changes", s.InvestmentGoalChanges)
	if len(lines) == 0 {
		return helpStyle.Render("Nothing recorded for this call.")
	}
	return strings.Join(lines, "\n")
}
