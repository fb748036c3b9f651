package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aquilabot/SmartPC-API/internal/catalog"
	"github.com/Aquilabot/SmartPC-API/internal/models"
)

// printStyles holds the styles used by the command reports.
type printStyles struct {
	header  lipgloss.Style
	ok      lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	dim     lipgloss.Style
}

func newPrintStyles() printStyles {
	return printStyles{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func renderValidation(res models.ValidationResult) string {
	styles := newPrintStyles()
	var b strings.Builder

	b.WriteString(styles.header.Render("Compatibility report"))
	b.WriteString("\n")
	if res.IsValid {
		b.WriteString(styles.ok.Render("✓ Compatible"))
	} else {
		b.WriteString(styles.failure.Render("✗ Not compatible"))
	}
	b.WriteString("\n")

	for _, issue := range res.Issues {
		style, mark := styles.warning, "!"
		if issue.Severity == models.SeverityError {
			style, mark = styles.failure, "✗"
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			style.Render(mark),
			styles.dim.Render("["+issue.ComponentType+"]"),
			issue.Message)
	}

	if res.TotalPowerConsumption != nil {
		fmt.Fprintf(&b, "Power draw: %.0f W, recommended PSU: %.0f W\n", *res.TotalPowerConsumption, *res.RecommendedPSUWattage)
	}
	if res.PerformanceScore != nil {
		fmt.Fprintf(&b, "Performance score: %.1f\n", *res.PerformanceScore)
	}
	return b.String()
}

func renderPriceChanges(changes []catalog.PriceChange) string {
	styles := newPrintStyles()
	var (
		b                     strings.Builder
		updated, same, failed int
	)

	b.WriteString(styles.header.Render("Price sync"))
	b.WriteString("\n")
	for _, c := range changes {
		switch c.Result {
		case catalog.PriceUpdated:
			updated++
			stock := "in stock"
			if !c.InStock {
				stock = "out of stock"
			}
			fmt.Fprintf(&b, "  %s %s: %.2f → %.2f (%s", styles.ok.Render("↻"), c.Name, c.OldPrice, c.NewPrice, stock)
			if c.Vendor != "" {
				fmt.Fprintf(&b, ", %s", c.Vendor)
			}
			b.WriteString(")\n")
		case catalog.PriceFailed:
			failed++
			fmt.Fprintf(&b, "  %s %s: %v\n", styles.failure.Render("✗"), c.Name, c.Err)
		default:
			same++
		}
	}
	b.WriteString(styles.dim.Render(fmt.Sprintf("%d updated, %d unchanged, %d failed", updated, same, failed)))
	b.WriteString("\n")
	return b.String()
}
