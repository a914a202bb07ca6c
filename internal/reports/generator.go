package reports

import (
	"fmt"
	"time"

	"github.com/atlasrisk/engine/internal/cba"
	"github.com/atlasrisk/engine/internal/health"
	"github.com/atlasrisk/engine/internal/models"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReportData contains everything needed to render one asset's risk report.
// Most sections are conditional: Rating, CBA, Health, and Portfolio render
// only when the caller populated them, since not every Scenario Runner
// invocation produces all of them.
type ReportData struct {
	AssetName   string
	GeneratedAt time.Time
	Asset       models.Asset
	Report      models.Report
	Rating      *models.RatedAsset
	CBA         *cba.Result
	Health      *health.Result
	Portfolio   *models.PortfolioReport
}

// GenerateAssetReport renders a single asset's climate-risk report to PDF.
func GenerateAssetReport(data ReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	mrt := maroto.New(cfg)
	m := maroto.NewMetricsDecorator(mrt)

	addHeader(m, data)
	addExecutiveSummary(m, data)
	addPhysicsSection(m, data)
	addFinancialSection(m, data)
	addMonteCarloSection(m, data)

	if data.Report.Spatial != nil {
		addSpatialSection(m, *data.Report.Spatial)
	}
	if data.Rating != nil {
		addRatingSection(m, *data.Rating)
	}
	if data.CBA != nil {
		addCBASection(m, *data.CBA)
	}
	if data.Health != nil {
		addHealthSection(m, *data.Health)
	}
	if data.Portfolio != nil {
		addPortfolioSection(m, *data.Portfolio)
	}

	addDisclaimer(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data ReportData) {
	m.AddRow(20,
		col.New(12).Add(
			text.New("Climate Resilience Risk Report", props.Text{
				Size:  24,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: &props.Color{Red: 0, Green: 82, Blue: 147},
			}),
		),
	)

	m.AddRow(8,
		col.New(6).Add(
			text.New(fmt.Sprintf("Asset: %s", data.AssetName), props.Text{
				Size:  12,
				Style: fontstyle.Bold,
			}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Generated: %s", data.GeneratedAt.Format("January 2, 2006")), props.Text{
				Size:  12,
				Align: align.Right,
			}),
		),
	)

	m.AddRow(6,
		col.New(12).Add(
			text.New(fmt.Sprintf("Project type: %s    Asset ID: %s", data.Asset.ProjectKind, data.Asset.ID), props.Text{
				Size:  10,
				Color: &props.Color{Red: 100, Green: 100, Blue: 100},
			}),
		),
	)

	m.AddRow(5, line.NewCol(12))
}

func addExecutiveSummary(m core.Maroto, data ReportData) {
	m.AddRow(12,
		col.New(12).Add(
			text.New("Executive Summary", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: &props.Color{Red: 0, Green: 82, Blue: 147},
			}),
		),
	)

	fin := data.Report.Financial
	mc := data.Report.MonteCarlo

	summary := fmt.Sprintf(
		"Under the assessed climate scenario, %s carries a projected net present value of %s "+
			"(benefit-cost ratio %.2f) against an exposed asset value of %s. "+
			"A %d-trial Monte Carlo simulation places a %s confidence on this projection, "+
			"with a %.1f%% chance of a negative outcome.",
		data.AssetName,
		formatCurrency(fin.NPVUSD),
		fin.BCR,
		formatCurrency(data.Asset.Exposure.AssetValueUSD),
		mc.Trials,
		mc.Confidence,
		mc.DefaultProbability*100,
	)

	m.AddRow(22,
		col.New(12).Add(
			text.New(summary, props.Text{
				Size: 10,
			}),
		),
	)

	m.AddRow(3)
}

func addPhysicsSection(m core.Maroto, data ReportData) {
	m.AddRow(12,
		col.New(12).Add(
			text.New("Physical Risk", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: &props.Color{Red: 0, Green: 82, Blue: 147},
			}),
		),
	)

	p := data.Report.Physics
	categoryColor := &props.Color{Red: 0, Green: 150, Blue: 100}
	switch p.Category {
	case models.StressHigh, models.StressVeryHigh:
		categoryColor = &props.Color{Red: 200, Green: 150, Blue: 0}
	case models.StressExtreme:
		categoryColor = &props.Color{Red: 200, Green: 50, Blue: 50}
	}

	m.AddRow(10,
		col.New(4).Add(text.New("Stress category", props.Text{Size: 10, Style: fontstyle.Bold})),
		col.New(8).Add(text.New(string(p.Category), props.Text{Size: 10, Style: fontstyle.Bold, Color: categoryColor})),
	)

	rows := physicsMetricRows(data.Asset.ProjectKind, p)
	for _, r := range rows {
		m.AddRow(7,
			col.New(5).Add(text.New(r.label, props.Text{Size: 9})),
			col.New(7).Add(text.New(r.value, props.Text{Size: 9, Align: align.Right})),
		)
	}

	l := data.Report.Lifespan
	rescueNote := ""
	if l.RescueApplied {
		rescueNote = " (intervention rescue applied)"
	}
	m.AddRow(7,
		col.New(5).Add(text.New("Lifespan adjustment", props.Text{Size: 9})),
		col.New(7).Add(text.New(
			fmt.Sprintf("%d -> %d years%s", l.InitialYears, l.AdjustedYears, rescueNote),
			props.Text{Size: 9, Align: align.Right},
		)),
	)

	m.AddRow(5)
}

type metricRow struct {
	label string
	value string
}

func physicsMetricRows(kind models.ProjectKind, p models.PhysicsResult) []metricRow {
	switch kind {
	case models.ProjectAgriculture:
		return []metricRow{{"Crop yield", fmt.Sprintf("%.1f%% of baseline", p.YieldPct)}}
	case models.ProjectCoastal:
		return []metricRow{{"Wave run-up", fmt.Sprintf("%.2f m", p.RunupM)}}
	case models.ProjectFlood:
		return []metricRow{
			{"Flood depth", fmt.Sprintf("%.1f cm", p.DepthCM)},
			{"Flooded area", fmt.Sprintf("%.2f km²", p.FloodAreaKM2)},
			{"Structural damage", fmt.Sprintf("%.1f%%", p.DamagePct)},
		}
	case models.ProjectHealth:
		return []metricRow{
			{"Workforce productivity loss", fmt.Sprintf("%.1f%%", p.ProductivityLossPct)},
			{"Malaria suitability score", fmt.Sprintf("%.1f", p.MalariaRiskScore)},
		}
	default:
		return nil
	}
}

func addFinancialSection(m core.Maroto, data ReportData) {
	m.AddRow(12,
		col.New(12).Add(
			text.New("Financial Assessment", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: &props.Color{Red: 0, Green: 82, Blue: 147},
			}),
		),
	)

	fin := data.Report.Financial
	npvColor := &props.Color{Red: 0, Green: 150, Blue: 100}
	if fin.NPVUSD < 0 {
		npvColor = &props.Color{Red: 200, Green: 50, Blue: 50}
	}

	m.AddRow(15,
		col.New(4).Add(text.New("NPV", props.Text{Size: 10, Align: align.Center, Color: &props.Color{Red: 100, Green: 100, Blue: 100}})),
		col.New(4).Add(text.New("BCR", props.Text{Size: 10, Align: align.Center, Color: &props.Color{Red: 100, Green: 100, Blue: 100}})),
		col.New(4).Add(text.New("Payback", props.Text{Size: 10, Align: align.Center, Color: &props.Color{Red: 100, Green: 100, Blue: 100}})),
	)

	payback := "N/A"
	if fin.PaybackYears != nil {
		payback = fmt.Sprintf("%.1f yrs", *fin.PaybackYears)
	}

	m.AddRow(12,
		col.New(4).Add(text.New(formatCurrency(fin.NPVUSD), props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center, Color: npvColor})),
		col.New(4).Add(text.New(fmt.Sprintf("%.2f", fin.BCR), props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center})),
		col.New(4).Add(text.New(payback, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center})),
	)

	a := fin.Assumptions
	m.AddRow(7,
		col.New(3).Add(text.New("CAPEX:", props.Text{Size: 9})),
		col.New(3).Add(text.New(formatCurrency(a.CapexUSD), props.Text{Size: 9, Style: fontstyle.Bold})),
		col.New(3).Add(text.New("OPEX/yr:", props.Text{Size: 9})),
		col.New(3).Add(text.New(formatCurrency(a.OpexUSD), props.Text{Size: 9, Style: fontstyle.Bold})),
	)
	m.AddRow(7,
		col.New(3).Add(text.New("Discount rate:", props.Text{Size: 9})),
		col.New(3).Add(text.New(fmt.Sprintf("%.1f%%", a.DiscountRate*100), props.Text{Size: 9, Style: fontstyle.Bold})),
		col.New(3).Add(text.New("Horizon:", props.Text{Size: 9})),
		col.New(3).Add(text.New(fmt.Sprintf("%d years", a.Years), props.Text{Size: 9, Style: fontstyle.Bold})),
	)

	m.AddRow(5)
}

func addMonteCarloSection(m core.Maroto, data ReportData) {
	m.AddRow(12,
		col.New(12).Add(
			text.New("Monte Carlo Uncertainty", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: &props.Color{Red: 0, Green: 82, Blue: 147},
			}),
		),
	)

	mc := data.Report.MonteCarlo
	confColor := &props.Color{Red: 0, Green: 150, Blue: 100}
	switch mc.Confidence {
	case models.ConfidenceMedium:
		confColor = &props.Color{Red: 200, Green: 150, Blue: 0}
	case models.ConfidenceLow:
		confColor = &props.Color{Red: 200, Green: 50, Blue: 50}
	}

	m.AddRow(8,
		col.New(12).Add(
			text.New(fmt.Sprintf("Confidence: %s", mc.Confidence), props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Color: confColor,
			}),
		),
	)

	m.AddRow(6,
		col.New(12).Add(
			text.New(fmt.Sprintf("Based on %d trials, mean NPV %s (stdev %s)",
				mc.Trials, formatCurrency(mc.MeanNPV), formatCurrency(mc.StdevNPV)), props.Text{
				Size:  9,
				Color: &props.Color{Red: 100, Green: 100, Blue: 100},
			}),
		),
	)

	rows := []struct {
		label string
		value string
	}{
		{"VaR (95%)", formatCurrency(mc.VaR95)},
		{"VaR (99%)", formatCurrency(mc.VaR99)},
		{"Default probability", fmt.Sprintf("%.1f%%", mc.DefaultProbability*100)},
	}
	for _, r := range rows {
		m.AddRow(7,
			col.New(5).Add(text.New(r.label, props.Text{Size: 9})),
			col.New(7).Add(text.New(r.value, props.Text{Size: 9, Align: align.Right})),
		)
	}

	if mc.Incomplete {
		m.AddRow(6,
			col.New(12).Add(
				text.New("Simulation was cancelled before completion; figures reflect a partial sample.", props.Text{
					Size:  9,
					Color: &props.Color{Red: 200, Green: 150, Blue: 0},
				}),
			),
		)
	}

	m.AddRow(5)
}

func addSpatialSection(m core.Maroto, s models.SpatialResult) {
	m.AddRow(12,
		col.New(12).Add(
			text.New("Spatial Exposure", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: &props.Color{Red: 0, Green: 82, Blue: 147},
			}),
		),
	)

	rows := []struct {
		label string
		value string
	}{
		{"Footprint area", fmt.Sprintf("%.3f km²", s.AreaKM2)},
		{"Centroid", fmt.Sprintf("%.4f, %.4f", s.CentroidLat, s.CentroidLon)},
		{"Fractional exposure", fmt.Sprintf("%.1f%%", s.FractionalExposure*100)},
		{"Value at risk", formatCurrency(s.ValueAtRiskUSD)},
		{"Protected value", formatCurrency(s.ProtectedValueUSD)},
	}
	for _, r := range rows {
		m.AddRow(7,
			col.New(5).Add(text.New(r.label, props.Text{Size: 9})),
			col.New(7).Add(text.New(r.value, props.Text{Size: 9, Align: align.Right})),
		)
	}

	m.AddRow(5)
}

func addRatingSection(m core.Maroto, r models.RatedAsset) {
	m.AddRow(12,
		col.New(12).Add(
			text.New("Credit Rating & Outlook", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: &props.Color{Red: 0, Green: 82, Blue: 147},
			}),
		),
	)

	ratingColor := &props.Color{Red: 0, Green: 150, Blue: 100}
	if !r.InvestmentGrade {
		ratingColor = &props.Color{Red: 200, Green: 50, Blue: 50}
	}

	m.AddRow(10,
		col.New(4).Add(text.New(string(r.CreditRating), props.Text{Size: 20, Style: fontstyle.Bold, Color: ratingColor})),
		col.New(8).Add(text.New(string(r.Outlook), props.Text{Size: 12, Align: align.Right, Style: fontstyle.Bold})),
	)

	gradeLabel := "Sub-investment grade"
	if r.InvestmentGrade {
		gradeLabel = "Investment grade"
	}

	m.AddRow(7,
		col.New(5).Add(text.New(gradeLabel, props.Text{Size: 9})),
		col.New(7).Add(text.New(fmt.Sprintf("Composite percentile: %.0f", r.CompositePercentile), props.Text{Size: 9, Align: align.Right})),
	)
	m.AddRow(7,
		col.New(5).Add(text.New("Sector rank (NPV)", props.Text{Size: 9})),
		col.New(7).Add(text.New(fmt.Sprintf("#%d of %d", r.SectorRankByNPV, r.SectorStats.SectorSize), props.Text{Size: 9, Align: align.Right})),
	)
	if r.ProjectedDowngradeYear != nil {
		m.AddRow(7,
			col.New(5).Add(text.New("Projected downgrade year", props.Text{Size: 9, Style: fontstyle.Bold, Color: &props.Color{Red: 200, Green: 50, Blue: 50}})),
			col.New(7).Add(text.New(fmt.Sprintf("%d", *r.ProjectedDowngradeYear), props.Text{Size: 9, Align: align.Right})),
		)
	}

	m.AddRow(5)
}

func addCBASection(m core.Maroto, c cba.Result) {
	m.AddRow(12,
		col.New(12).Add(
			text.New("Adaptation Cost-Benefit Analysis", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: &props.Color{Red: 0, Green: 82, Blue: 147},
			}),
		),
	)

	breakeven := "Never within horizon"
	if c.BreakevenYear != nil {
		breakeven = fmt.Sprintf("Year %.1f", *c.BreakevenYear)
	}

	m.AddRow(8,
		col.New(6).Add(text.New(fmt.Sprintf("Breakeven: %s", breakeven), props.Text{Size: 11, Style: fontstyle.Bold})),
		col.New(6).Add(text.New(fmt.Sprintf("Total ROI: %.1f%%", c.TotalROIPct), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right})),
	)

	m.AddRow(5)
}

func addHealthSection(m core.Maroto, h health.Result) {
	m.AddRow(12,
		col.New(12).Add(
			text.New("Public-Health Impact", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: &props.Color{Red: 0, Green: 82, Blue: 147},
			}),
		),
	)

	rows := []struct {
		label string
		value string
	}{
		{"Baseline DALYs lost", fmt.Sprintf("%.1f", h.BaselineDALYsLost)},
		{"Post-intervention DALYs lost", fmt.Sprintf("%.1f", h.PostInterventionDALYsLost)},
		{"DALYs averted", fmt.Sprintf("%.1f", h.DALYsAverted)},
		{"Economic value preserved", formatCurrency(h.EconomicValuePreservedUSD)},
	}
	for _, r := range rows {
		m.AddRow(7,
			col.New(6).Add(text.New(r.label, props.Text{Size: 9})),
			col.New(6).Add(text.New(r.value, props.Text{Size: 9, Align: align.Right})),
		)
	}

	m.AddRow(6,
		col.New(12).Add(
			text.New(h.InterventionDescription, props.Text{
				Size:  9,
				Color: &props.Color{Red: 100, Green: 100, Blue: 100},
			}),
		),
	)

	m.AddRow(5)
}

func addPortfolioSection(m core.Maroto, p models.PortfolioReport) {
	m.AddRow(12,
		col.New(12).Add(
			text.New("Portfolio Context", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: &props.Color{Red: 0, Green: 82, Blue: 147},
			}),
		),
	)

	m.AddRow(6,
		col.New(12).Add(
			text.New(fmt.Sprintf("%d of %d assets in this portfolio assessed successfully", p.Successful, p.TotalAssets), props.Text{
				Size:  9,
				Color: &props.Color{Red: 100, Green: 100, Blue: 100},
			}),
		),
	)

	rows := []struct {
		label string
		value string
	}{
		{"Total value at risk", formatCurrency(p.TotalVaRUSD)},
		{"Portfolio NPV", formatCurrency(p.TotalNPV)},
		{"Risk exposure", fmt.Sprintf("%.1f%%", p.RiskExposurePct)},
		{"Portfolio risk rating", p.RiskRating},
	}
	for _, r := range rows {
		m.AddRow(7,
			col.New(5).Add(text.New(r.label, props.Text{Size: 9})),
			col.New(7).Add(text.New(r.value, props.Text{Size: 9, Align: align.Right})),
		)
	}

	m.AddRow(5)
}

func addDisclaimer(m core.Maroto) {
	m.AddRow(3, line.NewCol(12))

	m.AddRow(20,
		col.New(12).Add(
			text.New("IMPORTANT DISCLOSURE: This report is generated from a physics-based climate risk "+
				"simulation using the scenario assumptions, hazard data, and financial parameters stated "+
				"above. It does not constitute investment, insurance, or engineering advice. Monte Carlo "+
				"uncertainty bands are derived from perturbing stated climate drivers and do not capture "+
				"every source of real-world variability. Please consult a qualified engineer, actuary, or "+
				"financial advisor before making significant capital decisions based on this report.", props.Text{
				Size:  8,
				Color: &props.Color{Red: 100, Green: 100, Blue: 100},
			}),
		),
	)
}

func formatCurrency(amount float64) string {
	if amount < 0 {
		return "-" + formatCurrency(-amount)
	}
	if amount >= 1000000 || amount <= -1000000 {
		return fmt.Sprintf("$%.2fM", amount/1000000)
	}
	if amount >= 1000 || amount <= -1000 {
		return fmt.Sprintf("$%.0fK", amount/1000)
	}
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}
