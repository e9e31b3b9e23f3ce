// Package pdf implémente la génération du rapport quotidien en PDF.
//
// Layout de la page A4 :
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER : Rapport quotidien + date │ compte                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  STATISTIQUES : prospects / tâches / valeur acceptée        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE : tâches du jour                                     │
//	│  TABLE : prospects haute priorité en attente                │
//	│  TABLE : tâches en retard                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER : compteur d'alertes                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/josoavj/prospectius-core/internal/application/dto"
)

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 120}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator génère le rapport quotidien avec Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construit le générateur.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateDailyReport génère le PDF du rapport et retourne ses octets.
func (g *MarotoReportGenerator) GenerateDailyReport(report *dto.DailyReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Rapport quotidien Prospectius", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(statsRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("Tâches du jour"))
	m.AddRows(taskRows(report.TodayTasks)...)

	m.AddRows(sectionTitle("Prospects haute priorité en attente"))
	m.AddRows(prospectRows(report.HighPriority)...)

	m.AddRows(sectionTitle("Tâches en retard"))
	m.AddRows(taskRows(report.OverdueTasks)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: génération du document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

func headerRow(report *dto.DailyReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("Rapport quotidien", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Prospectius", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(report.ReportDate, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New(fmt.Sprintf("Compte n° %d", report.AccountID), props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func statsRow(report *dto.DailyReport) core.Row {
	s := report.Stats
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 1}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 8, Color: colorGray}),
		)
	}
	return row.New(14).Add(
		cell("Prospects", fmt.Sprintf("%d", s.TotalProspects)),
		cell("En attente", fmt.Sprintf("%d", s.PendingProspects)),
		cell("Acceptés", fmt.Sprintf("%d", s.AcceptedProspects)),
		cell("Valeur acceptée", s.AcceptedValue.StringFixed(2)),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
		),
	)
}

func taskRows(tasks []dto.TaskResponse) []core.Row {
	if len(tasks) == 0 {
		return []core.Row{emptyRow("Aucune tâche")}
	}
	rows := make([]core.Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(text.New(t.Title, props.Text{Size: 9})),
			col.New(2).Add(text.New(t.Priority, props.Text{Size: 9, Color: colorGray})),
			col.New(2).Add(text.New(t.Status, props.Text{Size: 9, Color: colorGray})),
			col.New(2).Add(text.New(t.DueDate.Format("02/01/2006"), props.Text{Size: 9, Align: align.Right})),
		))
	}
	return rows
}

func prospectRows(prospects []dto.ProspectResponse) []core.Row {
	if len(prospects) == 0 {
		return []core.Row{emptyRow("Aucun prospect")}
	}
	rows := make([]core.Row, 0, len(prospects))
	for _, p := range prospects {
		value := "-"
		if p.EstimatedValue != nil {
			value = p.EstimatedValue.StringFixed(2)
		}
		rows = append(rows, row.New(6).Add(
			col.New(5).Add(text.New(p.LastName+" "+p.FirstName, props.Text{Size: 9})),
			col.New(3).Add(text.New(p.Email, props.Text{Size: 9, Color: colorGray})),
			col.New(2).Add(text.New(p.Priority, props.Text{Size: 9, Color: colorGray})),
			col.New(2).Add(text.New(value, props.Text{Size: 9, Align: align.Right})),
		))
	}
	return rows
}

func emptyRow(label string) core.Row {
	return row.New(6).Add(
		col.New(12).Add(text.New(label, props.Text{Size: 9, Color: colorGray})),
	)
}

func footerRow(report *dto.DailyReport) core.Row {
	color := colorGray
	if report.Alerts > 0 {
		color = colorAlert
	}
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Alertes : %d", report.Alerts), props.Text{
				Style: fontstyle.Bold, Size: 10, Color: color, Top: 2,
			}),
		),
	)
}
