// Package pdf renders printable store reports with Maroto v2.
package pdf

import (
	"fmt"
	"strings"

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

	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

var (
	colorPrimary = &props.Color{Red: 33, Green: 76, Blue: 120}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 197, Green: 48, Blue: 48}
)

// Generator renders cash cuts.
type Generator struct{}

// NewGenerator builds the generator.
func NewGenerator() *Generator { return &Generator{} }

// DailyCut renders the cash cut of one day and returns the PDF bytes.
func (g *Generator) DailyCut(record models.DailyCutRecord) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Corte del día "+record.Date, true).
		WithAuthor(nonEmpty(record.StoreName, "StockPilot"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(record))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(4))
	for _, r := range figureRows(record) {
		m.AddRows(r)
	}
	m.AddRows(row.New(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range lowStockRows(record.LowStockSKUs) {
		m.AddRows(r)
	}
	m.AddRows(row.New(6))
	m.AddRows(footerRow(record))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate daily cut: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(record models.DailyCutRecord) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(record.StoreName, "StockPilot"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Corte de caja", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(record.Date, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Generado "+record.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func figureRows(record models.DailyCutRecord) []core.Row {
	figure := func(label, value string, bold bool) core.Row {
		valueProps := props.Text{Size: 11, Align: align.Right}
		if bold {
			valueProps.Style = fontstyle.Bold
			valueProps.Color = colorPrimary
			valueProps.Size = 13
		}
		return row.New(9).Add(
			col.New(6).Add(text.New(label, props.Text{Size: 10, Top: 1})),
			col.New(6).Add(text.New(value, valueProps)),
		)
	}

	return []core.Row{
		figure("Total vendido", "$"+FormatMoney(record.TotalSold), true),
		figure("Artículos vendidos", fmt.Sprint(record.ItemsSold), false),
		figure("Transacciones", fmt.Sprint(record.Transactions), false),
	}
}

func lowStockRows(skus []string) []core.Row {
	title := row.New(8).Add(col.New(12).Add(
		text.New("PRODUCTOS EN PUNTO DE REORDEN", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		}),
	))
	if len(skus) == 0 {
		return []core.Row{title, row.New(6).Add(col.New(12).Add(
			text.New("Ninguno", props.Text{Size: 9, Color: colorGray, Top: 1}),
		))}
	}

	rows := []core.Row{title}
	for _, chunk := range chunk(skus, 6) {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(strings.Join(chunk, ", "), props.Text{Size: 9, Color: colorAlert, Top: 1}),
		)))
	}
	return rows
}

func footerRow(record models.DailyCutRecord) core.Row {
	closedBy := "Cierre automático"
	if record.ClosedBy != "" {
		closedBy = "Cerrado por " + record.ClosedBy
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(closedBy, props.Text{Size: 8, Color: colorGray, Align: align.Center}),
	))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatMoney adds thousands separators to a fixed-point amount, e.g.
// "1234567.50" becomes "1,234,567.50".
func FormatMoney(amount string) string {
	sign := ""
	if strings.HasPrefix(amount, "-") {
		sign, amount = "-", amount[1:]
	}
	whole, frac, hasFrac := strings.Cut(amount, ".")

	n := len(whole)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, whole[i])
	}

	out := sign + string(buf)
	if hasFrac {
		out += "." + frac
	}
	return out
}

func chunk(items []string, size int) [][]string {
	var out [][]string
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
