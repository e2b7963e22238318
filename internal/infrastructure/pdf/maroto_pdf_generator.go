// Package pdf genera la representación imprimible del reporte de varianza de
// una sesión de conteo (para firmar y archivar al cierre).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + Sesión  │  Estado + Política de ventana   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Contado | Esperado | Varianza      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: SKUs / Varianza absoluta total                    │
//	│  FOOTER: frescura del libro + marca PRELIMINAR si aplica    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

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

	appcounting "github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/application/dto"
)

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorNegative = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ appcounting.VariancePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa counting.VariancePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateVariancePDF genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateVariancePDF(_ context.Context, report *dto.VarianceReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Varianza de Conteo", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(report.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(report) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: tienda + sesión (izq) y estado + política de ventana (der).
func headerRow(report *dto.VarianceReport) core.Row {
	title := "REPORTE DE VARIANZA"
	if report.Preliminary {
		title = "REPORTE DE VARIANZA (PRELIMINAR)"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tienda: "+report.StoreID+"   |   Sesión: "+report.SessionID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Estado: "+report.Status, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Política de ventana: "+report.WindowPolicy, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de varianzas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Contado", 1, align.Right),
		h("Baseline", 1, align.Right),
		h("Δ Mov.", 1, align.Right),
		h("Esperado", 1, align.Right),
		h("Varianza", 2, align.Right),
	)
}

// tableItemRows: una fila por SKU; la varianza distinta de cero va en rojo.
func tableItemRows(items []dto.VarianceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		varianceProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Style: fontstyle.Bold}
		if it.Variance != 0 {
			varianceProps.Color = colorNegative
		}
		name := it.ProductName
		if name == "" {
			name = "—"
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(it.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.CountedQty), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.BaselineQty), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%+d", it.MovementDelta), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.ExpectedQty), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%+d", it.Variance), varianceProps)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(report *dto.VarianceReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("SKUs reconciliados:"),
			label("Varianza absoluta total:"),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", report.TotalSKUs)),
			value(fmt.Sprintf("%d", report.TotalVariance)),
		),
	)
}

// footerRows: frescura del libro de movimientos y advertencia si es preliminar.
func footerRows(report *dto.VarianceReport) []core.Row {
	fresh := "sin movimientos importados"
	if report.LedgerFreshAt != nil {
		fresh = report.LedgerFreshAt.Format("02/01/2006 15:04")
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Último movimiento del libro: "+fresh, props.Text{
				Size: 7, Color: colorGray, Top: 1,
			}),
		)),
	}
	if report.Preliminary {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(
				"Reporte PRELIMINAR: faltan passes enviados o baseline, o el libro de movimientos "+
					"puede estar desactualizado. Re-ejecutar la reconciliación tras el próximo import.",
				props.Text{Size: 7, Color: colorNegative, Top: 2, Style: fontstyle.Bold},
			),
		)))
	}
	return rows
}
