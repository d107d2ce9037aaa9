package infra

// pdf.go — Daily attendance report generation using go-pdf/fpdf.
// One A4 page (or more) with:
//   - Company header and report date
//   - One row per ledger event: employee, event type, time, punctuality,
//     distance to the geofence center
//   - Summary line with totals per punctuality class
//
// The output file is saved to storagePath/reporte_{fecha}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/model"
)

var etiquetaTipo = map[string]string{
	"entrada":          "Entrada",
	"salida_descanso":  "Salida a descanso",
	"regreso_descanso": "Regreso de descanso",
	"salida":           "Salida",
}

var etiquetaPuntualidad = map[string]string{
	"a_tiempo":          "A tiempo",
	"retardo_menor":     "Retardo menor",
	"retardo_mayor":     "Retardo mayor",
	"salida_anticipada": "Salida anticipada",
}

// GenerateReporteDiarioPDF renders the attendance ledger of one date.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateReporteDiarioPDF(fecha string, registros []model.RegistroChequeo, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("reporte_%s.pdf", fecha)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Reporte Diario de Asistencia", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Fecha: "+fecha, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.30 // employee
	col2 := contentW * 0.24 // event
	col3 := contentW * 0.12 // time
	col4 := contentW * 0.20 // punctuality
	col5 := contentW * 0.14 // distance

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Empleado", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Registro", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Hora", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 6, "Puntualidad", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 6, "Distancia", "B", 1, "R", false, 0, "")

	// ── Rows ──────────────────────────────────────────────────────────────────
	conteo := map[string]int{}
	pdf.SetFont("Helvetica", "", 8)
	for _, reg := range registros {
		nombre := reg.EmpleadoID.String()[:8]
		if reg.Empleado != nil {
			nombre = reg.Empleado.Nombre
		}
		nombre = recortarNombre(nombre, 30)

		puntualidad := "—"
		if reg.Puntualidad != nil {
			if et, ok := etiquetaPuntualidad[*reg.Puntualidad]; ok {
				puntualidad = et
			} else {
				puntualidad = *reg.Puntualidad
			}
			conteo[*reg.Puntualidad]++
		}

		tipo := reg.Tipo
		if et, ok := etiquetaTipo[reg.Tipo]; ok {
			tipo = et
		}

		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, tipo, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, reg.Hora, "", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 5, puntualidad, "", 0, "L", false, 0, "")
		pdf.CellFormat(col5, 5, fmt.Sprintf("%.0f m", reg.DistanciaMetros), "", 1, "R", false, 0, "")
	}

	if len(registros) == 0 {
		pdf.CellFormat(contentW, 6, "Sin registros para esta fecha.", "", 1, "C", false, 0, "")
	}

	// ── Summary ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf(
		"Registros: %d   A tiempo: %d   Retardos menores: %d   Retardos mayores: %d",
		len(registros), conteo["a_tiempo"], conteo["retardo_menor"], conteo["retardo_mayor"],
	), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// recortarNombre truncates to max characters counting runes, so accented
// names ("Muñoz", "Peña") never get split mid-sequence.
func recortarNombre(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
