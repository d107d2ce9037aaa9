package infra

import (
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/model"
)

func TestRecortarNombre(t *testing.T) {
	corto := "María García"
	assert.Equal(t, corto, recortarNombre(corto, 30))

	// Accented rune exactly at the cut point: the result must stay valid UTF-8.
	largo := strings.Repeat("x", 28) + "ñoz de la Peña"
	recortado := recortarNombre(largo, 30)
	assert.True(t, utf8.ValidString(recortado))
	assert.Equal(t, 30, utf8.RuneCountInString(recortado))
	assert.True(t, strings.HasSuffix(recortado, "…"))
}

func TestGenerateReporteDiarioPDF(t *testing.T) {
	dir := t.TempDir()
	puntualidad := "retardo_mayor"
	registros := []model.RegistroChequeo{
		{
			EmpleadoID:      uuid.New(),
			Fecha:           "2026-03-02",
			Tipo:            "entrada",
			Hora:            "09:25:00",
			Puntualidad:     &puntualidad,
			DistanciaMetros: 42,
			Empleado: &model.Empleado{
				Nombre: "María Guadalupe Hernández Peñaloza de la Concepción",
			},
		},
	}

	path, err := GenerateReporteDiarioPDF("2026-03-02", registros, dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.True(t, strings.HasSuffix(path, "reporte_2026-03-02.pdf"))
}
