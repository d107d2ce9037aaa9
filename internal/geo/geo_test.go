package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanciaMetros_MismoPunto(t *testing.T) {
	d := DistanciaMetros(19.432608, -99.133209, 19.432608, -99.133209)
	assert.InDelta(t, 0, d, 0.001)
}

func TestDistanciaMetros_Simetrica(t *testing.T) {
	d1 := DistanciaMetros(19.432608, -99.133209, 19.434, -99.14)
	d2 := DistanciaMetros(19.434, -99.14, 19.432608, -99.133209)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanciaMetros_ValorConocido(t *testing.T) {
	// Zócalo CDMX → Ángel de la Independencia, ~3.4 km en línea recta.
	d := DistanciaMetros(19.432608, -99.133209, 19.426970, -99.167650)
	assert.InDelta(t, 3670, d, 150)
}

func TestDistanciaMetros_DesplazamientoPequeno(t *testing.T) {
	// ~0.001° de latitud ≈ 111 m
	d := DistanciaMetros(19.0, -99.0, 19.001, -99.0)
	assert.InDelta(t, 111.2, d, 1.0)
}

func TestDentroDeRadio(t *testing.T) {
	assert.True(t, DentroDeRadio(19.0, -99.0, 19.0001, -99.0, 100))
	assert.False(t, DentroDeRadio(19.0, -99.0, 19.05, -99.0, 100))
}
