package biometria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/chequeo"
)

func umbralesPrueba() Umbrales {
	return Umbrales{Coincidencia: 0.35, Vida: 0.90, VidaGesto: 0.60}
}

func TestDistanciaCoseno_MismoDescriptor(t *testing.T) {
	d := []float32{0.1, -0.3, 0.5, 0.2}
	puntaje, ok := DistanciaCoseno(d, d)
	require.True(t, ok)
	assert.InDelta(t, 0, puntaje, 1e-6)
}

func TestDistanciaCoseno_Simetrica(t *testing.T) {
	a := []float32{0.2, 0.4, -0.1, 0.7}
	b := []float32{0.1, -0.2, 0.3, 0.5}
	d1, ok1 := DistanciaCoseno(a, b)
	d2, ok2 := DistanciaCoseno(b, a)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanciaCoseno_Degenerados(t *testing.T) {
	_, ok := DistanciaCoseno([]float32{1, 2}, []float32{1, 2, 3})
	assert.False(t, ok)
	_, ok = DistanciaCoseno(nil, nil)
	assert.False(t, ok)
	_, ok = DistanciaCoseno([]float32{0, 0}, []float32{1, 1})
	assert.False(t, ok)
}

func TestVerificarIdentidad_Acepta(t *testing.T) {
	m := NewMatcher(umbralesPrueba())
	enrolado := []float32{0.5, 0.5, 0.5, 0.5}
	capturado := []float32{0.52, 0.48, 0.5, 0.51} // casi idéntico

	puntaje, err := m.VerificarIdentidad(capturado, enrolado)
	require.NoError(t, err)
	assert.Less(t, puntaje, 0.35)
}

func TestVerificarIdentidad_RechazaConPuntaje(t *testing.T) {
	m := NewMatcher(umbralesPrueba())
	enrolado := []float32{1, 0, 0, 0}
	capturado := []float32{0, 1, 0, 0} // ortogonal: distancia 1

	puntaje, err := m.VerificarIdentidad(capturado, enrolado)
	require.Error(t, err)
	assert.True(t, chequeo.EsCodigo(err, chequeo.CodigoIdentidadNoVerificada))
	assert.InDelta(t, 1.0, puntaje, 1e-6)

	e := err.(*chequeo.Error)
	assert.InDelta(t, 1.0, e.Puntaje, 1e-6)
}

func TestVerificarIdentidad_DescriptorIncompatible(t *testing.T) {
	m := NewMatcher(umbralesPrueba())
	_, err := m.VerificarIdentidad([]float32{1, 2, 3}, []float32{1, 2})
	assert.True(t, chequeo.EsCodigo(err, chequeo.CodigoIdentidadNoVerificada))
}

func TestEvaluarCaptura(t *testing.T) {
	m := NewMatcher(umbralesPrueba())

	err := m.EvaluarCaptura(&Captura{RostroDetectado: false})
	assert.True(t, chequeo.EsCodigo(err, chequeo.CodigoRostroNoDetectado))

	err = m.EvaluarCaptura(&Captura{RostroDetectado: true, PuntajeVida: 0.85})
	assert.True(t, chequeo.EsCodigo(err, chequeo.CodigoVidaInsuficiente))

	// Vida suficiente y sin exigencia de gesto por encima del piso secundario.
	err = m.EvaluarCaptura(&Captura{RostroDetectado: true, PuntajeVida: 0.95})
	assert.NoError(t, err)

	// Con gesto corroborante siempre pasa el piso secundario.
	err = m.EvaluarCaptura(&Captura{RostroDetectado: true, PuntajeVida: 0.95, Gestos: []string{"blink"}})
	assert.NoError(t, err)
}

func TestEvaluarEnrolamiento(t *testing.T) {
	m := NewMatcher(umbralesPrueba())

	err := m.EvaluarEnrolamiento(&Captura{RostroDetectado: true, Descriptor: []float32{0.1}})
	assert.NoError(t, err)

	err = m.EvaluarEnrolamiento(&Captura{RostroDetectado: false})
	assert.True(t, chequeo.EsCodigo(err, chequeo.CodigoRostroNoDetectado))

	err = m.EvaluarEnrolamiento(&Captura{RostroDetectado: true})
	assert.True(t, chequeo.EsCodigo(err, chequeo.CodigoRostroNoDetectado))
}
