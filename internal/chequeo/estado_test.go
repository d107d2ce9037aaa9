package chequeo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivarEstado(t *testing.T) {
	cases := []struct {
		registrados []Accion
		want        Estado
	}{
		{nil, EstadoSinRegistros},
		{[]Accion{AccionEntrada}, EstadoEnTurno},
		{[]Accion{AccionEntrada, AccionSalidaDescanso}, EstadoEnDescanso},
		{[]Accion{AccionEntrada, AccionSalidaDescanso, AccionRegresoDescanso}, EstadoTurnoReanudado},
		{[]Accion{AccionEntrada, AccionSalidaDescanso, AccionRegresoDescanso, AccionSalida}, EstadoTurnoCompleto},
		// El orden de lectura no importa: decide la presencia de cada tipo.
		{[]Accion{AccionSalidaDescanso, AccionEntrada}, EstadoEnDescanso},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DerivarEstado(tc.registrados))
	}
}

func TestValidarAccion_SecuenciaLegal(t *testing.T) {
	prefijos := [][]Accion{
		{},
		{AccionEntrada},
		{AccionEntrada, AccionSalidaDescanso},
		{AccionEntrada, AccionSalidaDescanso, AccionRegresoDescanso},
	}
	orden := []Accion{AccionEntrada, AccionSalidaDescanso, AccionRegresoDescanso, AccionSalida}

	for i, prefijo := range prefijos {
		estado := DerivarEstado(prefijo)
		// La siguiente acción en orden es legal…
		assert.NoError(t, ValidarAccion(estado, orden[i], Reglas{}))
		// …y cualquier otra no lo es.
		for j, accion := range orden {
			if j == i {
				continue
			}
			err := ValidarAccion(estado, accion, Reglas{})
			require.Error(t, err, "prefijo=%v accion=%s", prefijo, accion)
			assert.True(t, EsCodigo(err, CodigoTransicionInvalida))
		}
	}
}

func TestValidarAccion_TurnoCompleto(t *testing.T) {
	estado := DerivarEstado([]Accion{AccionEntrada, AccionSalidaDescanso, AccionRegresoDescanso, AccionSalida})
	for _, accion := range []Accion{AccionEntrada, AccionSalidaDescanso, AccionRegresoDescanso, AccionSalida} {
		err := ValidarAccion(estado, accion, Reglas{})
		require.Error(t, err)
		assert.True(t, EsCodigo(err, CodigoTurnoCompleto))
	}
}

func TestValidarAccion_TransicionNombraAccionYEstado(t *testing.T) {
	err := ValidarAccion(EstadoEnDescanso, AccionEntrada, Reglas{})
	require.Error(t, err)
	e, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, AccionEntrada, e.Accion)
	assert.Equal(t, EstadoEnDescanso, e.Estado)
	assert.Contains(t, e.Detalle, "entrada")
}

func TestValidarAccion_SalidaAnticipada(t *testing.T) {
	// Prohibida con las reglas estrictas…
	err := ValidarAccion(EstadoEnTurno, AccionSalida, Reglas{})
	assert.True(t, EsCodigo(err, CodigoTransicionInvalida))

	// …permitida desde en_turno y en_descanso con la bandera activada.
	relajadas := Reglas{PermitirSalidaAnticipada: true}
	assert.NoError(t, ValidarAccion(EstadoEnTurno, AccionSalida, relajadas))
	assert.NoError(t, ValidarAccion(EstadoEnDescanso, AccionSalida, relajadas))

	// La bandera no relaja nada más.
	err = ValidarAccion(EstadoSinRegistros, AccionSalida, relajadas)
	assert.True(t, EsCodigo(err, CodigoTransicionInvalida))
	err = ValidarAccion(EstadoEnTurno, AccionRegresoDescanso, relajadas)
	assert.True(t, EsCodigo(err, CodigoTransicionInvalida))
}

func TestSiguienteAccion(t *testing.T) {
	assert.Equal(t, AccionEntrada, SiguienteAccion(EstadoSinRegistros))
	assert.Equal(t, AccionSalidaDescanso, SiguienteAccion(EstadoEnTurno))
	assert.Equal(t, AccionRegresoDescanso, SiguienteAccion(EstadoEnDescanso))
	assert.Equal(t, AccionSalida, SiguienteAccion(EstadoTurnoReanudado))
	assert.Equal(t, Accion(""), SiguienteAccion(EstadoTurnoCompleto))
}
