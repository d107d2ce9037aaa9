// Package horario clasifica la puntualidad de un chequeo contra el turno
// asignado del empleado. Todas las horas son de pared ("HH:MM"), sin fecha:
// la comparación ajusta el cruce de medianoche para turnos nocturnos.
package horario

import (
	"fmt"
	"strconv"
	"strings"
)

// Puntualidad es la clasificación persistida junto al registro.
type Puntualidad string

const (
	ATiempo          Puntualidad = "a_tiempo"
	RetardoMenor     Puntualidad = "retardo_menor"
	RetardoMayor     Puntualidad = "retardo_mayor"
	SalidaAnticipada Puntualidad = "salida_anticipada"
)

const minutosMedioDia = 720

// ParseHoraMin parses "HH:MM" (seconds, if present, are ignored) into
// minutes since midnight.
func ParseHoraMin(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("hora inválida %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("hora inválida %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("hora inválida %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("hora fuera de rango %q", s)
	}
	return h*60 + m, nil
}

// DiferenciaMinutos returns observada − esperada in minutes, adjusted for
// midnight wraparound: a raw difference beyond ±720 wraps around the day, so
// 23:55 observed against 00:05 expected is −10, not +1430.
func DiferenciaMinutos(observada, esperada string) (int, error) {
	obs, err := ParseHoraMin(observada)
	if err != nil {
		return 0, err
	}
	esp, err := ParseHoraMin(esperada)
	if err != nil {
		return 0, err
	}
	diff := obs - esp
	if diff > minutosMedioDia {
		diff -= 1440
	} else if diff < -minutosMedioDia {
		diff += 1440
	}
	return diff, nil
}

// ClasificarLlegada classifies an arrival-type event (entrada, regreso de
// descanso). toleranciaMin is the minor-delay cutoff in minutes; beyond it
// the delay is mayor.
func ClasificarLlegada(observada, esperada string, toleranciaMin int) (Puntualidad, error) {
	diff, err := DiferenciaMinutos(observada, esperada)
	if err != nil {
		return "", err
	}
	switch {
	case diff <= 0:
		return ATiempo, nil
	case diff <= toleranciaMin:
		return RetardoMenor, nil
	default:
		return RetardoMayor, nil
	}
}

// ClasificarSalida classifies an exit-type event: leaving before the expected
// time is an early departure, anything else is on time.
func ClasificarSalida(observada, esperada string) (Puntualidad, error) {
	diff, err := DiferenciaMinutos(observada, esperada)
	if err != nil {
		return "", err
	}
	if diff < 0 {
		return SalidaAnticipada, nil
	}
	return ATiempo, nil
}
