package model

import (
	"time"

	"github.com/google/uuid"
)

// RegistroChequeo is one immutable event in the daily attendance ledger.
// Tipo: "entrada" | "salida_descanso" | "regreso_descanso" | "salida"
// Rows are NEVER modified or deleted; the day state is derived from which
// types exist for (EmpleadoID, Fecha). The unique index is the authority
// against concurrent duplicates: the insert loses the race, not the check.
type RegistroChequeo struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpleadoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_chequeo_dia,priority:1"`
	// Fecha is the business day as "YYYY-MM-DD". Stored as text so the value
	// round-trips exactly; ISO dates sort and compare correctly either way.
	Fecha string `gorm:"type:varchar(10);not null;uniqueIndex:uq_chequeo_dia,priority:2"`
	Tipo  string `gorm:"type:varchar(20);not null;uniqueIndex:uq_chequeo_dia,priority:3"`
	// Hora is the observed wall-clock time as "HH:MM:SS".
	Hora string `gorm:"type:varchar(8);not null"`
	// Puntualidad: "a_tiempo" | "retardo_menor" | "retardo_mayor" | "salida_anticipada";
	// nil when the employee has no assigned shift for comparison.
	Puntualidad *string `gorm:"type:varchar(20)"`
	Latitud     float64 `gorm:"not null"`
	Longitud    float64 `gorm:"not null"`
	// ExactitudGeografica is the GPS accuracy in meters as reported by the device.
	ExactitudGeografica *float64
	// DistanciaMetros is the computed distance to the geofence center, kept for audit.
	DistanciaMetros float64 `gorm:"not null"`
	// PuntajeBiometrico is the descriptor dissimilarity accepted at verification.
	PuntajeBiometrico float64 `gorm:"not null"`
	CreatedAt         time.Time

	Empleado *Empleado `gorm:"foreignKey:EmpleadoID"`
}
