package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Empleado stores staff accounts with role-based access.
// Rol: "empleado" | "rh" | "administrador"
type Empleado struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// Descriptor is the enrolled face embedding; nil until enrollment.
	Descriptor *pgvector.Vector `gorm:"type:vector(128)"`
	// UbicacionID is the assigned geofence; nil means the employee cannot check in.
	UbicacionID *uuid.UUID `gorm:"type:uuid;index"`
	TurnoID     *uuid.UUID `gorm:"type:uuid"`
	Activo      bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Ubicacion *Ubicacion `gorm:"foreignKey:UbicacionID"`
	Turno     *Turno     `gorm:"foreignKey:TurnoID"`
}

// Ubicacion is a work site: a geofence center plus its allowed radius.
type Ubicacion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Latitud     float64   `gorm:"not null"`
	Longitud    float64   `gorm:"not null"`
	RadioMetros float64   `gorm:"not null;default:100"`
	Activo      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Turno holds the four expected times of a shift as "HH:MM" strings,
// matching how schedules are captured and compared.
type Turno struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string    `gorm:"uniqueIndex;not null"`
	Entrada         string    `gorm:"type:varchar(5);not null"`
	SalidaDescanso  string    `gorm:"type:varchar(5);not null"`
	RegresoDescanso string    `gorm:"type:varchar(5);not null"`
	Salida          string    `gorm:"type:varchar(5);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
