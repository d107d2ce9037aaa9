package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/biometria"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/dto"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/model"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/repository"
)

type EmpleadoService interface {
	// EnrolarDescriptor stores the enrollment descriptor. Re-enrollment
	// replaces the previous one (new embedding model, bad first capture).
	EnrolarDescriptor(ctx context.Context, id uuid.UUID, req dto.EnrolarDescriptorRequest) error
	// Asignaciones returns the employee's geofence and shift for the client.
	Asignaciones(ctx context.Context, id uuid.UUID) (*dto.UbicacionResponse, *dto.TurnoResponse, error)
}

type empleadoService struct {
	repo repository.EmpleadoRepository
}

func NewEmpleadoService(repo repository.EmpleadoRepository) EmpleadoService {
	return &empleadoService{repo: repo}
}

func (s *empleadoService) EnrolarDescriptor(ctx context.Context, id uuid.UUID, req dto.EnrolarDescriptorRequest) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("empleado no encontrado")
	}
	// A descriptor the distance metric cannot compare against itself (zero
	// magnitude) would make every verification fail later.
	if _, ok := biometria.DistanciaCoseno(req.Descriptor, req.Descriptor); !ok {
		return errors.New("descriptor invalido")
	}
	return s.repo.GuardarDescriptor(ctx, id, pgvector.NewVector(req.Descriptor))
}

func (s *empleadoService) Asignaciones(ctx context.Context, id uuid.UUID) (*dto.UbicacionResponse, *dto.TurnoResponse, error) {
	emp, err := s.repo.FindConAsignaciones(ctx, id)
	if err != nil {
		return nil, nil, errors.New("empleado no encontrado")
	}

	var ubicacion *dto.UbicacionResponse
	if emp.Ubicacion != nil {
		ubicacion = &dto.UbicacionResponse{
			ID:          emp.Ubicacion.ID.String(),
			Nombre:      emp.Ubicacion.Nombre,
			Latitud:     emp.Ubicacion.Latitud,
			Longitud:    emp.Ubicacion.Longitud,
			RadioMetros: emp.Ubicacion.RadioMetros,
		}
	}

	var turno *dto.TurnoResponse
	if emp.Turno != nil {
		turno = turnoToResponse(emp.Turno)
	}
	return ubicacion, turno, nil
}

func turnoToResponse(t *model.Turno) *dto.TurnoResponse {
	return &dto.TurnoResponse{
		ID:              t.ID.String(),
		Nombre:          t.Nombre,
		Entrada:         t.Entrada,
		SalidaDescanso:  t.SalidaDescanso,
		RegresoDescanso: t.RegresoDescanso,
		Salida:          t.Salida,
	}
}
