package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/config"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/dto"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/model"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearEmpleado(ctx context.Context, req dto.CrearEmpleadoRequest) (*dto.EmpleadoResponse, error)
	ListarEmpleados(ctx context.Context) ([]dto.EmpleadoResponse, error)
	ActualizarEmpleado(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpleadoRequest) (*dto.EmpleadoResponse, error)
	DesactivarEmpleado(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.EmpleadoRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.EmpleadoRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	emp, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("credenciales invalidas")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales invalidas")
	}

	return s.buildLoginResponse(emp)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims invalidos")
	}
	idStr, ok := claims["empleado_id"].(string)
	if !ok {
		return nil, errors.New("token mal formado")
	}
	uid, err := uuid.Parse(idStr)
	if err != nil {
		return nil, errors.New("token mal formado")
	}

	emp, err := s.repo.FindByID(ctx, uid)
	if err != nil || !emp.Activo {
		return nil, errors.New("empleado no encontrado o inactivo")
	}

	return s.buildLoginResponse(emp)
}

func (s *authService) buildLoginResponse(emp *model.Empleado) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(emp, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(emp, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Empleado:     *empleadoToResponse(emp),
	}, nil
}

func (s *authService) CrearEmpleado(ctx context.Context, req dto.CrearEmpleadoRequest) (*dto.EmpleadoResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	emp := &model.Empleado{
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if emp.UbicacionID, err = parseOptionalUUID(req.UbicacionID); err != nil {
		return nil, errors.New("ubicacion_id invalido")
	}
	if emp.TurnoID, err = parseOptionalUUID(req.TurnoID); err != nil {
		return nil, errors.New("turno_id invalido")
	}
	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, err
	}
	return empleadoToResponse(emp), nil
}

func (s *authService) ListarEmpleados(ctx context.Context) ([]dto.EmpleadoResponse, error) {
	empleados, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EmpleadoResponse, len(empleados))
	for i := range empleados {
		resp[i] = *empleadoToResponse(&empleados[i])
	}
	return resp, nil
}

func (s *authService) ActualizarEmpleado(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpleadoRequest) (*dto.EmpleadoResponse, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("empleado no encontrado")
	}
	if req.Nombre != "" {
		emp.Nombre = req.Nombre
	}
	if req.Email != nil {
		emp.Email = req.Email
	}
	if req.Rol != "" {
		emp.Rol = req.Rol
	}
	if req.UbicacionID != nil {
		if emp.UbicacionID, err = parseOptionalUUID(req.UbicacionID); err != nil {
			return nil, errors.New("ubicacion_id invalido")
		}
	}
	if req.TurnoID != nil {
		if emp.TurnoID, err = parseOptionalUUID(req.TurnoID); err != nil {
			return nil, errors.New("turno_id invalido")
		}
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		emp.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return empleadoToResponse(emp), nil
}

func (s *authService) DesactivarEmpleado(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) generateToken(emp *model.Empleado, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"empleado_id": emp.ID.String(),
		"username":    emp.Username,
		"rol":         emp.Rol,
		"exp":         time.Now().Add(duration).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func empleadoToResponse(e *model.Empleado) *dto.EmpleadoResponse {
	resp := &dto.EmpleadoResponse{
		ID:       e.ID.String(),
		Username: e.Username,
		Nombre:   e.Nombre,
		Email:    e.Email,
		Rol:      e.Rol,
		Enrolado: e.Descriptor != nil,
		Activo:   e.Activo,
	}
	if e.UbicacionID != nil {
		id := e.UbicacionID.String()
		resp.UbicacionID = &id
	}
	if e.TurnoID != nil {
		id := e.TurnoID.String()
		resp.TurnoID = &id
	}
	return resp
}
