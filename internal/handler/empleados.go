package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/apierror"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/dto"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/middleware"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/service"
)

type EmpleadosHandler struct{ svc service.EmpleadoService }

func NewEmpleadosHandler(svc service.EmpleadoService) *EmpleadosHandler {
	return &EmpleadosHandler{svc: svc}
}

// EnrolarDescriptor godoc
// @Summary Enrola (o re-enrola) el descriptor facial de un empleado
// @Tags empleados
// @Accept json
// @Param id path string true "ID del empleado"
// @Param body body dto.EnrolarDescriptorRequest true "Descriptor facial"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/empleados/{id}/descriptor [post]
func (h *EmpleadosHandler) EnrolarDescriptor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id invalido"))
		return
	}

	var req dto.EnrolarDescriptorRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.EnrolarDescriptor(c.Request.Context(), id, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Asignaciones godoc
// @Summary Geocerca y turno asignados del empleado autenticado
// @Tags empleados
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /v1/empleados/me/asignaciones [get]
func (h *EmpleadosHandler) Asignaciones(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	id, err := uuid.Parse(claims.EmpleadoID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token mal formado"))
		return
	}

	ubicacion, turno, err := h.svc.Asignaciones(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ubicacion": ubicacion, "turno": turno})
}
