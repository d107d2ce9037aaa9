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

type ChequeosHandler struct{ svc service.ChequeoService }

func NewChequeosHandler(svc service.ChequeoService) *ChequeosHandler {
	return &ChequeosHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra un chequeo de asistencia
// @Description Verifica identidad facial, geocerca y secuencia del día antes de persistir.
// @Tags chequeos
// @Accept json
// @Produce json
// @Param body body dto.RegistrarChequeoRequest true "Chequeo"
// @Success 201 {object} dto.ChequeoResponse
// @Failure 409 {object} apierror.APIError "Acción fuera de orden o día completo"
// @Failure 422 {object} apierror.APIError "Rechazo biométrico o de geocerca"
// @Security BearerAuth
// @Router /v1/chequeos [post]
func (h *ChequeosHandler) Registrar(c *gin.Context) {
	empleadoID, ok := empleadoDeClaims(c)
	if !ok {
		return
	}

	var req dto.RegistrarChequeoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.RegistrarChequeo(c.Request.Context(), empleadoID, req)
	if err != nil {
		writeChequeoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Hoy godoc
// @Summary Registros del día y siguiente acción legal
// @Tags chequeos
// @Produce json
// @Param fecha query string false "Fecha YYYY-MM-DD (hoy por omisión)"
// @Success 200 {object} dto.DiaResponse
// @Security BearerAuth
// @Router /v1/chequeos/hoy [get]
func (h *ChequeosHandler) Hoy(c *gin.Context) {
	empleadoID, ok := empleadoDeClaims(c)
	if !ok {
		return
	}

	resp, err := h.svc.Dia(c.Request.Context(), empleadoID, c.Query("fecha"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar registros"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary Historial paginado de chequeos del empleado autenticado
// @Tags chequeos
// @Produce json
// @Param desde query string false "Fecha inicial YYYY-MM-DD"
// @Param hasta query string false "Fecha final YYYY-MM-DD"
// @Param limit query int false "Máximo de filas (50 por omisión)"
// @Param offset query int false "Desplazamiento"
// @Success 200 {object} dto.HistorialResponse
// @Security BearerAuth
// @Router /v1/chequeos/historial [get]
func (h *ChequeosHandler) Historial(c *gin.Context) {
	empleadoID, ok := empleadoDeClaims(c)
	if !ok {
		return
	}

	var q dto.HistorialChequeosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parametros invalidos"))
		return
	}
	if err := validate.Struct(&q); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("parametros invalidos"))
		return
	}

	resp, err := h.svc.Historial(c.Request.Context(), empleadoID, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar historial"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// empleadoDeClaims extracts the authenticated employee id; writes the 401 on
// failure so callers can just return.
func empleadoDeClaims(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.EmpleadoID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token mal formado"))
		return uuid.Nil, false
	}
	return id, true
}
