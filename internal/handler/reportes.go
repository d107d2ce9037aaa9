package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/apierror"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/dto"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/service"
)

type ReportesHandler struct{ svc service.ChequeoService }

func NewReportesHandler(svc service.ChequeoService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Diario godoc
// @Summary Solicita el reporte diario de asistencia por correo
// @Description Encola la generación; el PDF se envía al correo de RH (o al destinatario indicado).
// @Tags reportes
// @Accept json
// @Produce json
// @Param body body dto.ReporteDiarioRequest true "Fecha del reporte"
// @Success 202 {object} dto.ReporteDiarioResponse
// @Security BearerAuth
// @Router /v1/reportes/diario [post]
func (h *ReportesHandler) Diario(c *gin.Context) {
	var req dto.ReporteDiarioRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.SolicitarReporteDiario(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo encolar el reporte"))
		return
	}
	c.JSON(http.StatusAccepted, resp)
}
