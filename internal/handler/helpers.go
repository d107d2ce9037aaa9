package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/apierror"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/chequeo"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeChequeoError maps a pipeline rejection to its HTTP status and the
// coded envelope. Rejections are client-side conditions except the
// persistence and location lookup failures.
func writeChequeoError(c *gin.Context, err error) {
	var e *chequeo.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	status := http.StatusUnprocessableEntity
	switch e.Codigo {
	case chequeo.CodigoTransicionInvalida, chequeo.CodigoTurnoCompleto:
		status = http.StatusConflict
	case chequeo.CodigoErrorPersistencia, chequeo.CodigoErrorUbicacion:
		status = http.StatusInternalServerError
	}
	c.JSON(status, apierror.NewWithCodigo(string(e.Codigo), e.Detalle))
}
