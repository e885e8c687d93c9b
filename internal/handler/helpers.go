package handler

import (
	"errors"
	"net/http"
	"reflect"

	"myphone/internal/apierror"
	"myphone/internal/service"
	"myphone/internal/stock"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramID parses the :id path parameter, answering 400 when malformed.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors to HTTP responses:
//
//	not found                     → 404
//	local guard rejection         → 409 transicion_no_permitida
//	classified store rejection    → 409 with its code
//	business validation           → 422
//	unclassified store failure    → 500 with the operation's fallback message
//	anything else                 → 500, logged by ErrorHandler
func respondError(c *gin.Context, err error) {
	var mErr *stock.MutationError
	switch {
	case errors.Is(err, service.ErrStockNoEncontrado), errors.Is(err, service.ErrReglaNoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, stock.ErrTransicionNoPermitida):
		c.JSON(http.StatusConflict, apierror.NewWithCode(err.Error(), apierror.CodeTransicionNoPermitida))
	case errors.As(err, &mErr):
		if code := mErr.Code(); code != "" {
			c.JSON(http.StatusConflict, apierror.NewWithCode(mErr.Message, code))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New(mErr.Message))
	case apierror.CodeOf(err) == apierror.CodeDuplicado:
		c.JSON(http.StatusConflict, apierror.NewWithCode(duplicadoMessage(err), apierror.CodeDuplicado))
	case errors.Is(err, service.ErrVentaPorOtraVia),
		errors.Is(err, service.ErrAltaVendido),
		errors.Is(err, service.ErrEstadoInvalido),
		errors.Is(err, service.ErrSaleIDInvalido),
		errors.Is(err, service.ErrReglaInvalida),
		errors.Is(err, service.ErrPrecioRequerido):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

func duplicadoMessage(err error) string {
	var sErr *apierror.StoreError
	if errors.As(err, &sErr) && sErr.Err == nil && sErr.Message != "" {
		return sErr.Message
	}
	// Raised by a unique index: the raw database text stays in the logs.
	return "El registro ya existe."
}
