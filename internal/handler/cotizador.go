package handler

import (
	"net/http"

	"myphone/internal/dto"
	"myphone/internal/service"

	"github.com/gin-gonic/gin"
)

type CotizadorHandler struct {
	cotizador service.CotizadorService
	canje     service.CanjeService
}

func NewCotizadorHandler(cotizador service.CotizadorService, canje service.CanjeService) *CotizadorHandler {
	return &CotizadorHandler{cotizador: cotizador, canje: canje}
}

// Cuotas godoc
// @Summary      Tabla de cuotas
// @Description  Calcula total y valor de cuota por plan según tarjeta y canal.
// @Description  Sin regla configurada el recargo es cero.
// @Tags         cotizador
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CuotasRequest true "Precio y tarjeta"
// @Success      200  {object} dto.CuotasResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/cotizador/cuotas [post]
func (h *CotizadorHandler) Cuotas(c *gin.Context) {
	var req dto.CuotasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cotizador.Cuotas(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ValuarCanje godoc
// @Summary      Valuar equipo en parte de pago (plan canje)
// @Description  valor_sugerido_ars es null cuando no se puede calcular; el vendedor debe ingresarlo a mano.
// @Tags         canje
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.ValuarCanjeRequest true "Equipo del cliente"
// @Success      200  {object} dto.ValuarCanjeResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/canje/valuar [post]
func (h *CotizadorHandler) ValuarCanje(c *gin.Context) {
	var req dto.ValuarCanjeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.canje.Valuar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
