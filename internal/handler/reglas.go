package handler

import (
	"net/http"

	"myphone/internal/dto"
	"myphone/internal/service"

	"github.com/gin-gonic/gin"
)

type ReglasHandler struct{ svc service.ReglasService }

func NewReglasHandler(svc service.ReglasService) *ReglasHandler {
	return &ReglasHandler{svc: svc}
}

// ListarPricing godoc
// @Summary      Listar recargos por cuotas
// @Tags         reglas
// @Produce      json
// @Security     BearerAuth
// @Param        card_brand   query string false "Tarjeta"
// @Param        installments query int    false "Cuotas"
// @Param        channel      query string false "Canal"
// @Success      200  {array}  dto.PricingRuleResponse
// @Router       /v1/reglas/pricing [get]
func (h *ReglasHandler) ListarPricing(c *gin.Context) {
	var filter dto.PricingRuleFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarPricing(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearPricing godoc
// @Summary      Crear recargo por cuotas
// @Tags         reglas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearPricingRuleRequest true "Regla"
// @Success      201  {object} dto.PricingRuleResponse
// @Failure      409  {object} apierror.APIError "Regla duplicada"
// @Router       /v1/reglas/pricing [post]
func (h *ReglasHandler) CrearPricing(c *gin.Context) {
	var req dto.CrearPricingRuleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearPricing(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarPricing godoc
// @Summary      Eliminar recargo por cuotas
// @Tags         reglas
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la regla"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/reglas/pricing/{id} [delete]
func (h *ReglasHandler) EliminarPricing(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarPricing(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListarPlanCanje godoc
// @Summary      Listar bandas del plan canje
// @Tags         reglas
// @Produce      json
// @Security     BearerAuth
// @Param        modelo query string false "Modelo"
// @Success      200  {array}  dto.PlanCanjeResponse
// @Router       /v1/reglas/plan-canje [get]
func (h *ReglasHandler) ListarPlanCanje(c *gin.Context) {
	var filter dto.PlanCanjeFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarPlanCanje(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearPlanCanje godoc
// @Summary      Crear banda del plan canje
// @Description  Requiere value_ars o pct_of_reference mayor a cero y battery_min <= battery_max.
// @Tags         reglas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearPlanCanjeRequest true "Banda"
// @Success      201  {object} dto.PlanCanjeResponse
// @Failure      409  {object} apierror.APIError "Banda duplicada"
// @Failure      422  {object} apierror.APIError
// @Router       /v1/reglas/plan-canje [post]
func (h *ReglasHandler) CrearPlanCanje(c *gin.Context) {
	var req dto.CrearPlanCanjeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearPlanCanje(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarPlanCanje godoc
// @Summary      Eliminar banda del plan canje
// @Tags         reglas
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la banda"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/reglas/plan-canje/{id} [delete]
func (h *ReglasHandler) EliminarPlanCanje(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarPlanCanje(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
