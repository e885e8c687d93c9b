package handler

import (
	"net/http"
	"strconv"

	"myphone/internal/dto"
	"myphone/internal/middleware"
	"myphone/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar equipos en stock
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        state    query    string false "Estado"
// @Param        status   query    string false "Estado legacy (available, reserved, sold, drawer, service_tech)"
// @Param        modelo   query    string false "Modelo (búsqueda parcial)"
// @Param        is_promo query    bool   false "Solo equipos en promo"
// @Param        page     query    int    false "Página"
// @Param        limit    query    int    false "Tamaño de página"
// @Success      200  {object} dto.StockListResponse
// @Router       /v1/stock [get]
func (h *StockHandler) Listar(c *gin.Context) {
	var filter dto.StockFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener equipo
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID del equipo"
// @Success      200  {object} dto.StockItemResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/stock/{id} [get]
func (h *StockHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary      Ingresar equipo
// @Description  Alta de un equipo. No puede ingresar como vendido.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearStockItemRequest true "Equipo"
// @Success      201  {object} dto.StockItemResponse
// @Failure      409  {object} apierror.APIError "IMEI duplicado"
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/stock [post]
func (h *StockHandler) Crear(c *gin.Context) {
	var req dto.CrearStockItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CambiarEstado godoc
// @Summary      Cambiar estado de un equipo
// @Description  Rechaza equipos vendidos o asociados a una venta (409 transicion_no_permitida).
// @Description  Si otro usuario modificó el equipo responde 409 stock_conflict.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                   true "UUID del equipo"
// @Param        body body     dto.CambiarEstadoRequest true "Nuevo estado"
// @Success      200  {object} dto.StockItemResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stock/{id}/estado [patch]
func (h *StockHandler) CambiarEstado(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarPromo godoc
// @Summary      Marcar / desmarcar promo
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                  true "UUID del equipo"
// @Param        body body     dto.CambiarPromoRequest true "Promo"
// @Success      200  {object} dto.StockItemResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stock/{id}/promo [patch]
func (h *StockHandler) CambiarPromo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.CambiarPromoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarPromo(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Vender godoc
// @Summary      Registrar venta de un equipo
// @Description  Marca el equipo como vendido y lo asocia a la venta. De dos terminales
// @Description  vendiendo el mismo equipo sólo una tiene éxito; la otra recibe 409 stock_conflict.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string            true "UUID del equipo"
// @Param        body body     dto.VenderRequest true "Venta"
// @Success      200  {object} dto.StockItemResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stock/{id}/vender [post]
func (h *StockHandler) Vender(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.VenderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Vender(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos godoc
// @Summary      Historial de movimientos de un equipo
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id    path     string true  "UUID del equipo"
// @Param        page  query    int    false "Página"
// @Param        limit query    int    false "Tamaño de página"
// @Success      200  {array}  dto.MovimientoStockItem
// @Router       /v1/stock/{id}/movimientos [get]
func (h *StockHandler) Movimientos(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	resp, err := h.svc.Movimientos(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
