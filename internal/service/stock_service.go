package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"myphone/internal/apierror"
	"myphone/internal/dto"
	"myphone/internal/model"
	"myphone/internal/repository"
	"myphone/internal/stock"
	"myphone/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrStockNoEncontrado = errors.New("equipo no encontrado")
	// ErrVentaPorOtraVia rejects "sold" as a plain state change: a sale sets
	// state and sale_id together through Vender.
	ErrVentaPorOtraVia = errors.New("para vender un equipo use la operación de venta")
	ErrAltaVendido     = errors.New("un equipo no puede ingresar como vendido")
	// ErrEstadoInvalido and ErrSaleIDInvalido are wrapped with the offending value.
	ErrEstadoInvalido = errors.New("estado inválido")
	ErrSaleIDInvalido = errors.New("sale_id inválido")
)

// Fallback messages for store failures that carry no classification.
const (
	fallbackCambiarEstado = "No se pudo cambiar el estado del equipo."
	fallbackCambiarPromo  = "No se pudo actualizar la promo del equipo."
	fallbackVender        = "No se pudo registrar la venta del equipo."
)

// StockEventPublisher receives accepted mutations for the audit trail.
// *worker.Dispatcher satisfies it.
type StockEventPublisher interface {
	EnqueueStockEvento(ctx context.Context, payload worker.StockEventoPayload) error
}

// StockService owns the lifecycle of physical units: every state or promo
// change is checked by the stock guard before the store is contacted.
type StockService interface {
	Obtener(ctx context.Context, id uuid.UUID) (*dto.StockItemResponse, error)
	Listar(ctx context.Context, filter dto.StockFilter) (*dto.StockListResponse, error)
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearStockItemRequest) (*dto.StockItemResponse, error)
	CambiarEstado(ctx context.Context, usuarioID, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.StockItemResponse, error)
	CambiarPromo(ctx context.Context, usuarioID, id uuid.UUID, req dto.CambiarPromoRequest) (*dto.StockItemResponse, error)
	Vender(ctx context.Context, usuarioID, id uuid.UUID, req dto.VenderRequest) (*dto.StockItemResponse, error)
	Movimientos(ctx context.Context, id uuid.UUID, page, limit int) ([]dto.MovimientoStockItem, error)
}

type stockService struct {
	repo      repository.StockItemRepository
	movRepo   repository.MovimientoStockRepository
	publisher StockEventPublisher
	now       func() time.Time
}

func NewStockService(repo repository.StockItemRepository, movRepo repository.MovimientoStockRepository, publisher StockEventPublisher) StockService {
	return &stockService{repo: repo, movRepo: movRepo, publisher: publisher, now: time.Now}
}

func (s *stockService) Obtener(ctx context.Context, id uuid.UUID) (*dto.StockItemResponse, error) {
	it, err := s.cargar(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return stockItemToResponse(it), nil
}

func (s *stockService) Listar(ctx context.Context, filter dto.StockFilter) (*dto.StockListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockItemResponse, 0, len(items))
	for i := range items {
		data = append(data, *stockItemToResponse(&items[i]))
	}
	return &dto.StockListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *stockService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearStockItemRequest) (*dto.StockItemResponse, error) {
	state := model.StockState(req.State)
	if state == model.StateSold {
		return nil, ErrAltaVendido
	}
	if !state.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrEstadoInvalido, req.State)
	}

	it := &model.StockItem{
		IMEI:         req.IMEI,
		Modelo:       req.Modelo,
		StorageGB:    req.StorageGB,
		BatteryPct:   req.BatteryPct,
		Color:        req.Color,
		State:        state,
		IsPromo:      req.IsPromo,
		Version:      1,
		PurchaseArs:  req.PurchaseArs,
		PurchaseUSD:  req.PurchaseUSD,
		SalePriceArs: req.SalePriceArs,
		SalePriceUSD: req.SalePriceUSD,
		FxRateUsed:   req.FxRateUsed,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.publicar(ctx, worker.StockEventoPayload{
		StockItemID: it.ID,
		Tipo:        "alta",
		EstadoNuevo: it.State,
		UsuarioID:   &usuarioID,
	})
	return stockItemToResponse(it), nil
}

// CambiarEstado moves an unsold item to another unsold state. Sold or linked
// items are rejected locally with stock.ErrTransicionNoPermitida; a stale
// snapshot comes back from the store as a *stock.MutationError.
func (s *stockService) CambiarEstado(ctx context.Context, usuarioID, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.StockItemResponse, error) {
	target := model.StockState(req.State)
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrEstadoInvalido, req.State)
	}

	it, err := s.cargar(ctx, id, req.Version)
	if err != nil {
		return nil, err
	}
	if target == model.StateSold && stock.CanChangeState(it, target) {
		return nil, ErrVentaPorOtraVia
	}

	anterior := it.State
	var storeErr error
	res := stock.RunTransitionGuard(it, target, func(item *model.StockItem, to model.StockState) {
		storeErr = s.repo.UpdateState(ctx, item, to)
	})
	if !res.Allowed {
		return nil, stock.ErrTransicionNoPermitida
	}
	if storeErr != nil {
		return nil, s.mutationError(storeErr, fallbackCambiarEstado)
	}

	s.publicar(ctx, worker.StockEventoPayload{
		StockItemID:    it.ID,
		Tipo:           "cambio_estado",
		EstadoAnterior: anterior,
		EstadoNuevo:    it.State,
		Motivo:         req.Motivo,
		UsuarioID:      &usuarioID,
	})
	return stockItemToResponse(it), nil
}

func (s *stockService) CambiarPromo(ctx context.Context, usuarioID, id uuid.UUID, req dto.CambiarPromoRequest) (*dto.StockItemResponse, error) {
	it, err := s.cargar(ctx, id, req.Version)
	if err != nil {
		return nil, err
	}
	if !stock.CanTogglePromo(it) {
		return nil, stock.ErrTransicionNoPermitida
	}

	anterior := it.IsPromo
	if err := s.repo.SetPromo(ctx, it, *req.IsPromo); err != nil {
		return nil, s.mutationError(err, fallbackCambiarPromo)
	}

	nuevo := it.IsPromo
	s.publicar(ctx, worker.StockEventoPayload{
		StockItemID:   it.ID,
		Tipo:          "promo",
		PromoAnterior: &anterior,
		PromoNuevo:    &nuevo,
		UsuarioID:     &usuarioID,
	})
	return stockItemToResponse(it), nil
}

// Vender is the privileged sale path. It bypasses the transition guard but
// not the store: of two terminals selling the same unit only one succeeds.
func (s *stockService) Vender(ctx context.Context, usuarioID, id uuid.UUID, req dto.VenderRequest) (*dto.StockItemResponse, error) {
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSaleIDInvalido, req.SaleID)
	}
	it, err := s.cargar(ctx, id, req.Version)
	if err != nil {
		return nil, err
	}

	// Already sold here: the store would reject it anyway.
	if stock.IsSoldOrLinked(it) {
		return nil, stock.NewMutationError(
			apierror.NewStoreError(apierror.CodeStockConflict, "stock item already sold or linked"), fallbackVender)
	}

	anterior := it.State
	if err := s.repo.MarkSold(ctx, it, saleID); err != nil {
		return nil, s.mutationError(err, fallbackVender)
	}

	s.publicar(ctx, worker.StockEventoPayload{
		StockItemID:    it.ID,
		Tipo:           "venta",
		EstadoAnterior: anterior,
		EstadoNuevo:    it.State,
		ReferenciaID:   &saleID,
		UsuarioID:      &usuarioID,
	})
	return stockItemToResponse(it), nil
}

func (s *stockService) Movimientos(ctx context.Context, id uuid.UUID, page, limit int) ([]dto.MovimientoStockItem, error) {
	if _, err := s.cargar(ctx, id, nil); err != nil {
		return nil, err
	}
	movs, _, err := s.movRepo.List(ctx, repository.MovimientoStockFilter{
		StockItemID: &id,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoStockItem, 0, len(movs))
	for _, m := range movs {
		item := dto.MovimientoStockItem{
			ID:             m.ID.String(),
			Tipo:           m.Tipo,
			EstadoAnterior: string(m.EstadoAnterior),
			EstadoNuevo:    string(m.EstadoNuevo),
			PromoAnterior:  m.PromoAnterior,
			PromoNuevo:     m.PromoNuevo,
			Motivo:         m.Motivo,
			CreatedAt:      m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			item.ReferenciaID = &ref
		}
		out = append(out, item)
	}
	return out, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// cargar reads the item; version, when set, replaces the stored version so
// the conditional update runs against the client's snapshot.
func (s *stockService) cargar(ctx context.Context, id uuid.UUID, version *int) (*model.StockItem, error) {
	it, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStockNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	if version != nil {
		it.Version = *version
	}
	return it, nil
}

func (s *stockService) mutationError(err error, fallback string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrStockNoEncontrado
	}
	return stock.NewMutationError(err, fallback)
}

// publicar enqueues the audit event. The mutation is already committed, so a
// queue failure is logged and not returned.
func (s *stockService) publicar(ctx context.Context, ev worker.StockEventoPayload) {
	if s.publisher == nil {
		return
	}
	ev.OcurridoEn = s.now().UTC()
	if err := s.publisher.EnqueueStockEvento(ctx, ev); err != nil {
		log.Warn().Err(err).
			Str("stock_item_id", ev.StockItemID.String()).
			Str("tipo", ev.Tipo).
			Msg("stock: failed to enqueue audit event")
	}
}

func stockItemToResponse(it *model.StockItem) *dto.StockItemResponse {
	resp := &dto.StockItemResponse{
		ID:                 it.ID.String(),
		IMEI:               it.IMEI,
		Modelo:             it.Modelo,
		StorageGB:          it.StorageGB,
		BatteryPct:         it.BatteryPct,
		Color:              it.Color,
		State:              string(it.State),
		Status:             string(it.LegacyStatus()),
		IsPromo:            it.IsPromo,
		Version:            it.Version,
		PurchaseArs:        it.PurchaseArs,
		PurchaseUSD:        it.PurchaseUSD,
		SalePriceArs:       it.SalePriceArs,
		SalePriceUSD:       it.SalePriceUSD,
		FxRateUsed:         it.FxRateUsed,
		UpdatedAt:          it.UpdatedAt.Format(time.RFC3339),
		PuedeCambiarEstado: stock.CanChangeState(it, it.State),
		PuedeCambiarPromo:  stock.CanTogglePromo(it),
	}
	if it.SaleID != nil {
		sid := it.SaleID.String()
		resp.SaleID = &sid
	}
	return resp
}
