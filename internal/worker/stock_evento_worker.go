package worker

import (
	"context"
	"encoding/json"
	"time"

	"myphone/internal/model"
	"myphone/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StockEventoPayload describes one accepted stock mutation. It is written to
// movimientos_stock by StockEventoWorker.
type StockEventoPayload struct {
	StockItemID    uuid.UUID        `json:"stock_item_id"`
	Tipo           string           `json:"tipo"`
	EstadoAnterior model.StockState `json:"estado_anterior,omitempty"`
	EstadoNuevo    model.StockState `json:"estado_nuevo,omitempty"`
	PromoAnterior  *bool            `json:"promo_anterior,omitempty"`
	PromoNuevo     *bool            `json:"promo_nuevo,omitempty"`
	Motivo         string           `json:"motivo,omitempty"`
	ReferenciaID   *uuid.UUID       `json:"referencia_id,omitempty"`
	UsuarioID      *uuid.UUID       `json:"usuario_id,omitempty"`
	OcurridoEn     time.Time        `json:"ocurrido_en"`
}

// Movimiento maps the event to its persisted row.
func (p StockEventoPayload) Movimiento() *model.StockMovimiento {
	return &model.StockMovimiento{
		StockItemID:    p.StockItemID,
		Tipo:           p.Tipo,
		EstadoAnterior: p.EstadoAnterior,
		EstadoNuevo:    p.EstadoNuevo,
		PromoAnterior:  p.PromoAnterior,
		PromoNuevo:     p.PromoNuevo,
		Motivo:         p.Motivo,
		ReferenciaID:   p.ReferenciaID,
		UsuarioID:      p.UsuarioID,
		CreatedAt:      p.OcurridoEn,
	}
}

// StockEventoWorker persists stock audit events from QueueStockEventos.
type StockEventoWorker struct {
	repo repository.MovimientoStockRepository
}

func NewStockEventoWorker(repo repository.MovimientoStockRepository) *StockEventoWorker {
	return &StockEventoWorker{repo: repo}
}

// Process decodes and stores one event. Malformed payloads are dropped
// without retry.
func (w *StockEventoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload StockEventoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("stock_evento_worker: invalid payload")
		return nil
	}
	if payload.StockItemID == uuid.Nil {
		log.Warn().Msg("stock_evento_worker: empty stock_item_id, skipping")
		return nil
	}
	if payload.Tipo == "" {
		log.Warn().Str("stock_item_id", payload.StockItemID.String()).Msg("stock_evento_worker: empty tipo, skipping")
		return nil
	}

	if err := w.repo.Create(ctx, payload.Movimiento()); err != nil {
		return err
	}
	log.Debug().
		Str("stock_item_id", payload.StockItemID.String()).
		Str("tipo", payload.Tipo).
		Msg("stock_evento_worker: movimiento stored")
	return nil
}
