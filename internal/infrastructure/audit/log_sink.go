// Package audit registra los eventos de auditoría del ledger.
package audit

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var _ inventory.AuditSink = (*LogSink)(nil)

// LogSink escribe cada evento como una línea estructurada de zerolog.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink construye el sink.
func NewLogSink(log *logger.Logger) *LogSink {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSink{log: log}
}

// Record implementa inventory.AuditSink.
func (s *LogSink) Record(_ context.Context, e inventory.AuditEvent) {
	ev := s.log.Info().
		Str("audit_action", e.Action).
		Str("merchant_id", e.MerchantID).
		Str("user_id", e.UserID).
		Str("entity_type", e.EntityType).
		Str("entity_id", e.EntityID).
		Time("at", e.At)
	if len(e.Details) > 0 {
		ev = ev.Interface("details", e.Details)
	}
	ev.Msg("auditoría")
}
