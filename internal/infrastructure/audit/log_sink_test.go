package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/audit"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSink_EscribeEventoEstructurado(t *testing.T) {
	var buf bytes.Buffer
	sink := audit.NewLogSink(logger.NewWithWriter(&buf, "info"))

	sink.Record(context.Background(), inventory.AuditEvent{
		MerchantID: "m-1",
		UserID:     "u-1",
		Action:     inventory.AuditSaleCreated,
		EntityType: "sale",
		EntityID:   "s-1",
		Details:    map[string]any{"lines": 2},
		At:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "sale.created", line["audit_action"])
	assert.Equal(t, "s-1", line["entity_id"])
	assert.Equal(t, "auditoría", line["message"])
	details, ok := line["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), details["lines"])
}
