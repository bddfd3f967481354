package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DebtUseCase seguimiento de deudas con proveedores sobre las entradas a crédito.
type DebtUseCase struct {
	deps     Deps
	renderer StatementRenderer
}

// NewDebtUseCase construye el caso de uso. renderer puede ser nil si no se exponen estados de cuenta.
func NewDebtUseCase(deps Deps, renderer StatementRenderer) *DebtUseCase {
	return &DebtUseCase{deps: deps.withDefaults(), renderer: renderer}
}

// DebtSummary totales CREDIT/PARTIAL, detalle de entradas impagas y agrupación por proveedor.
func (uc *DebtUseCase) DebtSummary(ctx context.Context, caller Caller) (*ledger.DebtSummary, error) {
	if caller.MerchantID == "" {
		return nil, domain.ErrForbidden
	}
	entries, err := uc.deps.Receipts.List(ctx, repository.ReceiptFilter{
		MerchantID: caller.MerchantID,
		Statuses:   []entity.PaymentStatus{entity.PaymentCredit, entity.PaymentPartial},
	})
	if err != nil {
		return nil, fmt.Errorf("listar entradas a crédito: %w", err)
	}
	summary := ledger.SummarizeDebt(entries, uc.deps.Now())
	if err := uc.fillProductNames(ctx, summary.UnpaidItems); err != nil {
		return nil, err
	}
	return &summary, nil
}

// MarkAsPaid registra un pago sobre una entrada. paidAmount nil = pago total.
func (uc *DebtUseCase) MarkAsPaid(ctx context.Context, caller Caller, entryID string, paidAmount *decimal.Decimal) (*entity.ReceiptEntry, error) {
	if entryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if paidAmount != nil && paidAmount.IsNegative() {
		return nil, fmt.Errorf("monto pagado negativo: %w", domain.ErrInvalidInput)
	}
	now := uc.deps.Now()
	var settled *entity.ReceiptEntry
	err := uc.deps.TxRunner.Run(ctx, func(repos LedgerRepos) error {
		entry, err := repos.Receipts.GetForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("entrada %s: %w", entryID, domain.ErrEntryNotFound)
		}
		if !uc.deps.Access.HasAccess(ctx, caller, entry.MerchantID) {
			return domain.ErrForbidden
		}
		if err := ledger.Settle(entry, paidAmount, now); err != nil {
			return err
		}
		if err := repos.Receipts.UpdatePayment(ctx, entry); err != nil {
			return err
		}
		settled = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.deps.Audit.Record(ctx, AuditEvent{
		MerchantID: settled.MerchantID,
		UserID:     caller.UserID,
		Action:     AuditDebtSettlement,
		EntityType: "receipt_entry",
		EntityID:   settled.ID,
		Details: map[string]any{
			"payment_status": string(settled.PaymentStatus),
			"paid_amount":    settled.PaidAmount.String(),
			"outstanding":    settled.Outstanding().String(),
		},
		At: now,
	})
	return settled, nil
}

// DebtStatement genera el estado de cuenta (PDF) con el resumen actual de deudas.
func (uc *DebtUseCase) DebtStatement(ctx context.Context, caller Caller) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("estado de cuenta no configurado")
	}
	summary, err := uc.DebtSummary(ctx, caller)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderDebtStatement(ctx, caller.MerchantID, *summary, uc.deps.Now())
}

func (uc *DebtUseCase) fillProductNames(ctx context.Context, items []ledger.UnpaidItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	products, err := uc.deps.Products.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("cargar productos: %w", err)
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	for i := range items {
		items[i].ProductName = names[items[i].ProductID]
	}
	return nil
}
