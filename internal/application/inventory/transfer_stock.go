package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TransferStockUseCase mueve stock entre dos ubicaciones de la misma empresa.
type TransferStockUseCase struct {
	deps Deps
}

// NewTransferStockUseCase construye el caso de uso.
func NewTransferStockUseCase(deps Deps) *TransferStockUseCase {
	return &TransferStockUseCase{deps: deps.withDefaults()}
}

// TransferInput entrada de una transferencia.
type TransferInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       int64
	Notes          string
}

// TransferResult filas creadas y stock resultante en origen y destino.
type TransferResult struct {
	OutMovement      *entity.StockMovement
	InMovement       *entity.StockMovement
	DestinationEntry *entity.ReceiptEntry
	SourceStock      int64
	DestinationStock int64
}

// TransferStock escribe TRANSFER_OUT en origen, una entrada nueva (PAID, sin costo) en destino
// y TRANSFER_IN de auditoría en destino, todo en una transacción con ambos pares bloqueados.
func (uc *TransferStockUseCase) TransferStock(ctx context.Context, caller Caller, in TransferInput) (*TransferResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.FromLocationID == "" || in.ToLocationID == "" {
		return nil, fmt.Errorf("origen y destino son obligatorios: %w", domain.ErrInvalidTransfer)
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, fmt.Errorf("origen y destino son la misma ubicación: %w", domain.ErrInvalidTransfer)
	}

	product, err := uc.deps.loadProduct(ctx, caller, in.ProductID)
	if err != nil {
		return nil, err
	}
	from, err := uc.deps.resolveLocation(ctx, caller, in.FromLocationID)
	if err != nil {
		return nil, err
	}
	to, err := uc.deps.resolveLocation(ctx, caller, in.ToLocationID)
	if err != nil {
		return nil, err
	}

	now := uc.deps.Now()
	reason := fmt.Sprintf("Transferencia de %d unidades de %s a %s", in.Quantity, from.Name, to.Name)
	if in.Notes != "" {
		reason += ": " + in.Notes
	}
	transferID := uuid.New().String()

	out, err := entity.NewStockMovement(product.MerchantID, product.ID, from.ID, caller.UserID, entity.MovementTransferOut, -in.Quantity, now)
	if err != nil {
		return nil, err
	}
	out.ID = uuid.New().String()
	out.Reason = reason
	out.ReferenceID = transferID
	out.ReferenceType = entity.ReferenceTransfer

	entry := &entity.ReceiptEntry{
		ID:            uuid.New().String(),
		MerchantID:    product.MerchantID,
		ProductID:     product.ID,
		LocationID:    to.ID,
		Quantity:      in.Quantity,
		ReceivedDate:  now,
		Notes:         reason,
		AddedBy:       caller.UserID,
		PaymentStatus: entity.PaymentPaid,
		PaidAt:        &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	inMov, err := entity.NewStockMovement(product.MerchantID, product.ID, to.ID, caller.UserID, entity.MovementTransferIn, in.Quantity, now)
	if err != nil {
		return nil, err
	}
	inMov.ID = uuid.New().String()
	inMov.Reason = reason
	inMov.ReferenceID = transferID
	inMov.ReferenceType = entity.ReferenceTransfer

	keys := repository.SortStockKeys([]repository.StockKey{
		{ProductID: product.ID, LocationID: from.ID},
		{ProductID: product.ID, LocationID: to.ID},
	})
	err = uc.deps.TxRunner.Run(ctx, func(repos LedgerRepos) error {
		if err := repos.Stock.Lock(ctx, keys...); err != nil {
			return err
		}
		if _, err := uc.deps.ensureAvailable(ctx, repos.Stock, product, from.ID, in.Quantity, true); err != nil {
			return err
		}
		if err := repos.Movements.Create(ctx, out); err != nil {
			return err
		}
		if err := repos.Receipts.Create(ctx, entry); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, inMov)
	})
	if err != nil {
		return nil, err
	}

	sourceStock := uc.deps.afterCommit(ctx, product, from.ID, &AuditEvent{
		MerchantID: product.MerchantID,
		UserID:     caller.UserID,
		Action:     AuditStockTransfer,
		EntityType: "transfer",
		EntityID:   transferID,
		Details: map[string]any{
			"product_id":       product.ID,
			"from_location_id": from.ID,
			"to_location_id":   to.ID,
			"quantity":         in.Quantity,
		},
		At: now,
	})
	destStock := int64(0)
	if tally, err := uc.deps.Stock.Tally(ctx, product.MerchantID, product.ID, to.ID); err == nil {
		destStock = tally.Stock()
	} else {
		uc.deps.Log.Error().Err(err).Str("product_id", product.ID).Msg("recalcular stock destino")
	}

	return &TransferResult{
		OutMovement:      out,
		InMovement:       inMov,
		DestinationEntry: entry,
		SourceStock:      sourceStock,
		DestinationStock: destStock,
	}, nil
}
