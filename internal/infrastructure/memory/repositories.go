package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

type productRepo struct{ s *Store }

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r productRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		p, ok := r.s.products[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r productRepo) ListActiveByMerchant(_ context.Context, merchantID string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if p.MerchantID == merchantID && p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type locationRepo struct{ s *Store }

func (r locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r locationRepo) GetDefault(_ context.Context, merchantID string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.locations {
		if l.MerchantID == merchantID && l.IsDefault {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

type receiptRepo struct{ v *view }

func (r receiptRepo) Create(_ context.Context, entry *entity.ReceiptEntry) error {
	if err := r.v.s.checkFault("receipts.create"); err != nil {
		return err
	}
	if entry.Quantity <= 0 {
		return fmt.Errorf("entrada con cantidad %d: %w", entry.Quantity, domain.ErrInvalidQuantity)
	}
	cp := *entry
	if r.v.p != nil {
		r.v.p.receipts = append(r.v.p.receipts, &cp)
		return nil
	}
	r.v.s.mu.Lock()
	defer r.v.s.mu.Unlock()
	r.v.s.receipts = append(r.v.s.receipts, &cp)
	return nil
}

func (r receiptRepo) GetByID(_ context.Context, id string) (*entity.ReceiptEntry, error) {
	for _, e := range r.v.receiptsFor("") {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

// GetForUpdate: el mutex de transacción ya serializa, no hay bloqueo adicional por fila.
func (r receiptRepo) GetForUpdate(ctx context.Context, id string) (*entity.ReceiptEntry, error) {
	return r.GetByID(ctx, id)
}

func (r receiptRepo) UpdatePayment(_ context.Context, entry *entity.ReceiptEntry) error {
	if err := r.v.s.checkFault("receipts.update_payment"); err != nil {
		return err
	}
	cp := *entry
	if r.v.p != nil {
		r.v.p.payments[entry.ID] = &cp
		return nil
	}
	r.v.s.mu.Lock()
	defer r.v.s.mu.Unlock()
	for _, e := range r.v.s.receipts {
		if e.ID == entry.ID {
			setPayment(e, &cp)
			return nil
		}
	}
	return domain.ErrEntryNotFound
}

func (r receiptRepo) List(_ context.Context, f repository.ReceiptFilter) ([]*entity.ReceiptEntry, error) {
	all := r.v.receiptsFor(f.MerchantID)
	out := make([]*entity.ReceiptEntry, 0, len(all))
	for _, e := range all {
		if f.ProductID != "" && e.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && e.LocationID != f.LocationID {
			continue
		}
		if !containsStatus(f.Statuses, e.PaymentStatus) {
			continue
		}
		if f.ExpiringBefore != nil && (e.ExpirationDate == nil || e.ExpirationDate.After(*f.ExpiringBefore)) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReceivedDate.After(out[j].ReceivedDate) })
	return page(out, f.Limit, f.Offset), nil
}

type movementRepo struct{ v *view }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if err := r.v.s.checkFault("movements.create"); err != nil {
		return err
	}
	if !m.Type.ValidSign(m.Quantity) {
		return fmt.Errorf("movimiento %s con cantidad %d: %w", m.Type, m.Quantity, domain.ErrInvalidQuantity)
	}
	cp := *m
	if r.v.p != nil {
		r.v.p.movements = append(r.v.p.movements, &cp)
		return nil
	}
	r.v.s.mu.Lock()
	defer r.v.s.mu.Unlock()
	r.v.s.movements = append(r.v.s.movements, &cp)
	return nil
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	all := r.v.movementsFor(f.MerchantID)
	out := make([]*entity.StockMovement, 0, len(all))
	for _, m := range all {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && m.LocationID != f.LocationID {
			continue
		}
		if !containsType(f.Types, m.Type) {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, m)
	}
	// más recientes primero; a igual fecha, el último insertado primero
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sortMovementsDesc(out)
	return page(out, f.Limit, f.Offset), nil
}

type stockRepo struct{ v *view }

func (r stockRepo) Tally(_ context.Context, merchantID, productID, locationID string) (ledger.Tally, error) {
	return ledger.Compute(productID, locationID, r.v.receiptsFor(merchantID), r.v.movementsFor(merchantID)), nil
}

func (r stockRepo) TallyBatch(_ context.Context, merchantID string, productIDs []string, locationID string) (map[string]ledger.Tally, error) {
	receipts := r.v.receiptsFor(merchantID)
	movements := r.v.movementsFor(merchantID)
	out := make(map[string]ledger.Tally, len(productIDs))
	for _, id := range productIDs {
		out[id] = ledger.Compute(id, locationID, receipts, movements)
	}
	return out, nil
}

func (r stockRepo) Lock(context.Context, ...repository.StockKey) error { return nil }

type saleRepo struct{ v *view }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if err := r.v.s.checkFault("sales.create"); err != nil {
		return err
	}
	cp := *sale
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	if r.v.p != nil {
		r.v.p.sales = append(r.v.p.sales, &cp)
		return nil
	}
	r.v.s.mu.Lock()
	defer r.v.s.mu.Unlock()
	r.v.s.sales[cp.ID] = &cp
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	if r.v.p != nil {
		for _, s := range r.v.p.sales {
			if s.ID == id {
				cp := *s
				return &cp, nil
			}
		}
	}
	r.v.s.mu.RLock()
	defer r.v.s.mu.RUnlock()
	s, ok := r.v.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}
