// Package memory implementa el ledger en memoria para pruebas y ejecución local sin PostgreSQL.
// Las transacciones se serializan con un mutex y las escrituras se aplican solo en el commit.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Store ledger en memoria. Implementa inventory.TxRunner.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	products  map[string]*entity.Product
	locations map[string]*entity.Location
	receipts  []*entity.ReceiptEntry
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale

	fault func(op string) error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*entity.Product),
		locations: make(map[string]*entity.Location),
		sales:     make(map[string]*entity.Sale),
	}
}

// PutProduct agrega o reemplaza un producto del catálogo.
func (s *Store) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
}

// PutLocation agrega o reemplaza una ubicación.
func (s *Store) PutLocation(l *entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.locations[l.ID] = &cp
}

// SetFault instala un hook que puede hacer fallar escrituras ("receipts.create",
// "movements.create", "sales.create", "receipts.update_payment").
func (s *Store) SetFault(fn func(op string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

func (s *Store) checkFault(op string) error {
	s.mu.RLock()
	fn := s.fault
	s.mu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn(op)
}

// Products repositorio de catálogo.
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }

// Locations repositorio de ubicaciones.
func (s *Store) Locations() repository.LocationRepository { return locationRepo{s} }

// Receipts repositorio de entradas fuera de transacción (autocommit).
func (s *Store) Receipts() repository.ReceiptEntryRepository { return receiptRepo{&view{s: s}} }

// Movements repositorio de movimientos fuera de transacción (autocommit).
func (s *Store) Movements() repository.StockMovementRepository { return movementRepo{&view{s: s}} }

// Stock lecturas agregadas fuera de transacción.
func (s *Store) Stock() repository.StockRepository { return stockRepo{&view{s: s}} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() repository.SaleRepository { return saleRepo{&view{s: s}} }

// Run ejecuta fn con repositorios cuyas escrituras quedan pendientes hasta que fn retorna nil.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.LedgerRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	v := &view{s: s, p: &pending{payments: make(map[string]*entity.ReceiptEntry)}}
	if err := fn(v.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(v.p)
	return nil
}

// MovementsSnapshot copia de todos los movimientos confirmados, en orden de inserción.
func (s *Store) MovementsSnapshot() []entity.StockMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		out = append(out, *m)
	}
	return out
}

// ReceiptsSnapshot copia de todas las entradas confirmadas, en orden de inserción.
func (s *Store) ReceiptsSnapshot() []entity.ReceiptEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.ReceiptEntry, 0, len(s.receipts))
	for _, r := range s.receipts {
		out = append(out, *r)
	}
	return out
}

// SaleCount cantidad de ventas confirmadas.
func (s *Store) SaleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sales)
}

// pending escrituras de una transacción abierta.
type pending struct {
	receipts  []*entity.ReceiptEntry
	movements []*entity.StockMovement
	sales     []*entity.Sale
	payments  map[string]*entity.ReceiptEntry
}

// apply requiere s.mu tomado en escritura.
func (s *Store) apply(p *pending) {
	for _, r := range s.receipts {
		if upd, ok := p.payments[r.ID]; ok {
			setPayment(r, upd)
		}
	}
	s.receipts = append(s.receipts, p.receipts...)
	for _, r := range p.receipts {
		if upd, ok := p.payments[r.ID]; ok {
			setPayment(r, upd)
		}
	}
	s.movements = append(s.movements, p.movements...)
	for _, sale := range p.sales {
		s.sales[sale.ID] = sale
	}
}

func setPayment(dst, src *entity.ReceiptEntry) {
	dst.PaymentStatus = src.PaymentStatus
	dst.PaidAmount = src.PaidAmount
	dst.PaidAt = src.PaidAt
	dst.UpdatedAt = src.UpdatedAt
}

// view lectura de lo confirmado más lo pendiente de la tx (p nil = sin tx).
type view struct {
	s *Store
	p *pending
}

func (v *view) repos() inventory.LedgerRepos {
	return inventory.LedgerRepos{
		Receipts:  receiptRepo{v},
		Movements: movementRepo{v},
		Stock:     stockRepo{v},
		Sales:     saleRepo{v},
	}
}

// receiptsFor copia las entradas de la empresa visibles para la vista.
func (v *view) receiptsFor(merchantID string) []*entity.ReceiptEntry {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := make([]*entity.ReceiptEntry, 0, len(v.s.receipts))
	add := func(r *entity.ReceiptEntry) {
		if merchantID != "" && r.MerchantID != merchantID {
			return
		}
		cp := *r
		if v.p != nil {
			if upd, ok := v.p.payments[r.ID]; ok {
				setPayment(&cp, upd)
			}
		}
		out = append(out, &cp)
	}
	for _, r := range v.s.receipts {
		add(r)
	}
	if v.p != nil {
		for _, r := range v.p.receipts {
			add(r)
		}
	}
	return out
}

func (v *view) movementsFor(merchantID string) []*entity.StockMovement {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := make([]*entity.StockMovement, 0, len(v.s.movements))
	add := func(m *entity.StockMovement) {
		if merchantID != "" && m.MerchantID != merchantID {
			return
		}
		cp := *m
		out = append(out, &cp)
	}
	for _, m := range v.s.movements {
		add(m)
	}
	if v.p != nil {
		for _, m := range v.p.movements {
			add(m)
		}
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func containsType(types []entity.MovementType, t entity.MovementType) bool {
	if len(types) == 0 {
		return true
	}
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

func containsStatus(statuses []entity.PaymentStatus, st entity.PaymentStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, x := range statuses {
		if x == st {
			return true
		}
	}
	return false
}

func sortMovementsDesc(ms []*entity.StockMovement) {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].CreatedAt.After(ms[j].CreatedAt) })
}
