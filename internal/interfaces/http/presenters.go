package http

import (
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func toReceiptDTO(e *entity.ReceiptEntry) dto.ReceiptEntryDTO {
	return dto.ReceiptEntryDTO{
		ID:              e.ID,
		ProductID:       e.ProductID,
		LocationID:      e.LocationID,
		Quantity:        e.Quantity,
		BatchNumber:     e.BatchNumber,
		ExpirationDate:  e.ExpirationDate,
		ReceivedDate:    e.ReceivedDate,
		Notes:           e.Notes,
		AddedBy:         e.AddedBy,
		PaymentStatus:   string(e.PaymentStatus),
		SupplierName:    e.SupplierName,
		SupplierContact: e.SupplierContact,
		TotalCost:       e.TotalCost,
		PaidAmount:      e.PaidAmount,
		PaymentDueDate:  e.PaymentDueDate,
		PaidAt:          e.PaidAt,
	}
}

func toMovementDTO(m *entity.StockMovement) dto.StockMovementDTO {
	return dto.StockMovementDTO{
		ID:            m.ID,
		ProductID:     m.ProductID,
		LocationID:    m.LocationID,
		UserID:        m.UserID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		Reason:        m.Reason,
		ReferenceID:   m.ReferenceID,
		ReferenceType: m.ReferenceType,
		CreatedAt:     m.CreatedAt,
	}
}

func toSaleResponse(res *inventory.CreateSaleResult) dto.SaleResponse {
	s := res.Sale
	items := make([]dto.SaleItemDTO, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemDTO{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			ListPrice: it.ListPrice,
			CostPrice: it.CostPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return dto.SaleResponse{
		ID:              s.ID,
		LocationID:      s.LocationID,
		CustomerName:    s.CustomerName,
		CustomerPhone:   s.CustomerPhone,
		Notes:           s.Notes,
		SaleDate:        s.SaleDate,
		TotalAmount:     s.TotalAmount,
		CostOfGoodsSold: s.CostOfGoodsSold,
		NetIncome:       s.NetIncome,
		ProfitMargin:    s.ProfitMargin,
		PlatformFee:     s.PlatformFee,
		Items:           items,
		StockAfter:      res.StockAfter,
	}
}

func toReplenishmentDTO(s inventory.ReplenishmentSuggestion) dto.ReplenishmentSuggestionDTO {
	return dto.ReplenishmentSuggestionDTO{
		ProductID:          s.ProductID,
		SKU:                s.SKU,
		ProductName:        s.ProductName,
		CurrentStock:       s.CurrentStock,
		Threshold:          s.Threshold,
		IdealStock:         s.IdealStock,
		SuggestedOrderQty:  s.SuggestedOrderQty,
		UnitCost:           s.UnitCost,
		EstimatedOrderCost: s.EstimatedOrderCost,
		Priority:           s.Priority,
	}
}

func toDebtSummaryResponse(s *ledger.DebtSummary) dto.DebtSummaryResponse {
	out := dto.DebtSummaryResponse{
		TotalDebt:         s.TotalDebt,
		TotalCredit:       s.TotalCredit,
		TotalPartial:      s.TotalPartial,
		UnpaidItems:       make([]dto.UnpaidItemDTO, 0, len(s.UnpaidItems)),
		SupplierBreakdown: make([]dto.SupplierDebtDTO, 0, len(s.SupplierBreakdown)),
	}
	for _, it := range s.UnpaidItems {
		out.UnpaidItems = append(out.UnpaidItems, dto.UnpaidItemDTO{
			EntryID:         it.EntryID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			LocationID:      it.LocationID,
			Quantity:        it.Quantity,
			SupplierName:    it.SupplierName,
			SupplierContact: it.SupplierContact,
			PaymentStatus:   string(it.PaymentStatus),
			TotalCost:       it.TotalCost,
			PaidAmount:      it.PaidAmount,
			Outstanding:     it.Outstanding,
			ReceivedDate:    it.ReceivedDate,
			PaymentDueDate:  it.PaymentDueDate,
			Overdue:         it.Overdue,
		})
	}
	for _, sd := range s.SupplierBreakdown {
		out.SupplierBreakdown = append(out.SupplierBreakdown, dto.SupplierDebtDTO{
			SupplierName: sd.SupplierName,
			TotalOwed:    sd.TotalOwed,
			EntryCount:   sd.EntryCount,
		})
	}
	return out
}
