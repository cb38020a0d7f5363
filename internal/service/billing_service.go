package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GFattehallah/cmhe-manager/internal/domain/expense"
	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
	"github.com/GFattehallah/cmhe-manager/internal/store"
)

type BillingService struct {
	invoices *store.Collection[invoice.Invoice]
	expenses *store.Collection[expense.Expense]
	log      *zap.Logger
}

func NewBillingService(invoices *store.Collection[invoice.Invoice], expenses *store.Collection[expense.Expense], log *zap.Logger) *BillingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BillingService{invoices: invoices, expenses: expenses, log: log}
}

// SaveInvoice upserts an invoice. When line items are present the stored
// amount is recomputed from them, so the line-item flow always satisfies
// amount == sum(items); amounts on item-less records (imports, manual
// entries) are taken verbatim.
func (s *BillingService) SaveInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	inv.Normalize()
	if len(inv.Items) > 0 {
		inv.Amount = inv.ItemsTotal()
	}
	if err := inv.Validate(); err != nil {
		return invoice.Invoice{}, &ValidationError{Fields: []string{err.Error()}}
	}

	if inv.ID == "" {
		inv.ID = uuid.NewString()
		inv.CreatedAt = time.Now()
	}
	if inv.Date.IsZero() {
		inv.Date = time.Now()
	}

	if err := s.invoices.Save(ctx, inv); err != nil {
		return invoice.Invoice{}, err
	}
	return inv, nil
}

// ListInvoices returns invoices newest first.
func (s *BillingService) ListInvoices(ctx context.Context) []invoice.Invoice {
	invoices := s.invoices.List(ctx)
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].Date.After(invoices[j].Date)
	})
	return invoices
}

func (s *BillingService) DeleteInvoice(ctx context.Context, id string) error {
	return s.invoices.Delete(ctx, id)
}

func (s *BillingService) SaveExpense(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	e.Normalize()
	if err := e.Validate(); err != nil {
		return expense.Expense{}, &ValidationError{Fields: []string{err.Error()}}
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
		e.CreatedAt = time.Now()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}

	if err := s.expenses.Save(ctx, e); err != nil {
		return expense.Expense{}, err
	}
	return e, nil
}

func (s *BillingService) ListExpenses(ctx context.Context) []expense.Expense {
	expenses := s.expenses.List(ctx)
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
	return expenses
}

func (s *BillingService) DeleteExpense(ctx context.Context, id string) error {
	return s.expenses.Delete(ctx, id)
}

// MonthlySummary aggregates paid revenue and expenses for a given month.
type MonthlySummary struct {
	Revenue  float64 `json:"revenue"`
	Pending  float64 `json:"pending"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

func (s *BillingService) Summary(ctx context.Context, year int, month time.Month) MonthlySummary {
	var sum MonthlySummary
	for _, inv := range s.invoices.List(ctx) {
		if inv.Date.Year() != year || inv.Date.Month() != month {
			continue
		}
		if inv.Status == invoice.StatusPaid {
			sum.Revenue += inv.Amount
		} else {
			sum.Pending += inv.Amount
		}
	}
	for _, e := range s.expenses.List(ctx) {
		if e.Date.Year() == year && e.Date.Month() == month {
			sum.Expenses += e.Amount
		}
	}
	sum.Net = sum.Revenue - sum.Expenses
	return sum
}
