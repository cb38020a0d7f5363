package expense

import (
	"time"

	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
)

type Category string

const (
	CategoryRent      Category = "rent"
	CategorySalary    Category = "salary"
	CategorySupplies  Category = "supplies"
	CategoryEquipment Category = "equipment"
	CategoryUtilities Category = "utilities"
	CategoryOther     Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryRent, CategorySalary, CategorySupplies, CategoryEquipment,
		CategoryUtilities, CategoryOther:
		return true
	}
	return false
}

type Expense struct {
	ID          string                `json:"id"`
	Date        time.Time             `json:"date"`
	Category    Category              `json:"category"`
	Amount      float64               `json:"amount"`
	Description string                `json:"description,omitempty"`
	Method      invoice.PaymentMethod `json:"method"`
	CreatedAt   time.Time             `json:"created_at"`
}

func (e Expense) EntityID() string { return e.ID }

func (e *Expense) Normalize() {
	if e.Category == "" {
		e.Category = CategoryOther
	}
	if e.Method == "" {
		e.Method = invoice.MethodCash
	}
}

func (e *Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !e.Method.IsValid() {
		return invoice.ErrInvalidMethod
	}
	return nil
}
