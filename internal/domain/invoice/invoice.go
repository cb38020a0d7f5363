package invoice

import "time"

// WalkInPatientID is the reserved patient reference for miscellaneous revenue
// entries that belong to no registered patient.
const WalkInPatientID = "walk-in"

type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
)

func (s Status) IsValid() bool {
	return s == StatusPaid || s == StatusPending
}

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCheck    PaymentMethod = "check"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCheck, MethodCard, MethodTransfer:
		return true
	}
	return false
}

type LineItem struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Invoice stores Amount redundantly alongside Items. The store accepts the
// caller-provided amount verbatim; the billing service recomputes it from
// the items whenever any are present, so only the line-item flow upholds
// amount == sum(items).
type Invoice struct {
	ID        string        `json:"id"`
	PatientID string        `json:"patient_id"`
	Date      time.Time     `json:"date"`
	Amount    float64       `json:"amount"`
	Status    Status        `json:"status"`
	Method    PaymentMethod `json:"method"`
	Items     []LineItem    `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
}

func (i Invoice) EntityID() string { return i.ID }

func (i Invoice) ItemsTotal() float64 {
	var total float64
	for _, it := range i.Items {
		total += it.Price
	}
	return total
}

func (i *Invoice) Normalize() {
	if i.PatientID == "" {
		i.PatientID = WalkInPatientID
	}
	if i.Status == "" {
		i.Status = StatusPending
	}
	if i.Method == "" {
		i.Method = MethodCash
	}
	if i.Items == nil {
		i.Items = []LineItem{}
	}
}

func (i *Invoice) Validate() error {
	if i.Amount <= 0 && len(i.Items) == 0 {
		return ErrAmountRequired
	}
	if !i.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !i.Method.IsValid() {
		return ErrInvalidMethod
	}
	return nil
}
