// Package seed supplies the built-in default records a collection serves
// when neither the remote store nor the local cache has ever held data. The
// provider is injected into the data access layer so tests can run against a
// deterministic empty state.
package seed

import (
	"time"

	"github.com/GFattehallah/cmhe-manager/internal/domain"
	"github.com/GFattehallah/cmhe-manager/internal/domain/appointment"
	"github.com/GFattehallah/cmhe-manager/internal/domain/consultation"
	"github.com/GFattehallah/cmhe-manager/internal/domain/expense"
	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
	"github.com/GFattehallah/cmhe-manager/internal/domain/patient"
)

type Set struct {
	Patients      func() []patient.Patient
	Appointments  func() []appointment.Appointment
	Consultations func() []consultation.Consultation
	Invoices      func() []invoice.Invoice
	Expenses      func() []expense.Expense
	Users         func() []domain.User
}

// Empty returns a provider set yielding zero records everywhere.
func Empty() Set {
	return Set{
		Patients:      func() []patient.Patient { return []patient.Patient{} },
		Appointments:  func() []appointment.Appointment { return []appointment.Appointment{} },
		Consultations: func() []consultation.Consultation { return []consultation.Consultation{} },
		Invoices:      func() []invoice.Invoice { return []invoice.Invoice{} },
		Expenses:      func() []expense.Expense { return []expense.Expense{} },
		Users:         func() []domain.User { return []domain.User{} },
	}
}

// Default is Empty plus the bootstrap admin account. The account ships
// without a password, so the first login accepts any credential; the admin
// is expected to set one immediately.
func Default() Set {
	s := Empty()
	s.Users = func() []domain.User {
		return []domain.User{
			{
				ID:        "seed-admin",
				Name:      "Administrateur",
				Email:     "admin@cabinet.local",
				Role:      domain.RoleAdmin,
				Initials:  "AD",
				CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		}
	}
	return s
}
