// Package store is the data access layer. Every collection reads remote
// first and mirrors successes into the local cache; writes land in the cache
// first and reach the remote store best-effort. The cache is the durable
// fallback, so only cache failures ever surface to callers.
package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/GFattehallah/cmhe-manager/internal/domain"
	"github.com/GFattehallah/cmhe-manager/internal/domain/appointment"
	"github.com/GFattehallah/cmhe-manager/internal/domain/consultation"
	"github.com/GFattehallah/cmhe-manager/internal/domain/expense"
	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
	"github.com/GFattehallah/cmhe-manager/internal/domain/patient"
	"github.com/GFattehallah/cmhe-manager/internal/remote"
	"github.com/GFattehallah/cmhe-manager/internal/seed"
	"github.com/GFattehallah/cmhe-manager/pkg/metrics"
)

// Entity is anything with an opaque id unique within its collection.
type Entity interface {
	EntityID() string
}

// Remote is the hosted-backend capability. A nil Remote means the system
// runs local-only.
type Remote interface {
	SelectAll(ctx context.Context, table, order string) ([]json.RawMessage, *remote.Error)
	Upsert(ctx context.Context, table string, record any) *remote.Error
	Delete(ctx context.Context, table, id string) *remote.Error
	DeleteBulk(ctx context.Context, table string, ids []string) *remote.Error
}

// Cache is the durable key→JSON-document capability.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// Collection table names double as cache keys and remote table names.
const (
	TablePatients      = "patients"
	TableAppointments  = "appointments"
	TableConsultations = "consultations"
	TableInvoices      = "invoices"
	TableExpenses      = "expenses"
	TableUsers         = "users"
)

// Store bundles the per-entity collections behind one constructor.
type Store struct {
	Patients      *Collection[patient.Patient]
	Appointments  *Collection[appointment.Appointment]
	Consultations *Collection[consultation.Consultation]
	Invoices      *Collection[invoice.Invoice]
	Expenses      *Collection[expense.Expense]
	Users         *Collection[domain.User]
}

func New(rc Remote, cache Cache, seeds seed.Set, log *zap.Logger, m *metrics.Collector) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		Patients:      NewCollection(TablePatients, "last_name.asc", rc, cache, seeds.Patients, log, m),
		Appointments:  NewCollection(TableAppointments, "starts_at.asc", rc, cache, seeds.Appointments, log, m),
		Consultations: NewCollection(TableConsultations, "date.desc", rc, cache, seeds.Consultations, log, m),
		Invoices:      NewCollection(TableInvoices, "date.desc", rc, cache, seeds.Invoices, log, m),
		Expenses:      NewCollection(TableExpenses, "date.desc", rc, cache, seeds.Expenses, log, m),
		Users:         NewCollection(TableUsers, "name.asc", rc, cache, seeds.Users, log, m),
	}
}
