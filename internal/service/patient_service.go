package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GFattehallah/cmhe-manager/internal/domain/patient"
	"github.com/GFattehallah/cmhe-manager/internal/store"
)

type PatientService struct {
	patients *store.Collection[patient.Patient]
	log      *zap.Logger
}

func NewPatientService(patients *store.Collection[patient.Patient], log *zap.Logger) *PatientService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PatientService{patients: patients, log: log}
}

// SavePatient validates, normalizes and upserts. New records (empty id) get
// a fresh UUID and creation timestamp.
func (s *PatientService) SavePatient(ctx context.Context, p patient.Patient) (patient.Patient, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return patient.Patient{}, &ValidationError{Fields: []string{err.Error()}}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = time.Now()
	}

	if err := s.patients.Save(ctx, p); err != nil {
		return patient.Patient{}, err
	}

	s.log.Info("patient saved", zap.String("patient_id", p.ID))
	return p, nil
}

// ListPatients returns the collection in alphabetical family-name order.
// The store's local fallback serves records in stored order, so the
// canonical sort is applied here.
func (s *PatientService) ListPatients(ctx context.Context) []patient.Patient {
	patients := s.patients.List(ctx)
	sort.SliceStable(patients, func(i, j int) bool {
		return strings.ToLower(patients[i].LastName) < strings.ToLower(patients[j].LastName)
	})
	return patients
}

func (s *PatientService) DeletePatient(ctx context.Context, id string) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("patient deleted", zap.String("patient_id", id))
	return nil
}

func (s *PatientService) DeletePatients(ctx context.Context, ids []string) error {
	return s.patients.DeleteBulk(ctx, ids)
}
