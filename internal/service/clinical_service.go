package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GFattehallah/cmhe-manager/internal/domain/appointment"
	"github.com/GFattehallah/cmhe-manager/internal/domain/consultation"
	"github.com/GFattehallah/cmhe-manager/internal/store"
)

// ClinicalService covers the appointment book and the consultation log.
type ClinicalService struct {
	appointments  *store.Collection[appointment.Appointment]
	consultations *store.Collection[consultation.Consultation]
	log           *zap.Logger
}

func NewClinicalService(appointments *store.Collection[appointment.Appointment], consultations *store.Collection[consultation.Consultation], log *zap.Logger) *ClinicalService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ClinicalService{appointments: appointments, consultations: consultations, log: log}
}

func (s *ClinicalService) SaveAppointment(ctx context.Context, a appointment.Appointment) (appointment.Appointment, error) {
	if a.Status == "" {
		a.Status = appointment.StatusScheduled
	}
	if err := a.Validate(); err != nil {
		return appointment.Appointment{}, &ValidationError{Fields: []string{err.Error()}}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
		a.CreatedAt = time.Now()
	}

	if err := s.appointments.Save(ctx, a); err != nil {
		return appointment.Appointment{}, err
	}
	return a, nil
}

// ListAppointments returns the book in chronological order.
func (s *ClinicalService) ListAppointments(ctx context.Context) []appointment.Appointment {
	appointments := s.appointments.List(ctx)
	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].StartsAt.Before(appointments[j].StartsAt)
	})
	return appointments
}

func (s *ClinicalService) DeleteAppointment(ctx context.Context, id string) error {
	return s.appointments.Delete(ctx, id)
}

// SaveConsultation enforces the clinical-workflow invariant: a diagnosis is
// required here, at the caller boundary, not in the store.
func (s *ClinicalService) SaveConsultation(ctx context.Context, c consultation.Consultation) (consultation.Consultation, error) {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return consultation.Consultation{}, &ValidationError{Fields: []string{err.Error()}}
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
		c.CreatedAt = time.Now()
	}
	if c.Date.IsZero() {
		c.Date = time.Now()
	}

	if err := s.consultations.Save(ctx, c); err != nil {
		return consultation.Consultation{}, err
	}

	s.log.Info("consultation recorded",
		zap.String("consultation_id", c.ID),
		zap.String("patient_id", c.PatientID),
	)
	return c, nil
}

// ListConsultations returns the log newest first.
func (s *ClinicalService) ListConsultations(ctx context.Context) []consultation.Consultation {
	consultations := s.consultations.List(ctx)
	sort.SliceStable(consultations, func(i, j int) bool {
		return consultations[i].Date.After(consultations[j].Date)
	})
	return consultations
}

func (s *ClinicalService) DeleteConsultation(ctx context.Context, id string) error {
	return s.consultations.Delete(ctx, id)
}
