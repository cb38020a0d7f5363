package consultation

import (
	"strings"
	"time"

	"github.com/GFattehallah/cmhe-manager/internal/domain/patient"
)

// ManualAppointmentID marks consultations entered directly, without going
// through the appointment book.
const ManualAppointmentID = "manual"

type Consultation struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	AppointmentID string    `json:"appointment_id"`
	Date          time.Time `json:"date"`

	Symptoms  string `json:"symptoms,omitempty"`
	Diagnosis string `json:"diagnosis"`
	Notes     string `json:"notes,omitempty"`

	// Prescriptions keeps the ordered free-text items handed to the patient.
	Prescriptions []string `json:"prescriptions"`

	// Vitals is an optional snapshot taken at visit time; the patient record
	// keeps the latest-known copy separately.
	Vitals *patient.Vitals `json:"vitals,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (c Consultation) EntityID() string { return c.ID }

func (c *Consultation) Normalize() {
	c.Diagnosis = strings.TrimSpace(c.Diagnosis)
	if c.AppointmentID == "" {
		c.AppointmentID = ManualAppointmentID
	}
	if c.Prescriptions == nil {
		c.Prescriptions = []string{}
	}
}

// Validate enforces the clinical-workflow contract. The store itself accepts
// any record (backup replay must stay verbatim); only the workflow path
// requires a diagnosis.
func (c *Consultation) Validate() error {
	if c.PatientID == "" {
		return ErrPatientRequired
	}
	if strings.TrimSpace(c.Diagnosis) == "" {
		return ErrDiagnosisRequired
	}
	return nil
}
