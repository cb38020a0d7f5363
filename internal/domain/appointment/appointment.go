package appointment

import "time"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patient_id"`
	StartsAt     time.Time `json:"starts_at"`
	DurationMins int       `json:"duration_mins"`
	Reason       string    `json:"reason,omitempty"`
	Status       Status    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a Appointment) EntityID() string { return a.ID }

func (a Appointment) EndsAt() time.Time {
	return a.StartsAt.Add(time.Duration(a.DurationMins) * time.Minute)
}

func (a *Appointment) Validate() error {
	if a.PatientID == "" {
		return ErrPatientRequired
	}
	if a.DurationMins <= 0 {
		return ErrInvalidDuration
	}
	if !a.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
