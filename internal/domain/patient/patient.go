package patient

import (
	"strings"
	"time"
)

type InsuranceType string

const (
	InsuranceNone    InsuranceType = "none"
	InsuranceCNOPS   InsuranceType = "cnops"
	InsuranceCNSS    InsuranceType = "cnss"
	InsurancePrivate InsuranceType = "private"
)

func (i InsuranceType) IsValid() bool {
	switch i {
	case InsuranceNone, InsuranceCNOPS, InsuranceCNSS, InsurancePrivate:
		return true
	}
	return false
}

// Vitals is the latest-known set of vital-sign readings, kept as the
// free-text strings the clinical staff typed them in as.
type Vitals struct {
	Weight           string `json:"weight,omitempty"`
	Height           string `json:"height,omitempty"`
	Temperature      string `json:"temperature,omitempty"`
	BloodPressure    string `json:"blood_pressure,omitempty"`
	HeartRate        string `json:"heart_rate,omitempty"`
	RespiratoryRate  string `json:"respiratory_rate,omitempty"`
	OxygenSaturation string `json:"oxygen_saturation,omitempty"`
	UrineStrip       string `json:"urine_strip,omitempty"`
}

type Patient struct {
	ID         string    `json:"id"`
	LastName   string    `json:"last_name"`
	FirstName  string    `json:"first_name"`
	BirthDate  time.Time `json:"birth_date"`
	NationalID string    `json:"national_id,omitempty"` // CIN

	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`

	Insurance InsuranceType `json:"insurance"`

	MedicalHistory []string `json:"medical_history"`
	Allergies      []string `json:"allergies"`

	Vitals Vitals `json:"vitals"`

	CreatedAt time.Time `json:"created_at"`
}

func (p Patient) EntityID() string { return p.ID }

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Normalize trims the identity fields and guarantees the list fields are
// non-nil, so every persisted record serializes with arrays, never null.
func (p *Patient) Normalize() {
	p.LastName = strings.TrimSpace(p.LastName)
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.NationalID = strings.TrimSpace(p.NationalID)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Insurance == "" {
		p.Insurance = InsuranceNone
	}
	if p.MedicalHistory == nil {
		p.MedicalHistory = []string{}
	}
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
}

func (p *Patient) Validate() error {
	if strings.TrimSpace(p.LastName) == "" {
		return ErrLastNameRequired
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return ErrFirstNameRequired
	}
	if !p.Insurance.IsValid() {
		return ErrInvalidInsurance
	}
	return nil
}

func (p Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.BirthDate.Year()
	if now.Month() < p.BirthDate.Month() ||
		(now.Month() == p.BirthDate.Month() && now.Day() < p.BirthDate.Day()) {
		years--
	}
	return years
}
