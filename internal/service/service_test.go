package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/GFattehallah/cmhe-manager/internal/config"
	"github.com/GFattehallah/cmhe-manager/internal/domain"
	"github.com/GFattehallah/cmhe-manager/internal/domain/consultation"
	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
	"github.com/GFattehallah/cmhe-manager/internal/domain/patient"
	"github.com/GFattehallah/cmhe-manager/internal/seed"
	"github.com/GFattehallah/cmhe-manager/internal/store"
	"github.com/GFattehallah/cmhe-manager/pkg/auth"
)

type memCache struct {
	data map[string][]byte
}

func (m *memCache) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(key string, value []byte) error {
	m.data[key] = value
	return nil
}

func newTestStore() *store.Store {
	return store.New(nil, &memCache{data: map[string][]byte{}}, seed.Empty(), nil, nil)
}

func testJWT() *auth.JWTManager {
	return auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-test-secret-test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "test",
	})
}

func TestLoginWithPassword(t *testing.T) {
	st := newTestStore()
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	u := domain.User{ID: "u1", Name: "Dr Tazi", Email: "Tazi@Cabinet.Local", PasswordHash: string(hash), Role: domain.RoleDoctor}
	if err := st.Users.Save(context.Background(), u); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	svc := NewAuthService(st.Users, testJWT(), nil)

	// Case-insensitive email match.
	user, pair, err := svc.Login(context.Background(), "  tazi@cabinet.local ", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != "u1" || pair.AccessToken == "" || pair.TokenType != "Bearer" {
		t.Errorf("user=%+v pair=%+v", user, pair)
	}

	if _, _, err := svc.Login(context.Background(), "tazi@cabinet.local", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@cabinet.local", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", err)
	}
}

func TestLoginWithoutStoredPassword(t *testing.T) {
	st := newTestStore()
	u := domain.User{ID: "u1", Name: "Admin", Email: "admin@cabinet.local", Role: domain.RoleAdmin}
	if err := st.Users.Save(context.Background(), u); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	svc := NewAuthService(st.Users, testJWT(), nil)
	if _, _, err := svc.Login(context.Background(), "admin@cabinet.local", "anything"); err != nil {
		t.Fatalf("passwordless account must accept any credential: %v", err)
	}
}

func TestSaveUserHashesPassword(t *testing.T) {
	st := newTestStore()
	svc := NewAuthService(st.Users, testJWT(), nil)

	u, err := svc.SaveUser(context.Background(), domain.User{
		ID: "u1", Name: "Sara Bidaoui", Email: "SARA@cabinet.local", Role: domain.RoleSecretary,
		Permissions: []domain.Permission{domain.PermPatients},
	}, "pass123")
	if err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if u.Email != "sara@cabinet.local" {
		t.Errorf("email not canonicalized: %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "pass123" {
		t.Errorf("password must be stored hashed, got %q", u.PasswordHash)
	}
	if u.Initials != "SB" {
		t.Errorf("initials = %q", u.Initials)
	}

	// Re-save without a password keeps the existing hash.
	u2, err := svc.SaveUser(context.Background(), domain.User{
		ID: "u1", Name: "Sara Bidaoui", Email: "sara@cabinet.local", Role: domain.RoleSecretary,
	}, "")
	if err != nil {
		t.Fatalf("re-save: %v", err)
	}
	if u2.PasswordHash != u.PasswordHash {
		t.Error("empty password input must keep the stored hash")
	}
}

func TestSaveUserAssignsIDToNewAccounts(t *testing.T) {
	st := newTestStore()
	svc := NewAuthService(st.Users, testJWT(), nil)

	first, err := svc.SaveUser(context.Background(), domain.User{
		Name: "Sara Bidaoui", Email: "sara@cabinet.local", Role: domain.RoleSecretary,
	}, "pass123")
	if err != nil {
		t.Fatalf("first SaveUser: %v", err)
	}
	second, err := svc.SaveUser(context.Background(), domain.User{
		Name: "Dr Tazi", Email: "tazi@cabinet.local", Role: domain.RoleDoctor,
	}, "pass456")
	if err != nil {
		t.Fatalf("second SaveUser: %v", err)
	}

	if first.ID == "" || second.ID == "" {
		t.Fatalf("new accounts must get ids, got %q and %q", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("ids must be distinct, both %q", first.ID)
	}
	if first.CreatedAt.IsZero() || second.CreatedAt.IsZero() {
		t.Error("new accounts must get a creation timestamp")
	}

	// Both records persist: the second save must not overwrite the first.
	if got := svc.ListUsers(context.Background()); len(got) != 2 {
		t.Fatalf("got %d users, want 2: %+v", len(got), got)
	}
}

func TestSaveUserIgnoresPayloadHash(t *testing.T) {
	st := newTestStore()
	svc := NewAuthService(st.Users, testJWT(), nil)

	planted, _ := bcrypt.GenerateFromPassword([]byte("attacker-known"), bcrypt.DefaultCost)

	// New account, no password set: the planted hash must not persist.
	u, err := svc.SaveUser(context.Background(), domain.User{
		Name: "Sara Bidaoui", Email: "sara@cabinet.local", Role: domain.RoleSecretary,
		PasswordHash: string(planted),
	}, "")
	if err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if u.PasswordHash != "" {
		t.Errorf("payload hash must be discarded, got %q", u.PasswordHash)
	}

	// Known account: a planted hash loses to the stored one.
	withPass, err := svc.SaveUser(context.Background(), domain.User{
		ID: u.ID, Name: "Sara Bidaoui", Email: "sara@cabinet.local", Role: domain.RoleSecretary,
	}, "real-password")
	if err != nil {
		t.Fatalf("setting password: %v", err)
	}
	resaved, err := svc.SaveUser(context.Background(), domain.User{
		ID: u.ID, Name: "Sara Bidaoui", Email: "sara@cabinet.local", Role: domain.RoleSecretary,
		PasswordHash: string(planted),
	}, "")
	if err != nil {
		t.Fatalf("re-save: %v", err)
	}
	if resaved.PasswordHash != withPass.PasswordHash {
		t.Error("re-save must keep the stored hash, not the payload's")
	}
}

func TestSaveUserRejectsUnknownPermissionTag(t *testing.T) {
	svc := NewAuthService(newTestStore().Users, testJWT(), nil)

	_, err := svc.SaveUser(context.Background(), domain.User{
		ID: "u1", Name: "X", Email: "x@y.z", Role: domain.RoleAssistant,
		Permissions: []domain.Permission{"totally-made-up"},
	}, "")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestSaveInvoiceRecomputesAmountFromItems(t *testing.T) {
	st := newTestStore()
	svc := NewBillingService(st.Invoices, st.Expenses, nil)

	inv, err := svc.SaveInvoice(context.Background(), invoice.Invoice{
		PatientID: "p1",
		Amount:    9999, // caller lied; items win
		Items: []invoice.LineItem{
			{Description: "Consultation", Price: 300},
			{Description: "ECG", Price: 150},
		},
	})
	if err != nil {
		t.Fatalf("SaveInvoice: %v", err)
	}
	if inv.Amount != 450 {
		t.Errorf("amount = %v, want 450", inv.Amount)
	}

	// Item-less records keep the caller-provided amount verbatim.
	flat, err := svc.SaveInvoice(context.Background(), invoice.Invoice{PatientID: "p2", Amount: 200})
	if err != nil {
		t.Fatalf("SaveInvoice flat: %v", err)
	}
	if flat.Amount != 200 {
		t.Errorf("flat amount = %v", flat.Amount)
	}
}

func TestSaveConsultationRequiresDiagnosis(t *testing.T) {
	st := newTestStore()
	svc := NewClinicalService(st.Appointments, st.Consultations, nil)

	_, err := svc.SaveConsultation(context.Background(), consultation.Consultation{PatientID: "p1"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("missing diagnosis err = %v", err)
	}

	c, err := svc.SaveConsultation(context.Background(), consultation.Consultation{
		PatientID: "p1",
		Diagnosis: "angine",
	})
	if err != nil {
		t.Fatalf("SaveConsultation: %v", err)
	}
	if c.AppointmentID != consultation.ManualAppointmentID {
		t.Errorf("manual entries must carry the sentinel, got %q", c.AppointmentID)
	}
	if c.ID == "" || c.Prescriptions == nil {
		t.Errorf("record not normalized: %+v", c)
	}
}

func TestListPatientsSortsAlphabetically(t *testing.T) {
	st := newTestStore()
	svc := NewPatientService(st.Patients, nil)

	for _, last := range []string{"Zerouali", "Alaoui", "Mansouri"} {
		if _, err := svc.SavePatient(context.Background(), patient.Patient{LastName: last, FirstName: "X"}); err != nil {
			t.Fatalf("SavePatient: %v", err)
		}
	}

	got := svc.ListPatients(context.Background())
	if got[0].LastName != "Alaoui" || got[1].LastName != "Mansouri" || got[2].LastName != "Zerouali" {
		t.Errorf("order: %v %v %v", got[0].LastName, got[1].LastName, got[2].LastName)
	}
}
