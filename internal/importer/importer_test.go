package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
	"github.com/GFattehallah/cmhe-manager/internal/domain/patient"
	"github.com/GFattehallah/cmhe-manager/internal/seed"
	"github.com/GFattehallah/cmhe-manager/internal/store"
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

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(nil, &memCache{data: map[string][]byte{}}, seed.Empty(), nil, nil)
}

func seedPatient(t *testing.T, st *store.Store, p patient.Patient) {
	t.Helper()
	p.Normalize()
	if err := st.Patients.Save(context.Background(), p); err != nil {
		t.Fatalf("seeding patient: %v", err)
	}
}

func TestImportPatientsMatchesAccentedHeaders(t *testing.T) {
	st := newTestStore(t)
	im := New(st, nil, nil)

	headers := []string{"Nom de famille", "Prénom", "CIN", "Date de Naissance", "Tél. Portable", "Allergies"}
	rows := []Row{{
		"Nom de famille":    "El Amrani",
		"Prénom":            "Yasmine",
		"CIN":               "AB123456",
		"Date de Naissance": "12/05/1985",
		"Tél. Portable":     "0661-22-33-44",
		"Allergies":         "pénicilline, pollen",
	}}

	report, err := im.ImportPatients(context.Background(), headers, rows)
	if err != nil {
		t.Fatalf("ImportPatients: %v", err)
	}
	if report.Imported != 1 || report.Skipped != 0 {
		t.Fatalf("report = %+v", report)
	}

	got := st.Patients.List(context.Background())
	if len(got) != 1 {
		t.Fatalf("got %d patients", len(got))
	}
	p := got[0]
	if p.LastName != "El Amrani" || p.FirstName != "Yasmine" || p.NationalID != "AB123456" {
		t.Errorf("identity fields: %+v", p)
	}
	if want := time.Date(1985, 5, 12, 0, 0, 0, 0, time.UTC); !p.BirthDate.Equal(want) {
		t.Errorf("birth date = %v, want %v", p.BirthDate, want)
	}
	if len(p.Allergies) != 2 {
		t.Errorf("allergies = %#v", p.Allergies)
	}
	if p.ID == "" {
		t.Error("imported patient must get a fresh id")
	}
}

func TestImportPatientsSkipsDuplicateCIN(t *testing.T) {
	st := newTestStore(t)
	seedPatient(t, st, patient.Patient{ID: "p1", LastName: "Alaoui", FirstName: "Omar", NationalID: "X99"})
	im := New(st, nil, nil)

	headers := []string{"Nom", "Prenom", "CIN"}
	rows := []Row{{"Nom": "Different", "Prenom": "Name", "CIN": "X99"}}

	report, err := im.ImportPatients(context.Background(), headers, rows)
	if err != nil {
		t.Fatalf("ImportPatients: %v", err)
	}
	if report.Imported != 0 || report.Skipped != 1 {
		t.Fatalf("report = %+v", report)
	}
	if got := st.Patients.List(context.Background()); len(got) != 1 {
		t.Fatalf("duplicate row must not be persisted, have %d records", len(got))
	}
}

func TestImportPatientsSkipsDuplicateTriple(t *testing.T) {
	st := newTestStore(t)
	seedPatient(t, st, patient.Patient{ID: "p1", LastName: "Alaoui", FirstName: "Omar", Phone: "0661223344", NationalID: "X99"})
	im := New(st, nil, nil)

	headers := []string{"Nom", "Prenom", "Telephone", "CIN"}
	rows := []Row{{"Nom": "ALAOUI", "Prenom": "Omar", "Telephone": "06 61 22 33 44", "CIN": "Y11"}}

	report, err := im.ImportPatients(context.Background(), headers, rows)
	if err != nil {
		t.Fatalf("ImportPatients: %v", err)
	}
	if report.Imported != 0 || report.Skipped != 1 {
		t.Fatalf("triple match must skip, report = %+v", report)
	}
}

func TestImportPatientsDefaultsUnmatchedFields(t *testing.T) {
	st := newTestStore(t)
	im := New(st, nil, nil)

	headers := []string{"Colonne Mystère"}
	rows := []Row{{"Colonne Mystère": "whatever"}}

	report, err := im.ImportPatients(context.Background(), headers, rows)
	if err != nil {
		t.Fatalf("ImportPatients: %v", err)
	}
	if report.Imported != 1 {
		t.Fatalf("report = %+v", report)
	}

	p := st.Patients.List(context.Background())[0]
	if p.LastName != DefaultLastName || p.FirstName != DefaultFirstName {
		t.Errorf("placeholder identity expected, got %+v", p)
	}
	if !p.BirthDate.Equal(DefaultDate) {
		t.Errorf("birth date = %v, want default", p.BirthDate)
	}
	if p.MedicalHistory == nil || p.Allergies == nil {
		t.Error("list fields must be arrays, never nil")
	}
}

func TestImportRevenuesPatientMatching(t *testing.T) {
	st := newTestStore(t)
	seedPatient(t, st, patient.Patient{ID: "p1", LastName: "Benjelloun", FirstName: "Nadia"})
	im := New(st, nil, nil)

	headers := []string{"Patient", "Date", "Montant", "Paiement"}
	rows := []Row{
		{"Patient": "Mme BENJELLOUN", "Date": "2024-02-01", "Montant": "1.200,50 MAD", "Paiement": "chèque"},
		{"Patient": "Passant", "Date": "2024-02-02", "Montant": "150", "Paiement": ""},
		{"Patient": "Quelqu'un", "Date": "2024-02-03", "Montant": "abc", "Paiement": ""},
	}

	report, err := im.ImportRevenues(context.Background(), headers, rows)
	if err != nil {
		t.Fatalf("ImportRevenues: %v", err)
	}
	if report.Imported != 2 || report.Skipped != 1 {
		t.Fatalf("report = %+v", report)
	}

	invoices := st.Invoices.List(context.Background())
	if len(invoices) != 2 {
		t.Fatalf("got %d invoices", len(invoices))
	}

	byAmount := map[float64]invoice.Invoice{}
	for _, inv := range invoices {
		byAmount[inv.Amount] = inv
	}

	matched := byAmount[1200.50]
	if matched.PatientID != "p1" {
		t.Errorf("name containment must match p1, got %q", matched.PatientID)
	}
	if matched.Method != invoice.MethodCheck {
		t.Errorf("method = %q, want check", matched.Method)
	}

	walkIn := byAmount[150]
	if walkIn.PatientID != invoice.WalkInPatientID {
		t.Errorf("unmatched row must book against walk-in, got %q", walkIn.PatientID)
	}
}

func TestImportExpenses(t *testing.T) {
	st := newTestStore(t)
	im := New(st, nil, nil)

	headers := []string{"Date", "Catégorie", "Montant", "Libellé", "Règlement"}
	rows := []Row{
		{"Date": "05/01/2024", "Catégorie": "Loyer", "Montant": "4 500,00", "Libellé": "Loyer janvier", "Règlement": "virement"},
		{"Date": "06/01/2024", "Catégorie": "Fournitures", "Montant": "-20", "Libellé": "retour", "Règlement": ""},
	}

	report, err := im.ImportExpenses(context.Background(), headers, rows)
	if err != nil {
		t.Fatalf("ImportExpenses: %v", err)
	}
	if report.Imported != 1 || report.Skipped != 1 {
		t.Fatalf("report = %+v", report)
	}

	e := st.Expenses.List(context.Background())[0]
	if e.Amount != 4500 || string(e.Category) != "rent" || string(e.Method) != "transfer" {
		t.Errorf("expense = %+v", e)
	}
}

func TestReadCSVRejectsUnreadableFile(t *testing.T) {
	if _, _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatal("empty file must fail as a whole")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, []string{"Nom", "Montant"}, [][]string{{"Alaoui", "120"}}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	headers, rows, err := ReadCSV(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(headers) != 2 || len(rows) != 1 {
		t.Fatalf("headers %v rows %v", headers, rows)
	}
	if rows[0]["Nom"] != "Alaoui" {
		t.Errorf("rows[0] = %#v", rows[0])
	}
}
