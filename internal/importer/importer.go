// Package importer reconciles externally-sourced tabular records into the
// store: it sniffs heterogeneous column headers, coerces loosely-typed
// cells, and de-duplicates against existing records before persisting.
package importer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GFattehallah/cmhe-manager/internal/domain/expense"
	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
	"github.com/GFattehallah/cmhe-manager/internal/domain/patient"
	"github.com/GFattehallah/cmhe-manager/internal/store"
	"github.com/GFattehallah/cmhe-manager/pkg/metrics"
)

// Placeholder identity for rows whose name columns could not be matched.
const (
	DefaultLastName  = "Patient"
	DefaultFirstName = "Importe"
)

// Report is the outcome of one import run. Skipped rows are duplicates or
// rows rejected by coercion; they are a normal outcome, not errors.
type Report struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Importer struct {
	store   *store.Store
	log     *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

func New(st *store.Store, log *zap.Logger, m *metrics.Collector) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: st, log: log, metrics: m, now: time.Now}
}

var patientColumns = map[string]columnSpec{
	"last":      {keywords: []string{"nom", "lastname", "famille"}},
	"first":     {keywords: []string{"prenom", "firstname"}},
	"cin":       {keywords: []string{"cin"}, strict: true},
	"birth":     {keywords: []string{"naissance", "datenaissance", "birth", "dob"}},
	"phone":     {keywords: []string{"telephone", "tel", "phone", "gsm", "portable"}},
	"email":     {keywords: []string{"email", "mail"}},
	"address":   {keywords: []string{"adresse", "address"}},
	"insurance": {keywords: []string{"assurance", "mutuelle", "insurance"}},
	"history":   {keywords: []string{"antecedent", "historique", "history"}},
	"allergies": {keywords: []string{"allergie", "allergy"}},
}

func matchColumns(headers []string, specs map[string]columnSpec) map[string]string {
	cols := make(map[string]string, len(specs))
	for field, spec := range specs {
		if h, ok := spec.match(headers); ok {
			cols[field] = h
		}
	}
	return cols
}

// ImportPatients merges spreadsheet rows into the patient collection. A row
// is a duplicate — silently skipped and counted — when an existing record
// shares its non-empty CIN, or its (last name, first name, phone) triple.
// Rows persist one at a time so a failure partway leaves partial progress,
// never a rollback.
func (im *Importer) ImportPatients(ctx context.Context, headers []string, rows []Row) (Report, error) {
	cols := matchColumns(headers, patientColumns)
	existing := im.store.Patients.List(ctx)

	cins := make(map[string]struct{})
	triples := make(map[string]struct{})
	for _, p := range existing {
		rememberPatient(cins, triples, p.NationalID, p.LastName, p.FirstName, p.Phone)
	}

	var report Report
	for _, row := range rows {
		p := patient.Patient{
			ID:             uuid.NewString(),
			LastName:       cellString(row, cols["last"]),
			FirstName:      cellString(row, cols["first"]),
			NationalID:     cellString(row, cols["cin"]),
			BirthDate:      ParseDate(rowValue(row, cols["birth"])),
			Phone:          cellString(row, cols["phone"]),
			Email:          cellString(row, cols["email"]),
			Address:        cellString(row, cols["address"]),
			Insurance:      inferInsurance(cellString(row, cols["insurance"])),
			MedicalHistory: SplitList(cellString(row, cols["history"])),
			Allergies:      SplitList(cellString(row, cols["allergies"])),
			CreatedAt:      im.now(),
		}
		if p.LastName == "" {
			p.LastName = DefaultLastName
		}
		if p.FirstName == "" {
			p.FirstName = DefaultFirstName
		}
		p.Normalize()

		if isDuplicate(cins, triples, p.NationalID, p.LastName, p.FirstName, p.Phone) {
			report.Skipped++
			im.countRow(store.TablePatients, "skipped")
			continue
		}

		if err := im.store.Patients.Save(ctx, p); err != nil {
			// Partial progress stands; report what made it in.
			return report, err
		}
		rememberPatient(cins, triples, p.NationalID, p.LastName, p.FirstName, p.Phone)
		report.Imported++
		im.countRow(store.TablePatients, "imported")
	}

	im.log.Info("patient import finished",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

func rememberPatient(cins, triples map[string]struct{}, cin, last, first, phone string) {
	if key := normalizeKey(cin); key != "" {
		cins[key] = struct{}{}
	}
	triples[tripleKey(last, first, phone)] = struct{}{}
}

func isDuplicate(cins, triples map[string]struct{}, cin, last, first, phone string) bool {
	if key := normalizeKey(cin); key != "" {
		if _, ok := cins[key]; ok {
			return true
		}
	}
	_, ok := triples[tripleKey(last, first, phone)]
	return ok
}

func tripleKey(last, first, phone string) string {
	return normalizeKey(last) + "|" + normalizeKey(first) + "|" + digitsOnly(phone)
}

var revenueColumns = map[string]columnSpec{
	"patient": {keywords: []string{"patient", "client", "nom"}},
	"date":    {keywords: []string{"date", "jour"}},
	"amount":  {keywords: []string{"montant", "amount", "total", "prix"}},
	"method":  {keywords: []string{"paiement", "reglement", "mode", "payment"}},
}

// ImportRevenues merges a revenue sheet into the invoice collection. Each
// row is matched to an existing patient by normalized family-name
// containment (either direction); unmatched rows are booked against the
// walk-in sentinel. Rows whose amount does not coerce to a positive number
// are skipped.
func (im *Importer) ImportRevenues(ctx context.Context, headers []string, rows []Row) (Report, error) {
	cols := matchColumns(headers, revenueColumns)
	patients := im.store.Patients.List(ctx)

	var report Report
	for _, row := range rows {
		amount := ParseAmount(rowValue(row, cols["amount"]))
		if amount <= 0 {
			report.Skipped++
			im.countRow(store.TableInvoices, "skipped")
			continue
		}

		inv := invoice.Invoice{
			ID:        uuid.NewString(),
			PatientID: matchPatient(patients, cellString(row, cols["patient"])),
			Date:      ParseDate(rowValue(row, cols["date"])),
			Amount:    amount,
			Status:    invoice.StatusPaid,
			Method:    InferPaymentMethod(cellString(row, cols["method"])),
			Items:     []invoice.LineItem{},
			CreatedAt: im.now(),
		}

		if err := im.store.Invoices.Save(ctx, inv); err != nil {
			return report, err
		}
		report.Imported++
		im.countRow(store.TableInvoices, "imported")
	}

	im.log.Info("revenue import finished",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

var expenseColumns = map[string]columnSpec{
	"date":        {keywords: []string{"date", "jour"}},
	"category":    {keywords: []string{"categorie", "category", "type"}},
	"amount":      {keywords: []string{"montant", "amount", "total", "prix"}},
	"description": {keywords: []string{"description", "libelle", "designation"}},
	"method":      {keywords: []string{"paiement", "reglement", "mode", "payment"}},
}

func (im *Importer) ImportExpenses(ctx context.Context, headers []string, rows []Row) (Report, error) {
	cols := matchColumns(headers, expenseColumns)

	var report Report
	for _, row := range rows {
		amount := ParseAmount(rowValue(row, cols["amount"]))
		if amount <= 0 {
			report.Skipped++
			im.countRow(store.TableExpenses, "skipped")
			continue
		}

		exp := expense.Expense{
			ID:          uuid.NewString(),
			Date:        ParseDate(rowValue(row, cols["date"])),
			Category:    inferCategory(cellString(row, cols["category"])),
			Amount:      amount,
			Description: cellString(row, cols["description"]),
			Method:      InferPaymentMethod(cellString(row, cols["method"])),
			CreatedAt:   im.now(),
		}

		if err := im.store.Expenses.Save(ctx, exp); err != nil {
			return report, err
		}
		report.Imported++
		im.countRow(store.TableExpenses, "imported")
	}

	im.log.Info("expense import finished",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// matchPatient finds the first existing patient whose normalized family name
// contains, or is contained by, the imported name.
func matchPatient(patients []patient.Patient, name string) string {
	n := normalizeKey(name)
	if n == "" {
		return invoice.WalkInPatientID
	}
	for _, p := range patients {
		pn := normalizeKey(p.LastName)
		if pn == "" {
			continue
		}
		if strings.Contains(n, pn) || strings.Contains(pn, n) {
			return p.ID
		}
	}
	return invoice.WalkInPatientID
}

// rowValue returns the raw cell so type-aware coercions see native values.
func rowValue(row Row, col string) any {
	if col == "" {
		return nil
	}
	return row[col]
}

func (im *Importer) countRow(collection, result string) {
	if im.metrics != nil {
		im.metrics.ImportRowsTotal.WithLabelValues(collection, result).Inc()
	}
}
