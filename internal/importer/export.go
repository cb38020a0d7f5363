package importer

import (
	"strconv"
	"strings"

	"github.com/GFattehallah/cmhe-manager/internal/domain/expense"
	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
	"github.com/GFattehallah/cmhe-manager/internal/domain/patient"
)

const exportDateLayout = "2006-01-02"

// PatientsTable renders the patient collection for spreadsheet export, with
// the same header vocabulary the import sniffer recognizes so an exported
// file round-trips.
func PatientsTable(patients []patient.Patient) ([]string, [][]string) {
	headers := []string{"Nom", "Prenom", "CIN", "Date de naissance", "Telephone", "Email", "Adresse", "Assurance", "Antecedents", "Allergies"}
	rows := make([][]string, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, []string{
			p.LastName,
			p.FirstName,
			p.NationalID,
			p.BirthDate.Format(exportDateLayout),
			p.Phone,
			p.Email,
			p.Address,
			string(p.Insurance),
			strings.Join(p.MedicalHistory, ", "),
			strings.Join(p.Allergies, ", "),
		})
	}
	return headers, rows
}

func InvoicesTable(invoices []invoice.Invoice) ([]string, [][]string) {
	headers := []string{"Patient", "Date", "Montant", "Statut", "Mode de paiement"}
	rows := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []string{
			inv.PatientID,
			inv.Date.Format(exportDateLayout),
			strconv.FormatFloat(inv.Amount, 'f', 2, 64),
			string(inv.Status),
			string(inv.Method),
		})
	}
	return headers, rows
}

func ExpensesTable(expenses []expense.Expense) ([]string, [][]string) {
	headers := []string{"Date", "Categorie", "Montant", "Description", "Mode de paiement"}
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			e.Date.Format(exportDateLayout),
			string(e.Category),
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Description,
			string(e.Method),
		})
	}
	return headers, rows
}
