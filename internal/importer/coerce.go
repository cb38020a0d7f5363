package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GFattehallah/cmhe-manager/internal/domain/expense"
	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
	"github.com/GFattehallah/cmhe-manager/internal/domain/patient"
)

// DefaultDate is what unparseable date cells coerce to.
var DefaultDate = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

// spreadsheetEpochOffset is the day count between the spreadsheet serial
// epoch (1899-12-30) and the Unix epoch.
const spreadsheetEpochOffset = 25569

func serialToDate(serial float64) time.Time {
	secs := (serial - spreadsheetEpochOffset) * 86400
	return time.Unix(int64(secs), 0).UTC()
}

// cellString renders any cell value for free-text fields.
func cellString(row Row, col string) string {
	if col == "" {
		return ""
	}
	switch v := row[col].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// ParseDate coerces the zoo of spreadsheet date representations: native
// timestamps, numeric serials, ISO strings, and free-form dates with / - .
// separators where the 4-digit year may come first or last. Anything else
// falls back to DefaultDate.
func ParseDate(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case float64:
		return serialToDate(t)
	case int:
		return serialToDate(float64(t))
	case string:
		return parseDateString(strings.TrimSpace(t))
	}
	return DefaultDate
}

func parseDateString(s string) time.Time {
	if s == "" {
		return DefaultDate
	}

	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d
	}

	// A bare number is a spreadsheet serial that arrived as text.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return serialToDate(serial)
	}

	sep := strings.NewReplacer("/", " ", "-", " ", ".", " ")
	parts := strings.Fields(sep.Replace(s))
	if len(parts) != 3 {
		return DefaultDate
	}

	var y, m, d int
	var err [3]error
	if len(parts[0]) == 4 {
		y, err[0] = strconv.Atoi(parts[0])
		m, err[1] = strconv.Atoi(parts[1])
		d, err[2] = strconv.Atoi(parts[2])
	} else {
		d, err[0] = strconv.Atoi(parts[0])
		m, err[1] = strconv.Atoi(parts[1])
		y, err[2] = strconv.Atoi(parts[2])
	}
	if err[0] != nil || err[1] != nil || err[2] != nil {
		return DefaultDate
	}
	if y < 1900 || y > 2200 || m < 1 || m > 12 || d < 1 || d > 31 {
		return DefaultDate
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// ParseAmount coerces a money cell to a number. Whitespace, currency labels
// and any other letters are stripped; a comma decimal separator becomes a
// dot; with several dot groups all but the last act as thousands separators.
// "1.234,56 MAD" → 1234.56. Unparseable input yields 0, which rejects the
// row downstream (amounts must be positive).
func ParseAmount(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		return parseAmountString(t)
	}
	return 0
}

func parseAmountString(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',':
			b.WriteRune('.')
		}
	}
	cleaned := b.String()

	if groups := strings.Split(cleaned, "."); len(groups) > 2 {
		cleaned = strings.Join(groups[:len(groups)-1], "") + "." + groups[len(groups)-1]
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return amount
}

// SplitList turns a comma-delimited cell into a clean list.
func SplitList(s string) []string {
	out := []string{}
	for _, piece := range strings.Split(s, ",") {
		if t := strings.TrimSpace(piece); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// InferPaymentMethod maps a free-text payment label (usually French) onto
// the payment-method enumeration. Unrecognized labels count as cash.
func InferPaymentMethod(label string) invoice.PaymentMethod {
	n := normalizeKey(label)
	switch {
	case strings.Contains(n, "cheque"):
		return invoice.MethodCheck
	case strings.Contains(n, "virement"):
		return invoice.MethodTransfer
	case strings.Contains(n, "carte"), strings.Contains(n, "cb"):
		return invoice.MethodCard
	default:
		return invoice.MethodCash
	}
}

func inferInsurance(label string) patient.InsuranceType {
	n := normalizeKey(label)
	switch {
	case strings.Contains(n, "cnops"):
		return patient.InsuranceCNOPS
	case strings.Contains(n, "cnss"):
		return patient.InsuranceCNSS
	case strings.Contains(n, "prive"), strings.Contains(n, "private"), strings.Contains(n, "assuranceprivee"):
		return patient.InsurancePrivate
	default:
		return patient.InsuranceNone
	}
}

func inferCategory(label string) expense.Category {
	n := normalizeKey(label)
	switch {
	case strings.Contains(n, "loyer"), strings.Contains(n, "rent"):
		return expense.CategoryRent
	case strings.Contains(n, "salaire"), strings.Contains(n, "salary"):
		return expense.CategorySalary
	case strings.Contains(n, "fourniture"), strings.Contains(n, "supplies"):
		return expense.CategorySupplies
	case strings.Contains(n, "materiel"), strings.Contains(n, "equipement"), strings.Contains(n, "equipment"):
		return expense.CategoryEquipment
	case strings.Contains(n, "eau"), strings.Contains(n, "electricite"), strings.Contains(n, "utilities"):
		return expense.CategoryUtilities
	default:
		return expense.CategoryOther
	}
}
