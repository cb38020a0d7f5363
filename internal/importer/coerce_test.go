package importer

import (
	"testing"
	"time"

	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"1.234,56 MAD", 1234.56},
		{"200", 200},
		{"1 250,00", 1250},
		{"1.234.567,89", 1234567.89},
		{"350 dh", 350},
		{float64(99.5), 99.5},
		{42, 42},
		{"abc", 0},
		{"", 0},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := ParseAmount(tt.in); got != tt.want {
			t.Errorf("ParseAmount(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDateSerial(t *testing.T) {
	// Serial 45000 is 19431 days past the Unix epoch.
	want := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	if got := ParseDate(float64(45000)); !got.Equal(want) {
		t.Errorf("ParseDate(45000) = %v, want %v", got, want)
	}
	if got := ParseDate("45000"); !got.Equal(want) {
		t.Errorf("ParseDate(\"45000\") = %v, want %v", got, want)
	}
}

func TestParseDateStrings(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"1990-01-01", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"15/03/2023", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2023/03/15", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15.03.2023", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15-03-2023", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"N/A", DefaultDate},
		{"", DefaultDate},
	}

	for _, tt := range tests {
		if got := ParseDate(tt.in); !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDateNative(t *testing.T) {
	native := time.Date(2021, 7, 9, 0, 0, 0, 0, time.UTC)
	if got := ParseDate(native); !got.Equal(native) {
		t.Errorf("native timestamp must pass through, got %v", got)
	}
	if got := ParseDate(struct{}{}); !got.Equal(DefaultDate) {
		t.Errorf("unknown type must fall back, got %v", got)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" penicilline , , aspirine,")
	if len(got) != 2 || got[0] != "penicilline" || got[1] != "aspirine" {
		t.Errorf("SplitList = %#v", got)
	}
	if got := SplitList(""); len(got) != 0 {
		t.Errorf("empty input must yield empty list, got %#v", got)
	}
}

func TestInferPaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want invoice.PaymentMethod
	}{
		{"Chèque n°42", invoice.MethodCheck},
		{"VIREMENT bancaire", invoice.MethodTransfer},
		{"Carte bancaire", invoice.MethodCard},
		{"CB", invoice.MethodCard},
		{"espèces", invoice.MethodCash},
		{"", invoice.MethodCash},
	}

	for _, tt := range tests {
		if got := InferPaymentMethod(tt.in); got != tt.want {
			t.Errorf("InferPaymentMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Tél. Portable", "telportable"},
		{"Date de Naissance", "datedenaissance"},
		{"PRÉNOM", "prenom"},
		{"N° CIN", "ncin"},
	}

	for _, tt := range tests {
		if got := normalizeKey(tt.in); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
