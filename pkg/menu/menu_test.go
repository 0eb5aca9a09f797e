package menu

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestChoose(t *testing.T) {
	options := []string{"POLSKA", "MAŁOPOLSKIE", "ŚLĄSKIE"}

	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{"first", "1\n", 0, false},
		{"last", "3\n", 2, false},
		{"surrounding spaces", "  2  \n", 1, false},
		{"no trailing newline", "2", 1, false},
		{"windows newline", "3\r\n", 2, false},
		{"zero", "0\n", 0, true},
		{"too large", "4\n", 0, true},
		{"negative", "-1\n", 0, true},
		{"not a number", "pierwsze\n", 0, true},
		{"empty line", "\n", 0, true},
		{"no input", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)

			got, err := p.Choose("Dostępne województwa:", "Wybierz numer województwa: ", options)
			if tt.wantErr {
				var inputErr *InputError
				if !errors.As(err, &inputErr) {
					t.Fatalf("Choose() error = %v, expected *InputError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Choose() returned error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Choose() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestChoosePrintsMenu(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("1\n"), &out)

	if _, err := p.Choose("Dostępne działy:", "Wybierz numer działu: ", []string{"Turystyka", "Kultura"}); err != nil {
		t.Fatal(err)
	}

	expected := "Dostępne działy:\n1. Turystyka\n2. Kultura\n\nWybierz numer działu: "
	if out.String() != expected {
		t.Errorf("menu output = %q, expected %q", out.String(), expected)
	}
}

func TestChooseSequential(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("2\n1\n"), &out)

	first, err := p.Choose("a", "> ", []string{"x", "y"})
	if err != nil || first != 1 {
		t.Fatalf("first Choose() = %d, %v", first, err)
	}
	second, err := p.Choose("b", "> ", []string{"x", "y"})
	if err != nil || second != 0 {
		t.Fatalf("second Choose() = %d, %v", second, err)
	}
}

func TestChooseNoOptions(t *testing.T) {
	p := New(strings.NewReader("1\n"), &bytes.Buffer{})
	if _, err := p.Choose("t", "p", nil); err == nil {
		t.Error("Choose() with no options should fail")
	}
}
