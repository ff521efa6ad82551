package pattern

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCSV_ValidInput(t *testing.T) {
	p, err := ParseCSV("true,false,true\nfalse,true,false\n")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if p.Width() != 3 || p.Height() != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", p.Width(), p.Height())
	}
	if p.Meta().Source != SourceCSV {
		t.Errorf("Meta().Source = %q, want %q", p.Meta().Source, SourceCSV)
	}
	want := []bool{true, false, true, false, true, false}
	for i, c := range p.Cells() {
		if c != want[i] {
			t.Errorf("cell %d = %v, want %v", i, c, want[i])
		}
	}
}

func TestParseCSV_TokenForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []bool
	}{
		{"numeric", "1,0\n0,1", []bool{true, false, false, true}},
		{"yes no", "yes,no\nno,yes", []bool{true, false, false, true}},
		{"mixed case", "TRUE,False\nYes,NO", []bool{true, false, true, false}},
		{"padded", " true , false \n 1 , 0 ", []bool{true, false, true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseCSV(tt.in)
			if err != nil {
				t.Fatalf("ParseCSV() error = %v", err)
			}
			for i, c := range p.Cells() {
				if c != tt.want[i] {
					t.Errorf("cell %d = %v, want %v", i, c, tt.want[i])
				}
			}
		})
	}
}

func TestParseCSV_CRLFAndTrailingNewlines(t *testing.T) {
	p, err := ParseCSV("true,false\r\nfalse,true\r\n\r\n")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if p.Width() != 2 || p.Height() != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", p.Width(), p.Height())
	}
}

func TestParseCSV_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n\n  "} {
		var perr *ParseError
		_, err := ParseCSV(in)
		if !errors.As(err, &perr) {
			t.Fatalf("ParseCSV(%q) error = %v, want *ParseError", in, err)
		}
	}
}

func TestParseCSV_BadToken(t *testing.T) {
	_, err := ParseCSV("true,false\ntrue,maybe")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("ParseCSV() error = %v, want *ParseError", err)
	}
	if perr.Row != 2 || perr.Column != 2 {
		t.Errorf("error position = (%d, %d), want (2, 2)", perr.Row, perr.Column)
	}
	if !strings.Contains(perr.Error(), "maybe") {
		t.Errorf("error message %q should name the bad token", perr.Error())
	}
}

func TestParseCSV_RaggedRows(t *testing.T) {
	_, err := ParseCSV("true,false,true\ntrue,false")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("ParseCSV() error = %v, want *ParseError", err)
	}
	if perr.Row != 2 {
		t.Errorf("error row = %d, want 2", perr.Row)
	}
}

func TestParseCSV_SingleCell(t *testing.T) {
	p, err := ParseCSV("1")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if p.Width() != 1 || p.Height() != 1 || !p.At(0, 0) {
		t.Errorf("got %dx%d active=%v, want 1x1 active cell", p.Width(), p.Height(), p.At(0, 0))
	}
}

func TestExportCSV_RoundTrip(t *testing.T) {
	orig, err := ParseCSV("true,false,true\nfalse,false,true")
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	out := ExportCSV(orig)
	back, err := ParseCSV(out)
	if err != nil {
		t.Fatalf("ParseCSV(ExportCSV()) error = %v", err)
	}
	if back.Width() != orig.Width() || back.Height() != orig.Height() {
		t.Fatalf("round-trip dimensions = %dx%d, want %dx%d",
			back.Width(), back.Height(), orig.Width(), orig.Height())
	}
	bc, oc := back.Cells(), orig.Cells()
	for i := range oc {
		if bc[i] != oc[i] {
			t.Errorf("round-trip cell %d = %v, want %v", i, bc[i], oc[i])
		}
	}
}

func TestExportCSV_CanonicalTokens(t *testing.T) {
	p, err := New(2, 1, []bool{true, false}, Meta{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got, want := ExportCSV(p), "true,false\n"; got != want {
		t.Errorf("ExportCSV() = %q, want %q", got, want)
	}
}
