package tsv

import (
	"errors"
	"strings"
	"testing"

	"github.com/abhishake-droid/pos-console/internal/enum"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := NewCodec()
	tests := []string{
		"barcode\tclientid\tname\tmrp\nBC001\tC1\tSoap\t50",
		"barcode\tquantity\r\nBC001\t10\r\n",
		"",
		"one line no tabs",
		"trailing newline\n",
		"unicode\tmüsli ₹99\n",
	}
	for _, in := range tests {
		got, err := c.Decode(c.Encode(in))
		if err != nil {
			t.Fatalf("Decode(Encode(%q)): %v", in, err)
		}
		if got != in {
			t.Errorf("round trip: got %q, want %q", got, in)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c := NewCodec()
	if _, err := c.Decode("not@@base64!!"); !errors.Is(err, ErrInvalidBase64) {
		t.Fatalf("got %v, want ErrInvalidBase64", err)
	}
}

func TestCheckSize(t *testing.T) {
	c := &Codec{MaxBytes: 100}
	if err := c.CheckSize(100); err != nil {
		t.Errorf("at limit: %v", err)
	}
	if err := c.CheckSize(101); !errors.Is(err, ErrTooLarge) {
		t.Errorf("over limit: got %v, want ErrTooLarge", err)
	}
}

func TestParse(t *testing.T) {
	d := Parse("barcode\tclientid\tname\tmrp\r\nBC001\tC1\tSoap\t50\n\nBC002\tC1\tOil\t120\n")
	if len(d.Header) != 4 || d.Header[1] != "clientid" {
		t.Fatalf("header: %v", d.Header)
	}
	if len(d.Rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(d.Rows))
	}
	if d.Rows[0].LineNo != 2 {
		t.Errorf("first data row line: got %d, want 2", d.Rows[0].LineNo)
	}
	// Blank line 3 is skipped but does not renumber the file.
	if d.Rows[1].LineNo != 4 {
		t.Errorf("second data row line: got %d, want 4", d.Rows[1].LineNo)
	}
	if d.Rows[1].Field(3) != "120" {
		t.Errorf("field: got %q, want 120", d.Rows[1].Field(3))
	}
}

func TestColumnIndexByName(t *testing.T) {
	d := Parse("Row Number\tStatus\tError Message\tOriginal Data\n1\tOK\t\tBC001")
	tests := []struct {
		name     string
		fallback int
		want     int
	}{
		{"rowNumber", 0, 0},
		{"status", 1, 1},
		{"error", 2, 2},
		{"data", 3, 3},
		{"STATUS", 9, 1},
		{"nosuchcolumn", 7, 7},
	}
	for _, tt := range tests {
		if got := d.ColumnIndex(tt.name, tt.fallback); got != tt.want {
			t.Errorf("ColumnIndex(%q): got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestColumnIndexShuffledHeader(t *testing.T) {
	// Column order is backend-defined; lookup must not assume position.
	d := Parse("status\tdata\trowNumber\terror\nOK\tBC001\t1\t")
	if got := d.ColumnIndex("rowNumber", -1); got != 2 {
		t.Errorf("rowNumber: got %d, want 2", got)
	}
	if got := d.ColumnIndex("status", -1); got != 0 {
		t.Errorf("status: got %d, want 0", got)
	}
}

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		text    string
		want    error
		missing string
	}{
		{
			name: "products ok",
			kind: enum.ImportKindProducts,
			text: "barcode\tclientid\tname\tmrp\nBC001\tC1\tSoap\t50",
		},
		{
			name: "products ok case-insensitive",
			kind: enum.ImportKindProducts,
			text: "Barcode\tClientId\tName\tMRP\nBC001\tC1\tSoap\t50",
		},
		{
			name:    "products missing clientid and mrp",
			kind:    enum.ImportKindProducts,
			text:    "barcode\tname\nBC001\tSoap",
			want:    ErrMissingHeaders,
			missing: "clientid, mrp",
		},
		{
			name: "inventory ok",
			kind: enum.ImportKindInventory,
			text: "barcode\tquantity\nBC001\t10",
		},
		{
			name: "inventory missing quantity",
			kind: enum.ImportKindInventory,
			text: "barcode\nBC001",
			want: ErrMissingHeaders,
		},
		{
			name: "unknown kind",
			kind: "operators",
			text: "a\tb\n1\t2",
			want: ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(tt.kind, Parse(tt.text))
			if tt.want == nil {
				if err != nil {
					t.Fatalf("got %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if tt.missing != "" && !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q does not name missing headers %q", err, tt.missing)
			}
		})
	}
}

func TestValidateRowsBlankClientID(t *testing.T) {
	c := NewCodec()
	d := Parse("barcode\tclientid\tname\tmrp\nBC001\t\tSoap\t50")
	err := c.ValidateRows(enum.ImportKindProducts, d)
	if !errors.Is(err, ErrBlankClientID) {
		t.Fatalf("got %v, want ErrBlankClientID", err)
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error %q does not name row 2", err)
	}
}

func TestValidateRowsClientIDResolvedByName(t *testing.T) {
	// clientid in a nonstandard position must still be found by name.
	c := NewCodec()
	d := Parse("name\tmrp\tbarcode\tclientid\nSoap\t50\tBC001\t")
	if err := c.ValidateRows(enum.ImportKindProducts, d); !errors.Is(err, ErrBlankClientID) {
		t.Fatalf("got %v, want ErrBlankClientID", err)
	}
}

func TestValidateRowsShortRow(t *testing.T) {
	c := NewCodec()
	d := Parse("barcode\tclientid\tname\tmrp\nBC001\tC1\tSoap")
	err := c.ValidateRows(enum.ImportKindProducts, d)
	if !errors.Is(err, ErrRowFormat) {
		t.Fatalf("got %v, want ErrRowFormat", err)
	}
}

func TestValidateRowsCaps(t *testing.T) {
	c := &Codec{MaxRows: 2}
	var b strings.Builder
	b.WriteString("barcode\tquantity\n")
	for i := 0; i < 3; i++ {
		b.WriteString("BC001\t1\n")
	}
	err := c.ValidateRows(enum.ImportKindInventory, Parse(b.String()))
	if !errors.Is(err, ErrTooManyRows) {
		t.Fatalf("got %v, want ErrTooManyRows", err)
	}
}

func TestValidateRowsEmptyDataset(t *testing.T) {
	c := NewCodec()
	if err := c.ValidateRows(enum.ImportKindInventory, Parse("barcode\tquantity\n")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("got %v, want ErrEmpty", err)
	}
}

func TestProductsRowWithOptionalImageURL(t *testing.T) {
	c := NewCodec()
	d := Parse("barcode\tclientid\tname\tmrp\timageurl\nBC001\tC1\tSoap\t50\thttp://img")
	if err := ValidateHeader(enum.ImportKindProducts, d); err != nil {
		t.Fatalf("header: %v", err)
	}
	if err := c.ValidateRows(enum.ImportKindProducts, d); err != nil {
		t.Fatalf("rows: %v", err)
	}
}
