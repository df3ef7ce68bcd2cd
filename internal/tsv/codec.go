// Package tsv implements the wire format of the bulk-import endpoints:
// tab-separated UTF-8 text with a mandatory header row, wrapped in
// base64 for transport. Encoding and decoding are byte-exact inverses;
// parsing and validation are separate steps so the original payload is
// never altered.
package tsv

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/abhishake-droid/pos-console/internal/enum"
)

// Default caps, overridable per Codec. The byte cap mirrors the upload
// limit the console enforces before reading a file; the row cap mirrors
// the backend's bulk limit so oversized files fail before the network.
const (
	DefaultMaxBytes = 5 * 1024 * 1024
	DefaultMaxRows  = 5000
)

// Errors returned by the codec and validators.
var (
	ErrTooLarge       = errors.New("file exceeds upload size limit")
	ErrTooManyRows    = errors.New("too many data rows")
	ErrEmpty          = errors.New("empty dataset")
	ErrMissingHeaders = errors.New("missing required headers")
	ErrBlankClientID  = errors.New("Client ID cannot be blank")
	ErrRowFormat      = errors.New("invalid row format")
	ErrInvalidBase64  = errors.New("invalid base64 content")
	ErrUnknownKind    = errors.New("unknown import kind")
)

// Codec encodes TSV payloads for upload and decodes result payloads.
type Codec struct {
	MaxBytes int
	MaxRows  int
}

// NewCodec returns a Codec with the default caps.
func NewCodec() *Codec {
	return &Codec{MaxBytes: DefaultMaxBytes, MaxRows: DefaultMaxRows}
}

// CheckSize rejects payloads over the byte cap. Called with the file
// size before the file is read at all.
func (c *Codec) CheckSize(n int) error {
	max := c.MaxBytes
	if max <= 0 {
		max = DefaultMaxBytes
	}
	if n > max {
		return fmt.Errorf("%w (%d bytes, limit %d)", ErrTooLarge, n, max)
	}
	return nil
}

// Encode wraps the raw TSV text in base64 for transport.
func (c *Codec) Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Decode is the inverse of Encode: Decode(Encode(x)) == x byte-exact.
func (c *Codec) Decode(encoded string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return string(b), nil
}

// Row is one data row of a parsed dataset. LineNo is the 1-based
// position in the original file, so with the header on line 1 the first
// data row is line 2.
type Row struct {
	LineNo int
	Fields []string
	Raw    string
}

// Dataset is a parsed TSV payload: header plus data rows. Blank lines
// are skipped but do not disturb the line numbering.
type Dataset struct {
	Header []string
	Rows   []Row
}

// Parse splits text into a Dataset. Line endings may be LF or CRLF;
// the first non-empty line is the header.
func Parse(text string) Dataset {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var d Dataset
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if d.Header == nil {
			d.Header = strings.Split(trimmed, "\t")
			continue
		}
		d.Rows = append(d.Rows, Row{
			LineNo: i + 1,
			Fields: strings.Split(line, "\t"),
			Raw:    line,
		})
	}
	return d
}

// normalizeHeader lowercases and strips spaces so "Row Number",
// "rowNumber" and "rownumber" all compare equal.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", ""))
}

// ColumnIndex resolves a column by case-insensitive name, returning
// fallback when no header matches. Column order is backend-defined and
// varies between dataset kinds, so positional access is a degraded
// mode only.
func (d Dataset) ColumnIndex(name string, fallback int) int {
	want := normalizeHeader(name)
	for i, h := range d.Header {
		if normalizeHeader(h) == want {
			return i
		}
	}
	// Loose pass: "Error Message" should satisfy a lookup for "error".
	for i, h := range d.Header {
		if strings.Contains(normalizeHeader(h), want) {
			return i
		}
	}
	return fallback
}

// Field returns the row field at idx, or "" when the row is short.
func (r Row) Field(idx int) string {
	if idx < 0 || idx >= len(r.Fields) {
		return ""
	}
	return strings.TrimSpace(r.Fields[idx])
}

// requiredHeaders lists the mandatory columns per import kind.
var requiredHeaders = map[string][]string{
	enum.ImportKindProducts:  {"barcode", "clientid", "name", "mrp"},
	enum.ImportKindInventory: {"barcode", "quantity"},
}

// minColumns is the narrowest legal data row per import kind. Products
// rows may carry a trailing optional imageurl column.
var minColumns = map[string]int{
	enum.ImportKindProducts:  4,
	enum.ImportKindInventory: 2,
}

// ValidateHeader checks that every required column for kind is present,
// case-insensitively. Missing columns are named in the error and no
// upload is attempted.
func ValidateHeader(kind string, d Dataset) error {
	required, ok := requiredHeaders[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if len(d.Header) == 0 {
		return ErrEmpty
	}

	present := make(map[string]bool, len(d.Header))
	for _, h := range d.Header {
		present[normalizeHeader(h)] = true
	}

	var missing []string
	for _, want := range required {
		if !present[want] {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingHeaders, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateRows runs the pre-upload data checks for kind: the row-count
// cap, the per-kind minimum column count, and for products a non-blank
// clientid on every row. Errors carry the 1-based file line number.
func (c *Codec) ValidateRows(kind string, d Dataset) error {
	if !enum.IsValidImportKind(kind) {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if len(d.Rows) == 0 {
		return ErrEmpty
	}

	maxRows := c.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if len(d.Rows) > maxRows {
		return fmt.Errorf("%w (%d rows, limit %d)", ErrTooManyRows, len(d.Rows), maxRows)
	}

	min := minColumns[kind]
	clientIdx := -1
	if kind == enum.ImportKindProducts {
		clientIdx = d.ColumnIndex("clientid", 1)
	}

	for _, row := range d.Rows {
		if len(row.Fields) < min {
			return fmt.Errorf("row %d: %w: expected at least %d columns", row.LineNo, ErrRowFormat, min)
		}
		if clientIdx >= 0 && row.Field(clientIdx) == "" {
			return fmt.Errorf("row %d: %w", row.LineNo, ErrBlankClientID)
		}
	}
	return nil
}
