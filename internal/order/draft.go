package order

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errors returned by draft mutations and validation.
var (
	ErrIndexOutOfRange = errors.New("line index out of range")
	ErrLastLine        = errors.New("draft must keep at least one line")
	ErrPriceAboveMRP   = errors.New("selling price cannot exceed MRP")
	ErrNoLines         = errors.New("add at least one product line")
	ErrNoProduct       = errors.New("product not selected")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrNegativePrice   = errors.New("selling price cannot be negative")
)

// Line is one editable product line in a draft. LineTotal is derived
// from quantity and unit price and is recomputed on every mutation,
// never set directly.
type Line struct {
	ProductID   string
	ProductName string
	Barcode     string
	Quantity    int
	UnitPrice   decimal.Decimal
	MRP         decimal.Decimal
	LineTotal   decimal.Decimal
}

func blankLine() Line {
	return Line{
		Quantity:  1,
		UnitPrice: decimal.Zero,
		MRP:       decimal.Zero,
		LineTotal: decimal.Zero,
	}
}

func (l *Line) recompute() {
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Draft is an editable, not-yet-submitted order: the backing state of a
// create, edit, or retry dialog. A draft always holds at least one line.
type Draft struct {
	lines []Line
}

// NewDraft creates a draft with a single blank line (quantity 1, price 0).
func NewDraft() *Draft {
	return &Draft{lines: []Line{blankLine()}}
}

// Reset discards all lines and leaves one blank line, matching the
// state of a freshly opened dialog. Called on cancel and on confirmed
// successful submission, never on failure.
func (d *Draft) Reset() {
	d.lines = []Line{blankLine()}
}

// Len returns the number of lines.
func (d *Draft) Len() int { return len(d.lines) }

// Lines returns a copy of the current lines in insertion order.
func (d *Draft) Lines() []Line {
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// Line returns a copy of the line at index i.
func (d *Draft) Line(i int) (Line, error) {
	if i < 0 || i >= len(d.lines) {
		return Line{}, ErrIndexOutOfRange
	}
	return d.lines[i], nil
}

// AddLine appends a blank line and returns its index.
func (d *Draft) AddLine() int {
	d.lines = append(d.lines, blankLine())
	return len(d.lines) - 1
}

// RemoveLine removes the line at index i. Removing the last remaining
// line is rejected so the draft never becomes empty.
func (d *Draft) RemoveLine(i int) error {
	if i < 0 || i >= len(d.lines) {
		return ErrIndexOutOfRange
	}
	if len(d.lines) == 1 {
		return ErrLastLine
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	return nil
}

// SelectProduct binds the line at index i to p, seeding the unit price
// from the product MRP. A nil product clears the selection and resets
// the price to zero. The line total is recomputed either way.
func (d *Draft) SelectProduct(i int, p *Product) error {
	if i < 0 || i >= len(d.lines) {
		return ErrIndexOutOfRange
	}
	l := &d.lines[i]
	if p == nil {
		l.ProductID = ""
		l.ProductName = ""
		l.Barcode = ""
		l.UnitPrice = decimal.Zero
		l.MRP = decimal.Zero
	} else {
		l.ProductID = p.ID
		l.ProductName = p.Name
		l.Barcode = p.Barcode
		l.MRP = p.MRP
		l.UnitPrice = p.MRP
	}
	l.recompute()
	return nil
}

// SetQuantity sets the quantity of line i, clamping to a minimum of 1.
func (d *Draft) SetQuantity(i, q int) error {
	if i < 0 || i >= len(d.lines) {
		return ErrIndexOutOfRange
	}
	if q < 1 {
		q = 1
	}
	l := &d.lines[i]
	l.Quantity = q
	l.recompute()
	return nil
}

// SetUnitPrice sets the selling price of line i. Negative prices clamp
// to zero; a price above the selected product's MRP is rejected and the
// stored price is left unchanged.
func (d *Draft) SetUnitPrice(i int, p decimal.Decimal) error {
	if i < 0 || i >= len(d.lines) {
		return ErrIndexOutOfRange
	}
	l := &d.lines[i]
	if p.GreaterThan(l.MRP) {
		return fmt.Errorf("%w (%s)", ErrPriceAboveMRP, l.MRP.StringFixed(2))
	}
	if p.IsNegative() {
		p = decimal.Zero
	}
	l.UnitPrice = p
	l.recompute()
	return nil
}

// Total returns the sum of all line totals.
func (d *Draft) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range d.lines {
		sum = sum.Add(l.LineTotal)
	}
	return sum
}

// Validate runs the pre-submission checks in order, stopping at the
// first violation: at least one line, every line has a product, a
// positive quantity, and a price within [0, MRP]. Line numbers in the
// returned error are 1-based.
func (d *Draft) Validate() error {
	if len(d.lines) == 0 {
		return ErrNoLines
	}
	for i, l := range d.lines {
		if l.ProductID == "" {
			return fmt.Errorf("line %d: %w", i+1, ErrNoProduct)
		}
		if l.Quantity < 1 {
			return fmt.Errorf("line %d: %w", i+1, ErrInvalidQuantity)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("line %d: %w", i+1, ErrNegativePrice)
		}
		if l.UnitPrice.GreaterThan(l.MRP) {
			return fmt.Errorf("line %d: %w", i+1, ErrPriceAboveMRP)
		}
	}
	return nil
}

// LoadItems replaces the draft contents with the persisted items of an
// existing order, the starting state of an edit or retry dialog.
func (d *Draft) LoadItems(items []Item) {
	if len(items) == 0 {
		d.Reset()
		return
	}
	d.lines = d.lines[:0]
	for _, it := range items {
		l := Line{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Barcode:     it.Barcode,
			Quantity:    it.Quantity,
			UnitPrice:   it.MRP,
			MRP:         it.MRP,
		}
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		l.recompute()
		d.lines = append(d.lines, l)
	}
}
