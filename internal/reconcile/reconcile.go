// Package reconcile turns a decoded bulk-upload result dataset into a
// per-row outcome report: which rows the backend accepted, which it
// rejected or skipped, and the artifacts the user can download to fix
// and re-submit the failed rows.
package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhishake-droid/pos-console/internal/enum"
	"github.com/abhishake-droid/pos-console/internal/tsv"
)

// DefaultDisplayCap bounds the on-screen failure list. The downloadable
// artifacts are never truncated.
const DefaultDisplayCap = 100

// skippedDefaultReason is the one documented reason the backend skips a
// row without attaching a message.
const skippedDefaultReason = "Product already exists"

// Positional fallbacks matching the backend's result layout
// (Row Number, Status, Error Message, Original Data). Used only when
// header-name lookup fails.
const (
	fallbackRowNumberCol = 0
	fallbackStatusCol    = 1
	fallbackErrorCol     = 2
	fallbackDataCol      = 3
)

// Failure is one rejected or skipped row.
type Failure struct {
	RowNumber string
	Status    string
	Error     string
	Data      string
}

// Report is the reconciled outcome of one upload.
type Report struct {
	HasErrors    bool
	Failures     []Failure // complete
	Displayed    []Failure // capped for on-screen use
	SuccessCount int
	FailedCount  int
	SkippedCount int

	header []string
	rows   []tsv.Row
}

// Reconciler classifies decoded result rows.
type Reconciler struct {
	DisplayCap int
}

// New returns a Reconciler with the default display cap.
func New() *Reconciler {
	return &Reconciler{DisplayCap: DefaultDisplayCap}
}

func isFailureStatus(s string) bool {
	return strings.EqualFold(s, enum.ImportRowFailed) || strings.EqualFold(s, enum.ImportRowSkipped)
}

// Reconcile classifies every row of a decoded result dataset. A row is
// a failure iff its status is FAILED or SKIPPED; everything else counts
// as a success, so both the OK and SUCCESS spellings pass. Columns are
// resolved by header name, falling back to the backend's positional
// layout only when the name lookup fails.
func (r *Reconciler) Reconcile(d tsv.Dataset) Report {
	rowIdx := d.ColumnIndex("rowNumber", fallbackRowNumberCol)
	statusIdx := d.ColumnIndex("status", fallbackStatusCol)
	errorIdx := d.ColumnIndex("error", fallbackErrorCol)
	dataIdx := d.ColumnIndex("data", fallbackDataCol)

	report := Report{header: d.Header, rows: d.Rows}
	for _, row := range d.Rows {
		status := row.Field(statusIdx)
		if !isFailureStatus(status) {
			report.SuccessCount++
			continue
		}

		msg := row.Field(errorIdx)
		if msg == "" && strings.EqualFold(status, enum.ImportRowSkipped) {
			msg = skippedDefaultReason
		}
		report.Failures = append(report.Failures, Failure{
			RowNumber: row.Field(rowIdx),
			Status:    strings.ToUpper(status),
			Error:     msg,
			Data:      row.Field(dataIdx),
		})
		if strings.EqualFold(status, enum.ImportRowSkipped) {
			report.SkippedCount++
		} else {
			report.FailedCount++
		}
	}

	report.HasErrors = len(report.Failures) > 0

	limit := r.DisplayCap
	if limit <= 0 {
		limit = DefaultDisplayCap
	}
	if len(report.Failures) > limit {
		report.Displayed = report.Failures[:limit]
	} else {
		report.Displayed = report.Failures
	}
	return report
}

// ResultTSV re-renders the complete result payload, identical in
// content to what the backend returned.
func (rp Report) ResultTSV() string {
	var b strings.Builder
	b.WriteString(strings.Join(rp.header, "\t"))
	b.WriteByte('\n')
	for _, row := range rp.rows {
		b.WriteString(row.Raw)
		b.WriteByte('\n')
	}
	return b.String()
}

// FailureTSV renders only the failed and skipped rows under a
// canonical header, for users who want to fix and re-submit just the
// rejected part of a batch.
func (rp Report) FailureTSV() string {
	var b strings.Builder
	b.WriteString("rowNumber\tstatus\terror\tdata\n")
	for _, f := range rp.Failures {
		b.WriteString(f.RowNumber)
		b.WriteByte('\t')
		b.WriteString(f.Status)
		b.WriteByte('\t')
		b.WriteString(strings.ReplaceAll(f.Error, "\t", " "))
		b.WriteByte('\t')
		b.WriteString(f.Data)
		b.WriteByte('\n')
	}
	return b.String()
}

// ArtifactName names the downloadable result file for a dataset kind,
// e.g. "products-upload-results-20260831-154210.tsv".
func ArtifactName(kind string, at time.Time) string {
	return fmt.Sprintf("%s-upload-results-%s.tsv", kind, at.Format("20060102-150405"))
}
