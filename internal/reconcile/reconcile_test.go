package reconcile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/abhishake-droid/pos-console/internal/tsv"
)

func TestReconcileCleanUpload(t *testing.T) {
	d := tsv.Parse("rowNumber\tstatus\terror\tdata\n1\tOK\t\tBC001\n2\tSUCCESS\tProduct created\tBC002\n")
	rep := New().Reconcile(d)

	if rep.HasErrors {
		t.Error("HasErrors = true for clean upload")
	}
	if len(rep.Failures) != 0 {
		t.Errorf("failures: got %d, want 0", len(rep.Failures))
	}
	if rep.SuccessCount != 2 {
		t.Errorf("successes: got %d, want 2", rep.SuccessCount)
	}
}

func TestReconcileFailuresAndSkips(t *testing.T) {
	d := tsv.Parse("rowNumber\tstatus\terror\tdata\n" +
		"1\tOK\t\tBC001\n" +
		"2\tSKIPPED\t\tBC002\n" +
		"3\tFAILED\tInvalid MRP format\tBC003\n")
	rep := New().Reconcile(d)

	if !rep.HasErrors {
		t.Fatal("HasErrors = false")
	}
	if len(rep.Failures) != 2 {
		t.Fatalf("failures: got %d, want 2", len(rep.Failures))
	}
	if rep.FailedCount != 1 || rep.SkippedCount != 1 {
		t.Errorf("counts: failed %d skipped %d, want 1 and 1", rep.FailedCount, rep.SkippedCount)
	}

	skip := rep.Failures[0]
	if skip.RowNumber != "2" || skip.Data != "BC002" {
		t.Errorf("skipped row: %+v", skip)
	}
	if skip.Error != "Product already exists" {
		t.Errorf("skipped without message: got %q, want synthesized default", skip.Error)
	}

	fail := rep.Failures[1]
	if fail.Error != "Invalid MRP format" {
		t.Errorf("failed row kept backend message: got %q", fail.Error)
	}
}

func TestReconcileSkippedKeepsExplicitMessage(t *testing.T) {
	d := tsv.Parse("rowNumber\tstatus\terror\tdata\n1\tSKIPPED\tDuplicate barcode BC001\tBC001\n")
	rep := New().Reconcile(d)
	if got := rep.Failures[0].Error; got != "Duplicate barcode BC001" {
		t.Errorf("got %q, want explicit message preserved", got)
	}
}

func TestReconcileResolvesColumnsByName(t *testing.T) {
	// Backend-defined column order varies between dataset kinds.
	d := tsv.Parse("Status\tOriginal Data\tRow Number\tError Message\n" +
		"FAILED\tBC009\t7\tbad row\n")
	rep := New().Reconcile(d)
	if !rep.HasErrors {
		t.Fatal("HasErrors = false")
	}
	f := rep.Failures[0]
	if f.RowNumber != "7" || f.Error != "bad row" || f.Data != "BC009" {
		t.Errorf("columns misresolved: %+v", f)
	}
}

func TestReconcileDisplayCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("rowNumber\tstatus\terror\tdata\n")
	for i := 0; i < 10; i++ {
		b.WriteString("1\tFAILED\tbad\tBC\n")
	}
	r := &Reconciler{DisplayCap: 3}
	rep := r.Reconcile(tsv.Parse(b.String()))

	if len(rep.Displayed) != 3 {
		t.Errorf("displayed: got %d, want 3", len(rep.Displayed))
	}
	if len(rep.Failures) != 10 {
		t.Errorf("full list truncated: got %d, want 10", len(rep.Failures))
	}
}

func TestFailureTSVOmitsSuccesses(t *testing.T) {
	d := tsv.Parse("rowNumber\tstatus\terror\tdata\n1\tOK\t\tBC001\n2\tSKIPPED\t\tBC002\n")
	out := New().Reconcile(d).FailureTSV()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want header + 1 failure\n%s", len(lines), out)
	}
	if lines[1] != "2\tSKIPPED\tProduct already exists\tBC002" {
		t.Errorf("failure line: got %q", lines[1])
	}
}

func TestResultTSVIsComplete(t *testing.T) {
	in := "rowNumber\tstatus\terror\tdata\n1\tOK\t\tBC001\n2\tFAILED\tbad\tBC002\n"
	out := New().Reconcile(tsv.Parse(in)).ResultTSV()
	if out != in {
		t.Errorf("result artifact altered:\ngot  %q\nwant %q", out, in)
	}
}

func TestArtifactName(t *testing.T) {
	at := time.Date(2026, 8, 31, 15, 42, 10, 0, time.UTC)
	if got, want := ArtifactName("products", at), "products-upload-results-20260831-154210.tsv"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := ExcelArtifactName("inventory", at), "inventory-upload-failures-20260831-154210.xlsx"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteFailuresXLSX(t *testing.T) {
	d := tsv.Parse("rowNumber\tstatus\terror\tdata\n2\tSKIPPED\t\tBC002\n")
	rep := New().Reconcile(d)

	var buf bytes.Buffer
	if err := rep.WriteFailuresXLSX(&buf, "Failures"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("empty workbook written")
	}
}
