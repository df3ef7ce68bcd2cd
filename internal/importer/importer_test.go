package importer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhishake-droid/pos-console/internal/enum"
	"github.com/abhishake-droid/pos-console/internal/tsv"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// mockUploadAPI implements UploadAPI.
type mockUploadAPI struct {
	productsFn  func(ctx context.Context, b64 string) (string, error)
	inventoryFn func(ctx context.Context, b64 string) (string, error)
}

func (m *mockUploadAPI) UploadProductsTSV(ctx context.Context, b64 string) (string, error) {
	return m.productsFn(ctx, b64)
}
func (m *mockUploadAPI) UploadInventoryTSV(ctx context.Context, b64 string) (string, error) {
	return m.inventoryFn(ctx, b64)
}

const productsTSV = "barcode\tclientid\tname\tmrp\nBC001\tC1\tSoap\t50\nBC002\tC1\tOil\t120\n"

// resultFor encodes a canned backend result payload.
func resultFor(text string) string {
	return tsv.NewCodec().Encode(text)
}

func TestUploadCleanBatchClosesDialog(t *testing.T) {
	api := &mockUploadAPI{
		productsFn: func(ctx context.Context, b64 string) (string, error) {
			// The upload body must be the exact base64 of the input.
			decoded, err := tsv.NewCodec().Decode(b64)
			if err != nil {
				t.Errorf("upload body not base64: %v", err)
			}
			if decoded != productsTSV {
				t.Errorf("upload body altered:\ngot  %q\nwant %q", decoded, productsTSV)
			}
			return resultFor("rowNumber\tstatus\terror\tdata\n1\tSUCCESS\t\tBC001\n2\tSUCCESS\t\tBC002\n"), nil
		},
	}

	im := New(api, testLogger())
	res, err := im.Upload(context.Background(), enum.ImportKindProducts, productsTSV)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CloseDialog {
		t.Error("clean upload should auto-close the dialog")
	}
	if res.Report.HasErrors {
		t.Error("HasErrors on clean upload")
	}
}

func TestUploadFailuresKeepDialogOpen(t *testing.T) {
	api := &mockUploadAPI{
		productsFn: func(ctx context.Context, b64 string) (string, error) {
			return resultFor("rowNumber\tstatus\terror\tdata\n1\tOK\t\tBC001\n2\tSKIPPED\t\tBC002\n"), nil
		},
	}

	im := New(api, testLogger())
	im.now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) }

	res, err := im.Upload(context.Background(), enum.ImportKindProducts, productsTSV)
	if err != nil {
		t.Fatal(err)
	}
	if res.CloseDialog {
		t.Error("upload with failures should keep the dialog open")
	}
	if len(res.Report.Failures) != 1 || res.Report.Failures[0].Error != "Product already exists" {
		t.Errorf("failures: %+v", res.Report.Failures)
	}
	if res.ArtifactName != "products-upload-results-20260831-100000.tsv" {
		t.Errorf("artifact name: %q", res.ArtifactName)
	}
}

func TestUploadMissingHeadersNeverSent(t *testing.T) {
	sent := false
	api := &mockUploadAPI{
		productsFn: func(ctx context.Context, b64 string) (string, error) {
			sent = true
			return "", nil
		},
	}

	im := New(api, testLogger())
	_, err := im.Upload(context.Background(), enum.ImportKindProducts, "barcode\tname\nBC001\tSoap\n")
	if !errors.Is(err, tsv.ErrMissingHeaders) {
		t.Fatalf("got %v, want ErrMissingHeaders", err)
	}
	if sent {
		t.Error("invalid batch was uploaded")
	}
}

func TestUploadBlankClientIDNeverSent(t *testing.T) {
	sent := false
	api := &mockUploadAPI{
		productsFn: func(ctx context.Context, b64 string) (string, error) {
			sent = true
			return "", nil
		},
	}

	im := New(api, testLogger())
	_, err := im.Upload(context.Background(), enum.ImportKindProducts,
		"barcode\tclientid\tname\tmrp\nBC001\t\tSoap\t50\n")
	if !errors.Is(err, tsv.ErrBlankClientID) {
		t.Fatalf("got %v, want ErrBlankClientID", err)
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error %q does not name row 2", err)
	}
	if sent {
		t.Error("batch with blank clientid was uploaded")
	}
}

func TestUploadInventoryRoutesToInventoryEndpoint(t *testing.T) {
	inventoryCalled := false
	api := &mockUploadAPI{
		productsFn: func(ctx context.Context, b64 string) (string, error) {
			t.Error("products endpoint called for inventory kind")
			return "", nil
		},
		inventoryFn: func(ctx context.Context, b64 string) (string, error) {
			inventoryCalled = true
			return resultFor("rowNumber\tstatus\terror\tdata\n1\tOK\t\tBC001\n"), nil
		},
	}

	im := New(api, testLogger())
	if _, err := im.Upload(context.Background(), enum.ImportKindInventory, "barcode\tquantity\nBC001\t10\n"); err != nil {
		t.Fatal(err)
	}
	if !inventoryCalled {
		t.Error("inventory endpoint not called")
	}
}

func TestUploadUnknownKind(t *testing.T) {
	im := New(&mockUploadAPI{}, testLogger())
	if _, err := im.Upload(context.Background(), "operators", "a\tb\n1\t2\n"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("got %v, want ErrUnknownKind", err)
	}
}

func TestUploadSizeCap(t *testing.T) {
	im := New(&mockUploadAPI{}, testLogger())
	im.Codec().MaxBytes = 10

	_, err := im.Upload(context.Background(), enum.ImportKindInventory, "barcode\tquantity\nBC001\t10\n")
	if !errors.Is(err, tsv.ErrTooLarge) {
		t.Fatalf("got %v, want ErrTooLarge", err)
	}
}

func TestUploadGuardsConcurrentUpload(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once
	api := &mockUploadAPI{
		inventoryFn: func(ctx context.Context, b64 string) (string, error) {
			startedOnce.Do(func() { close(started) })
			<-release
			return resultFor("rowNumber\tstatus\terror\tdata\n1\tOK\t\tBC001\n"), nil
		},
	}

	im := New(api, testLogger())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := im.Upload(context.Background(), enum.ImportKindInventory, "barcode\tquantity\nBC001\t10\n"); err != nil {
			t.Errorf("first upload: %v", err)
		}
	}()

	<-started
	_, err := im.Upload(context.Background(), enum.ImportKindInventory, "barcode\tquantity\nBC002\t5\n")
	if !errors.Is(err, ErrUploadInFlight) {
		t.Errorf("got %v, want ErrUploadInFlight", err)
	}
	close(release)
	wg.Wait()

	// Slot released after completion.
	if _, err := im.Upload(context.Background(), enum.ImportKindInventory, "barcode\tquantity\nBC003\t5\n"); err != nil {
		t.Errorf("follow-up upload: %v", err)
	}
}

func TestUploadFileRejectsOversizedBeforeRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.tsv")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 100)), 0o644); err != nil {
		t.Fatal(err)
	}

	im := New(&mockUploadAPI{}, testLogger())
	im.Codec().MaxBytes = 50

	_, err := im.UploadFile(context.Background(), enum.ImportKindProducts, path)
	if !errors.Is(err, tsv.ErrTooLarge) {
		t.Fatalf("got %v, want ErrTooLarge", err)
	}
}

func TestSaveArtifact(t *testing.T) {
	res := &Result{
		ArtifactName: "products-upload-results-x.tsv",
		ArtifactTSV:  "rowNumber\tstatus\terror\tdata\n1\tOK\t\tBC001\n",
	}
	im := New(&mockUploadAPI{}, testLogger())

	dir := t.TempDir()
	path, err := im.SaveArtifact(dir, res)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != res.ArtifactTSV {
		t.Errorf("artifact content altered: %q", got)
	}
}
