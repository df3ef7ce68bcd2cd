// Package importer runs the TSV bulk-upload workflow end to end:
// size check before the file is read, header and row validation before
// any bytes leave the machine, base64 transport, and reconciliation of
// the backend's per-row results into a report and download artifacts.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhishake-droid/pos-console/internal/enum"
	"github.com/abhishake-droid/pos-console/internal/reconcile"
	"github.com/abhishake-droid/pos-console/internal/tsv"
)

// Errors returned by the importer.
var (
	ErrUploadInFlight = errors.New("an upload is already in flight")
	ErrUnknownKind    = errors.New("unknown import kind")
)

// UploadAPI is the slice of the REST client the importer needs.
// Satisfied by *client.Client.
type UploadAPI interface {
	UploadProductsTSV(ctx context.Context, base64Content string) (string, error)
	UploadInventoryTSV(ctx context.Context, base64Content string) (string, error)
}

// Result is the outcome of one completed upload.
type Result struct {
	Kind         string
	Report       reconcile.Report
	ArtifactName string // result TSV file name, kind + timestamp
	ArtifactTSV  string // complete result payload for download
	CloseDialog  bool   // clean upload: dialog auto-closes
}

// Importer drives bulk uploads. One upload may be in flight at a time;
// the trigger stays disabled until the active one resolves.
type Importer struct {
	api    UploadAPI
	codec  *tsv.Codec
	rec    *reconcile.Reconciler
	logger *logrus.Logger
	now    func() time.Time

	mu       sync.Mutex
	inFlight bool
}

// New creates an Importer with default codec caps and display cap.
func New(api UploadAPI, logger *logrus.Logger) *Importer {
	return &Importer{
		api:    api,
		codec:  tsv.NewCodec(),
		rec:    reconcile.New(),
		logger: logger,
		now:    time.Now,
	}
}

// Codec exposes the codec so callers can adjust the size caps.
func (im *Importer) Codec() *tsv.Codec {
	return im.codec
}

func (im *Importer) begin() error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.inFlight {
		return ErrUploadInFlight
	}
	im.inFlight = true
	return nil
}

func (im *Importer) end() {
	im.mu.Lock()
	im.inFlight = false
	im.mu.Unlock()
}

// UploadFile checks the file size against the byte cap before reading,
// then uploads the content. The read completes fully before encoding
// begins.
func (im *Importer) UploadFile(ctx context.Context, kind, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat upload file: %w", err)
	}
	if err := im.codec.CheckSize(int(info.Size())); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}
	return im.Upload(ctx, kind, string(content))
}

// Upload validates and uploads a TSV payload and reconciles the result.
// Validation failures abort before the network; the upload endpoint is
// chosen by kind. Re-entry while an upload is in flight is rejected.
func (im *Importer) Upload(ctx context.Context, kind, content string) (*Result, error) {
	if !enum.IsValidImportKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := im.begin(); err != nil {
		return nil, err
	}
	defer im.end()

	if err := im.codec.CheckSize(len(content)); err != nil {
		return nil, err
	}

	dataset := tsv.Parse(content)
	if err := tsv.ValidateHeader(kind, dataset); err != nil {
		return nil, err
	}
	if err := im.codec.ValidateRows(kind, dataset); err != nil {
		return nil, err
	}

	encoded := im.codec.Encode(content)
	im.logger.WithFields(logrus.Fields{
		"kind": kind,
		"rows": len(dataset.Rows),
	}).Info("Uploading TSV batch")

	var resultB64 string
	var err error
	switch kind {
	case enum.ImportKindProducts:
		resultB64, err = im.api.UploadProductsTSV(ctx, encoded)
	case enum.ImportKindInventory:
		resultB64, err = im.api.UploadInventoryTSV(ctx, encoded)
	}
	if err != nil {
		return nil, err
	}

	resultText, err := im.codec.Decode(resultB64)
	if err != nil {
		return nil, fmt.Errorf("decode result payload: %w", err)
	}

	report := im.rec.Reconcile(tsv.Parse(resultText))
	im.logger.WithFields(logrus.Fields{
		"kind":    kind,
		"ok":      report.SuccessCount,
		"failed":  report.FailedCount,
		"skipped": report.SkippedCount,
	}).Info("Upload reconciled")

	return &Result{
		Kind:         kind,
		Report:       report,
		ArtifactName: reconcile.ArtifactName(kind, im.now()),
		ArtifactTSV:  resultText,
		CloseDialog:  !report.HasErrors,
	}, nil
}

// SaveArtifact writes the complete result payload next to the user's
// downloads, returning the written path.
func (im *Importer) SaveArtifact(dir string, res *Result) (string, error) {
	path := filepath.Join(dir, res.ArtifactName)
	if err := os.WriteFile(path, []byte(res.ArtifactTSV), 0o644); err != nil {
		return "", fmt.Errorf("write result artifact: %w", err)
	}
	return path, nil
}
