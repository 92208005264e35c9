package extract

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/tanmodi/oorja-backend/internal/common"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	gotName string
	gotArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.gotName = name
	s.gotArgs = args
	return s.stdout, s.stderr, s.err
}

func TestExtractConcatenatesPages(t *testing.T) {
	r := &stubRunner{stdout: []byte("page one text\fpage two text\fpage three")}
	e := NewPDFExtractor(Config{}, nil).WithRunner(r)

	res, err := e.Extract(context.Background(), "/tmp/bill.pdf")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if res.Pages != 3 {
		t.Fatalf("pages = %d, want 3", res.Pages)
	}
	if res.Method != "pdf-text" {
		t.Fatalf("method = %s", res.Method)
	}
	if r.gotName != "pdftotext" {
		t.Fatalf("binary = %s", r.gotName)
	}
	// The file path and stdout sentinel must be the last two args.
	if n := len(r.gotArgs); n < 2 || r.gotArgs[n-2] != "/tmp/bill.pdf" || r.gotArgs[n-1] != "-" {
		t.Fatalf("args = %v", r.gotArgs)
	}
}

func TestExtractInvalidPDF(t *testing.T) {
	r := &stubRunner{stderr: []byte("Syntax Error: Couldn't read xref table"), err: errors.New("exit status 1")}
	e := NewPDFExtractor(Config{}, nil).WithRunner(r)

	_, err := e.Extract(context.Background(), "/tmp/garbage.pdf")
	if !errors.Is(err, common.ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func TestExecRunnerLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	e := NewPDFExtractor(Config{Pdftotext: "no-such-pdftotext-binary"}, logger)

	if _, err := e.Extract(context.Background(), "/tmp/bill.pdf"); !errors.Is(err, common.ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
	if !strings.Contains(buf.String(), "extract.exec.failed") {
		t.Fatalf("exec failure not logged via injected logger: %s", buf.String())
	}
}

func TestExtractEmptyTextIsError(t *testing.T) {
	r := &stubRunner{stdout: []byte("  \n\f \n")}
	e := NewPDFExtractor(Config{}, nil).WithRunner(r)

	_, err := e.Extract(context.Background(), "/tmp/scanned.pdf")
	if !errors.Is(err, common.ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction for text-free PDF", err)
	}
}
