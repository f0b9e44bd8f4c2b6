// Package xsdvalidate implements C6b: the external XSD schema validation
// step the XML codec invokes after writing each invoice's XML file. The
// capability is abstracted behind a small interface (SPEC_FULL.md §9's
// design note) so it can be faked in tests without spawning a process.
package xsdvalidate

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/freelancehub/invoicecore/coreerrors"
)

// Result is the validator's verdict for a single document.
type Result struct {
	Valid  bool
	Stderr string
}

// Validator is the capability every XML-producing step depends on instead
// of calling os/exec directly, so the invoice service can be exercised
// without a real xmllint-shaped binary on PATH.
type Validator interface {
	Validate(ctx context.Context, xmlPath string) (*Result, error)
}

// ExecValidator shells out to an external XSD validator binary (xmllint or
// equivalent), the donor pack's only precedent for invoking an external
// process being os/exec itself — no repo in the retrieved pack wraps schema
// validation in a Go library.
type ExecValidator struct {
	BinaryPath string
	SchemaPath string
	CatalogPath string
}

// Validate runs `<binary> --noout --schema <schema> <xmlPath>`, a standard
// xmllint invocation, with XML_CATALOG_FILES set to CatalogPath when one is
// configured, and returns its verdict. A non-zero exit
// is reported as a Result with Valid=false, not as a Go error — spawn
// failures (binary missing, permissions) are the Go error.
func (v *ExecValidator) Validate(ctx context.Context, xmlPath string) (*Result, error) {
	const op = "xsdvalidate.ExecValidator.Validate"

	args := []string{"--noout", "--schema", v.SchemaPath, xmlPath}
	cmd := exec.CommandContext(ctx, v.BinaryPath, args...)
	if v.CatalogPath != "" {
		cmd.Env = append(cmd.Environ(), "XML_CATALOG_FILES="+v.CatalogPath)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return &Result{Valid: true}, nil
	}

	var exitErr *exec.ExitError
	if isExitError(err, &exitErr) {
		return &Result{Valid: false, Stderr: stderr.String()}, nil
	}

	return nil, coreerrors.Wrap(coreerrors.KindIO, op, "failed to invoke external validator", err)
}

func isExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}
	*target = ee
	return true
}

// FakeValidator is the test double named in SPEC_FULL.md §9.
type FakeValidator struct {
	ValidResult *Result
	Err         error
}

func (f *FakeValidator) Validate(ctx context.Context, xmlPath string) (*Result, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.ValidResult != nil {
		return f.ValidResult, nil
	}
	return &Result{Valid: true}, nil
}
