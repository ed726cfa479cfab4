package printer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"restopos/pkg/apperror"
)

// CommandRunner abstracts subprocess execution so the spooler can be tested
// without a real CUPS installation.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return out.String(), errBuf.String(), err
}

// Spooler talks to the system print spooler through the lpstat and lp
// commands. Discovery calls are best-effort and never fail hard: a machine
// without CUPS simply reports no printers.
type Spooler struct {
	runner CommandRunner
}

// NewSpooler creates a Spooler backed by real subprocess execution.
func NewSpooler() *Spooler {
	return &Spooler{runner: execRunner{}}
}

// NewSpoolerWithRunner creates a Spooler with a custom runner (tests).
func NewSpoolerWithRunner(r CommandRunner) *Spooler {
	return &Spooler{runner: r}
}

// ListPrinters returns the names of all printers known to the spooler.
// Returns an empty slice when lpstat is missing or reports nothing.
func (s *Spooler) ListPrinters(ctx context.Context) []string {
	out, _, err := s.runner.Run(ctx, "lpstat", "-p")
	if err != nil {
		return nil
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		// lpstat -p lines look like "printer EPSON_TM is idle. ..."
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "printer" {
			names = append(names, fields[1])
		}
	}
	return names
}

// DefaultPrinter returns the system default destination, and false when no
// default is configured or the spooler is unavailable.
func (s *Spooler) DefaultPrinter(ctx context.Context) (string, bool) {
	out, _, err := s.runner.Run(ctx, "lpstat", "-d")
	if err != nil {
		return "", false
	}
	// "system default destination: EPSON_TM" or
	// "no system default destination"
	line := strings.TrimSpace(out)
	const prefix = "system default destination:"
	if idx := strings.Index(line, prefix); idx >= 0 {
		name := strings.TrimSpace(line[idx+len(prefix):])
		if name != "" {
			return name, true
		}
	}
	return "", false
}

// PrintOptions control how a job is submitted to the spooler.
type PrintOptions struct {
	Copies  int
	Options map[string]string // passed through as lp -o key=value
}

// Submit writes text to a temp file and hands it to lp. An empty printer
// name lets the spooler pick the system default destination. A non-zero lp
// exit becomes an apperror with the captured stderr as diagnostic.
func (s *Spooler) Submit(ctx context.Context, text, printerName string, opts PrintOptions) error {
	tmp, err := os.CreateTemp("", "invoice-*.txt")
	if err != nil {
		return apperror.NewIOError("spool", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return apperror.NewIOError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return apperror.NewIOError(path, err)
	}

	args := []string{}
	if printerName != "" {
		args = append(args, "-d", printerName)
	}
	if opts.Copies > 1 {
		args = append(args, "-n", strconv.Itoa(opts.Copies))
	}
	for k, v := range opts.Options {
		args = append(args, "-o", fmt.Sprintf("%s=%s", k, v))
	}
	args = append(args, path)

	_, stderr, err := s.runner.Run(ctx, "lp", args...)
	if err != nil {
		diag := strings.TrimSpace(stderr)
		if diag == "" {
			diag = err.Error()
		}
		return apperror.NewPrintError(diag)
	}
	return nil
}

// SpoolDir returns a writable directory for exported invoice artifacts,
// creating it if needed.
func SpoolDir(base string) (string, error) {
	if base == "" {
		base = filepath.Join(os.TempDir(), "restopos-invoices")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", apperror.NewIOError(base, err)
	}
	return base, nil
}
