// Package render turns merged DOCX files into their final form and joins the
// per-row outputs into a single file.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoOffice is returned when no LibreOffice binary can be found.
var ErrNoOffice = errors.New("soffice not found in PATH")

// lookPath resolves binaries. Tests replace it.
var lookPath = exec.LookPath

// officeBinaries are tried in order when Soffice.Binary is empty.
var officeBinaries = []string{"soffice", "libreoffice"}

// LibreOffice cannot run two headless conversions against one profile, so all
// conversions in the process are serialised.
var officeMu sync.Mutex

// Soffice converts DOCX to PDF with a headless LibreOffice.
type Soffice struct {
	Binary  string        // path or name of the binary; empty searches PATH
	Timeout time.Duration // per-file limit; zero means no limit
	Logger  *zerolog.Logger
}

// Ext implements batch.Converter.
func (s *Soffice) Ext() string { return "pdf" }

func (s *Soffice) binary() (string, error) {
	if s.Binary != "" {
		return lookPath(s.Binary)
	}
	for _, name := range officeBinaries {
		if p, err := lookPath(name); err == nil {
			return p, nil
		}
	}
	return "", ErrNoOffice
}

// Convert writes src as a PDF to dst. LibreOffice chooses the output name
// itself, so it converts into a scratch directory next to dst and the result
// is renamed into place.
func (s *Soffice) Convert(ctx context.Context, src, dst string) error {
	bin, err := s.binary()
	if err != nil {
		return err
	}

	officeMu.Lock()
	defer officeMu.Unlock()

	scratch, err := os.MkdirTemp(filepath.Dir(dst), ".soffice-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratch)

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	profile := "file://" + filepath.ToSlash(filepath.Join(scratch, "profile"))
	args := []string{
		"-env:UserInstallation=" + profile,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", scratch,
		src,
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.WaitDelay = 5 * time.Second

	log := zerolog.Nop()
	if s.Logger != nil {
		log = *s.Logger
	}
	log.Debug().Str("binary", bin).Str("src", src).Msg("converting")

	out, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return fmt.Errorf("converting %s: %w", filepath.Base(src), ctx.Err())
	}
	if err != nil {
		return fmt.Errorf("converting %s: %w: %s", filepath.Base(src), err, strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	produced := filepath.Join(scratch, base+".pdf")
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("converting %s: no output produced: %s", filepath.Base(src), strings.TrimSpace(string(out)))
	}
	return os.Rename(produced, dst)
}
