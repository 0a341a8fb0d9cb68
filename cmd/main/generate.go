package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/pagegen/pkg/attendee"
	"github.com/CTAG07/pagegen/pkg/ledger"
	"github.com/CTAG07/pagegen/pkg/templating"
	"github.com/natefinch/atomic"
)

// PageGenerator writes one page per attendee under outputDir.
type PageGenerator struct {
	tm        *templating.TemplateManager
	ledger    *ledger.Ledger // nil when the ledger is disabled
	outputDir string
	out       io.Writer
	logger    *slog.Logger
}

// NewPageGenerator creates a PageGenerator. Progress lines are written to out.
func NewPageGenerator(tm *templating.TemplateManager, l *ledger.Ledger, outputDir string, out io.Writer, logger *slog.Logger) *PageGenerator {
	return &PageGenerator{
		tm:        tm,
		ledger:    l,
		outputDir: outputDir,
		out:       out,
		logger:    logger,
	}
}

// Run generates the pages strictly in list order and returns how many were
// written. The first page error aborts the remaining attendees. Ledger
// failures are logged and stop further ledger writes for this run, but never
// stop page generation.
func (g *PageGenerator) Run(ctx context.Context, dataPath string, attendees []attendee.Attendee) (int, error) {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	l := g.ledger
	var runID string
	if l != nil {
		var err error
		if runID, err = l.BeginRun(ctx, g.tm.GetTemplatePath(), dataPath); err != nil {
			g.logger.Warn("Ledger unavailable, continuing without it", "error", err)
			l = nil
		} else {
			g.logger.Debug("Run started", "run_id", runID)
		}
	}

	generated := 0
	for _, a := range attendees {
		page, err := g.writePage(a)
		if err != nil {
			return generated, err
		}
		generated++
		_, _ = fmt.Fprintf(g.out, "Generated: %s\n", page.Path)

		if l != nil {
			if err = l.RecordPage(ctx, runID, page); err != nil {
				g.logger.Warn("Failed to record page in ledger, continuing without it", "slug", a.Slug, "error", err)
				l = nil
			}
		}
	}

	if l != nil {
		if err := l.FinishRun(ctx, runID, generated); err != nil {
			g.logger.Warn("Failed to record run finish in ledger", "run_id", runID, "error", err)
		}
	}

	_, _ = fmt.Fprintf(g.out, "\nTotal pages generated: %d\n", generated)
	return generated, nil
}

func (g *PageGenerator) writePage(a attendee.Attendee) (ledger.PageRecord, error) {
	dir := filepath.Join(g.outputDir, a.Slug)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ledger.PageRecord{}, fmt.Errorf("failed to create directory for %q: %w", a.Slug, err)
	}

	html := g.tm.Render(a)
	path := filepath.Join(dir, "index.html")
	if err := atomic.WriteFile(path, strings.NewReader(html)); err != nil {
		return ledger.PageRecord{}, fmt.Errorf("failed to write page for %q: %w", a.Slug, err)
	}

	sum := sha256.Sum256([]byte(html))
	g.logger.Debug("Wrote page",
		"slug", a.Slug,
		"branch", templating.SelectBranch(a).String(),
		"bytes", len(html))

	return ledger.PageRecord{
		Slug:   a.Slug,
		Path:   filepath.ToSlash(path),
		Bytes:  len(html),
		SHA256: hex.EncodeToString(sum[:]),
	}, nil
}
