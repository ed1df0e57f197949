// Package fetch downloads the three source pages to local files. The
// core pipeline never talks to the network; it consumes whatever this
// collaborator (or anything else) saved to the sources directory.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rajobs-backend/internal/records"
	"rajobs-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// Page names one source page and the file it lands in.
type Page struct {
	Source string
	URL    string
	File   string
}

// Pages lists every supported source page.
var Pages = []Page{
	{Source: records.SourcePredoc, URL: "https://predoc.org/opportunities", File: "predoc.html"},
	{Source: records.SourceNBER, URL: "https://www.nber.org/career-resources/research-assistant-positions-not-nber", File: "nber.html"},
	{Source: records.SourceEJM, URL: "https://econjobmarket.org/market", File: "ejm.html"},
}

func newClient() *resty.Client {
	client := resty.New()
	// predoc.org serves a certificate chain some hosts reject
	client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	telemetry.InstrumentResty(client, "rajobs/fetch")
	return client
}

// Download retrieves every source page into dir. One failing source
// does not stop the others; the joined error reports all failures.
func Download(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create sources dir: %w", err)
	}

	client := newClient()
	var errlist []error
	for _, page := range Pages {
		err := download(ctx, client, page, dir)
		if err != nil {
			slog.ErrorContext(ctx, "failed to download source page", "source", page.Source, "err", err)
			errlist = append(errlist, fmt.Errorf("%s: %w", page.Source, err))
			continue
		}
		slog.InfoContext(ctx, "downloaded source page", "source", page.Source, "file", page.File)
	}
	return errors.Join(errlist...)
}

func download(ctx context.Context, client *resty.Client, page Page, dir string) error {
	res, err := client.R().SetContext(ctx).Get(page.URL)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("unexpected status %s", res.Status())
	}
	return os.WriteFile(filepath.Join(dir, page.File), res.Body(), 0644)
}

// ReadPages loads previously downloaded markup, keyed by source tag.
// Missing files are logged and skipped so a partial sources directory
// still yields a partial run.
func ReadPages(ctx context.Context, dir string) map[string]string {
	pages := map[string]string{}
	for _, page := range Pages {
		contents, err := os.ReadFile(filepath.Join(dir, page.File))
		if err != nil {
			slog.WarnContext(ctx, "source page not available", "source", page.Source, "err", err)
			continue
		}
		pages[page.Source] = string(contents)
	}
	return pages
}
