package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

// ErrAllUploadsFailed is returned when no file of a batch was accepted.
var ErrAllUploadsFailed = errors.New("all uploads failed")

// Refresher reloads a store wholesale. catalog.Store satisfies it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// UploadObserver receives the tally of each batch.
type UploadObserver interface {
	ObserveUploads(succeeded, failed int)
}

// UploadBatch is one submission of the upload form.
type UploadBatch struct {
	Paths       []string
	Category    string
	Description string
	Tags        string
}

// UploadReport tallies a batch. Failures holds one entry per failed file,
// in submission order.
type UploadReport struct {
	Total     int
	Succeeded int
	Failed    int
	Failures  []UploadFailure
}

type UploadFailure struct {
	Path string
	Err  error
}

// ProgressFunc is called after each file's response with the number of
// files completed so far.
type ProgressFunc func(done, total int)

type UploadService interface {
	Upload(ctx context.Context, batch UploadBatch, progress ProgressFunc) (UploadReport, error)
}

// openFile is a seam for tests.
var openFile = func(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

type uploadService struct {
	client   client.Client
	catalog  Refresher
	session  SessionGate
	observer UploadObserver
	log      logging.Logger
}

func NewUploadService(c client.Client, catalog Refresher, session SessionGate, observer UploadObserver, log logging.Logger) UploadService {
	return &uploadService{client: c, catalog: catalog, session: session, observer: observer, log: log}
}

// Upload sends the files one request at a time, in the order given, and
// awaits each response before the next request. A failed file does not stop
// the batch. At least one success reloads the catalog and bumps the session
// upload counter by the number of successes.
func (s *uploadService) Upload(ctx context.Context, batch UploadBatch, progress ProgressFunc) (UploadReport, error) {
	if len(batch.Paths) == 0 || strings.TrimSpace(batch.Category) == "" {
		return UploadReport{}, invalid("Please select file(s) and category.")
	}
	if s.session.Current() == nil {
		return UploadReport{}, ErrNotSignedIn
	}

	report := UploadReport{Total: len(batch.Paths)}
	for i, path := range batch.Paths {
		if err := s.uploadOne(ctx, path, batch); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, UploadFailure{Path: path, Err: err})
			s.log.Warn(ctx, "upload failed", "path", path, logging.Err(err))
		} else {
			report.Succeeded++
		}
		if progress != nil {
			progress(i+1, report.Total)
		}
	}

	if s.observer != nil {
		s.observer.ObserveUploads(report.Succeeded, report.Failed)
	}
	s.log.Info(ctx, "upload batch done", "succeeded", report.Succeeded, "failed", report.Failed)

	if report.Succeeded == 0 {
		return report, ErrAllUploadsFailed
	}

	_ = s.catalog.Refresh(ctx)
	s.session.Update(func(sess *models.Session) { sess.AddUploads(report.Succeeded) })
	return report, nil
}

func (s *uploadService) uploadOne(ctx context.Context, path string, batch UploadBatch) error {
	f, err := openFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return s.client.Upload(ctx, client.UploadRequest{
		Name:        filepath.Base(path),
		Content:     f,
		Category:    batch.Category,
		Description: batch.Description,
		Tags:        batch.Tags,
	})
}
