package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/edulibrary/internal/client/catalog"
	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/filex"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

// Catalog is the read side of catalog.Store plus its refresh.
type Catalog interface {
	Refresher
	Snapshot() catalog.Catalog
	Find(id int64) (models.File, bool)
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// FileService dispatches per-file actions.
type FileService interface {
	Delete(ctx context.Context, id int64, confirm ConfirmFunc) error
	Download(ctx context.Context, id int64) (string, error)
	PreviewURL(id int64) string
	Export(ctx context.Context) (string, error)
}

var (
	now    = time.Now
	rename = os.Rename
)

type fileService struct {
	client      client.Client
	catalog     Catalog
	session     SessionGate
	downloadDir string
	log         logging.Logger
}

func NewFileService(c client.Client, cat Catalog, session SessionGate, downloadDir string, log logging.Logger) FileService {
	return &fileService{client: c, catalog: cat, session: session, downloadDir: downloadDir, log: log}
}

// Delete asks for confirmation, then deletes the file. On success the
// catalog is reloaded and, if the user owns the file, their upload counter
// is decremented (floored at zero).
func (s *fileService) Delete(ctx context.Context, id int64, confirm ConfirmFunc) error {
	sess := s.session.Current()
	if sess == nil {
		return ErrNotSignedIn
	}
	f, ok := s.catalog.Find(id)
	if !ok {
		return invalid("No file with id %d in the catalog.", id)
	}
	if confirm == nil || !confirm(fmt.Sprintf("Are you sure you want to delete %q?", f.OriginalName)) {
		return ErrCancelled
	}

	if err := s.client.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete file %d: %w", id, err)
	}
	s.log.Info(ctx, "file deleted", "id", id, "name", f.OriginalName)

	_ = s.catalog.Refresh(ctx)
	if sess.Owns(f) {
		s.session.Update(func(cur *models.Session) { cur.ReleaseUpload() })
	}
	return nil
}

// Download saves the file into the download directory and returns its path.
// The download counter is bumped optimistically and the catalog reloaded.
func (s *fileService) Download(ctx context.Context, id int64) (string, error) {
	if s.session.Current() == nil {
		return "", ErrNotSignedIn
	}
	dir, err := filex.EnsureDir(s.downloadDir)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	name, err := s.client.Download(ctx, id, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("download file %d: %w", id, err)
	}

	dst, err := filex.Create(dir, filex.SafeName(name, fmt.Sprintf("file-%d.pdf", id)))
	if err != nil {
		return "", err
	}
	_ = dst.Close()
	if err := rename(tmp.Name(), dst.Name()); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("save download: %w", err)
	}

	s.session.Update(func(cur *models.Session) { cur.AddDownload() })
	_ = s.catalog.Refresh(ctx)
	return dst.Name(), nil
}

func (s *fileService) PreviewURL(id int64) string {
	return s.client.PreviewURL(id)
}

type exportDocument struct {
	User          *models.Session `json:"user"`
	UploadedFiles []models.File   `json:"uploadedFiles"`
	ExportDate    string          `json:"exportDate"`
}

// Export writes the session and the user's own files as indented JSON.
func (s *fileService) Export(ctx context.Context) (string, error) {
	sess := s.session.Current()
	if sess == nil {
		return "", ErrNotSignedIn
	}
	dir, err := filex.EnsureDir(s.downloadDir)
	if err != nil {
		return "", err
	}

	doc := exportDocument{
		User:          sess,
		UploadedFiles: catalog.OwnedBy(s.catalog.Snapshot(), sess.Username),
		ExportDate:    now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}

	path := filepath.Join(dir, filex.SafeName("edulibrary-data-"+sess.Username+".json", "edulibrary-data.json"))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	s.log.Info(ctx, "data exported", "path", path, "files", len(doc.UploadedFiles))
	return path, nil
}
