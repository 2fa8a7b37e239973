package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

func filesFixture(t *testing.T, u models.User) (*fakeClient, SessionGate, FileService, string) {
	t.Helper()
	fc := &fakeClient{listing: &models.Listing{Files: []models.File{
		{ID: 1, OriginalName: "mine.pdf", UploadedBy: "bob"},
		{ID: 2, OriginalName: "theirs.pdf", UploadedBy: "alice"},
	}}}
	g := signedIn(t, fc, u)
	cat := newCatalog(fc)
	require.NoError(t, cat.Refresh(context.Background()))
	fc.calls, fc.listRuns = nil, 0

	dir := filepath.Join(t.TempDir(), "download")
	return fc, g, NewFileService(fc, cat, g, dir, logging.Discard()), dir
}

func yes(string) bool { return true }

func TestDelete_OwnFileDecrementsCounter(t *testing.T) {
	fc, g, svc, _ := filesFixture(t, models.User{Username: "bob", UploadsCount: 1})

	var asked string
	err := svc.Delete(context.Background(), 1, func(p string) bool { asked = p; return true })
	require.NoError(t, err)
	assert.Equal(t, `Are you sure you want to delete "mine.pdf"?`, asked)
	assert.Equal(t, []string{"delete 1", "files"}, fc.calls)
	assert.Equal(t, 0, g.Current().UploadCount)
}

func TestDelete_CounterFlooredAtZero(t *testing.T) {
	_, g, svc, _ := filesFixture(t, models.User{Username: "bob", UploadsCount: 0})
	require.NoError(t, svc.Delete(context.Background(), 1, yes))
	assert.Equal(t, 0, g.Current().UploadCount)
}

func TestDelete_AdminDeletingOthersKeepsCounter(t *testing.T) {
	_, g, svc, _ := filesFixture(t, models.User{Username: "root", IsAdmin: true, UploadsCount: 4})
	require.NoError(t, svc.Delete(context.Background(), 2, yes))
	assert.Equal(t, 4, g.Current().UploadCount)
}

func TestDelete_Declined(t *testing.T) {
	fc, g, svc, _ := filesFixture(t, models.User{Username: "bob", UploadsCount: 1})

	err := svc.Delete(context.Background(), 1, func(string) bool { return false })
	require.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, fc.calls)
	assert.Equal(t, 1, g.Current().UploadCount)

	require.ErrorIs(t, svc.Delete(context.Background(), 1, nil), ErrCancelled)
}

func TestDelete_ServerRefusal(t *testing.T) {
	fc, g, svc, _ := filesFixture(t, models.User{Username: "bob", UploadsCount: 1})
	fc.deleteErr = &client.APIError{Status: 403, Message: "You can only delete your own files"}

	err := svc.Delete(context.Background(), 2, yes)
	require.ErrorIs(t, err, client.ErrForbidden)
	assert.Equal(t, "You can only delete your own files", UserMessage(err, "Failed to delete file."))
	assert.Equal(t, 0, fc.listRuns, "no reload on failure")
	assert.Equal(t, 1, g.Current().UploadCount)

	fc.deleteErr = errNetwork
	err = svc.Delete(context.Background(), 2, yes)
	assert.Equal(t, "Failed to delete file.", UserMessage(err, "Failed to delete file."))
}

func TestDelete_UnknownFile(t *testing.T) {
	fc, _, svc, _ := filesFixture(t, models.User{Username: "bob"})
	require.ErrorIs(t, svc.Delete(context.Background(), 42, yes), ErrInvalidInput)
	assert.Empty(t, fc.calls)
}

func TestDownload_SavesIntoDownloadDir(t *testing.T) {
	fc, g, svc, dir := filesFixture(t, models.User{Username: "bob"})
	fc.downloadFn = func(id int64, w io.Writer) (string, error) {
		_, _ = io.WriteString(w, "pdf body")
		return "../../escape.pdf", nil
	}

	path, err := svc.Download(context.Background(), 2)
	require.NoError(t, err)
	absDir, _ := filepath.Abs(dir)
	assert.Equal(t, filepath.Join(absDir, "escape.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pdf body", string(data))

	assert.Equal(t, 1, g.Current().DownloadCount)
	assert.Equal(t, []string{"download 2", "files"}, fc.calls)

	second, err := svc.Download(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(absDir, "escape (1).pdf"), second)

	entries, err := os.ReadDir(absDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files are cleaned up")
}

func TestDownload_Failure(t *testing.T) {
	fc, g, svc, dir := filesFixture(t, models.User{Username: "bob"})
	fc.downloadErr = &client.APIError{Status: 404}

	_, err := svc.Download(context.Background(), 9)
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.Equal(t, 0, g.Current().DownloadCount)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownload_FailedSaveLeavesNoPlaceholder(t *testing.T) {
	fc, g, svc, dir := filesFixture(t, models.User{Username: "bob"})
	fc.downloadFn = func(id int64, w io.Writer) (string, error) {
		_, _ = io.WriteString(w, "pdf body")
		return "report.pdf", nil
	}
	origRename := rename
	rename = func(string, string) error { return os.ErrPermission }
	defer func() { rename = origRename }()

	_, err := svc.Download(context.Background(), 2)
	require.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, 0, g.Current().DownloadCount)
	assert.Equal(t, []string{"download 2"}, fc.calls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "neither the temp file nor the placeholder survives")
}

func TestPreviewURL(t *testing.T) {
	_, _, svc, _ := filesFixture(t, models.User{Username: "bob"})
	assert.Equal(t, "http://lib.test/preview/3", svc.PreviewURL(3))
}

func TestExport(t *testing.T) {
	_, _, svc, dir := filesFixture(t, models.User{ID: 3, Username: "bob", UploadsCount: 1})
	origNow := now
	now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	defer func() { now = origNow }()

	path, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "edulibrary-data-bob.json", filepath.Base(path))
	absDir, _ := filepath.Abs(dir)
	assert.Equal(t, absDir, filepath.Dir(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		User          models.Session `json:"user"`
		UploadedFiles []models.File  `json:"uploadedFiles"`
		ExportDate    string         `json:"exportDate"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "bob", doc.User.Username)
	require.Len(t, doc.UploadedFiles, 1)
	assert.Equal(t, "mine.pdf", doc.UploadedFiles[0].OriginalName)
	assert.Equal(t, "2025-01-02T03:04:05Z", doc.ExportDate)
}

func TestFileService_RequiresSession(t *testing.T) {
	fc := &fakeClient{}
	g := NewSessionGate(fc, logging.Discard())
	svc := NewFileService(fc, newCatalog(fc), g, t.TempDir(), logging.Discard())
	ctx := context.Background()

	require.ErrorIs(t, svc.Delete(ctx, 1, yes), ErrNotSignedIn)
	_, err := svc.Download(ctx, 1)
	require.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.Export(ctx)
	require.ErrorIs(t, err, ErrNotSignedIn)
	assert.Empty(t, fc.calls, fmt.Sprint(fc.calls))
}
