package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/controller"
	"github.com/dmitrijs2005/edulibrary/internal/client/repositories/settings"
	"github.com/dmitrijs2005/edulibrary/internal/client/view"
	"github.com/dmitrijs2005/edulibrary/internal/devserver"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

func TestApp_CategoryFilterIssuesNoRequests(t *testing.T) {
	cfg := &devserver.Config{}
	cfg.LoadDefaults()
	srv, err := devserver.New(cfg, logging.Discard(), devserver.WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)
	alice, err := srv.Store().AddUser("alice", "alice@example.com", "secret1", false)
	require.NoError(t, err)
	for _, c := range []string{"Science", "History"} {
		_, err := srv.Store().AddFile(alice.ID, c+".pdf", []byte("%PDF-1.4"), c, "", "")
		require.NoError(t, err)
	}

	var listings atomic.Int64
	h := srv.Handler()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/files" {
			listings.Add(1)
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	ctx := context.Background()
	repo, db, err := settings.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	api, err := client.NewHTTPClient(ts.URL)
	require.NoError(t, err)
	ctrl := controller.New(controller.Wire(api, repo, view.NewBoard(time.Minute), nil, t.TempDir(), logging.Discard()))

	captureOutput(t)
	app := NewApp(ctrl, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, ctrl.Start(ctx, ""))
	require.NoError(t, ctrl.Login(ctx, "alice", "secret1"))

	before := listings.Load()
	for _, c := range []string{"Science", "History", "Other", "all"} {
		require.NoError(t, app.exec(ctx, "cat", []string{c}))
	}
	assert.Equal(t, before, listings.Load(), "category switches must filter locally")

	sc := ctrl.Screen()
	require.NotNil(t, sc.Browse)
	assert.Len(t, sc.Browse.Cards, 2)
}
