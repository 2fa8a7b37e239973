package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

func TestSupport_Submit(t *testing.T) {
	fc := &fakeClient{tickets: []models.Ticket{{ID: 1, Title: "help"}}}
	g := signedIn(t, fc, models.User{Username: "bob"})
	svc := NewSupportService(fc, g, logging.Discard())
	ctx := context.Background()

	_, err := svc.Submit(ctx, client.TicketRequest{Title: " ", Description: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fc.calls)

	_, err = svc.Submit(ctx, client.TicketRequest{Title: "t", Description: "d", Priority: "urgent"})
	require.ErrorIs(t, err, ErrInvalidInput)

	tickets, err := svc.Submit(ctx, client.TicketRequest{Title: " Broken link ", Description: "404 on preview"})
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.Equal(t, client.TicketRequest{Title: "Broken link", Description: "404 on preview", Priority: models.PriorityMedium}, fc.lastTicket)
	assert.Equal(t, []string{"create-ticket", "tickets"}, fc.calls)
}

func TestSupport_RequiresSession(t *testing.T) {
	fc := &fakeClient{}
	svc := NewSupportService(fc, NewSessionGate(fc, logging.Discard()), logging.Discard())
	_, err := svc.Tickets(context.Background())
	require.ErrorIs(t, err, ErrNotSignedIn)
}

func TestInvite_Send(t *testing.T) {
	fc := &fakeClient{inviteRes: &client.InviteResult{Message: "Invitation sent successfully!", InviteLink: "http://lib.test?invite=ab&email=a@b.io"}}
	g := signedIn(t, fc, models.User{Username: "bob"})
	svc := NewInviteService(fc, g)

	_, err := svc.Send(context.Background(), client.InviteRequest{Email: "not-an-email"})
	require.ErrorIs(t, err, ErrInvalidInput)

	res, err := svc.Send(context.Background(), client.InviteRequest{Email: " a@b.io ", Message: "join"})
	require.NoError(t, err)
	assert.Equal(t, "Invitation sent successfully!", res.Message)
	assert.Equal(t, "a@b.io", fc.lastInvite.Email)
}

func TestInvite_LinkAndCopy(t *testing.T) {
	fc := &fakeClient{}
	g := signedIn(t, fc, models.User{Username: "bob"})
	svc := NewInviteService(fc, g)

	link, err := svc.Link()
	require.NoError(t, err)
	assert.Equal(t, "http://lib.test?invite=Ym9i", link)

	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	defer func() { writeClipboard = orig }()

	require.NoError(t, svc.Copy(link))
	assert.Equal(t, link, copied)

	writeClipboard = func(string) error { return errors.New("no clipboard utility") }
	require.Error(t, svc.Copy(link))
	require.ErrorIs(t, svc.Copy(""), ErrInvalidInput)
}

func TestInviteLink_Escapes(t *testing.T) {
	// base64 of "a?>" contains '+', which must survive the query round trip.
	link := InviteLink("http://lib.test/", "a?>")
	code, _, _ := ParseInvite(link + "&email=x@y.z")
	assert.Equal(t, "YT8+", code)
}

func TestParseInvite(t *testing.T) {
	code, email, ok := ParseInvite("http://lib.test/?invite=abc123&email=new%40x.io")
	require.True(t, ok)
	assert.Equal(t, "abc123", code)
	assert.Equal(t, "new@x.io", email)

	_, _, ok = ParseInvite("http://lib.test/?invite=abc123")
	assert.False(t, ok)
	_, _, ok = ParseInvite("::bad")
	assert.False(t, ok)
}
