package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
)

type InviteService interface {
	Send(ctx context.Context, req client.InviteRequest) (*client.InviteResult, error)
	// Link is the shareable invite URL of the signed-in user.
	Link() (string, error)
	Copy(link string) error
}

// writeClipboard is a seam for tests.
var writeClipboard = clipboard.WriteAll

type inviteService struct {
	client  client.Client
	session SessionGate
}

func NewInviteService(c client.Client, session SessionGate) InviteService {
	return &inviteService{client: c, session: session}
}

func (s *inviteService) Send(ctx context.Context, req client.InviteRequest) (*client.InviteResult, error) {
	if s.session.Current() == nil {
		return nil, ErrNotSignedIn
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := check(req); err != nil {
		return nil, err
	}
	res, err := s.client.SendInvite(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("send invite: %w", err)
	}
	return res, nil
}

func (s *inviteService) Link() (string, error) {
	sess := s.session.Current()
	if sess == nil {
		return "", ErrNotSignedIn
	}
	return InviteLink(s.client.BaseURL(), sess.Username), nil
}

func (s *inviteService) Copy(link string) error {
	if link == "" {
		return invalid("Nothing to copy.")
	}
	if err := writeClipboard(link); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// InviteLink builds "<base>?invite=<base64(username)>".
func InviteLink(baseURL, username string) string {
	code := base64.StdEncoding.EncodeToString([]byte(username))
	return strings.TrimRight(baseURL, "/") + "?invite=" + url.QueryEscape(code)
}

// ParseInvite extracts the invite code and email from an invite URL.
// ok is false unless both are present.
func ParseInvite(raw string) (code, email string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", false
	}
	q := u.Query()
	code, email = q.Get("invite"), q.Get("email")
	return code, email, code != "" && email != ""
}
