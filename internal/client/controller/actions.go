package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/client/services"
	"github.com/dmitrijs2005/edulibrary/internal/client/view"
)

// SelectCategory switches the browse grid to a category. It is local; no
// request is issued.
func (c *Controller) SelectCategory(name string) {
	c.update(func(s *view.State) { s.SelectCategory(name) })
}

// Search re-derives the search results from the loaded catalog.
func (c *Controller) Search(query string) {
	c.update(func(s *view.State) { s.SetQuery(query) })
}

// Upload sends a batch and reports the tally on the upload panel. progress,
// if set, is called after each file's response.
func (c *Controller) Upload(ctx context.Context, batch services.UploadBatch, progress services.ProgressFunc) (services.UploadReport, error) {
	report, err := c.d.Uploads.Upload(ctx, batch, func(done, total int) {
		c.update(func(s *view.State) { s.Upload = view.Progress{Done: done, Total: total} })
		if progress != nil {
			progress(done, total)
		}
	})
	c.update(func(s *view.State) { s.Upload = view.Progress{} })

	if err != nil {
		c.d.Board.Error(view.PanelUpload, services.UserMessage(err, "Upload failed. Please try again."))
		return report, err
	}
	msg := fmt.Sprintf("Successfully uploaded %d file(s).", report.Succeeded)
	if report.Failed > 0 {
		msg += fmt.Sprintf(" %d failed.", report.Failed)
	}
	c.d.Board.Success(view.PanelUpload, msg)
	return report, nil
}

// Delete removes a file after confirm approves it.
func (c *Controller) Delete(ctx context.Context, id int64, confirm services.ConfirmFunc) error {
	err := c.d.Files.Delete(ctx, id, confirm)
	switch {
	case errors.Is(err, services.ErrCancelled):
		return err
	case err != nil:
		c.d.Board.Error(c.panel(), services.UserMessage(err, "Failed to delete file."))
		return err
	}
	c.d.Board.Success(c.panel(), "File deleted.")
	return nil
}

// ToggleFeatured flips a file's featured flag. The admin file list and the
// browse grid both render from the reloaded catalog.
func (c *Controller) ToggleFeatured(ctx context.Context, id int64) error {
	err := c.d.Admin.ToggleFeatured(ctx, id)
	switch {
	case errors.Is(err, services.ErrReloadFailed):
		c.d.Board.Error(c.panel(), "File status updated, but the file list could not be reloaded.")
		return err
	case err != nil:
		c.d.Board.Error(c.panel(), services.UserMessage(err, "Failed to update file status"))
		return err
	}
	return nil
}

func (c *Controller) ToggleUserStatus(ctx context.Context, id int64) error {
	users, err := c.d.Admin.ToggleUser(ctx, id)
	switch {
	case errors.Is(err, services.ErrReloadFailed):
		c.d.Board.Error(view.PanelAdmin, "User status updated, but the user list could not be reloaded.")
		return err
	case err != nil:
		c.d.Board.Error(view.PanelAdmin, services.UserMessage(err, "Failed to update user status"))
		return err
	}
	c.update(func(s *view.State) { s.Users = users })
	return nil
}

// SwitchAdminTab selects an admin sub-tab and refreshes its data.
func (c *Controller) SwitchAdminTab(ctx context.Context, name string) error {
	tab, ok := view.ParseAdminTab(name)
	if !ok {
		return fmt.Errorf("unknown admin tab %q", name)
	}
	if !c.session().IsAdmin() {
		c.d.Board.Error(c.panel(), "Admin access required.")
		return services.ErrAdminOnly
	}
	c.update(func(s *view.State) { s.AdminTab = tab })
	return c.loadAdminTab(ctx, tab)
}

// loadAdminTab refreshes the data of tab. A failure is posted on the admin
// panel and the previous data stays on screen.
func (c *Controller) loadAdminTab(ctx context.Context, tab view.AdminTab) error {
	var err error
	switch tab {
	case view.TabUsers:
		var users []models.User
		if users, err = c.d.Admin.Users(ctx); err == nil {
			c.update(func(s *view.State) { s.Users = users })
		}
	case view.TabFiles:
		err = c.d.Catalog.Refresh(ctx)
	case view.TabSupport:
		var tickets []models.Ticket
		if tickets, err = c.d.Admin.Tickets(ctx); err == nil {
			c.update(func(s *view.State) { s.AdminTickets = tickets })
		}
	case view.TabAnalytics:
		var a *models.Analytics
		if a, err = c.d.Admin.Analytics(ctx); err == nil {
			c.update(func(s *view.State) { s.Analytics = a })
		}
	}
	if err != nil {
		c.d.Board.Error(view.PanelAdmin, services.UserMessage(err, fmt.Sprintf("Failed to load %s.", tab)))
	}
	return err
}

// RespondTicket answers a ticket with status in-progress or resolved.
func (c *Controller) RespondTicket(ctx context.Context, id int64, response string, status models.TicketStatus) error {
	tickets, err := c.d.Admin.RespondTicket(ctx, id, client.RespondRequest{Response: response, Status: status})
	if errors.Is(err, services.ErrReloadFailed) {
		c.d.Board.Error(view.PanelAdmin, "Response sent, but tickets could not be reloaded.")
		return err
	}
	if err != nil {
		c.d.Board.Error(view.PanelAdmin, services.UserMessage(err, "Failed to respond to ticket"))
		return err
	}
	c.update(func(s *view.State) { s.AdminTickets = tickets })
	c.d.Board.Success(view.PanelAdmin, "Response sent.")
	return nil
}

func (c *Controller) SubmitTicket(ctx context.Context, req client.TicketRequest) error {
	tickets, err := c.d.Support.Submit(ctx, req)
	if err != nil {
		c.d.Board.Error(view.PanelSupport, services.UserMessage(err, "Failed to submit ticket. Please try again."))
		return err
	}
	c.update(func(s *view.State) { s.Tickets = tickets })
	c.d.Board.Success(view.PanelSupport, "Support ticket submitted successfully!")
	return nil
}

func (c *Controller) SendInvite(ctx context.Context, req client.InviteRequest) (*client.InviteResult, error) {
	res, err := c.d.Invites.Send(ctx, req)
	if err != nil {
		c.d.Board.Error(view.PanelInvite, services.UserMessage(err, "Failed to send invitation. Please try again."))
		return nil, err
	}
	c.d.Board.Success(view.PanelInvite, "Invitation sent successfully!")
	return res, nil
}

// InviteLink returns the user's shareable invite URL.
func (c *Controller) InviteLink() (string, error) {
	link, err := c.d.Invites.Link()
	if err != nil {
		return "", err
	}
	c.update(func(s *view.State) { s.InviteLink = link })
	return link, nil
}

func (c *Controller) CopyInviteLink() error {
	link, err := c.InviteLink()
	if err == nil {
		err = c.d.Invites.Copy(link)
	}
	if err != nil {
		c.d.Board.Error(view.PanelInvite, "Failed to copy link")
		return err
	}
	c.d.Board.Success(view.PanelInvite, "Invite link copied to clipboard!")
	return nil
}

// Download saves a file locally and returns its path.
func (c *Controller) Download(ctx context.Context, id int64) (string, error) {
	path, err := c.d.Files.Download(ctx, id)
	if err != nil {
		c.d.Board.Error(c.panel(), services.UserMessage(err, "Download failed. Please make sure you are logged in."))
		return "", err
	}
	c.d.Board.Success(c.panel(), "Saved to "+path)
	return path, nil
}

// Preview returns the URL that opens the file in a browser.
func (c *Controller) Preview(id int64) (string, error) {
	if c.session() == nil {
		return "", services.ErrNotSignedIn
	}
	return c.d.Files.PreviewURL(id), nil
}

func (c *Controller) ExportData(ctx context.Context) (string, error) {
	path, err := c.d.Files.Export(ctx)
	if err != nil {
		c.d.Board.Error(view.PanelSettings, services.UserMessage(err, "Export failed."))
		return "", err
	}
	c.d.Board.Success(view.PanelSettings, "Data exported to "+path)
	return path, nil
}

func (c *Controller) SetTheme(ctx context.Context, theme string) error {
	st, err := c.d.Settings.SetTheme(ctx, theme)
	c.update(func(s *view.State) { s.Settings = st })
	if err != nil {
		c.d.Board.Error(view.PanelSettings, services.UserMessage(err, "Theme applied but could not be saved."))
	}
	return err
}

func (c *Controller) SetGridSize(ctx context.Context, size string) error {
	st, err := c.d.Settings.SetGridSize(ctx, size)
	c.update(func(s *view.State) { s.Settings = st })
	if err != nil {
		c.d.Board.Error(view.PanelSettings, services.UserMessage(err, "Grid size applied but could not be saved."))
	}
	return err
}

func (c *Controller) Settings() models.Settings {
	return c.d.Settings.Current()
}

// Refresh reruns the current section's entry handler.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.router.Refresh(ctx)
}
