package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/client/services"
	"github.com/dmitrijs2005/edulibrary/internal/client/view"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

var (
	errUsage          = errors.New("usage")
	errUnknownCommand = errors.New("unknown command")
)

type command struct {
	usage string
	help  string
	// member commands are hidden and refused without a session.
	member bool
	run    func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{}

func addCommand(name string, c command) {
	commands[name] = c
}

func init() {
	addCommand("help", command{usage: "help", help: "show available commands", run: (*App).help})
	addCommand("login", command{usage: "login", help: "sign in with username or email", run: (*App).login})
	addCommand("register", command{usage: "register", help: "create an account", run: (*App).register})
	addCommand("tab", command{usage: "tab login|register|<admin tab>", help: "switch the auth or admin tab", run: (*App).tab})
	addCommand("go", command{usage: "go <section>", help: "open browse, upload, search, invite, support or admin", member: true, run: (*App).goTo})
	addCommand("cat", command{usage: "cat <category>", help: "filter the catalog by category", member: true, run: (*App).category})
	addCommand("find", command{usage: "find <text>", help: "search titles, descriptions and tags", member: true, run: (*App).find})
	addCommand("upload", command{usage: "upload", help: "upload one or more PDFs", member: true, run: (*App).upload})
	addCommand("delete", command{usage: "delete <id>", help: "delete one of your files", member: true, run: (*App).delete})
	addCommand("download", command{usage: "download <id>", help: "save a file to the download directory", member: true, run: (*App).download})
	addCommand("preview", command{usage: "preview <id>", help: "print the preview URL of a file", member: true, run: (*App).preview})
	addCommand("feature", command{usage: "feature <id>", help: "toggle the featured flag (admin)", member: true, run: (*App).feature})
	addCommand("toggle-user", command{usage: "toggle-user <id>", help: "activate or deactivate a user (admin)", member: true, run: (*App).toggleUser})
	addCommand("respond", command{usage: "respond <id>", help: "answer a support ticket (admin)", member: true, run: (*App).respond})
	addCommand("ticket", command{usage: "ticket", help: "open a support ticket", member: true, run: (*App).ticket})
	addCommand("send-invite", command{usage: "send-invite", help: "email an invitation", member: true, run: (*App).sendInvite})
	addCommand("copy-link", command{usage: "copy-link", help: "copy your invite link to the clipboard", member: true, run: (*App).copyLink})
	addCommand("export", command{usage: "export", help: "export your data as JSON", member: true, run: (*App).export})
	addCommand("theme", command{usage: "theme light|dark", help: "switch the color theme", run: (*App).theme})
	addCommand("grid", command{usage: "grid auto|1-6", help: "set cards per row", run: (*App).grid})
	addCommand("stats", command{usage: "stats", help: "show request metrics", run: (*App).statsCmd})
	addCommand("refresh", command{usage: "refresh", help: "reload the current section", member: true, run: (*App).refresh})
	addCommand("logout", command{usage: "logout", help: "sign out", member: true, run: (*App).logout})

	quit := command{usage: "exit", help: "leave the program", run: func(*App, context.Context, []string) error { return errQuit }}
	addCommand("exit", quit)
	addCommand("quit", quit)

	// Section shortcuts.
	for _, s := range []view.Section{view.SectionBrowse, view.SectionSearch, view.SectionInvite, view.SectionSupport, view.SectionAdmin} {
		name := string(s)
		addCommand(name, command{
			usage:  name,
			help:   "open " + name,
			member: true,
			run: func(a *App, ctx context.Context, _ []string) error {
				return a.goTo(ctx, []string{name})
			},
		})
	}
}

func usage(c command) error {
	return fmt.Errorf("%w: %s", errUsage, c.usage)
}

func (a *App) exec(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok || (cmd.member && !a.loggedIn()) {
		return fmt.Errorf("%w: %s (type 'help')", errUnknownCommand, name)
	}
	err := cmd.run(a, ctx, args)
	if err != nil && !errors.Is(err, errUsage) && !errors.Is(err, errQuit) {
		a.log.Debug(ctx, "command failed", "command", name, logging.Err(err))
	}
	return err
}

// idArg parses the single numeric argument of cmd.
func idArg(name string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, usage(commands[name])
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usage(commands[name])
	}
	return id, nil
}

func (a *App) help(_ context.Context, _ []string) error {
	member := a.loggedIn()
	names := make([]string, 0, len(commands))
	for n, c := range commands {
		if n == "quit" || (c.member && !member) {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		c := commands[n]
		fmt.Fprintf(a.out, "  %-32s %s\n", c.usage, c.help)
	}
	return nil
}

func (a *App) login(ctx context.Context, _ []string) error {
	a.ctrl.SwitchAuthTab(view.AuthLogin)
	id, err := GetSimpleText(a.in, "Username or email:", a.out)
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.in, a.out)
	if err != nil {
		return err
	}
	return a.ctrl.Login(ctx, id, pw)
}

func (a *App) register(ctx context.Context, _ []string) error {
	a.ctrl.SwitchAuthTab(view.AuthRegister)
	var req client.RegisterRequest
	var err error
	if req.Username, err = GetSimpleText(a.in, "Username:", a.out); err != nil {
		return err
	}
	email := ""
	if auth := a.ctrl.Screen().Auth; auth != nil {
		email = auth.InviteEmail
	}
	prompt := "Email:"
	if email != "" {
		prompt = fmt.Sprintf("Email [%s]:", email)
	}
	if req.Email, err = GetSimpleText(a.in, prompt, a.out); err != nil {
		return err
	}
	if req.Email == "" {
		req.Email = email
	}
	if req.Password, err = GetPassword(a.in, a.out); err != nil {
		return err
	}
	return a.ctrl.Register(ctx, req)
}

func (a *App) tab(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage(commands["tab"])
	}
	switch view.AuthTab(args[0]) {
	case view.AuthLogin, view.AuthRegister:
		if a.loggedIn() {
			return usage(commands["tab"])
		}
		a.ctrl.SwitchAuthTab(view.AuthTab(args[0]))
		return nil
	}
	if !a.loggedIn() {
		return usage(commands["tab"])
	}
	return a.ctrl.SwitchAdminTab(ctx, args[0])
}

func (a *App) goTo(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage(commands["go"])
	}
	err := a.ctrl.Navigate(ctx, args[0])
	if errors.Is(err, view.ErrUnknownSection) {
		return usage(commands["go"])
	}
	return err
}

func (a *App) category(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage(commands["cat"])
	}
	if err := a.enter(ctx, view.SectionBrowse); err != nil {
		return err
	}
	a.ctrl.SelectCategory(strings.Join(args, " "))
	return nil
}

// enter navigates to sec unless it is already shown. Re-entering browse
// reloads the catalog, and filtering must stay local.
func (a *App) enter(ctx context.Context, sec view.Section) error {
	if a.ctrl.Screen().Section == sec {
		return nil
	}
	return a.ctrl.Navigate(ctx, string(sec))
}

func (a *App) find(ctx context.Context, args []string) error {
	if err := a.enter(ctx, view.SectionSearch); err != nil {
		return err
	}
	a.ctrl.Search(strings.Join(args, " "))
	return nil
}

func (a *App) upload(ctx context.Context, _ []string) error {
	if err := a.ctrl.Navigate(ctx, string(view.SectionUpload)); err != nil {
		return err
	}
	a.render()

	paths, err := GetSimpleText(a.in, "PDF paths (comma separated):", a.out)
	if err != nil {
		return err
	}
	batch := services.UploadBatch{Paths: SplitList(paths)}
	if batch.Category, err = GetSimpleText(a.in, "Category:", a.out); err != nil {
		return err
	}
	if batch.Description, err = GetSimpleText(a.in, "Description (optional):", a.out); err != nil {
		return err
	}
	if batch.Tags, err = GetSimpleText(a.in, "Tags (comma separated, optional):", a.out); err != nil {
		return err
	}

	_, err = a.ctrl.Upload(ctx, batch, func(done, total int) {
		fmt.Fprintln(a.out, progressLine(done, total))
	})
	return err
}

func (a *App) delete(ctx context.Context, args []string) error {
	id, err := idArg("delete", args)
	if err != nil {
		return err
	}
	err = a.ctrl.Delete(ctx, id, func(prompt string) bool {
		return Confirm(a.in, prompt, a.out)
	})
	if errors.Is(err, services.ErrCancelled) {
		return nil
	}
	return err
}

func (a *App) download(ctx context.Context, args []string) error {
	id, err := idArg("download", args)
	if err != nil {
		return err
	}
	_, err = a.ctrl.Download(ctx, id)
	return err
}

func (a *App) preview(_ context.Context, args []string) error {
	id, err := idArg("preview", args)
	if err != nil {
		return err
	}
	u, err := a.ctrl.Preview(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Preview: "+u)
	return nil
}

func (a *App) feature(ctx context.Context, args []string) error {
	id, err := idArg("feature", args)
	if err != nil {
		return err
	}
	return a.ctrl.ToggleFeatured(ctx, id)
}

func (a *App) toggleUser(ctx context.Context, args []string) error {
	id, err := idArg("toggle-user", args)
	if err != nil {
		return err
	}
	return a.ctrl.ToggleUserStatus(ctx, id)
}

func (a *App) respond(ctx context.Context, args []string) error {
	id, err := idArg("respond", args)
	if err != nil {
		return err
	}
	text, err := GetMultiline(a.in, "Response:", a.out)
	if err != nil {
		return err
	}
	status, err := GetSimpleText(a.in, "Status (in-progress|resolved) [resolved]:", a.out)
	if err != nil {
		return err
	}
	if status == "" {
		status = string(models.TicketResolved)
	}
	return a.ctrl.RespondTicket(ctx, id, text, models.TicketStatus(status))
}

func (a *App) ticket(ctx context.Context, _ []string) error {
	if err := a.ctrl.Navigate(ctx, string(view.SectionSupport)); err != nil {
		return err
	}
	var req client.TicketRequest
	var err error
	if req.Title, err = GetSimpleText(a.in, "Title:", a.out); err != nil {
		return err
	}
	if req.Description, err = GetMultiline(a.in, "Description:", a.out); err != nil {
		return err
	}
	prio, err := GetSimpleText(a.in, "Priority (low|medium|high) [medium]:", a.out)
	if err != nil {
		return err
	}
	if prio == "" {
		prio = string(models.PriorityMedium)
	}
	req.Priority = models.Priority(prio)
	return a.ctrl.SubmitTicket(ctx, req)
}

func (a *App) sendInvite(ctx context.Context, _ []string) error {
	if err := a.ctrl.Navigate(ctx, string(view.SectionInvite)); err != nil {
		return err
	}
	var req client.InviteRequest
	var err error
	if req.Email, err = GetSimpleText(a.in, "Friend's email:", a.out); err != nil {
		return err
	}
	if req.Message, err = GetMultiline(a.in, "Personal message (optional):", a.out); err != nil {
		return err
	}
	res, err := a.ctrl.SendInvite(ctx, req)
	if err != nil {
		return err
	}
	if res.InviteLink != "" {
		fmt.Fprintln(a.out, "Invitation link: "+res.InviteLink)
	}
	return nil
}

func (a *App) copyLink(_ context.Context, _ []string) error {
	return a.ctrl.CopyInviteLink()
}

func (a *App) export(ctx context.Context, _ []string) error {
	_, err := a.ctrl.ExportData(ctx)
	return err
}

func (a *App) theme(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage(commands["theme"])
	}
	return a.ctrl.SetTheme(ctx, args[0])
}

func (a *App) grid(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage(commands["grid"])
	}
	return a.ctrl.SetGridSize(ctx, args[0])
}

func (a *App) statsCmd(_ context.Context, _ []string) error {
	if a.stats == nil {
		fmt.Fprintln(a.out, "No metrics recorded.")
		return nil
	}
	return a.stats.Dump(a.out)
}

func (a *App) refresh(ctx context.Context, _ []string) error {
	return a.ctrl.Refresh(ctx)
}

func (a *App) logout(ctx context.Context, _ []string) error {
	return a.ctrl.Logout(ctx)
}
