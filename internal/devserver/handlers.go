package devserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

type ctxKey struct{}

// handlers serves the API on top of a Store.
type handlers struct {
	store    *Store
	sessions *Sessions
	log      logging.Logger
}

type message struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *handlers) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// fail writes err as a JSON error. Rule violations keep their status and
// text; anything else is a 500 carrying prefix.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, prefix string, err error) {
	var e *Error
	if errors.As(err, &e) {
		h.respond(w, r, e.Status, errorBody{Error: e.Msg})
		return
	}
	h.log.Error(r.Context(), prefix, "request_id", middleware.GetReqID(r.Context()), logging.Err(err))
	h.respond(w, r, http.StatusInternalServerError, errorBody{Error: fmt.Sprintf("%s: %v", prefix, err)})
}

// requireLogin rejects requests without a session and stores the user id
// in the request context.
func (h *handlers) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.sessions.Lookup(r)
		if !ok {
			h.fail(w, r, "", errAuthRequired)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (h *handlers) requireAdmin(next http.Handler) http.Handler {
	return h.requireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := h.store.User(userID(r))
		if !ok || !u.IsAdmin {
			h.fail(w, r, "", errAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(ctxKey{}).(int64)
	return id
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fail(http.StatusNotFound, "Not found")
	}
	return id, nil
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username   string `json:"username"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		InviteCode string `json:"invite_code"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "", fail(http.StatusBadRequest, "All fields are required"))
		return
	}
	if err := h.store.Register(req.Username, req.Email, req.Password, req.InviteCode); err != nil {
		h.fail(w, r, "Registration failed", err)
		return
	}
	h.log.Info(r.Context(), "user registered", "username", req.Username)
	h.respond(w, r, http.StatusOK, message{Message: "Registration successful"})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "", fail(http.StatusBadRequest, "Username and password are required"))
		return
	}
	u, err := h.store.Authenticate(req.Username, req.Password)
	if err != nil {
		h.fail(w, r, "Login failed", err)
		return
	}
	h.sessions.Start(w, u.ID)
	h.respond(w, r, http.StatusOK, struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}{"Login successful", u})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	h.respond(w, r, http.StatusOK, message{Message: "Logged out successfully"})
}

func (h *handlers) userInfo(w http.ResponseWriter, r *http.Request) {
	type info struct {
		LoggedIn bool         `json:"logged_in"`
		User     *models.User `json:"user,omitempty"`
	}
	id, ok := h.sessions.Lookup(r)
	if !ok {
		h.respond(w, r, http.StatusOK, info{})
		return
	}
	u, ok := h.store.User(id)
	if !ok {
		h.sessions.End(w, r)
		h.respond(w, r, http.StatusOK, info{})
		return
	}
	h.respond(w, r, http.StatusOK, info{LoggedIn: true, User: &u})
}

func (h *handlers) listFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	files := h.store.Files(FileFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Featured: q.Get("featured") == "true",
	})
	h.respond(w, r, http.StatusOK, models.Listing{Files: files, Categories: Categories})
}

func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.fail(w, r, "", fail(http.StatusRequestEntityTooLarge, "File too large"))
			return
		}
		h.fail(w, r, "", fail(http.StatusBadRequest, "No file provided"))
		return
	}

	part, header, err := r.FormFile("pdf")
	if err != nil {
		h.fail(w, r, "", fail(http.StatusBadRequest, "No file provided"))
		return
	}
	defer part.Close()
	content, err := io.ReadAll(part)
	if err != nil {
		h.fail(w, r, "Upload failed", err)
		return
	}

	category := r.FormValue("category")
	if category == "" {
		category = "Other"
	}
	f, err := h.store.AddFile(userID(r), header.Filename, content, category, r.FormValue("description"), r.FormValue("tags"))
	if err != nil {
		h.fail(w, r, "Upload failed", err)
		return
	}
	h.log.Info(r.Context(), "file uploaded", "id", f.ID, "name", f.OriginalName, "category", f.Category)
	h.respond(w, r, http.StatusOK, struct {
		Message      string `json:"message"`
		Filename     string `json:"filename"`
		OriginalName string `json:"original_name"`
	}{"Upload successful", f.Filename, f.OriginalName})
}

func (h *handlers) download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	name, content, err := h.store.Download(userID(r), id)
	if err != nil {
		h.fail(w, r, "Download failed", err)
		return
	}
	h.sendFile(w, "attachment", name, content)
}

func (h *handlers) preview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	name, content, err := h.store.Preview(id)
	if err != nil {
		h.fail(w, r, "Preview failed", err)
		return
	}
	h.sendFile(w, "inline", name, content)
}

func (h *handlers) sendFile(w http.ResponseWriter, disposition, name string, content []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (h *handlers) deleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	if err := h.store.DeleteFile(userID(r), id); err != nil {
		h.fail(w, r, "Error deleting file", err)
		return
	}
	h.respond(w, r, http.StatusOK, message{Message: "File deleted successfully"})
}

func (h *handlers) sendInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "", fail(http.StatusBadRequest, "Email is required"))
		return
	}
	code, err := h.store.CreateInvitation(userID(r), req.Email, req.Message)
	if err != nil {
		h.fail(w, r, "Failed to send invitation", err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	link := fmt.Sprintf("%s://%s/?%s", scheme, r.Host, url.Values{"invite": {code}, "email": {req.Email}}.Encode())

	// No mail transport is configured here; the link is handed back instead.
	h.respond(w, r, http.StatusOK, struct {
		Message    string `json:"message"`
		InviteLink string `json:"invite_link"`
	}{"Invitation created but email could not be sent. Check email configuration.", link})
}

func (h *handlers) listTickets(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, struct {
		Tickets []models.Ticket `json:"tickets"`
	}{h.store.Tickets(userID(r))})
}

func (h *handlers) createTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Priority    models.Priority `json:"priority"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "", fail(http.StatusBadRequest, "Title and description are required"))
		return
	}
	if err := h.store.CreateTicket(userID(r), req.Title, req.Description, req.Priority); err != nil {
		h.fail(w, r, "Failed to create ticket", err)
		return
	}
	h.respond(w, r, http.StatusOK, message{Message: "Support ticket created successfully"})
}

func (h *handlers) respondTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	var req struct {
		Response string              `json:"response"`
		Status   models.TicketStatus `json:"status"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "", fail(http.StatusBadRequest, "Response is required"))
		return
	}
	if err := h.store.RespondTicket(id, req.Response, req.Status); err != nil {
		h.fail(w, r, "Failed to respond", err)
		return
	}
	h.respond(w, r, http.StatusOK, message{Message: "Response sent successfully"})
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, struct {
		Users []models.User `json:"users"`
	}{h.store.Users()})
}

func (h *handlers) toggleUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	u, err := h.store.ToggleUser(id)
	if err != nil {
		h.fail(w, r, "Failed to update user", err)
		return
	}
	state := "deactivated"
	if u.IsActive {
		state = "activated"
	}
	h.respond(w, r, http.StatusOK, struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}{fmt.Sprintf("User %s successfully", state), u})
}

func (h *handlers) toggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	featured, err := h.store.ToggleFeatured(id)
	if err != nil {
		h.fail(w, r, "Failed to update file", err)
		return
	}
	state := "unfeatured"
	if featured {
		state = "featured"
	}
	h.respond(w, r, http.StatusOK, message{Message: fmt.Sprintf("File %s successfully", state)})
}

func (h *handlers) analytics(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, h.store.Analytics())
}
