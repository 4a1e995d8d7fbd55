package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"textilehub/models"
	"textilehub/repository"
	"textilehub/service"
)

// ShareController handles the share workflow: session lifecycle, preview
// delivery, export negotiation and the WhatsApp link step.
type ShareController struct {
	designs  repository.DesignRepositoryInterface
	groups   repository.GroupRepositoryInterface
	users    repository.UserRepositoryInterface
	manager  *service.SessionManager
	previews *service.PreviewStore

	compositor *service.Compositor
	negotiator *service.Negotiator
	saver      service.FileSaver
	opener     service.LinkOpener
	appName    string
}

// NewShareController creates a new ShareController
func NewShareController(
	designs repository.DesignRepositoryInterface,
	groups repository.GroupRepositoryInterface,
	users repository.UserRepositoryInterface,
	manager *service.SessionManager,
	previews *service.PreviewStore,
	compositor *service.Compositor,
	negotiator *service.Negotiator,
	saver service.FileSaver,
	opener service.LinkOpener,
	appName string,
) *ShareController {
	return &ShareController{
		designs:    designs,
		groups:     groups,
		users:      users,
		manager:    manager,
		previews:   previews,
		compositor: compositor,
		negotiator: negotiator,
		saver:      saver,
		opener:     opener,
		appName:    appName,
	}
}

type createSessionRequest struct {
	DesignIDs []string             `json:"design_ids"`
	Options   *models.LabelOptions `json:"options"`
}

type sessionResponse struct {
	Token        string   `json:"token"`
	State        string   `json:"state"`
	PreviewToken string   `json:"preview_token,omitempty"`
	Links        []string `json:"links,omitempty"`
}

func (c *ShareController) sessionJSON(token string, s *service.ShareSession) sessionResponse {
	return sessionResponse{
		Token:        token,
		State:        s.State().String(),
		PreviewToken: s.PreviewToken(),
		Links:        s.Links(),
	}
}

// CreateSession handles POST /share/sessions
// Loads the selected designs, generates the initial preview and returns
// the session token.
func (c *ShareController) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.DesignIDs) == 0 {
		http.Error(w, "design_ids is required", http.StatusBadRequest)
		return
	}

	userID := UserID(r)
	designs := make([]*models.Design, 0, len(req.DesignIDs))
	for _, id := range req.DesignIDs {
		d, err := c.designs.GetByID(r.Context(), userID, id)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to load design %s: %v", id, err), http.StatusNotFound)
			return
		}
		designs = append(designs, d)
	}

	firmName := ""
	if user, err := c.users.GetByID(r.Context(), userID); err == nil {
		firmName = user.FirmName
	}

	opts := models.DefaultLabelOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	session := service.NewShareSession(service.SessionConfig{
		AppName:    c.appName,
		Designs:    designs,
		Options:    opts,
		FirmName:   firmName,
		Compositor: c.compositor,
		Negotiator: c.negotiator,
		Previews:   c.previews,
		Saver:      c.saver,
		Opener:     c.opener,
	})

	if err := session.RefreshPreview(r.Context()); err != nil {
		// The session is still usable; the preview endpoint just has
		// nothing to serve yet.
		log.Printf("⚠️  Initial preview failed: %v", err)
	}

	token := c.manager.Add(session)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c.sessionJSON(token, session))
}

// Preview handles GET /share/previews/:token
// Serves the current preview JPEG.
func (c *ShareController) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := strings.TrimPrefix(r.URL.Path, "/share/previews/")
	data, ok := c.previews.Get(token)
	if !ok {
		http.Error(w, "Preview not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

// QR handles GET /share/qr?size=N
// Returns the broadcast link QR code as PNG.
func (c *ShareController) QR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	size := 256
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1024 {
			size = n
		}
	}

	count := 1
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}

	png, err := service.BroadcastQR(service.Caption(c.appName, count), size)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate QR code: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Session routes /share/sessions/:token and its sub-actions:
// GET (state), PUT options, POST export, POST export-group, POST links, DELETE
func (c *ShareController) Session(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/share/sessions/")
	parts := strings.SplitN(path, "/", 2)
	token := parts[0]
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	session, ok := c.manager.Get(token)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(c.sessionJSON(token, session))

	case action == "" && r.Method == http.MethodDelete:
		c.manager.Remove(token)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"state":  service.StateClosed.String(),
		})

	case action == "options" && r.Method == http.MethodPut:
		var opts models.LabelOptions
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		if err := session.SetOptions(r.Context(), opts); err != nil {
			http.Error(w, fmt.Sprintf("Failed to update options: %v", err), http.StatusConflict)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(c.sessionJSON(token, session))

	case action == "export" && r.Method == http.MethodPost:
		c.export(w, r, token, session)

	case action == "export-group" && r.Method == http.MethodPost:
		c.exportGroup(w, r, token, session)

	case action == "links" && r.Method == http.MethodPost:
		if err := session.OpenLinks(r.Context()); err != nil {
			http.Error(w, fmt.Sprintf("Failed to open links: %v", err), http.StatusConflict)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(c.sessionJSON(token, session))

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (c *ShareController) export(w http.ResponseWriter, r *http.Request, token string, session *service.ShareSession) {
	delivery, err := session.Export(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrShareCancelled) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "cancelled",
				"state":  session.State().String(),
			})
			return
		}
		http.Error(w, fmt.Sprintf("Failed to export: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"channel": delivery.Channel,
		"state":   session.State().String(),
		"links":   session.Links(),
	})
}

func (c *ShareController) exportGroup(w http.ResponseWriter, r *http.Request, token string, session *service.ShareSession) {
	var req struct {
		GroupID string `json:"group_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.GroupID == "" {
		http.Error(w, "group_id is required", http.StatusBadRequest)
		return
	}

	group, err := c.groups.GetByID(r.Context(), UserID(r), req.GroupID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get group: %v", err), http.StatusNotFound)
		return
	}

	delivery, err := session.ExportToGroup(r.Context(), group)
	if err != nil {
		if errors.Is(err, service.ErrNoGroupMembers) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to export to group: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"channel": delivery.Channel,
		"state":   session.State().String(),
		"links":   session.Links(),
	})
}
