package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"textilehub/models"
	"textilehub/repository"
	"textilehub/service"
)

// CatalogueController handles HTTP requests for catalogues, including the
// printable render page and PDF export.
type CatalogueController struct {
	repository repository.CatalogueRepositoryInterface
	exporter   *service.CatalogueExportService
}

// NewCatalogueController creates a new CatalogueController
func NewCatalogueController(repo repository.CatalogueRepositoryInterface, exporter *service.CatalogueExportService) *CatalogueController {
	return &CatalogueController{repository: repo, exporter: exporter}
}

// List handles GET /catalogues; Create handles POST /catalogues
func (c *CatalogueController) ListOrCreate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		catalogues, err := c.repository.List(r.Context(), UserID(r))
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to list catalogues: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"catalogues": catalogues})

	case http.MethodPost:
		var catalogue models.Catalogue
		if err := json.NewDecoder(r.Body).Decode(&catalogue); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		if catalogue.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		catalogue.UserID = UserID(r)
		if err := c.repository.Create(r.Context(), &catalogue); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create catalogue: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(catalogue)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ByID handles /catalogues/:id and its render and pdf sub-routes.
func (c *CatalogueController) ByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/catalogues/")

	if strings.HasSuffix(path, "/render") {
		c.render(w, r, strings.TrimSuffix(path, "/render"))
		return
	}
	if strings.HasSuffix(path, "/pdf") {
		c.pdf(w, r, strings.TrimSuffix(path, "/pdf"))
		return
	}

	id := path
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "catalogue id is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		catalogue, err := c.repository.GetByID(r.Context(), UserID(r), id)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get catalogue: %v", err), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(catalogue)

	case http.MethodPut:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		catalogue, err := c.repository.Update(r.Context(), UserID(r), id, req.Name)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to update catalogue: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(catalogue)

	case http.MethodDelete:
		if err := c.repository.Delete(r.Context(), UserID(r), id); err != nil {
			http.Error(w, fmt.Sprintf("Failed to delete catalogue: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "Catalogue deleted successfully",
			"id":      id,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// render serves the printable HTML page the headless browser navigates to
func (c *CatalogueController) render(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	html, err := c.exporter.RenderHTML(r.Context(), UserID(r), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to render catalogue: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// pdf serves the catalogue as a downloadable PDF
func (c *CatalogueController) pdf(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// The headless browser re-authenticates against the render endpoint
	// with the caller's own token.
	token := r.URL.Query().Get("token")
	if token == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
	}

	pdf, err := c.exporter.GeneratePDF(r.Context(), UserID(r), id, token)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="catalogue_%s.pdf"`, id))
	w.Write(pdf)
}
