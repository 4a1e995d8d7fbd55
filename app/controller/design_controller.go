package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"textilehub/models"
	"textilehub/repository"
)

// DesignController handles HTTP requests for designs
type DesignController struct {
	repository repository.DesignRepositoryInterface
}

// NewDesignController creates a new DesignController
func NewDesignController(repo repository.DesignRepositoryInterface) *DesignController {
	return &DesignController{repository: repo}
}

// parseFilters builds DesignFilters from the query string
func parseFilters(r *http.Request) models.DesignFilters {
	q := r.URL.Query()
	filters := models.DesignFilters{
		Fabric:    q.Get("fabric"),
		Catalogue: q.Get("catalogue"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort"),
	}

	if v := q.Get("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MinPrice = &f
		}
	}
	if v := q.Get("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MaxPrice = &f
		}
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filters.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filters.Limit = n
		}
	}

	return filters
}

// List handles GET /designs
// Supports fabric, catalogue, search, min_price, max_price, sort, page and limit query parameters
func (c *DesignController) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filters := parseFilters(r)
	designs, total, err := c.repository.List(r.Context(), UserID(r), filters)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list designs: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"designs": designs,
		"total":   total,
	})
}

// Create handles POST /designs
func (c *DesignController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var design models.Design
	if err := json.NewDecoder(r.Body).Decode(&design); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if design.Name == "" || design.Image == "" {
		http.Error(w, "name and image are required", http.StatusBadRequest)
		return
	}
	if design.WholesalePrice < 0 || design.RetailPrice < 0 {
		http.Error(w, "prices must be non-negative", http.StatusBadRequest)
		return
	}

	design.UserID = UserID(r)
	if err := c.repository.Create(r.Context(), &design); err != nil {
		http.Error(w, fmt.Sprintf("Failed to create design: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(design)
}

// Fabrics handles GET /designs/fabrics
// Returns the distinct fabric names used by the caller's designs
func (c *DesignController) Fabrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	fabrics, err := c.repository.Fabrics(r.Context(), UserID(r))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list fabrics: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"fabrics": fabrics})
}

// ByID handles GET/PUT/DELETE /designs/:id
func (c *DesignController) ByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/designs/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "design id is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		design, err := c.repository.GetByID(r.Context(), UserID(r), id)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get design: %v", err), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(design)

	case http.MethodPut:
		var req models.DesignUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		if (req.WholesalePrice != nil && *req.WholesalePrice < 0) ||
			(req.RetailPrice != nil && *req.RetailPrice < 0) {
			http.Error(w, "prices must be non-negative", http.StatusBadRequest)
			return
		}
		design, err := c.repository.Update(r.Context(), UserID(r), id, &req)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to update design: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(design)

	case http.MethodDelete:
		if err := c.repository.Delete(r.Context(), UserID(r), id); err != nil {
			http.Error(w, fmt.Sprintf("Failed to delete design: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "Design deleted successfully",
			"id":      id,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
