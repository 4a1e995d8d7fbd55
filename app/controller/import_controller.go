package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"textilehub/service"
)

// ImportController handles bulk imports from Google Drive
type ImportController struct {
	importer *service.DriveImportService
}

// NewImportController creates a new ImportController
func NewImportController(importer *service.DriveImportService) *ImportController {
	return &ImportController{importer: importer}
}

type importRequest struct {
	FolderID    string `json:"folder_id"`
	CatalogueID string `json:"catalogue_id"`
}

// ImportFromDrive handles POST /imports/drive
// Fetches images from a Google Drive folder and creates one design per
// image; already-imported files are skipped.
func (c *ImportController) ImportFromDrive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if c.importer == nil {
		http.Error(w, "Drive import is not configured", http.StatusServiceUnavailable)
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.FolderID == "" {
		http.Error(w, "folder_id is required", http.StatusBadRequest)
		return
	}

	stats, err := c.importer.ImportFolder(r.Context(), UserID(r), req.FolderID, req.CatalogueID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to import from Drive: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
