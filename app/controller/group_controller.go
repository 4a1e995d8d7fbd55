package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"textilehub/models"
	"textilehub/repository"
)

// GroupController handles HTTP requests for contact groups
type GroupController struct {
	repository repository.GroupRepositoryInterface
}

// NewGroupController creates a new GroupController
func NewGroupController(repo repository.GroupRepositoryInterface) *GroupController {
	return &GroupController{repository: repo}
}

// ListOrCreate handles GET and POST /groups
func (c *GroupController) ListOrCreate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		groups, err := c.repository.List(r.Context(), UserID(r))
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to list groups: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"groups": groups})

	case http.MethodPost:
		var group models.Group
		if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		if group.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		group.UserID = UserID(r)
		if err := c.repository.Create(r.Context(), &group); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create group: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(group)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ByID handles /groups/:id and its member sub-routes:
// POST /groups/:id/members and DELETE /groups/:id/members/:memberId
func (c *GroupController) ByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/groups/")

	if strings.Contains(path, "/members") {
		c.members(w, r, path)
		return
	}

	id := path
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "group id is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		group, err := c.repository.GetByID(r.Context(), UserID(r), id)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get group: %v", err), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(group)

	case http.MethodPut:
		var group models.Group
		if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		group.ID = id
		if err := c.repository.Update(r.Context(), UserID(r), &group); err != nil {
			http.Error(w, fmt.Sprintf("Failed to update group: %v", err), http.StatusInternalServerError)
			return
		}
		updated, err := c.repository.GetByID(r.Context(), UserID(r), id)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get group: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)

	case http.MethodDelete:
		if err := c.repository.Delete(r.Context(), UserID(r), id); err != nil {
			http.Error(w, fmt.Sprintf("Failed to delete group: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "Group deleted successfully",
			"id":      id,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (c *GroupController) members(w http.ResponseWriter, r *http.Request, path string) {
	// path is either "{groupId}/members" or "{groupId}/members/{memberId}"
	parts := strings.Split(path, "/")
	groupID := parts[0]
	if groupID == "" {
		http.Error(w, "group id is required", http.StatusBadRequest)
		return
	}

	switch {
	case r.Method == http.MethodPost && len(parts) == 2:
		var member models.GroupMember
		if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		if member.Name == "" || member.PhoneNumber == "" {
			http.Error(w, "name and phone_number are required", http.StatusBadRequest)
			return
		}
		if err := c.repository.AddMember(r.Context(), UserID(r), groupID, &member); err != nil {
			http.Error(w, fmt.Sprintf("Failed to add member: %v", err), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(member)

	case r.Method == http.MethodDelete && len(parts) == 3:
		memberID := parts[2]
		if err := c.repository.RemoveMember(r.Context(), UserID(r), groupID, memberID); err != nil {
			http.Error(w, fmt.Sprintf("Failed to remove member: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "Member removed successfully",
			"id":      memberID,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
