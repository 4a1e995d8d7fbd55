package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"textilehub/repository"
	"textilehub/service"
)

// AuthController handles registration, login and the current-user lookup
type AuthController struct {
	auth  *service.AuthService
	users repository.UserRepositoryInterface
}

// NewAuthController creates a new AuthController
func NewAuthController(auth *service.AuthService, users repository.UserRepositoryInterface) *AuthController {
	return &AuthController{auth: auth, users: users}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	FirmName string `json:"firm_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	user, err := c.auth.Register(r.Context(), req.Email, req.Password, req.Name, req.FirmName)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to register: %v", err), http.StatusBadRequest)
		return
	}

	token, err := c.auth.IssueToken(user.ID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to issue token: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	token, user, err := c.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Me handles GET /auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := c.users.GetByID(r.Context(), UserID(r))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get user: %v", err), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
