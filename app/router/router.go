package router

import (
	"net/http"

	"textilehub/app/controller"
)

type Controllers struct {
	Auth      *controller.AuthController
	Design    *controller.DesignController
	Catalogue *controller.CatalogueController
	Group     *controller.GroupController
	Share     *controller.ShareController
	Import    *controller.ImportController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers, auth *controller.AuthMiddleware) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Auth routes (public)
	http.HandleFunc("/auth/register", controllers.Auth.Register)
	http.HandleFunc("/auth/login", controllers.Auth.Login)
	http.HandleFunc("/auth/me", auth.Require(controllers.Auth.Me))

	// Design routes
	http.HandleFunc("/designs", auth.Require(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Design.List(w, r)
		} else if r.Method == http.MethodPost {
			controllers.Design.Create(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	// Distinct fabric names (must be before the generic /:id route)
	http.HandleFunc("/designs/fabrics", auth.Require(controllers.Design.Fabrics))

	// Design by ID - handles GET, PUT and DELETE
	http.HandleFunc("/designs/", auth.Require(controllers.Design.ByID))

	// Catalogue routes
	http.HandleFunc("/catalogues", auth.Require(controllers.Catalogue.ListOrCreate))

	// Catalogue by ID plus /render and /pdf sub-routes
	http.HandleFunc("/catalogues/", auth.Require(controllers.Catalogue.ByID))

	// Group routes
	http.HandleFunc("/groups", auth.Require(controllers.Group.ListOrCreate))

	// Group by ID plus member sub-routes
	http.HandleFunc("/groups/", auth.Require(controllers.Group.ByID))

	// Share workflow routes
	http.HandleFunc("/share/sessions", auth.Require(controllers.Share.CreateSession))
	http.HandleFunc("/share/sessions/", auth.Require(controllers.Share.Session))
	http.HandleFunc("/share/qr", auth.Require(controllers.Share.QR))

	// Preview images are addressed by unguessable tokens
	http.HandleFunc("/share/previews/", controllers.Share.Preview)

	// Bulk import from Google Drive
	http.HandleFunc("/imports/drive", auth.Require(controllers.Import.ImportFromDrive))
}
