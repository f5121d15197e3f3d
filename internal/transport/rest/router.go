package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/procurement-portal/internal/approval"
	"github.com/frahmantamala/procurement-portal/internal/auth"
	"github.com/frahmantamala/procurement-portal/internal/category"
	"github.com/frahmantamala/procurement-portal/internal/delegation"
	"github.com/frahmantamala/procurement-portal/internal/document"
	"github.com/frahmantamala/procurement-portal/internal/notification"
	"github.com/frahmantamala/procurement-portal/internal/rule"
	"github.com/frahmantamala/procurement-portal/internal/transport/middleware"
	"github.com/frahmantamala/procurement-portal/internal/transport/swagger"
	"github.com/frahmantamala/procurement-portal/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	RBAC         *auth.RBACAuthorization
	User         *user.Handler
	Category     *category.Handler
	Document     *document.Handler
	Approval     *approval.Handler
	Rule         *rule.Handler
	Delegation   *delegation.Handler
	Notification *notification.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	sqlxDB := sqlx.NewDb(db, "pgx")
	abac := &auth.ABACPolicy{}

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		// Public category catalog (no auth required)
		if h.Category != nil {
			r.Get("/categories", h.Category.GetCategories)
		}

		if h.Auth == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Current user + approver roles
			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.Get("/roles", h.User.ListRoles)
			}

			// Document routes
			if h.Document != nil {
				pr.Route("/documents", func(dr chi.Router) {
					dr.Post("/", h.Document.CreateDocument)
					dr.Get("/", h.Document.ListDocuments)
					dr.Get("/{id}", h.Document.GetDocument)
					dr.Patch("/{id}", h.Document.UpdateDocument)
					dr.Post("/{id}/submit", h.Document.SubmitDocument)
					dr.Post("/{id}/withdraw", h.Document.WithdrawDocument)

					if h.Approval != nil {
						dr.Group(func(wr chi.Router) {
							wr.Use(auth.RequireCanViewDocument(sqlxDB, abac))
							wr.Get("/{id}/workflow", h.Approval.GetDocumentWorkflow)
						})
					}
				})
			}

			// Approval routes
			if h.Approval != nil {
				pr.Route("/approvals", func(ar chi.Router) {
					ar.Get("/pending", h.Approval.GetPendingApprovals)
					ar.Post("/{id}/decision", h.Approval.RecordDecision)
				})
			}

			// Rule administration (requires manage_rules permission)
			if h.Rule != nil && h.RBAC != nil {
				pr.Group(func(rr chi.Router) {
					rr.Use(h.RBAC.RequireManageRules())
					rr.Route("/rules", func(sr chi.Router) {
						sr.Post("/", h.Rule.CreateRule)
						sr.Get("/", h.Rule.ListRules)
						sr.Get("/{id}", h.Rule.GetRule)
						sr.Patch("/{id}", h.Rule.UpdateRule)
						sr.Delete("/{id}", h.Rule.DeleteRule)
					})
				})
			}

			// Delegation routes
			if h.Delegation != nil {
				pr.Route("/delegations", func(dr chi.Router) {
					dr.Post("/", h.Delegation.CreateDelegation)
					dr.Get("/", h.Delegation.ListDelegations)
					dr.Delete("/{id}", h.Delegation.CancelDelegation)
				})
			}

			// Notification routes
			if h.Notification != nil {
				pr.Route("/notifications", func(nr chi.Router) {
					nr.Get("/", h.Notification.ListNotifications)
					nr.Patch("/{id}/read", h.Notification.MarkNotificationRead)
				})
			}
		})
	})
}
