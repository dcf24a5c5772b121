package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"clientdesk/internal/config"
	"clientdesk/internal/db"
	appmiddleware "clientdesk/internal/middleware"
	"clientdesk/internal/websocket"
)

// Handler carries the stores and services the HTTP layer dispatches into.
type Handler struct {
	cfg         config.Config
	logger      *zap.Logger
	txRunner    db.TxRunner
	users       UserStore
	admins      AdminStore
	engagements EngagementStore
	audit       AuditStore
	ledger      LedgerService
	hotline     HotlineService
	hub         *websocket.Hub
}

func New(cfg config.Config, logger *zap.Logger, txRunner db.TxRunner, users UserStore, admins AdminStore, engagements EngagementStore, audit AuditStore, ledger LedgerService, hotline HotlineService, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:         cfg,
		logger:      logger,
		txRunner:    txRunner,
		users:       users,
		admins:      admins,
		engagements: engagements,
		audit:       audit,
		ledger:      ledger,
		hotline:     hotline,
		hub:         hub,
	}
}

// Routes builds the full router. The user and admin surfaces each have a
// public login/register pair and a token-guarded group; the guards use
// separate signing keys so a token from one surface never opens the other.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.RequestLogger(h.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(h.cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.userLogin)
		r.Post("/register", h.userRegister)
		r.Get("/ws/hotline", h.userHotlineWS)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.UserAuth(h.cfg.UserSecretKey))
			r.Put("/change_password", h.userChangePassword)
			r.Get("/view_services", h.userViewServices)
			r.Put("/pay", h.pay)
			r.Get("/hotline", h.userHotlineFetch)
			r.Post("/hotline", h.userHotlinePost)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.adminLogin)
		r.Post("/register", h.adminRegister)
		r.Get("/ws/hotline", h.adminHotlineWS)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.AdminAuth(h.cfg.AdminSecretKey))
			r.Put("/change_password", h.adminChangePassword)
			r.Post("/create_engagement", h.createEngagement)
			r.Delete("/delete_engagement", h.deleteEngagement)
			r.Post("/add_details", h.addDetails)
			r.Get("/details/{engagement_id}", h.listDetails)
			r.Delete("/delete_detail", h.deleteDetail)
			r.Post("/request_payment", h.requestPayment)
			r.Get("/search_user_id/{user_id}", h.searchUserByID)
			r.Get("/search_username/{username}", h.searchUserByUsername)
			r.Get("/view_services/{user_id}", h.adminViewServices)
			r.Get("/hotline/{user_id}", h.adminHotlineFetch)
			r.Post("/hotline", h.adminHotlinePost)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
