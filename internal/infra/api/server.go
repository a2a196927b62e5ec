package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-sport-subscription/internal/infra/logging"
	"telegram-sport-subscription/internal/usecase"
)

// Server exposes the payment endpoints: the one-time redirect flow, the Octo
// notification callback, and the admin stats surface.
type Server struct {
	payUC         usecase.PaymentUseCase
	statsUC       usecase.StatsUseCase
	auth          *AuthManager
	adminPassword string
	log           *zerolog.Logger
}

func NewServer(payUC usecase.PaymentUseCase, statsUC usecase.StatsUseCase, auth *AuthManager, adminPassword string, logger *zerolog.Logger) *Server {
	return &Server{
		payUC:         payUC,
		statsUC:       statsUC,
		auth:          auth,
		adminPassword: adminPassword,
		log:           logger,
	}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/octo", func(r chi.Router) {
		r.Get("/one-time", s.handleOneTime)
		r.Post("/notify", s.handleNotify)
	})

	r.Post("/admin/login", s.handleAdminLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.auth.RequireAdmin)
		r.Get("/admin/stats", s.handleAdminStats)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Message string `json:"message"`
}

// handleOneTime starts the one-time payment flow and redirects the user to
// the gateway checkout page.
func (s *Server) handleOneTime(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	selectedSport := q.Get("selectedSport")
	if userID == "" || selectedSport == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "userId and selectedSport are required"})
		return
	}
	test := q.Get("test") == "true"
	if tg := q.Get("telegramId"); tg != "" {
		// Accepted for forward compatibility; linking happens in the bot flow.
		if id, err := strconv.ParseInt(tg, 10, 64); err == nil {
			s.log.Debug().Int64("tg_id", id).Str("user_id", userID).Msg("one-time request carries telegram id")
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()
	ctx = logging.WithUserID(ctx, userID)

	res, err := s.payUC.Initiate(ctx, userID, selectedSport, test)
	if err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("failed to create octo payment")
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	if res.PayURL == "" {
		writeJSON(w, http.StatusBadGateway, errorResponse{Message: "Octo payment URL was not returned"})
		return
	}

	http.Redirect(w, r, res.PayURL, http.StatusFound)
}

type notifyRequest struct {
	PaymentUUID string `json:"octo_payment_UUID"`
	Status      string `json:"status"`
}

// handleNotify receives Octo's push notification. Anything beyond the two
// required fields is ignored; the gateway must always get a success
// acknowledgement for notifications we could parse.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var body notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid JSON body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	ctx = logging.WithExternalID(ctx, body.PaymentUUID)

	if err := s.payUC.Reconcile(ctx, usecase.Notification{PaymentID: body.PaymentUUID, Status: body.Status}); err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("failed to process octo notification")
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid JSON body"})
		return
	}
	if s.adminPassword == "" || subtle.ConstantTimeCompare([]byte(body.Password), []byte(s.adminPassword)) != 1 {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "invalid credentials"})
		return
	}
	if _, err := s.auth.Mint(w); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "failed to mint session"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.Summary(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
