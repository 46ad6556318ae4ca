package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/arena"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// errBadRequest marks input rejected before it reaches the store.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, arena.ErrNotLoggedIn), errors.Is(err, arena.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, arena.ErrNotApproved):
		return http.StatusForbidden
	case errors.Is(err, arena.ErrUnknownUser),
		errors.Is(err, arena.ErrTournamentNotFound),
		errors.Is(err, arena.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, arena.ErrDuplicateUsername),
		errors.Is(err, arena.ErrAlreadyRegistered),
		errors.Is(err, arena.ErrTournamentFull):
		return http.StatusConflict
	case errors.Is(err, arena.ErrInsufficientParticipants):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

// listOf keeps empty results as [] rather than null.
func listOf[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func required(fields ...string) error {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return badRequest("all fields are required")
		}
	}
	return nil
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := required(req.Username, req.Password, req.Name, req.Email); err != nil {
			respondError(w, err)
			return
		}
		role := arena.RolePlayer
		if req.Role != "" {
			parsed, err := arena.ParseRole(req.Role)
			if err != nil {
				respondError(w, badRequest("%v", err))
				return
			}
			role = parsed
		}
		if role == arena.RoleOperator {
			respondError(w, badRequest("role %s cannot be chosen at registration", role))
			return
		}

		msg, err := s.Store.Register(req.Username, req.Password, req.Name, req.Email, role)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, messageResponse{Message: msg, ID: req.Username})
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, err)
			return
		}
		if req.Username == "" || req.Password == "" {
			respondError(w, badRequest("please enter username and password"))
			return
		}

		sess, err := s.Store.Authenticate(req.Username, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}
		token := s.Sessions.Create(sess)
		respondJSON(w, http.StatusOK, loginResponse{
			Token:    token,
			Username: sess.Username,
			Role:     sess.Role,
			Message:  "Login successful",
		})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r)
		s.Sessions.Delete(tokenFromContext(r))
		log.Info("User logged out", "username", sess.Username)
		respondJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
	}
}

func (s *Server) ApproveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := s.Store.Approve(r.PathValue("username"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, messageResponse{Message: msg})
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users := s.Store.Users()
		views := make([]userView, 0, len(users))
		for _, u := range users {
			views = append(views, newUserView(u))
		}
		respondJSON(w, http.StatusOK, views)
	}
}

func (s *Server) PendingUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views := []userView{}
		for _, u := range s.Store.PendingUsers() {
			views = append(views, newUserView(u))
		}
		respondJSON(w, http.StatusOK, views)
	}
}

func (s *Server) CreateLeagueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLeagueRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := required(req.Name, req.GameType); err != nil {
			respondError(w, err)
			return
		}

		id, err := s.Store.CreateLeague(sessionFromContext(r), req.Name, req.GameType, req.Description)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, messageResponse{
			Message: fmt.Sprintf("League created successfully! ID: %s", id),
			ID:      id,
		})
	}
}

func (s *Server) ListLeaguesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, listOf(s.Store.Leagues()))
	}
}

func (s *Server) CreateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTournamentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := required(req.LeagueID, req.Name, req.StartDate); err != nil {
			respondError(w, err)
			return
		}
		if req.MaxPlayers < 2 {
			respondError(w, badRequest("max_players must be at least 2"))
			return
		}

		id, err := s.Store.CreateTournament(sessionFromContext(r), req.LeagueID, req.Name, req.StartDate, req.MaxPlayers, req.PrizePool)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, messageResponse{
			Message: fmt.Sprintf("Tournament created! ID: %s", id),
			ID:      id,
		})
	}
}

func (s *Server) ListTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, listOf(s.Store.Tournaments()))
	}
}

func (s *Server) ApplyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := s.Store.ApplyForTournament(sessionFromContext(r), r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, messageResponse{Message: msg})
	}
}

func (s *Server) StartTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := s.Store.StartTournament(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, messageResponse{Message: msg})
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches := s.Store.Matches()
		if tid := r.URL.Query().Get("tournament"); tid != "" {
			filtered := matches[:0]
			for _, m := range matches {
				if m.TournamentID == tid {
					filtered = append(filtered, m)
				}
			}
			matches = filtered
		}
		respondJSON(w, http.StatusOK, listOf(matches))
	}
}

func (s *Server) RecordResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordResultRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := required(req.Winner); err != nil {
			respondError(w, err)
			return
		}

		msg, err := s.Store.RecordResult(r.PathValue("id"), req.Winner, req.Score)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, messageResponse{Message: msg})
	}
}

func (s *Server) CreateAdHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAdRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := required(req.Title, req.Content); err != nil {
			respondError(w, err)
			return
		}
		if req.Cost < 0 {
			respondError(w, badRequest("invalid cost"))
			return
		}

		id, err := s.Store.CreateAdvertisement(sessionFromContext(r), req.Title, req.Content, req.Cost)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, messageResponse{
			Message: fmt.Sprintf("Advertisement created! ID: %s", id),
			ID:      id,
		})
	}
}

func (s *Server) ListAdsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ads := s.Store.Advertisements()
		if r.URL.Query().Get("active") == "true" {
			active := ads[:0]
			for _, ad := range ads {
				if ad.Active {
					active = append(active, ad)
				}
			}
			ads = active
		}
		respondJSON(w, http.StatusOK, listOf(ads))
	}
}
