package http

import (
	"net/http"

	"github.com/mauv0809/arena/internal/arena"
	"github.com/mauv0809/arena/internal/config"
)

func NewServer(store arena.Store, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Sessions:       NewSessionRegistry(),
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// The session middleware resolves the bearer token; requireRole gates by role.
	managers := []arena.Role{arena.RoleLeagueOwner, arena.RoleOperator}
	anyone := arena.Roles()
	base := func(h http.Handler, extra ...Middleware) http.Handler {
		return Chain(h, append([]Middleware{paramsMiddleware, s.sessionMiddleware}, extra...)...)
	}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", base(s.HealthCheckHandler()))

	s.Router.Handle("POST /api/register", base(s.RegisterHandler()))
	s.Router.Handle("POST /api/login", base(s.LoginHandler()))
	s.Router.Handle("POST /api/logout", base(s.LogoutHandler(), requireRole(anyone...)))

	s.Router.Handle("GET /api/users", base(s.ListUsersHandler(), requireRole(arena.RoleOperator)))
	s.Router.Handle("GET /api/users/pending", base(s.PendingUsersHandler(), requireRole(arena.RoleOperator)))
	s.Router.Handle("POST /api/users/{username}/approve", base(s.ApproveHandler(), requireRole(arena.RoleOperator)))

	s.Router.Handle("GET /api/leagues", base(s.ListLeaguesHandler(), requireRole(anyone...)))
	s.Router.Handle("POST /api/leagues", base(s.CreateLeagueHandler(), requireRole(managers...)))

	s.Router.Handle("GET /api/tournaments", base(s.ListTournamentsHandler(), requireRole(anyone...)))
	s.Router.Handle("POST /api/tournaments", base(s.CreateTournamentHandler(), requireRole(managers...)))
	s.Router.Handle("POST /api/tournaments/{id}/apply", base(s.ApplyHandler(), requireRole(arena.RolePlayer)))
	s.Router.Handle("POST /api/tournaments/{id}/start", base(s.StartTournamentHandler(), requireRole(managers...)))

	s.Router.Handle("GET /api/matches", base(s.ListMatchesHandler(), requireRole(anyone...)))
	s.Router.Handle("POST /api/matches/{id}/result", base(s.RecordResultHandler(), requireRole(managers...)))

	s.Router.Handle("GET /api/ads", base(s.ListAdsHandler(), requireRole(anyone...)))
	s.Router.Handle("POST /api/ads", base(s.CreateAdHandler(), requireRole(arena.RoleAdvertiser)))

	s.Router.Handle("GET /api/dashboard/overview", base(s.OverviewHandler(), requireRole(arena.RoleOperator)))
	s.Router.Handle("GET /api/dashboard/created", base(s.CreatedTournamentsHandler(), requireRole(managers...)))
	s.Router.Handle("GET /api/dashboard/available", base(s.AvailableTournamentsHandler(), requireRole(arena.RolePlayer)))
	s.Router.Handle("GET /api/dashboard/mine", base(s.PlayerTournamentsHandler(), requireRole(arena.RolePlayer)))
	s.Router.Handle("GET /api/dashboard/my-matches", base(s.PlayerMatchesHandler(), requireRole(arena.RolePlayer)))
	s.Router.Handle("GET /api/dashboard/live", base(s.LiveMatchesHandler(), requireRole(anyone...)))
	s.Router.Handle("GET /api/dashboard/history", base(s.HistoryHandler(), requireRole(anyone...)))
	s.Router.Handle("GET /api/dashboard/stats", base(s.StatisticsHandler(), requireRole(anyone...)))
	s.Router.Handle("GET /api/dashboard/ads", base(s.AdvertiserDashboardHandler(), requireRole(arena.RoleAdvertiser)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
