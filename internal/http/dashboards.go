package http

import "net/http"

func (s *Server) OverviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Store.Overview())
	}
}

func (s *Server) CreatedTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, listOf(s.Store.TournamentsCreatedBy(sessionFromContext(r).Username)))
	}
}

func (s *Server) AvailableTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, listOf(s.Store.AvailableTournaments(sessionFromContext(r).Username)))
	}
}

func (s *Server) PlayerTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, listOf(s.Store.PlayerTournaments(sessionFromContext(r).Username)))
	}
}

func (s *Server) PlayerMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, listOf(s.Store.PlayerMatches(sessionFromContext(r).Username)))
	}
}

func (s *Server) LiveMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, listOf(s.Store.LiveMatches()))
	}
}

func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, listOf(s.Store.TournamentHistory()))
	}
}

func (s *Server) StatisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, listOf(s.Store.PlayerStatistics()))
	}
}

func (s *Server) AdvertiserDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Store.AdvertiserDashboard(sessionFromContext(r).Username))
	}
}
