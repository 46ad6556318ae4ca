package http

import (
	"net/http"

	"github.com/mauv0809/arena/internal/arena"
	"github.com/mauv0809/arena/internal/config"
)

type Server struct {
	Store          arena.Store
	Sessions       *SessionRegistry
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string     `json:"token"`
	Username string     `json:"username"`
	Role     arena.Role `json:"role"`
	Message  string     `json:"message"`
}

type createLeagueRequest struct {
	Name        string `json:"name"`
	GameType    string `json:"game_type"`
	Description string `json:"description"`
}

type createTournamentRequest struct {
	LeagueID   string `json:"league_id"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date"`
	MaxPlayers int    `json:"max_players"`
	PrizePool  string `json:"prize_pool"`
}

type recordResultRequest struct {
	Winner string `json:"winner"`
	Score  string `json:"score"`
}

type createAdRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Cost    float64 `json:"cost"`
}

// messageResponse carries the status message shown to the user and, for
// creations, the new id.
type messageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// userView is a User without its password.
type userView struct {
	Username     string          `json:"username"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         arena.Role      `json:"role"`
	Approved     bool            `json:"approved"`
	RegisteredAt arena.Timestamp `json:"registered_date"`
}

func newUserView(u arena.User) userView {
	return userView{
		Username:     u.Username,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Approved:     u.Approved,
		RegisteredAt: u.RegisteredAt,
	}
}
