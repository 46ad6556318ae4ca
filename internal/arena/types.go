package arena

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/mauv0809/arena/internal/metrics"
)

// Bye is the placeholder opponent for the unpaired participant of an odd field.
const Bye = "BYE"

// User is a registered account. Credentials are compared as opaque strings.
type User struct {
	Username     string    `json:"username"`
	Password     string    `json:"password"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Approved     bool      `json:"approved"`
	RegisteredAt Timestamp `json:"registered_date"`
}

// League groups tournaments for one game.
type League struct {
	ID          string    `json:"league_id"`
	Name        string    `json:"name"`
	GameType    string    `json:"game_type"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	CreatedAt   Timestamp `json:"created_date"`
	Tournaments []string  `json:"tournaments"`
}

// Tournament is a single-round competition inside a league.
type Tournament struct {
	ID           string           `json:"tournament_id"`
	LeagueID     string           `json:"league_id"`
	Name         string           `json:"name"`
	StartDate    string           `json:"start_date"`
	MaxPlayers   int              `json:"max_players"`
	PrizePool    string           `json:"prize_pool"`
	Status       TournamentStatus `json:"status"`
	Participants []string         `json:"participants"`
	Matches      []string         `json:"matches"`
	Winner       string           `json:"winner"`
	CreatedBy    string           `json:"created_by"`
	CreatedAt    Timestamp        `json:"created_date"`
}

// Match pairs two participants, or one participant and Bye.
type Match struct {
	ID           string      `json:"match_id"`
	TournamentID string      `json:"tournament_id"`
	Player1      string      `json:"player1"`
	Player2      string      `json:"player2"`
	Status       MatchStatus `json:"status"`
	Winner       string      `json:"winner"`
	Score        string      `json:"score"`
	CreatedAt    Timestamp   `json:"created_date"`
	CompletedAt  Timestamp   `json:"completed_date"`
}

// Advertisement is a paid placement owned by an advertiser.
type Advertisement struct {
	ID         string    `json:"ad_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Cost       float64   `json:"cost"`
	Advertiser string    `json:"advertiser"`
	CreatedAt  Timestamp `json:"created_date"`
	Active     bool      `json:"active"`
}

// Session is the acting identity established by a successful Authenticate.
// The zero Session is the unauthenticated state.
type Session struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// LoggedIn reports whether the session carries an identity.
func (s Session) LoggedIn() bool {
	return s.Username != ""
}

// Snapshot is the complete persisted state: one mapping per entity kind.
type Snapshot struct {
	Users          map[string]User          `json:"users"`
	Leagues        map[string]League        `json:"leagues"`
	Tournaments    map[string]Tournament    `json:"tournaments"`
	Matches        map[string]Match         `json:"matches"`
	Advertisements map[string]Advertisement `json:"advertisements"`
}

// NewSnapshot returns a snapshot with empty, non-nil mappings.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:          map[string]User{},
		Leagues:        map[string]League{},
		Tournaments:    map[string]Tournament{},
		Matches:        map[string]Match{},
		Advertisements: map[string]Advertisement{},
	}
}

// Clone returns a deep copy of the snapshot. Missing mappings become empty.
func (s *Snapshot) Clone() *Snapshot {
	c := NewSnapshot()
	if s == nil {
		return c
	}
	maps.Copy(c.Users, s.Users)
	for id, l := range s.Leagues {
		l.Tournaments = slices.Clone(l.Tournaments)
		c.Leagues[id] = l
	}
	for id, t := range s.Tournaments {
		t.Participants = slices.Clone(t.Participants)
		t.Matches = slices.Clone(t.Matches)
		c.Tournaments[id] = t
	}
	maps.Copy(c.Matches, s.Matches)
	maps.Copy(c.Advertisements, s.Advertisements)
	return c
}

// sequences hold the last number issued per id prefix.
type sequences struct {
	leagues     int
	tournaments int
	ads         int
}

// state is the store's mutable data. It is copied before every mutation so a
// failed save can restore it.
type state struct {
	data *Snapshot
	seq  sequences
}

func (st state) clone() state {
	return state{data: st.data.Clone(), seq: st.seq}
}

// store is the in-memory entity store backed by a Gateway.
type store struct {
	mu            sync.RWMutex
	state         state
	gateway       Gateway
	metrics       metrics.Metrics
	now           func() time.Time
	adminPassword string
}

// Option configures a store.
type Option func(*store)

// WithClock replaces the time source used for entity timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *store) { s.now = now }
}

// WithAdminPassword sets the password of the bootstrap operator account.
func WithAdminPassword(password string) Option {
	return func(s *store) { s.adminPassword = password }
}
