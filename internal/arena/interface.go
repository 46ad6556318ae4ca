package arena

// Store defines every operation the presentation layer may call. Mutating
// operations persist the whole state through the Gateway before returning.
type Store interface {
	// Users
	Register(username, password, name, email string, role Role) (string, error)
	Authenticate(username, password string) (Session, error)
	Approve(username string) (string, error)

	// Leagues and tournaments
	CreateLeague(sess Session, name, gameType, description string) (string, error)
	CreateTournament(sess Session, leagueID, name, startDate string, maxPlayers int, prizePool string) (string, error)
	ApplyForTournament(sess Session, tournamentID string) (string, error)
	StartTournament(tournamentID string) (string, error)

	// Matches
	RecordResult(matchID, winner, score string) (string, error)

	// Advertisements
	CreateAdvertisement(sess Session, title, content string, cost float64) (string, error)

	// Read access
	Snapshot() *Snapshot
	User(username string) (User, bool)
	League(id string) (League, bool)
	Tournament(id string) (Tournament, bool)
	Match(id string) (Match, bool)
	Users() []User
	Leagues() []League
	Tournaments() []Tournament
	Matches() []Match
	Advertisements() []Advertisement

	// Dashboards
	Overview() Overview
	PendingUsers() []User
	TournamentsCreatedBy(username string) []TournamentSummary
	AvailableTournaments(username string) []TournamentSummary
	PlayerTournaments(username string) []TournamentSummary
	PlayerMatches(username string) []PlayerMatch
	LiveMatches() []LiveMatch
	TournamentHistory() []TournamentSummary
	PlayerStatistics() []PlayerStats
	AdvertiserDashboard(username string) AdvertiserSummary
}

// Gateway persists and restores the full store state as a single document.
type Gateway interface {
	// Save replaces the stored document with snap.
	Save(snap *Snapshot) error
	// Load returns the stored document, or nil when none exists yet. A
	// document that cannot be decoded yields an error wrapping
	// ErrCorruptDocument.
	Load() (*Snapshot, error)
}
