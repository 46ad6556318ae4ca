package arena

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Overview summarises the size of the store.
type Overview struct {
	Users                int `json:"users"`
	Leagues              int `json:"leagues"`
	Tournaments          int `json:"tournaments"`
	Matches              int `json:"matches"`
	Advertisements       int `json:"advertisements"`
	ActiveTournaments    int `json:"active_tournaments"`
	CompletedTournaments int `json:"completed_tournaments"`
}

// TournamentSummary is a tournament row with its league name resolved.
type TournamentSummary struct {
	ID           string           `json:"tournament_id"`
	Name         string           `json:"name"`
	LeagueID     string           `json:"league_id"`
	LeagueName   string           `json:"league_name"`
	Status       TournamentStatus `json:"status"`
	Participants int              `json:"participants"`
	MaxPlayers   int              `json:"max_players"`
	SpotsLeft    int              `json:"spots_left"`
	Winner       string           `json:"winner,omitempty"`
}

// PlayerMatch is a match seen from one participant.
type PlayerMatch struct {
	ID             string      `json:"match_id"`
	TournamentName string      `json:"tournament"`
	Opponent       string      `json:"opponent"`
	Status         MatchStatus `json:"status"`
	Result         string      `json:"result"`
}

// LiveMatch is a match currently being played.
type LiveMatch struct {
	ID             string      `json:"match_id"`
	TournamentName string      `json:"tournament"`
	Player1        string      `json:"player1"`
	Player2        string      `json:"player2"`
	Status         MatchStatus `json:"status"`
}

// PlayerStats aggregates a player's matches across all tournaments.
type PlayerStats struct {
	Username      string  `json:"username"`
	Matches       int     `json:"matches"`
	Wins          int     `json:"wins"`
	WinPercentage float64 `json:"win_percentage"`
}

// AdvertiserSummary lists an advertiser's ads and what they are billed.
type AdvertiserSummary struct {
	Advertisements []Advertisement `json:"advertisements"`
	TotalBilling   float64         `json:"total_billing"`
}

const (
	notAvailable  = "N/A"
	resultPending = "Pending"
)

func (s *store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.data.Clone()
}

func (s *store) User(username string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.state.data.Users[username]
	return u, ok
}

func (s *store) League(id string) (League, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.state.data.Leagues[id]
	l.Tournaments = slices.Clone(l.Tournaments)
	return l, ok
}

func (s *store) Tournament(id string) (Tournament, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.data.Tournaments[id]
	t.Participants = slices.Clone(t.Participants)
	t.Matches = slices.Clone(t.Matches)
	return t, ok
}

func (s *store) Match(id string) (Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.state.data.Matches[id]
	return m, ok
}

func (s *store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.state.data.Users)
}

func (s *store) Leagues() []League {
	return sortedValues(s.Snapshot().Leagues)
}

func (s *store) Tournaments() []Tournament {
	return sortedValues(s.Snapshot().Tournaments)
}

func (s *store) Matches() []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.state.data.Matches)
}

func (s *store) Advertisements() []Advertisement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.state.data.Advertisements)
}

// Overview counts entities. Active tournaments are those open for
// registration or in progress.
func (s *store) Overview() Overview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := s.state.data
	o := Overview{
		Users:          len(data.Users),
		Leagues:        len(data.Leagues),
		Tournaments:    len(data.Tournaments),
		Matches:        len(data.Matches),
		Advertisements: len(data.Advertisements),
	}
	for _, t := range data.Tournaments {
		switch t.Status {
		case StatusInProgress, StatusOpenForRegistration:
			o.ActiveTournaments++
		case StatusCompleted:
			o.CompletedTournaments++
		}
	}
	return o
}

func (s *store) PendingUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []User
	for _, u := range sortedValues(s.state.data.Users) {
		if !u.Approved {
			pending = append(pending, u)
		}
	}
	return pending
}

func (s *store) TournamentsCreatedBy(username string) []TournamentSummary {
	return s.summarize(func(t Tournament) bool { return t.CreatedBy == username })
}

// AvailableTournaments lists tournaments still taking applications that the
// user has not joined yet.
func (s *store) AvailableTournaments(username string) []TournamentSummary {
	return s.summarize(func(t Tournament) bool {
		open := t.Status == StatusAnnounced || t.Status == StatusOpenForRegistration
		return open && !slices.Contains(t.Participants, username)
	})
}

func (s *store) PlayerTournaments(username string) []TournamentSummary {
	return s.summarize(func(t Tournament) bool { return slices.Contains(t.Participants, username) })
}

func (s *store) TournamentHistory() []TournamentSummary {
	return s.summarize(func(t Tournament) bool {
		return t.Status == StatusCompleted || t.Status == StatusArchived
	})
}

func (s *store) summarize(keep func(Tournament) bool) []TournamentSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []TournamentSummary
	for _, t := range sortedValues(s.state.data.Tournaments) {
		if !keep(t) {
			continue
		}
		out = append(out, TournamentSummary{
			ID:           t.ID,
			Name:         t.Name,
			LeagueID:     t.LeagueID,
			LeagueName:   s.leagueName(t.LeagueID),
			Status:       t.Status,
			Participants: len(t.Participants),
			MaxPlayers:   t.MaxPlayers,
			SpotsLeft:    max(t.MaxPlayers-len(t.Participants), 0),
			Winner:       t.Winner,
		})
	}
	return out
}

func (s *store) PlayerMatches(username string) []PlayerMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []PlayerMatch
	for _, m := range sortedValues(s.state.data.Matches) {
		var opponent string
		switch username {
		case m.Player1:
			opponent = m.Player2
		case m.Player2:
			opponent = m.Player1
		default:
			continue
		}
		result := m.Winner
		if result == "" {
			result = resultPending
		}
		out = append(out, PlayerMatch{
			ID:             m.ID,
			TournamentName: s.tournamentName(m.TournamentID),
			Opponent:       opponent,
			Status:         m.Status,
			Result:         result,
		})
	}
	return out
}

func (s *store) LiveMatches() []LiveMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []LiveMatch
	for _, m := range sortedValues(s.state.data.Matches) {
		if m.Status != MatchLive {
			continue
		}
		out = append(out, LiveMatch{
			ID:             m.ID,
			TournamentName: s.tournamentName(m.TournamentID),
			Player1:        m.Player1,
			Player2:        m.Player2,
			Status:         m.Status,
		})
	}
	return out
}

// PlayerStatistics counts every match a player is drawn in, whatever its
// status, and the matches they won. Bye is not a player.
func (s *store) PlayerStatistics() []PlayerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byPlayer := make(map[string]*PlayerStats)
	for _, m := range s.state.data.Matches {
		for _, player := range []string{m.Player1, m.Player2} {
			if player == Bye || player == "" {
				continue
			}
			st, ok := byPlayer[player]
			if !ok {
				st = &PlayerStats{Username: player}
				byPlayer[player] = st
			}
			st.Matches++
			if m.Winner == player {
				st.Wins++
			}
		}
	}

	stats := make([]PlayerStats, 0, len(byPlayer))
	for _, st := range byPlayer {
		if st.Matches > 0 {
			st.WinPercentage = float64(st.Wins) / float64(st.Matches) * 100
		}
		stats = append(stats, *st)
	}
	slices.SortFunc(stats, func(a, b PlayerStats) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
	return stats
}

// AdvertiserDashboard bills only active advertisements.
func (s *store) AdvertiserDashboard(username string) AdvertiserSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := AdvertiserSummary{Advertisements: []Advertisement{}}
	for _, ad := range sortedValues(s.state.data.Advertisements) {
		if ad.Advertiser != username {
			continue
		}
		summary.Advertisements = append(summary.Advertisements, ad)
		if ad.Active {
			summary.TotalBilling += ad.Cost
		}
	}
	return summary
}

func (s *store) leagueName(id string) string {
	if l, ok := s.state.data.Leagues[id]; ok {
		return l.Name
	}
	return notAvailable
}

func (s *store) tournamentName(id string) string {
	if t, ok := s.state.data.Tournaments[id]; ok {
		return t.Name
	}
	return notAvailable
}

// sortedValues returns the values of m ordered by key, comparing numeric id
// suffixes by value so that TOUR_2 sorts before TOUR_10.
func sortedValues[V any](m map[string]V) []V {
	keys := slices.SortedFunc(maps.Keys(m), compareIDs)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func compareIDs(a, b string) int {
	aStem, aNum := splitNumericSuffix(a)
	bStem, bNum := splitNumericSuffix(b)
	if c := cmp.Compare(aStem, bStem); c != 0 {
		return c
	}
	if c := cmp.Compare(aNum, bNum); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

func splitNumericSuffix(id string) (string, int) {
	stem := strings.TrimRight(id, "0123456789")
	n, err := strconv.Atoi(id[len(stem):])
	if err != nil {
		return id, -1
	}
	return stem, n
}
