package arena

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
)

// CreateTournament announces a tournament. When leagueID names an existing
// league the tournament is appended to it; an unknown league id is kept as a
// dangling reference.
func (s *store) CreateTournament(sess Session, leagueID, name, startDate string, maxPlayers int, prizePool string) (id string, err error) {
	defer func() { s.observe("create_tournament", err) }()
	if !sess.LoggedIn() {
		return "", ErrNotLoggedIn
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.clone()
	id = nextID(&s.state.seq.tournaments, tournamentPrefix, s.state.data.Tournaments)
	s.state.data.Tournaments[id] = Tournament{
		ID:           id,
		LeagueID:     leagueID,
		Name:         name,
		StartDate:    startDate,
		MaxPlayers:   maxPlayers,
		PrizePool:    prizePool,
		Status:       StatusAnnounced,
		Participants: []string{},
		Matches:      []string{},
		CreatedBy:    sess.Username,
		CreatedAt:    NewTimestamp(s.now()),
	}
	if league, ok := s.state.data.Leagues[leagueID]; ok {
		league.Tournaments = append(league.Tournaments, id)
		s.state.data.Leagues[leagueID] = league
	} else {
		log.Warn("Tournament references unknown league", "tournamentID", id, "leagueID", leagueID)
	}
	if err := s.commit("create_tournament", prev); err != nil {
		return "", err
	}

	log.Info("Created tournament", "tournamentID", id, "leagueID", leagueID, "maxPlayers", maxPlayers)
	return id, nil
}

// ApplyForTournament registers the session user as a participant and opens
// the tournament for registration. The current status is not checked, so a
// late application also moves a started tournament back to
// StatusOpenForRegistration.
func (s *store) ApplyForTournament(sess Session, tournamentID string) (msg string, err error) {
	defer func() { s.observe("apply_for_tournament", err) }()
	if !sess.LoggedIn() {
		return "", ErrNotLoggedIn
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.state.data.Tournaments[tournamentID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
	}
	if slices.Contains(t.Participants, sess.Username) {
		return "", fmt.Errorf("%w: %s", ErrAlreadyRegistered, tournamentID)
	}
	if len(t.Participants) >= t.MaxPlayers {
		return "", fmt.Errorf("%w: %s", ErrTournamentFull, tournamentID)
	}
	if t.Status.started() {
		log.Warn("Application accepted for a tournament that has already started",
			"tournamentID", tournamentID, "username", sess.Username, "status", t.Status)
	}

	prev := s.state.clone()
	t.Participants = append(t.Participants, sess.Username)
	t.Status = StatusOpenForRegistration
	s.state.data.Tournaments[tournamentID] = t
	if err := s.commit("apply_for_tournament", prev); err != nil {
		return "", err
	}

	log.Info("Player applied for tournament", "tournamentID", tournamentID, "username", sess.Username,
		"participants", len(t.Participants), "maxPlayers", t.MaxPlayers)
	return "Application submitted successfully", nil
}

// StartTournament moves the tournament to StatusInProgress and generates one
// scheduled match per pair of participants. Match ids continue after any
// matches the tournament already has.
func (s *store) StartTournament(tournamentID string) (msg string, err error) {
	defer func() { s.observe("start_tournament", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.state.data.Tournaments[tournamentID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
	}
	if len(t.Participants) < 2 {
		return "", fmt.Errorf("%w: %s has %d", ErrInsufficientParticipants, tournamentID, len(t.Participants))
	}

	prev := s.state.clone()
	now := NewTimestamp(s.now())
	t.Status = StatusInProgress
	t.Winner = ""
	for i, pair := range pairParticipants(t.Participants) {
		matchID := fmt.Sprintf("%s%s%d", tournamentID, matchInfix, len(t.Matches)+1)
		s.state.data.Matches[matchID] = Match{
			ID:           matchID,
			TournamentID: tournamentID,
			Player1:      pair[0],
			Player2:      pair[1],
			Status:       MatchScheduled,
			CreatedAt:    now,
		}
		t.Matches = append(t.Matches, matchID)
		log.Debug("Scheduled match", "matchID", matchID, "pairing", i+1, "player1", pair[0], "player2", pair[1])
	}
	s.state.data.Tournaments[tournamentID] = t
	if err := s.commit("start_tournament", prev); err != nil {
		return "", err
	}

	log.Info("Tournament started", "tournamentID", tournamentID, "matches", len(t.Matches))
	return "Tournament started successfully", nil
}

// RecordResult completes a match and, once every match of its tournament is
// completed, completes the tournament.
func (s *store) RecordResult(matchID, winner, score string) (msg string, err error) {
	defer func() { s.observe("record_result", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.state.data.Matches[matchID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	prev := s.state.clone()
	m.Status = MatchCompleted
	m.Winner = winner
	m.Score = score
	m.CompletedAt = NewTimestamp(s.now())
	s.state.data.Matches[matchID] = m
	completed := s.completeTournament(m.TournamentID)
	if err := s.commit("record_result", prev); err != nil {
		return "", err
	}

	log.Info("Recorded match result", "matchID", matchID, "winner", winner, "score", score)
	if completed {
		log.Info("Tournament completed", "tournamentID", m.TournamentID,
			"winner", s.state.data.Tournaments[m.TournamentID].Winner)
	}
	return "Match result recorded", nil
}

// completeTournament completes the tournament when all of its matches are
// completed. The winner is the winner of the first match, in bracket order,
// that has one recorded. Nothing changes if no match recorded a winner.
func (s *store) completeTournament(tournamentID string) bool {
	t, ok := s.state.data.Tournaments[tournamentID]
	if !ok {
		log.Warn("Match belongs to unknown tournament", "tournamentID", tournamentID)
		return false
	}

	winner := ""
	for _, id := range t.Matches {
		m, ok := s.state.data.Matches[id]
		if !ok || m.Status != MatchCompleted {
			return false
		}
		if winner == "" && m.Winner != "" {
			winner = m.Winner
		}
	}
	if winner == "" {
		return false
	}

	t.Winner = winner
	t.Status = StatusCompleted
	s.state.data.Tournaments[tournamentID] = t
	return true
}

// pairParticipants pairs participants two at a time in registration order.
// An odd participant out is paired with Bye.
func pairParticipants(participants []string) [][2]string {
	pairs := make([][2]string, 0, (len(participants)+1)/2)
	for i := 0; i < len(participants); i += 2 {
		opponent := Bye
		if i+1 < len(participants) {
			opponent = participants[i+1]
		}
		pairs = append(pairs, [2]string{participants[i], opponent})
	}
	return pairs
}
