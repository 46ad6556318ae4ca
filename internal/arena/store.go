package arena

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/metrics"
)

const (
	// AdminUsername is the bootstrap operator account.
	AdminUsername = "admin"
	// DefaultAdminPassword is used when no other password is configured.
	DefaultAdminPassword = "admin123"

	leaguePrefix     = "LEAGUE_"
	tournamentPrefix = "TOUR_"
	adPrefix         = "AD_"
	matchInfix       = "_MATCH_"
)

// Operation outcomes reported to metrics.
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

// New restores the store from gateway and ensures the bootstrap operator
// account exists. A corrupt document is logged and replaced by an empty state;
// any other load error is returned.
func New(gateway Gateway, m metrics.Metrics, opts ...Option) (Store, error) {
	s := &store{
		gateway:       gateway,
		metrics:       m,
		now:           func() time.Time { return time.Now().UTC() },
		adminPassword: DefaultAdminPassword,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := gateway.Load()
	switch {
	case errors.Is(err, ErrCorruptDocument):
		log.Warn("Stored document is corrupt, starting from an empty store", "error", err)
		snap = nil
	case err != nil:
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	s.state = restore(snap)

	if _, ok := s.state.data.Users[AdminUsername]; !ok {
		prev := s.state.clone()
		s.state.data.Users[AdminUsername] = User{
			Username:     AdminUsername,
			Password:     s.adminPassword,
			Name:         "System Administrator",
			Email:        "admin@arena.com",
			Role:         RoleOperator,
			Approved:     true,
			RegisteredAt: NewTimestamp(s.now()),
		}
		if err := s.commit("bootstrap", prev); err != nil {
			return nil, err
		}
		log.Info("Created bootstrap operator account", "username", AdminUsername)
	} else {
		s.refreshGauges()
	}

	log.Info("Store loaded",
		"users", len(s.state.data.Users),
		"leagues", len(s.state.data.Leagues),
		"tournaments", len(s.state.data.Tournaments),
		"matches", len(s.state.data.Matches),
		"advertisements", len(s.state.data.Advertisements),
	)
	return s, nil
}

// restore builds a state from a loaded document, seeding id sequences from the
// highest number already issued per prefix.
func restore(snap *Snapshot) state {
	data := snap.Clone()
	return state{
		data: data,
		seq: sequences{
			leagues:     maxSuffix(data.Leagues, leaguePrefix),
			tournaments: maxSuffix(data.Tournaments, tournamentPrefix),
			ads:         maxSuffix(data.Advertisements, adPrefix),
		},
	}
}

func maxSuffix[V any](entities map[string]V, prefix string) int {
	highest := 0
	for id := range entities {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return highest
}

// nextID issues the next id for prefix, skipping any id already present.
func nextID[V any](counter *int, prefix string, existing map[string]V) string {
	for {
		*counter++
		id := prefix + strconv.Itoa(*counter)
		if _, taken := existing[id]; !taken {
			return id
		}
	}
}

// commit persists the current state. On failure the state is rolled back to
// prev so memory and the stored document stay identical.
func (s *store) commit(op string, prev state) error {
	start := time.Now()
	err := s.gateway.Save(s.state.data.Clone())
	s.metrics.ObserveSaveDuration(time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncSaveFailures()
		s.state = prev
		log.Error("Failed to save store, mutation rolled back", "operation", op, "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.refreshGauges()
	return nil
}

func (s *store) refreshGauges() {
	s.metrics.SetEntityCount("users", len(s.state.data.Users))
	s.metrics.SetEntityCount("leagues", len(s.state.data.Leagues))
	s.metrics.SetEntityCount("tournaments", len(s.state.data.Tournaments))
	s.metrics.SetEntityCount("matches", len(s.state.data.Matches))
	s.metrics.SetEntityCount("advertisements", len(s.state.data.Advertisements))
}

func (s *store) observe(op string, err error) {
	result := resultOK
	switch {
	case errors.Is(err, ErrPersist):
		result = resultFailed
	case err != nil:
		result = resultRejected
	}
	s.metrics.ObserveOperation(op, result)
}

// Register creates a user. Only spectators are approved on creation.
func (s *store) Register(username, password, name, email string, role Role) (msg string, err error) {
	defer func() { s.observe("register", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.Valid() {
		return "", fmt.Errorf("unknown role %v", int(role))
	}
	if _, exists := s.state.data.Users[username]; exists {
		log.Warn("Registration rejected, username taken", "username", username)
		return "", fmt.Errorf("%w: %s", ErrDuplicateUsername, username)
	}

	prev := s.state.clone()
	approved := role == RoleSpectator
	s.state.data.Users[username] = User{
		Username:     username,
		Password:     password,
		Name:         name,
		Email:        email,
		Role:         role,
		Approved:     approved,
		RegisteredAt: NewTimestamp(s.now()),
	}
	if err := s.commit("register", prev); err != nil {
		return "", err
	}

	log.Info("Registered user", "username", username, "role", role, "approved", approved)
	if approved {
		return "Registration successful.", nil
	}
	return "Registration successful. Account pending approval.", nil
}

// Authenticate checks credentials and returns the session for the user.
func (s *store) Authenticate(username, password string) (sess Session, err error) {
	defer func() { s.observe("authenticate", err) }()
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.state.data.Users[username]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}
	if user.Password != password {
		log.Warn("Login rejected, wrong password", "username", username)
		return Session{}, ErrInvalidCredentials
	}
	if !user.Approved {
		return Session{}, fmt.Errorf("%w: %s", ErrNotApproved, username)
	}

	log.Info("User logged in", "username", username, "role", user.Role)
	return Session{Username: user.Username, Role: user.Role}, nil
}

// Approve marks the user approved. Approving an approved user is a no-op
// apart from the save.
func (s *store) Approve(username string) (msg string, err error) {
	defer func() { s.observe("approve", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.state.data.Users[username]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}

	prev := s.state.clone()
	user.Approved = true
	s.state.data.Users[username] = user
	if err := s.commit("approve", prev); err != nil {
		return "", err
	}

	log.Info("Approved user", "username", username)
	return fmt.Sprintf("User %s approved", username), nil
}

// CreateLeague creates a league owned by the session user.
func (s *store) CreateLeague(sess Session, name, gameType, description string) (id string, err error) {
	defer func() { s.observe("create_league", err) }()
	if !sess.LoggedIn() {
		return "", ErrNotLoggedIn
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.clone()
	id = nextID(&s.state.seq.leagues, leaguePrefix, s.state.data.Leagues)
	s.state.data.Leagues[id] = League{
		ID:          id,
		Name:        name,
		GameType:    gameType,
		Description: description,
		Owner:       sess.Username,
		CreatedAt:   NewTimestamp(s.now()),
		Tournaments: []string{},
	}
	if err := s.commit("create_league", prev); err != nil {
		return "", err
	}

	log.Info("Created league", "leagueID", id, "name", name, "owner", sess.Username)
	return id, nil
}

// CreateAdvertisement creates an active advertisement owned by the session user.
func (s *store) CreateAdvertisement(sess Session, title, content string, cost float64) (id string, err error) {
	defer func() { s.observe("create_advertisement", err) }()
	if !sess.LoggedIn() {
		return "", ErrNotLoggedIn
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.clone()
	id = nextID(&s.state.seq.ads, adPrefix, s.state.data.Advertisements)
	s.state.data.Advertisements[id] = Advertisement{
		ID:         id,
		Title:      title,
		Content:    content,
		Cost:       cost,
		Advertiser: sess.Username,
		CreatedAt:  NewTimestamp(s.now()),
		Active:     true,
	}
	if err := s.commit("create_advertisement", prev); err != nil {
		return "", err
	}

	log.Info("Created advertisement", "adID", id, "advertiser", sess.Username, "cost", cost)
	return id, nil
}
