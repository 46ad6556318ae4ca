package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mauv0809/arena/internal/arena"
	"github.com/mauv0809/arena/internal/config"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer initializes a server over a store backed by an in-memory gateway.
func setupTestServer(t *testing.T) (*Server, *arena.MockGateway) {
	t.Helper()

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	gw := arena.NewMockGateway(nil)
	store, err := arena.New(gw, metricsSvc)
	require.NoError(t, err)

	server := NewServer(store, metrics.NewMetricsHandler(reg), config.Config{})
	return server, gw
}

func doRequest(t *testing.T, srv http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func login(t *testing.T, srv http.Handler, username, password string) string {
	t.Helper()
	rr := doRequest(t, srv, "POST", "/api/login", "", loginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decodeBody[loginResponse](t, rr).Token
}

// registerApproved registers a user, approves it as admin and logs it in.
func registerApproved(t *testing.T, srv http.Handler, adminToken, username, role string) string {
	t.Helper()
	rr := doRequest(t, srv, "POST", "/api/register", "", registerRequest{
		Username: username, Password: "pw", Name: username, Email: username + "@example.com", Role: role,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	rr = doRequest(t, srv, "POST", "/api/users/"+username+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return login(t, srv, username, "pw")
}

func TestHealthCheckHandler(t *testing.T) {
	srv, _ := setupTestServer(t)

	rr := doRequest(t, srv, "GET", "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	srv, _ := setupTestServer(t)

	rr := doRequest(t, srv, "POST", "/api/register", "", registerRequest{
		Username: "alice", Password: "pw", Name: "Alice", Email: "alice@example.com", Role: "Player",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Registration successful. Account pending approval.", decodeBody[messageResponse](t, rr).Message)

	rr = doRequest(t, srv, "POST", "/api/login", "", loginRequest{Username: "alice", Password: "pw"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "account not approved yet: alice", decodeBody[errorResponse](t, rr).Error)

	rr = doRequest(t, srv, "POST", "/api/login", "", loginRequest{Username: "alice", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(t, srv, "POST", "/api/login", "", loginRequest{Username: "nobody", Password: "pw"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, srv, "POST", "/api/register", "", registerRequest{
		Username: "alice", Password: "pw", Name: "Alice", Email: "alice@example.com", Role: "Spectator",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doRequest(t, srv, "POST", "/api/register", "", registerRequest{
		Username: "sam", Password: "pw", Name: "Sam", Email: "sam@example.com", Role: "spectator",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Registration successful.", decodeBody[messageResponse](t, rr).Message)

	rr = doRequest(t, srv, "POST", "/api/login", "", loginRequest{Username: "sam", Password: "pw"})
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[loginResponse](t, rr)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, arena.RoleSpectator, resp.Role)
	assert.Equal(t, "Login successful", resp.Message)
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := setupTestServer(t)

	testCases := []struct {
		name string
		req  registerRequest
	}{
		{"missing email", registerRequest{Username: "a", Password: "pw", Name: "A"}},
		{"unknown role", registerRequest{Username: "a", Password: "pw", Name: "A", Email: "a@x", Role: "Referee"}},
		{"operator role", registerRequest{Username: "a", Password: "pw", Name: "A", Email: "a@x", Role: "Operator"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doRequest(t, srv, "POST", "/api/register", "", tc.req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	rr := doRequest(t, srv, "POST", "/api/register", "", map[string]string{"username": "a", "nickname": "b"})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "unknown fields are rejected")
}

func TestRoleGate(t *testing.T) {
	srv, _ := setupTestServer(t)
	admin := login(t, srv, arena.AdminUsername, arena.DefaultAdminPassword)
	alice := registerApproved(t, srv, admin, "alice", "Player")

	rr := doRequest(t, srv, "POST", "/api/leagues", "", createLeagueRequest{Name: "L", GameType: "Chess"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(t, srv, "POST", "/api/leagues", "not-a-token", createLeagueRequest{Name: "L", GameType: "Chess"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(t, srv, "POST", "/api/leagues", alice, createLeagueRequest{Name: "L", GameType: "Chess"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, srv, "POST", "/api/users/alice/approve", alice, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, srv, "POST", "/api/leagues", admin, createLeagueRequest{Name: "L", GameType: "Chess"})
	assert.Equal(t, http.StatusCreated, rr.Code, "operators may manage leagues")
}

func TestLogout(t *testing.T) {
	srv, _ := setupTestServer(t)
	admin := login(t, srv, arena.AdminUsername, arena.DefaultAdminPassword)

	rr := doRequest(t, srv, "GET", "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, srv, "POST", "/api/logout", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, srv, "GET", "/api/users", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListUsersHidesPasswords(t *testing.T) {
	srv, _ := setupTestServer(t)
	admin := login(t, srv, arena.AdminUsername, arena.DefaultAdminPassword)

	rr := doRequest(t, srv, "GET", "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), arena.DefaultAdminPassword)

	users := decodeBody[[]userView](t, rr)
	require.Len(t, users, 1)
	assert.Equal(t, arena.AdminUsername, users[0].Username)

	rr = doRequest(t, srv, "GET", "/api/users/pending", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestTournamentFlow(t *testing.T) {
	srv, gw := setupTestServer(t)
	admin := login(t, srv, arena.AdminUsername, arena.DefaultAdminPassword)
	bob := registerApproved(t, srv, admin, "bob", "League Owner")
	alice := registerApproved(t, srv, admin, "alice", "Player")
	carol := registerApproved(t, srv, admin, "carol", "player")
	dave := registerApproved(t, srv, admin, "dave", "player")

	rr := doRequest(t, srv, "POST", "/api/leagues", bob, createLeagueRequest{Name: "L", GameType: "Chess"})
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decodeBody[messageResponse](t, rr)
	assert.Equal(t, "LEAGUE_1", created.ID)
	assert.Equal(t, "League created successfully! ID: LEAGUE_1", created.Message)

	rr = doRequest(t, srv, "POST", "/api/tournaments", bob, createTournamentRequest{
		LeagueID: "LEAGUE_1", Name: "T", StartDate: "2026-02-01", MaxPlayers: 1,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "max_players below 2 is rejected")

	rr = doRequest(t, srv, "POST", "/api/tournaments", bob, createTournamentRequest{
		LeagueID: "LEAGUE_1", Name: "T", StartDate: "2026-02-01", MaxPlayers: 2, PrizePool: "$10",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	tourID := decodeBody[messageResponse](t, rr).ID
	require.Equal(t, "TOUR_1", tourID)

	rr = doRequest(t, srv, "POST", "/api/tournaments/"+tourID+"/start", bob, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doRequest(t, srv, "GET", "/api/dashboard/available", alice, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]arena.TournamentSummary](t, rr), 1)

	for _, token := range []string{alice, carol} {
		rr = doRequest(t, srv, "POST", "/api/tournaments/"+tourID+"/apply", token, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	rr = doRequest(t, srv, "POST", "/api/tournaments/"+tourID+"/apply", alice, nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "already registered")
	rr = doRequest(t, srv, "POST", "/api/tournaments/"+tourID+"/apply", dave, nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "tournament full")
	assert.Contains(t, decodeBody[errorResponse](t, rr).Error, "tournament is full")
	rr = doRequest(t, srv, "POST", "/api/tournaments/TOUR_9/apply", dave, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, srv, "POST", "/api/tournaments/"+tourID+"/start", bob, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Tournament started successfully", decodeBody[messageResponse](t, rr).Message)

	rr = doRequest(t, srv, "GET", "/api/matches?tournament="+tourID, alice, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	matches := decodeBody[[]arena.Match](t, rr)
	require.Len(t, matches, 1)
	assert.Equal(t, "TOUR_1_MATCH_1", matches[0].ID)
	assert.Equal(t, "alice", matches[0].Player1)
	assert.Equal(t, "carol", matches[0].Player2)

	rr = doRequest(t, srv, "GET", "/api/dashboard/my-matches", carol, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	mine := decodeBody[[]arena.PlayerMatch](t, rr)
	require.Len(t, mine, 1)
	assert.Equal(t, "Pending", mine[0].Result)

	rr = doRequest(t, srv, "POST", "/api/matches/TOUR_1_MATCH_1/result", bob, recordResultRequest{Winner: "alice", Score: "2-0"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Match result recorded", decodeBody[messageResponse](t, rr).Message)

	rr = doRequest(t, srv, "POST", "/api/matches/TOUR_1_MATCH_7/result", bob, recordResultRequest{Winner: "alice"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, srv, "GET", "/api/dashboard/history", carol, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	history := decodeBody[[]arena.TournamentSummary](t, rr)
	require.Len(t, history, 1)
	assert.Equal(t, "alice", history[0].Winner)
	assert.Equal(t, arena.StatusCompleted, history[0].Status)

	rr = doRequest(t, srv, "GET", "/api/dashboard/stats", carol, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decodeBody[[]arena.PlayerStats](t, rr)
	require.Len(t, stats, 2)
	assert.Equal(t, "alice", stats[0].Username)

	rr = doRequest(t, srv, "GET", "/api/dashboard/created", bob, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]arena.TournamentSummary](t, rr), 1)

	rr = doRequest(t, srv, "GET", "/api/dashboard/overview", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	overview := decodeBody[arena.Overview](t, rr)
	assert.Equal(t, 1, overview.CompletedTournaments)
	assert.Equal(t, 5, overview.Users)

	stored := gw.Stored()
	require.NotNil(t, stored)
	assert.Equal(t, "alice", stored.Tournaments[tourID].Winner)
}

func TestAdvertisements(t *testing.T) {
	srv, _ := setupTestServer(t)
	admin := login(t, srv, arena.AdminUsername, arena.DefaultAdminPassword)
	erin := registerApproved(t, srv, admin, "erin", "Advertiser")

	rr := doRequest(t, srv, "POST", "/api/ads", erin, createAdRequest{Title: "Boards", Content: "Buy", Cost: -1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, srv, "POST", "/api/ads", erin, createAdRequest{Title: "Boards", Content: "Buy", Cost: 12.5})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Advertisement created! ID: AD_1", decodeBody[messageResponse](t, rr).Message)

	rr = doRequest(t, srv, "GET", "/api/dashboard/ads", erin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decodeBody[arena.AdvertiserSummary](t, rr)
	assert.Len(t, summary.Advertisements, 1)
	assert.Equal(t, 12.5, summary.TotalBilling)

	rr = doRequest(t, srv, "GET", "/api/ads?active=true", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]arena.Advertisement](t, rr), 1)
}

func TestPersistFailureReturnsServerError(t *testing.T) {
	srv, gw := setupTestServer(t)
	gw.SaveFunc = func(*arena.Snapshot) error { return errors.New("disk full") }

	rr := doRequest(t, srv, "POST", "/api/register", "", registerRequest{
		Username: "alice", Password: "pw", Name: "Alice", Email: "alice@example.com", Role: "Player",
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	gw.SaveFunc = nil
	rr = doRequest(t, srv, "POST", "/api/register", "", registerRequest{
		Username: "alice", Password: "pw", Name: "Alice", Email: "alice@example.com", Role: "Player",
	})
	assert.Equal(t, http.StatusCreated, rr.Code, "the failed registration should have been rolled back")
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := setupTestServer(t)
	login(t, srv, arena.AdminUsername, arena.DefaultAdminPassword)

	rr := doRequest(t, srv, "GET", "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `arena_operations_total{operation="authenticate",result="ok"} 1`)
	assert.Contains(t, rr.Body.String(), `arena_entities{kind="users"} 1`)
}
