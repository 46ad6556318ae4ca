package arena_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/arena/internal/arena"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

// setupTestStore creates a store over an empty in-memory gateway.
func setupTestStore(t *testing.T) (arena.Store, *arena.MockGateway, *metrics.Mock) {
	t.Helper()
	gw := arena.NewMockGateway(nil)
	m := metrics.NewMock()
	s, err := arena.New(gw, m, arena.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return s, gw, m
}

// registerApproved registers and approves a user and returns their session.
func registerApproved(t *testing.T, s arena.Store, username string, role arena.Role) arena.Session {
	t.Helper()
	_, err := s.Register(username, "pw-"+username, username, username+"@example.com", role)
	require.NoError(t, err)
	_, err = s.Approve(username)
	require.NoError(t, err)
	sess, err := s.Authenticate(username, "pw-"+username)
	require.NoError(t, err)
	return sess
}

func TestNew_BootstrapsAdmin(t *testing.T) {
	s, gw, _ := setupTestStore(t)

	users := s.Users()
	require.Len(t, users, 1)
	admin := users[0]
	assert.Equal(t, arena.AdminUsername, admin.Username)
	assert.Equal(t, arena.DefaultAdminPassword, admin.Password)
	assert.Equal(t, arena.RoleOperator, admin.Role)
	assert.True(t, admin.Approved)
	assert.Equal(t, 1, gw.Saved(), "bootstrap should be persisted immediately")

	sess, err := s.Authenticate(arena.AdminUsername, arena.DefaultAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, arena.RoleOperator, sess.Role)
}

func TestNew_DoesNotRecreateEditedAdmin(t *testing.T) {
	doc := arena.NewSnapshot()
	doc.Users[arena.AdminUsername] = arena.User{
		Username: arena.AdminUsername,
		Password: "changed",
		Role:     arena.RoleOperator,
		Approved: true,
	}
	gw := arena.NewMockGateway(doc)

	s, err := arena.New(gw, metrics.NewMock())
	require.NoError(t, err)

	assert.Len(t, s.Users(), 1)
	admin, ok := s.User(arena.AdminUsername)
	require.True(t, ok)
	assert.Equal(t, "changed", admin.Password)
	assert.Equal(t, 0, gw.Saved(), "loading an existing admin should not save")
}

func TestNew_WithAdminPassword(t *testing.T) {
	s, err := arena.New(arena.NewMockGateway(nil), metrics.NewMock(), arena.WithAdminPassword("s3cret"))
	require.NoError(t, err)

	_, err = s.Authenticate(arena.AdminUsername, arena.DefaultAdminPassword)
	assert.ErrorIs(t, err, arena.ErrInvalidCredentials)
	_, err = s.Authenticate(arena.AdminUsername, "s3cret")
	assert.NoError(t, err)
}

func TestNew_CorruptDocumentFallsBack(t *testing.T) {
	gw := arena.NewMockGateway(nil)
	gw.LoadFunc = func() (*arena.Snapshot, error) {
		return nil, errors.Join(arena.ErrCorruptDocument, errors.New("unexpected end of JSON input"))
	}

	s, err := arena.New(gw, metrics.NewMock())
	require.NoError(t, err)

	assert.Len(t, s.Users(), 1)
	assert.Empty(t, s.Leagues())
	assert.Equal(t, 1, gw.Saved())
}

func TestNew_LoadErrorIsReturned(t *testing.T) {
	gw := arena.NewMockGateway(nil)
	gw.LoadFunc = func() (*arena.Snapshot, error) { return nil, errors.New("permission denied") }

	_, err := arena.New(gw, metrics.NewMock())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, arena.ErrCorruptDocument)
}

func TestRegister(t *testing.T) {
	testCases := []struct {
		name         string
		role         arena.Role
		wantApproved bool
		wantMessage  string
	}{
		{"spectator", arena.RoleSpectator, true, "Registration successful."},
		{"player", arena.RolePlayer, false, "Registration successful. Account pending approval."},
		{"owner", arena.RoleLeagueOwner, false, "Registration successful. Account pending approval."},
		{"advertiser", arena.RoleAdvertiser, false, "Registration successful. Account pending approval."},
		{"operator", arena.RoleOperator, false, "Registration successful. Account pending approval."},
	}

	s, _, _ := setupTestStore(t)
	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := s.Register(tc.name, "pw", "Name", "mail@example.com", tc.role)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMessage, msg)
			assert.Len(t, s.Users(), i+2, "user count should grow by exactly one")

			u, ok := s.User(tc.name)
			require.True(t, ok)
			assert.Equal(t, tc.wantApproved, u.Approved)
			assert.Equal(t, tc.role, u.Role)
			assert.True(t, testNow.Equal(u.RegisteredAt.Time))

			_, err = s.Authenticate(tc.name, "pw")
			if tc.wantApproved {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, arena.ErrNotApproved)
			}
		})
	}
}

func TestRegister_DuplicateLeavesStoreUnchanged(t *testing.T) {
	s, gw, m := setupTestStore(t)

	_, err := s.Register("alice", "pw", "Alice", "a@example.com", arena.RolePlayer)
	require.NoError(t, err)
	before := s.Snapshot()
	saves := gw.Saved()

	_, err = s.Register("alice", "other", "Other", "o@example.com", arena.RoleSpectator)
	require.ErrorIs(t, err, arena.ErrDuplicateUsername)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, saves, gw.Saved(), "a rejected registration should not save")
	assert.Equal(t, 1, m.Operations("register", "rejected"))
}

func TestRegister_InvalidRole(t *testing.T) {
	s, _, _ := setupTestStore(t)

	_, err := s.Register("ghost", "pw", "Ghost", "g@example.com", arena.Role(42))
	assert.Error(t, err)
	_, ok := s.User("ghost")
	assert.False(t, ok)
}

func TestAuthenticate(t *testing.T) {
	s, _, _ := setupTestStore(t)
	_, err := s.Register("alice", "secret", "Alice", "a@example.com", arena.RolePlayer)
	require.NoError(t, err)

	_, err = s.Authenticate("nobody", "secret")
	assert.ErrorIs(t, err, arena.ErrUnknownUser)

	_, err = s.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, arena.ErrInvalidCredentials)

	_, err = s.Authenticate("alice", "secret")
	assert.ErrorIs(t, err, arena.ErrNotApproved)

	msg, err := s.Approve("alice")
	require.NoError(t, err)
	assert.Equal(t, "User alice approved", msg)

	sess, err := s.Authenticate("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, arena.Session{Username: "alice", Role: arena.RolePlayer}, sess)
	assert.True(t, sess.LoggedIn())
}

func TestApprove(t *testing.T) {
	s, gw, _ := setupTestStore(t)

	_, err := s.Approve("nobody")
	assert.ErrorIs(t, err, arena.ErrUnknownUser)

	_, err = s.Register("alice", "pw", "Alice", "a@example.com", arena.RolePlayer)
	require.NoError(t, err)
	_, err = s.Approve("alice")
	require.NoError(t, err)
	once := s.Snapshot()

	_, err = s.Approve("alice")
	require.NoError(t, err, "approving twice should succeed")
	assert.Equal(t, once, s.Snapshot(), "second approval should not change state")
	assert.Equal(t, once, gw.Stored())
}

func TestCreateLeague(t *testing.T) {
	s, _, _ := setupTestStore(t)

	_, err := s.CreateLeague(arena.Session{}, "L", "Chess", "")
	require.ErrorIs(t, err, arena.ErrNotLoggedIn)
	assert.Empty(t, s.Leagues())

	bob := registerApproved(t, s, "bob", arena.RoleLeagueOwner)
	id, err := s.CreateLeague(bob, "Chess Masters", "Chess", "Weekly")
	require.NoError(t, err)
	assert.Equal(t, "LEAGUE_1", id)

	id, err = s.CreateLeague(bob, "Chess Masters", "Chess", "Weekly")
	require.NoError(t, err, "league names are not unique")
	assert.Equal(t, "LEAGUE_2", id)

	l, ok := s.League("LEAGUE_1")
	require.True(t, ok)
	assert.Equal(t, "bob", l.Owner)
	assert.Empty(t, l.Tournaments)
	assert.True(t, testNow.Equal(l.CreatedAt.Time))
}

func TestCreateAdvertisement(t *testing.T) {
	s, _, _ := setupTestStore(t)

	_, err := s.CreateAdvertisement(arena.Session{}, "Ad", "Buy", 10)
	require.ErrorIs(t, err, arena.ErrNotLoggedIn)

	erin := registerApproved(t, s, "erin", arena.RoleAdvertiser)
	id, err := s.CreateAdvertisement(erin, "Boards", "Buy boards", 25.5)
	require.NoError(t, err)
	assert.Equal(t, "AD_1", id)

	ads := s.Advertisements()
	require.Len(t, ads, 1)
	assert.True(t, ads[0].Active)
	assert.Equal(t, "erin", ads[0].Advertiser)
	assert.Equal(t, 25.5, ads[0].Cost)
}

func TestSaveFailureRollsBack(t *testing.T) {
	s, gw, m := setupTestStore(t)
	bob := registerApproved(t, s, "bob", arena.RoleLeagueOwner)
	before := s.Snapshot()
	stored := gw.Stored()

	diskFull := errors.New("no space left on device")
	gw.SaveFunc = func(*arena.Snapshot) error { return diskFull }

	_, err := s.CreateLeague(bob, "L", "Chess", "")
	require.ErrorIs(t, err, arena.ErrPersist)
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, before, s.Snapshot(), "memory should match the last saved document")
	assert.Equal(t, stored, gw.Stored())
	assert.Equal(t, 1, m.SaveFailures())
	assert.Equal(t, 1, m.Operations("create_league", "failed"))

	_, err = s.Register("carol", "pw", "Carol", "c@example.com", arena.RolePlayer)
	require.ErrorIs(t, err, arena.ErrPersist)
	_, ok := s.User("carol")
	assert.False(t, ok)

	gw.SaveFunc = nil
	id, err := s.CreateLeague(bob, "L", "Chess", "")
	require.NoError(t, err)
	assert.Equal(t, "LEAGUE_1", id, "a rolled back id should be issued again")
}

func TestIDsContinueAfterReload(t *testing.T) {
	s, gw, _ := setupTestStore(t)
	bob := registerApproved(t, s, "bob", arena.RoleLeagueOwner)
	for range 3 {
		_, err := s.CreateLeague(bob, "L", "Chess", "")
		require.NoError(t, err)
	}

	reloaded, err := arena.New(arena.NewMockGateway(gw.Stored()), metrics.NewMock())
	require.NoError(t, err)

	id, err := reloaded.CreateLeague(bob, "L", "Chess", "")
	require.NoError(t, err)
	assert.Equal(t, "LEAGUE_4", id)
}

func TestIDsSkipGaps(t *testing.T) {
	doc := arena.NewSnapshot()
	doc.Leagues["LEAGUE_7"] = arena.League{ID: "LEAGUE_7", Name: "Old"}
	doc.Leagues["custom"] = arena.League{ID: "custom", Name: "Imported"}

	s, err := arena.New(arena.NewMockGateway(doc), metrics.NewMock())
	require.NoError(t, err)

	id, err := s.CreateLeague(arena.Session{Username: "admin", Role: arena.RoleOperator}, "New", "Go", "")
	require.NoError(t, err)
	assert.Equal(t, "LEAGUE_8", id)
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _, _ := setupTestStore(t)
	bob := registerApproved(t, s, "bob", arena.RoleLeagueOwner)
	_, err := s.CreateLeague(bob, "L", "Chess", "")
	require.NoError(t, err)

	snap := s.Snapshot()
	delete(snap.Users, "bob")
	l := snap.Leagues["LEAGUE_1"]
	l.Tournaments = append(l.Tournaments, "TOUR_X")
	snap.Leagues["LEAGUE_1"] = l

	_, ok := s.User("bob")
	assert.True(t, ok)
	got, _ := s.League("LEAGUE_1")
	assert.Empty(t, got.Tournaments)
}

func TestMetricsRecordOperations(t *testing.T) {
	s, _, m := setupTestStore(t)
	registerApproved(t, s, "alice", arena.RolePlayer)
	_, _ = s.Authenticate("alice", "bad")

	assert.Equal(t, 1, m.Operations("register", "ok"))
	assert.Equal(t, 1, m.Operations("approve", "ok"))
	assert.Equal(t, 1, m.Operations("authenticate", "ok"))
	assert.Equal(t, 1, m.Operations("authenticate", "rejected"))
	assert.Equal(t, 2, m.EntityCount("users"))
	assert.Equal(t, 3, m.Saves(), "bootstrap, register and approve should each save once")
}
