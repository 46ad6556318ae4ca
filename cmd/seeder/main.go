package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/arena"
	"github.com/mauv0809/arena/internal/config"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/mauv0809/arena/internal/persistence"
)

type seedUser struct {
	username string
	name     string
	role     arena.Role
}

var seedUsers = []seedUser{
	{"bob", "Bob Owner", arena.RoleLeagueOwner},
	{"alice", "Alice Player", arena.RolePlayer},
	{"carol", "Carol Player", arena.RolePlayer},
	{"dave", "Dave Player", arena.RolePlayer},
	{"erin", "Erin Advertiser", arena.RoleAdvertiser},
	{"sam", "Sam Spectator", arena.RoleSpectator},
}

const seedPassword = "password"

func main() {
	log.Info("Starting arena seeder...")
	cfg := config.Load()

	gateway, teardown, err := persistence.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open store gateway: %s", err)
	}
	defer teardown()

	store, err := arena.New(gateway, metrics.NewMock(), arena.WithAdminPassword(cfg.AdminPassword))
	if err != nil {
		log.Fatalf("Failed to load store: %s", err)
	}

	startTime := time.Now()
	if err := seed(store); err != nil {
		log.Fatalf("Seeding failed: %s", err)
	}
	log.Info("Successfully seeded store.", "duration", time.Since(startTime), "overview", store.Overview())
}

// seed registers the demo accounts and plays one tournament to completion.
func seed(store arena.Store) error {
	sessions := make(map[string]arena.Session)
	for _, u := range seedUsers {
		password := seedPassword
		if existing, exists := store.User(u.username); exists {
			password = existing.Password
		} else {
			msg, err := store.Register(u.username, seedPassword, u.name, u.username+"@arena.example", u.role)
			if err != nil {
				return fmt.Errorf("register %s: %w", u.username, err)
			}
			log.Info(msg, "username", u.username, "role", u.role)
		}
		if _, err := store.Approve(u.username); err != nil {
			return fmt.Errorf("approve %s: %w", u.username, err)
		}
		sess, err := store.Authenticate(u.username, password)
		if err != nil {
			return fmt.Errorf("login %s: %w", u.username, err)
		}
		sessions[u.username] = sess
	}

	leagueID, err := store.CreateLeague(sessions["bob"], "Seeded League", "Chess", "Demo league created by the seeder")
	if err != nil {
		return fmt.Errorf("create league: %w", err)
	}
	log.Info("Created league", "leagueID", leagueID)

	tourID, err := store.CreateTournament(sessions["bob"], leagueID, "Seeded Cup", time.Now().Format(time.DateOnly), 2, "$100")
	if err != nil {
		return fmt.Errorf("create tournament: %w", err)
	}
	log.Info("Created tournament", "tournamentID", tourID)

	for _, player := range []string{"alice", "carol"} {
		if _, err := store.ApplyForTournament(sessions[player], tourID); err != nil {
			return fmt.Errorf("apply %s: %w", player, err)
		}
	}
	if _, err := store.ApplyForTournament(sessions["dave"], tourID); err != nil {
		log.Info("Third applicant turned away as expected", "username", "dave", "reason", err)
	}

	if _, err := store.StartTournament(tourID); err != nil {
		return fmt.Errorf("start tournament: %w", err)
	}
	t, _ := store.Tournament(tourID)
	for _, matchID := range t.Matches {
		m, _ := store.Match(matchID)
		if _, err := store.RecordResult(matchID, m.Player1, "2-0"); err != nil {
			return fmt.Errorf("record result %s: %w", matchID, err)
		}
		log.Info("Recorded result", "matchID", matchID, "winner", m.Player1)
	}

	adID, err := store.CreateAdvertisement(sessions["erin"], "Seeded Ad", "Play at the arena!", 25)
	if err != nil {
		return fmt.Errorf("create advertisement: %w", err)
	}
	log.Info("Created advertisement", "adID", adID)
	return nil
}
