package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	registerCmd.Flags().String("password", "", "Password")
	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().String("role", "Player", "Role: Player, League Owner, Spectator or Advertiser")

	leagueCreateCmd.Flags().String("game", "", "Game type")
	leagueCreateCmd.Flags().String("description", "", "Description")
	leagueCmd.AddCommand(leagueCreateCmd, leagueListCmd)

	tournamentCreateCmd.Flags().String("league", "", "League id")
	tournamentCreateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	tournamentCreateCmd.Flags().Int("max-players", 8, "Maximum number of participants")
	tournamentCreateCmd.Flags().String("prize", "", "Prize pool")
	tournamentCmd.AddCommand(tournamentCreateCmd, tournamentListCmd, tournamentApplyCmd, tournamentStartCmd)

	matchListCmd.Flags().String("tournament", "", "Only list matches of this tournament")
	matchResultCmd.Flags().String("score", "", "Score")
	matchCmd.AddCommand(matchListCmd, matchResultCmd)

	adCreateCmd.Flags().String("content", "", "Advertisement text")
	adCreateCmd.Flags().Float64("cost", 0, "Cost")
	adCmd.AddCommand(adCreateCmd, adListCmd)

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(leagueCmd)
	rootCmd.AddCommand(tournamentCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(adCmd)
	rootCmd.AddCommand(dashboardCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Register a new account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")
		return performRequest(http.MethodPost, "/api/register", map[string]string{
			"username": args[0],
			"password": password,
			"name":     name,
			"email":    email,
			"role":     role,
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in and print a session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/login", map[string]string{
			"username": args[0],
			"password": args[1],
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session of --token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/logout", nil)
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <username>",
	Short: "Approve a pending account (operator)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/users/"+url.PathEscape(args[0])+"/approve", nil)
	},
}

var usersCmd = &cobra.Command{
	Use:       "users [pending]",
	Short:     "List users (operator)",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"pending"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && args[0] == "pending" {
			return performRequest(http.MethodGet, "/api/users/pending", nil)
		}
		return performRequest(http.MethodGet, "/api/users", nil)
	},
}

var leagueCmd = &cobra.Command{
	Use:   "league",
	Short: "Manage leagues",
}

var leagueCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a league",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		game, _ := cmd.Flags().GetString("game")
		description, _ := cmd.Flags().GetString("description")
		return performRequest(http.MethodPost, "/api/leagues", map[string]string{
			"name":        args[0],
			"game_type":   game,
			"description": description,
		})
	},
}

var leagueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leagues",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/leagues", nil)
	},
}

var tournamentCmd = &cobra.Command{
	Use:   "tournament",
	Short: "Manage tournaments",
}

var tournamentCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Announce a tournament in a league",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		league, _ := cmd.Flags().GetString("league")
		start, _ := cmd.Flags().GetString("start")
		maxPlayers, _ := cmd.Flags().GetInt("max-players")
		prize, _ := cmd.Flags().GetString("prize")
		return performRequest(http.MethodPost, "/api/tournaments", map[string]any{
			"league_id":   league,
			"name":        args[0],
			"start_date":  start,
			"max_players": maxPlayers,
			"prize_pool":  prize,
		})
	},
}

var tournamentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tournaments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/tournaments", nil)
	},
}

var tournamentApplyCmd = &cobra.Command{
	Use:   "apply <tournament-id>",
	Short: "Apply for a tournament (player)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/tournaments/"+url.PathEscape(args[0])+"/apply", nil)
	},
}

var tournamentStartCmd = &cobra.Command{
	Use:   "start <tournament-id>",
	Short: "Start a tournament and generate its matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/tournaments/"+url.PathEscape(args[0])+"/start", nil)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "List matches and record results",
}

var matchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/api/matches"
		if tid, _ := cmd.Flags().GetString("tournament"); tid != "" {
			endpoint += "?tournament=" + url.QueryEscape(tid)
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var matchResultCmd = &cobra.Command{
	Use:   "result <match-id> <winner>",
	Short: "Record the result of a match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, _ := cmd.Flags().GetString("score")
		return performRequest(http.MethodPost, "/api/matches/"+url.PathEscape(args[0])+"/result", map[string]string{
			"winner": args[1],
			"score":  score,
		})
	},
}

var adCmd = &cobra.Command{
	Use:   "ad",
	Short: "Manage advertisements",
}

var adCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create an advertisement (advertiser)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _ := cmd.Flags().GetString("content")
		cost, _ := cmd.Flags().GetFloat64("cost")
		return performRequest(http.MethodPost, "/api/ads", map[string]any{
			"title":   args[0],
			"content": content,
			"cost":    cost,
		})
	},
}

var adListCmd = &cobra.Command{
	Use:   "list",
	Short: "List advertisements",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/ads", nil)
	},
}

var dashboardCmd = &cobra.Command{
	Use:       "dashboard <name>",
	Short:     "Show a dashboard: overview, created, available, mine, my-matches, live, history, stats or ads",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"overview", "created", "available", "mine", "my-matches", "live", "history", "stats", "ads"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/dashboard/"+args[0], nil)
	},
}

func performRequest(method, endpoint string, body any) error {
	target := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, target)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}
