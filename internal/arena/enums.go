package arena

import (
	"fmt"
	"strings"
)

// Role is the role a user registers under.
type Role int

const (
	RoleOperator Role = iota + 1
	RoleLeagueOwner
	RolePlayer
	RoleSpectator
	RoleAdvertiser
)

var roleNames = map[Role]string{
	RoleOperator:    "Operator",
	RoleLeagueOwner: "League Owner",
	RolePlayer:      "Player",
	RoleSpectator:   "Spectator",
	RoleAdvertiser:  "Advertiser",
}

// Roles returns every valid role in declaration order.
func Roles() []Role {
	return []Role{RoleOperator, RoleLeagueOwner, RolePlayer, RoleSpectator, RoleAdvertiser}
}

func (r Role) String() string { return enumString(roleNames, r) }

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) MarshalText() ([]byte, error) { return enumMarshal("role", roleNames, r) }

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseRole accepts the display name ("League Owner") as well as compact
// spellings such as "league_owner" or "leagueowner", case-insensitively.
func ParseRole(s string) (Role, error) { return enumParse("role", roleNames, s) }

// TournamentStatus is a stage of the tournament lifecycle.
type TournamentStatus int

const (
	StatusAnnounced TournamentStatus = iota + 1
	StatusOpenForRegistration
	StatusInProgress
	StatusCompleted
	// StatusArchived is never set by the store; it is only reachable by editing
	// the persisted document.
	StatusArchived
)

var tournamentStatusNames = map[TournamentStatus]string{
	StatusAnnounced:           "Announced",
	StatusOpenForRegistration: "Open for Registration",
	StatusInProgress:          "In Progress",
	StatusCompleted:           "Completed",
	StatusArchived:            "Archived",
}

func (s TournamentStatus) String() string { return enumString(tournamentStatusNames, s) }

func (s TournamentStatus) MarshalText() ([]byte, error) {
	return enumMarshal("tournament status", tournamentStatusNames, s)
}

func (s *TournamentStatus) UnmarshalText(b []byte) error {
	v, err := ParseTournamentStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseTournamentStatus(s string) (TournamentStatus, error) {
	return enumParse("tournament status", tournamentStatusNames, s)
}

// started reports whether the bracket has already been generated.
func (s TournamentStatus) started() bool {
	return s == StatusInProgress || s == StatusCompleted || s == StatusArchived
}

// MatchStatus is a stage of the match lifecycle.
type MatchStatus int

const (
	MatchScheduled MatchStatus = iota + 1
	// MatchLive is reserved for live scoring and never set by the store.
	MatchLive
	MatchCompleted
)

var matchStatusNames = map[MatchStatus]string{
	MatchScheduled: "Scheduled",
	MatchLive:      "Live",
	MatchCompleted: "Completed",
}

func (s MatchStatus) String() string { return enumString(matchStatusNames, s) }

func (s MatchStatus) MarshalText() ([]byte, error) {
	return enumMarshal("match status", matchStatusNames, s)
}

func (s *MatchStatus) UnmarshalText(b []byte) error {
	v, err := ParseMatchStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseMatchStatus(s string) (MatchStatus, error) {
	return enumParse("match status", matchStatusNames, s)
}

func enumString[T ~int](names map[T]string, v T) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(v))
}

func enumMarshal[T ~int](kind string, names map[T]string, v T) ([]byte, error) {
	name, ok := names[v]
	if !ok {
		return nil, fmt.Errorf("invalid %s %d", kind, int(v))
	}
	return []byte(name), nil
}

func enumParse[T ~int](kind string, names map[T]string, s string) (T, error) {
	want := normalizeEnum(s)
	for v, name := range names {
		if normalizeEnum(name) == want {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, s)
}

func normalizeEnum(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
