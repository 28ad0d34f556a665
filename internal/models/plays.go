package models

import "strings"

// MissingMarker is the literal nflverse exports use for absent values.
const MissingMarker = "NA"

// Category is one of the statistical categories a prediction covers.
type Category string

const (
	CategoryRushing   Category = "rushing"
	CategoryReceiving Category = "receiving"
	CategoryPassing   Category = "passing"
)

// Categories lists every category in reporting order.
var Categories = []Category{CategoryRushing, CategoryReceiving, CategoryPassing}

// Role is the part a named player fills in a single play.
type Role string

const (
	RolePasser   Role = "passer"
	RoleRusher   Role = "rusher"
	RoleReceiver Role = "receiver"
)

// Roles lists every role in attribution order.
var Roles = []Role{RoleRusher, RoleReceiver, RolePasser}

// ParseRole accepts a role name or a roster position alias (QB, RB, WR, TE).
// An empty string yields the empty role, meaning "any role".
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", true
	case "passer", "qb":
		return RolePasser, true
	case "rusher", "rb":
		return RoleRusher, true
	case "receiver", "wr", "te":
		return RoleReceiver, true
	}
	return "", false
}

// PlayRecord is one historical play. Name fields hold the raw source value and
// may be a sentinel (empty, "NA", "0", a "00-" player ID). Yardage fields are nil
// when the source value was absent or not numeric.
type PlayRecord struct {
	Week           int      `json:"week"`
	PosTeam        string   `json:"posteam"`
	DefTeam        string   `json:"defteam"`
	PasserName     string   `json:"passer_player_name"`
	RusherName     string   `json:"rusher_player_name"`
	ReceiverName   string   `json:"receiver_player_name"`
	RushingYards   *float64 `json:"rushing_yards"`
	ReceivingYards *float64 `json:"receiving_yards"`
	PassingYards   *float64 `json:"passing_yards"`
	RushTouchdown  bool     `json:"rush_touchdown"`
	PassTouchdown  bool     `json:"pass_touchdown"`
}

// NameFor returns the raw name recorded for the given role.
func (p *PlayRecord) NameFor(role Role) string {
	switch role {
	case RolePasser:
		return p.PasserName
	case RoleRusher:
		return p.RusherName
	case RoleReceiver:
		return p.ReceiverName
	}
	return ""
}

// NormalizeTeam canonicalizes a team code.
func NormalizeTeam(team string) string {
	team = strings.ToUpper(strings.TrimSpace(team))
	if team == MissingMarker {
		return ""
	}
	return team
}

// Float returns a pointer to v. Handy for building records in loaders and tests.
func Float(v float64) *float64 {
	return &v
}
