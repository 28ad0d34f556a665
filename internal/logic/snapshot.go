package logic

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/models"
)

// Play is a PlayRecord with its role keys resolved once at load time. A key is
// empty when the raw field is not a genuine player.
type Play struct {
	models.PlayRecord
	PasserKey   string
	RusherKey   string
	ReceiverKey string
}

// NewPlay classifies and normalizes the name fields and team codes of rec.
func NewPlay(rec models.PlayRecord) Play {
	rec.PosTeam = models.NormalizeTeam(rec.PosTeam)
	rec.DefTeam = models.NormalizeTeam(rec.DefTeam)
	return Play{
		PlayRecord:  rec,
		PasserKey:   playerKey(rec.PasserName),
		RusherKey:   playerKey(rec.RusherName),
		ReceiverKey: playerKey(rec.ReceiverName),
	}
}

// KeyFor returns the canonical key for role, or "" if nobody genuine filled it.
func (p *Play) KeyFor(role models.Role) string {
	switch role {
	case models.RolePasser:
		return p.PasserKey
	case models.RoleRusher:
		return p.RusherKey
	case models.RoleReceiver:
		return p.ReceiverKey
	}
	return ""
}

// Involves reports whether the player with canonical key appears in any role.
func (p *Play) Involves(key string) bool {
	if key == "" {
		return false
	}
	return p.PasserKey == key || p.RusherKey == key || p.ReceiverKey == key
}

// Snapshot is an immutable view of the play history and defense tables.
// Nothing reachable from a Snapshot may be mutated after NewSnapshot returns.
type Snapshot struct {
	version  string
	source   string
	loadedAt time.Time

	plays    []Play
	defense  models.DefenseTables
	byPlayer map[string][]Play

	players       []models.KnownPlayer
	playersByRole map[models.Role][]models.KnownPlayer
	teams         []string
}

// NewSnapshot validates the defense tables and indexes the plays. It fails
// when any defense category is empty.
func NewSnapshot(source string, records []models.PlayRecord, defense models.DefenseTables) (*Snapshot, error) {
	if err := defense.Validate(); err != nil {
		return nil, err
	}

	s := &Snapshot{
		version:       uuid.NewString(),
		source:        source,
		loadedAt:      time.Now().UTC(),
		plays:         make([]Play, len(records)),
		defense:       defense.Clone(),
		byPlayer:      make(map[string][]Play),
		playersByRole: make(map[models.Role][]models.KnownPlayer),
	}

	type playerEntry struct {
		name  string
		roles map[models.Role]bool
	}
	seen := make(map[string]*playerEntry)
	teams := make(map[string]struct{})

	for i, rec := range records {
		play := NewPlay(rec)
		s.plays[i] = play

		for _, team := range []string{play.PosTeam, play.DefTeam} {
			if team != "" {
				teams[team] = struct{}{}
			}
		}

		indexed := make(map[string]bool, 3)
		for _, role := range models.Roles {
			key := play.KeyFor(role)
			if key == "" {
				continue
			}
			entry, ok := seen[key]
			if !ok {
				entry = &playerEntry{name: rec.NameFor(role), roles: make(map[models.Role]bool)}
				seen[key] = entry
			}
			entry.roles[role] = true
			if !indexed[key] {
				s.byPlayer[key] = append(s.byPlayer[key], play)
				indexed[key] = true
			}
		}
	}

	for key, entry := range seen {
		kp := models.KnownPlayer{Key: key, Name: entry.name}
		for _, role := range models.Roles {
			if entry.roles[role] {
				kp.Roles = append(kp.Roles, role)
			}
		}
		for _, role := range kp.Roles {
			s.playersByRole[role] = append(s.playersByRole[role], kp)
		}
		s.players = append(s.players, kp)
	}
	sortPlayers(s.players)
	for _, list := range s.playersByRole {
		sortPlayers(list)
	}

	s.teams = make([]string, 0, len(teams))
	for team := range teams {
		s.teams = append(s.teams, team)
	}
	sort.Strings(s.teams)

	return s, nil
}

func sortPlayers(list []models.KnownPlayer) {
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
}

// History returns every play the player appears in, in load order.
func (s *Snapshot) History(key string) []Play {
	return s.byPlayer[key]
}

// Plays returns the full play history.
func (s *Snapshot) Plays() []Play {
	return s.plays
}

// Defense returns the defense tables.
func (s *Snapshot) Defense() models.DefenseTables {
	return s.defense
}

// Players returns known players in role, or every player when role is empty.
func (s *Snapshot) Players(role models.Role) []models.KnownPlayer {
	if role == "" {
		return slices.Clone(s.players)
	}
	return slices.Clone(s.playersByRole[role])
}

// Teams returns every team code seen as posteam or defteam.
func (s *Snapshot) Teams() []string {
	return slices.Clone(s.teams)
}

// Version identifies this snapshot.
func (s *Snapshot) Version() string {
	return s.version
}

// Info summarizes the snapshot.
func (s *Snapshot) Info() models.SnapshotInfo {
	return models.SnapshotInfo{
		Version:  s.version,
		Source:   s.source,
		LoadedAt: s.loadedAt,
		Plays:    len(s.plays),
		Players:  len(s.players),
		Teams:    len(s.teams),
	}
}

// LoadFunc produces a fresh snapshot from the configured data source.
type LoadFunc func(ctx context.Context) (*Snapshot, error)

// Store holds the current snapshot. Readers get a consistent snapshot for the
// whole query; Reload swaps the pointer and never mutates in place.
type Store struct {
	current atomic.Pointer[Snapshot]
	load    LoadFunc
	mu      sync.Mutex
	logger  *zap.SugaredLogger
}

// NewStore performs the initial load. A failure here must stop startup.
func NewStore(ctx context.Context, load LoadFunc, logger *zap.Logger) (*Store, error) {
	s := &Store{load: load, logger: logger.Sugar()}
	snap, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial snapshot load: %w", err)
	}
	s.current.Store(snap)
	info := snap.Info()
	s.logger.Infow("Snapshot loaded",
		"version", info.Version,
		"source", info.Source,
		"plays", info.Plays,
		"players", info.Players,
		"teams", info.Teams,
	)
	return s, nil
}

// NewStaticStore wraps an already built snapshot. Reload re-serves it.
func NewStaticStore(snap *Snapshot) *Store {
	s := &Store{
		load:   func(context.Context) (*Snapshot, error) { return snap, nil },
		logger: zap.NewNop().Sugar(),
	}
	s.current.Store(snap)
	return s
}

// Current returns the snapshot in service.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload builds a new snapshot and swaps it in. On failure the previous
// snapshot stays in service.
func (s *Store) Reload(ctx context.Context) (models.SnapshotInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		s.logger.Errorw("Snapshot reload failed, keeping previous snapshot",
			"version", s.Current().Version(),
			"error", err,
		)
		return models.SnapshotInfo{}, fmt.Errorf("reload snapshot: %w", err)
	}

	previous := s.current.Swap(snap)
	info := snap.Info()
	s.logger.Infow("Snapshot swapped",
		"previous", previous.Version(),
		"version", info.Version,
		"plays", info.Plays,
	)
	return info, nil
}
