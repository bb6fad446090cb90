package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/stats"
)

// Storage is a Redis-backed implementation of league.Store. Players,
// matches and tournaments are hashes; listings go through sets and
// date-scored sorted sets.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance.
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info("Connected to Redis", "addr", opts.Addr)
	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing).
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection.
func (s *Storage) Close() error {
	return s.client.Close()
}

// watch runs fn as an optimistic transaction over keys, retrying when a
// watched key changes before EXEC.
func (s *Storage) watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	retries := s.cfg.MaxTxRetries
	if retries < 1 {
		retries = 1
	}
	for i := 0; i < retries; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			log.Debug("Redis transaction conflict, retrying", "keys", keys, "attempt", i+1)
			continue
		}
		return err
	}
	return fmt.Errorf("redis transaction on %v: %w", keys, redis.TxFailedErr)
}

func requireExists(ctx context.Context, tx *redis.Tx, kind, key, id string) error {
	n, err := tx.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	return nil
}

func increment(ctx context.Context, pipe redis.Pipeliner, key string, delta stats.Fields) {
	for _, p := range delta.Pairs() {
		if p.Value != 0 {
			pipe.HIncrBy(ctx, key, p.Column, int64(p.Value))
		}
	}
}

// Player operations

func (s *Storage) FindPlayer(ctx context.Context, id string) (*model.Player, error) {
	cmd := s.client.HGetAll(ctx, playerKey(id))
	fields, err := cmd.Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("player %s: %w", id, model.ErrNotFound)
	}
	var rec playerRecord
	if err := cmd.Scan(&rec); err != nil {
		return nil, err
	}
	p := rec.toModel()
	return &p, nil
}

func (s *Storage) FindPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	id, err := s.client.Get(ctx, playerNameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("player %s: %w", name, model.ErrNotFound)
		}
		return nil, err
	}
	return s.FindPlayer(ctx, id)
}

func (s *Storage) allPlayers(ctx context.Context) ([]model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersKey()).Result()
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, playerKey(id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, err
		}
	}

	players := make([]model.Player, 0, len(ids))
	for i, cmd := range cmds {
		if len(cmd.Val()) == 0 {
			log.Warn("Player listed in index but missing", "playerID", ids[i])
			continue
		}
		var rec playerRecord
		if err := cmd.Scan(&rec); err != nil {
			return nil, err
		}
		players = append(players, rec.toModel())
	}
	return players, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]model.Player, error) {
	players, err := s.allPlayers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Name != players[j].Name {
			return players[i].Name < players[j].Name
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (s *Storage) Standings(ctx context.Context) ([]model.Player, error) {
	players, err := s.allPlayers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.Name < b.Name
	})
	return players, nil
}

// InsertPlayer claims the name index first so two registrations of the same
// name cannot both succeed.
func (s *Storage) InsertPlayer(ctx context.Context, p *model.Player) error {
	if p.ID == "" {
		p.ID = model.NewID()
	}
	*p = model.Player{ID: p.ID, Name: p.Name}

	ok, err := s.client.SetNX(ctx, playerNameIndexKey(p.Name), p.ID, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("player %q: %w", p.Name, model.ErrDuplicate)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, playerKey(p.ID), playerRecord{ID: p.ID, Name: p.Name})
		pipe.SAdd(ctx, playersKey(), p.ID)
		return nil
	})
	if err != nil {
		s.client.Del(ctx, playerNameIndexKey(p.Name))
		return err
	}
	return nil
}

// RenamePlayer claims the new name index, then swaps the name under WATCH so
// a player deleted meanwhile is not recreated as a hash holding only a name.
func (s *Storage) RenamePlayer(ctx context.Context, id, name string) error {
	key := playerKey(id)
	claimed := false
	err := s.watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, "name").Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("player %s: %w", id, model.ErrNotFound)
			}
			return err
		}
		if current == name {
			return nil
		}
		if !claimed {
			ok, err := tx.SetNX(ctx, playerNameIndexKey(name), id, 0).Result()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("player %q: %w", name, model.ErrDuplicate)
			}
			claimed = true
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "name", name)
			pipe.Del(ctx, playerNameIndexKey(current))
			return nil
		})
		return err
	}, key)
	if err != nil && claimed {
		s.client.Del(ctx, playerNameIndexKey(name))
	}
	return err
}

func (s *Storage) DeletePlayer(ctx context.Context, id string) error {
	key := playerKey(id)
	return s.watch(ctx, func(tx *redis.Tx) error {
		name, err := tx.HGet(ctx, key, "name").Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("player %s: %w", id, model.ErrNotFound)
			}
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key, playerNameIndexKey(name), playerMatchesIndexKey(id))
			pipe.SRem(ctx, playersKey(), id)
			return nil
		})
		return err
	}, key)
}

// IncrementPlayerFields applies HINCRBY for every non-zero field inside
// MULTI/EXEC, guarded by WATCH so a concurrently deleted player is not
// recreated as a bare counter hash.
func (s *Storage) IncrementPlayerFields(ctx context.Context, id string, delta stats.Fields) error {
	key := playerKey(id)
	return s.watch(ctx, func(tx *redis.Tx) error {
		if err := requireExists(ctx, tx, "player", key, id); err != nil {
			return err
		}
		if delta.IsZero() {
			return nil
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			increment(ctx, pipe, key, delta)
			return nil
		})
		return err
	}, key)
}

// Match operations

func (s *Storage) RecordMatch(ctx context.Context, m *model.Match, p1, p2 stats.Fields) (string, error) {
	id := model.NewID()
	key1, key2 := playerKey(m.Player1ID), playerKey(m.Player2ID)

	err := s.watch(ctx, func(tx *redis.Tx) error {
		if err := requireExists(ctx, tx, "player", key1, m.Player1ID); err != nil {
			return err
		}
		if err := requireExists(ctx, tx, "player", key2, m.Player2ID); err != nil {
			return err
		}

		rec := newMatchRecord(m)
		rec.ID = id
		score := dateScore(m.Date)
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, matchKey(id), rec)
			pipe.ZAdd(ctx, matchesIndexKey(), redis.Z{Score: score, Member: id})
			pipe.ZAdd(ctx, playerMatchesIndexKey(m.Player1ID), redis.Z{Score: score, Member: id})
			pipe.ZAdd(ctx, playerMatchesIndexKey(m.Player2ID), redis.Z{Score: score, Member: id})
			if m.TournamentID != "" {
				pipe.ZAdd(ctx, tournamentMatchesIndexKey(m.TournamentID), redis.Z{Score: score, Member: id})
			}
			increment(ctx, pipe, key1, p1)
			increment(ctx, pipe, key2, p2)
			return nil
		})
		return err
	}, key1, key2)
	if err != nil {
		return "", err
	}
	m.ID = id
	return id, nil
}

func (s *Storage) FindMatch(ctx context.Context, id string) (*model.Match, error) {
	cmd := s.client.HGetAll(ctx, matchKey(id))
	fields, err := cmd.Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("match %s: %w", id, model.ErrNotFound)
	}
	var rec matchRecord
	if err := cmd.Scan(&rec); err != nil {
		return nil, err
	}
	m := rec.toModel()
	return &m, nil
}

func (s *Storage) UpdateMatchGoals(ctx context.Context, id string, player1Goals, player2Goals int) error {
	key := matchKey(id)
	return s.watch(ctx, func(tx *redis.Tx) error {
		if err := requireExists(ctx, tx, "match", key, id); err != nil {
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "player1_goals", player1Goals, "player2_goals", player2Goals)
			return nil
		})
		return err
	}, key)
}

func removeMatch(ctx context.Context, pipe redis.Pipeliner, m model.Match) {
	pipe.Del(ctx, matchKey(m.ID))
	pipe.ZRem(ctx, matchesIndexKey(), m.ID)
	pipe.ZRem(ctx, playerMatchesIndexKey(m.Player1ID), m.ID)
	pipe.ZRem(ctx, playerMatchesIndexKey(m.Player2ID), m.ID)
	if m.TournamentID != "" {
		pipe.ZRem(ctx, tournamentMatchesIndexKey(m.TournamentID), m.ID)
	}
}

func (s *Storage) DeleteMatch(ctx context.Context, id string) error {
	m, err := s.FindMatch(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removeMatch(ctx, pipe, *m)
		return nil
	})
	return err
}

func (s *Storage) DeleteMatchesForPlayer(ctx context.Context, playerID string) (int, error) {
	matches, err := s.matchesFromIndex(ctx, playerMatchesIndexKey(playerID))
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range matches {
			removeMatch(ctx, pipe, m)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// matchesFromIndex loads every match listed in a sorted set, oldest first.
func (s *Storage) matchesFromIndex(ctx context.Context, indexKey string) ([]model.Match, error) {
	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	matches := make([]model.Match, 0, len(ids))
	if len(ids) == 0 {
		return matches, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, matchKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	for i, cmd := range cmds {
		if len(cmd.Val()) == 0 {
			log.Warn("Match listed in index but missing", "matchID", ids[i], "index", indexKey)
			continue
		}
		var rec matchRecord
		if err := cmd.Scan(&rec); err != nil {
			return nil, err
		}
		matches = append(matches, rec.toModel())
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

func (s *Storage) FindMatchesForPlayer(ctx context.Context, playerID string) ([]model.Match, error) {
	return s.matchesFromIndex(ctx, playerMatchesIndexKey(playerID))
}

func (s *Storage) FindMatchesForPair(ctx context.Context, a, b string) ([]model.Match, error) {
	matches, err := s.matchesFromIndex(ctx, playerMatchesIndexKey(a))
	if err != nil {
		return nil, err
	}
	pair := matches[:0]
	for _, m := range matches {
		if m.Opponent(a) == b {
			pair = append(pair, m)
		}
	}
	return pair, nil
}

func (s *Storage) ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error) {
	index := matchesIndexKey()
	switch {
	case filter.TournamentID != "":
		index = tournamentMatchesIndexKey(filter.TournamentID)
	case filter.PlayerID != "":
		index = playerMatchesIndexKey(filter.PlayerID)
	}
	matches, err := s.matchesFromIndex(ctx, index)
	if err != nil {
		return nil, err
	}

	out := make([]model.Match, 0, len(matches))
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if filter.PlayerID != "" && !m.Involves(filter.PlayerID) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Tournament operations

func (s *Storage) InsertTournament(ctx context.Context, t *model.Tournament) error {
	if t.ID == "" {
		t.ID = model.NewID()
	}
	ok, err := s.client.SetNX(ctx, tournamentSlugIndexKey(t.Slug), t.ID, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("tournament %q: %w", t.Slug, model.ErrDuplicate)
	}

	rec := tournamentRecord{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug,
		StartDate:   t.StartDate.UnixNano(),
		EndDate:     t.EndDate.UnixNano(),
		Description: t.Description,
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, tournamentKey(t.ID), rec)
		pipe.SAdd(ctx, tournamentsKey(), t.ID)
		return nil
	})
	if err != nil {
		s.client.Del(ctx, tournamentSlugIndexKey(t.Slug))
		return err
	}
	return nil
}

func (s *Storage) FindTournament(ctx context.Context, id string) (*model.Tournament, error) {
	pipe := s.client.Pipeline()
	hash := pipe.HGetAll(ctx, tournamentKey(id))
	count := pipe.ZCard(ctx, tournamentMatchesIndexKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	if len(hash.Val()) == 0 {
		return nil, fmt.Errorf("tournament %s: %w", id, model.ErrNotFound)
	}
	var rec tournamentRecord
	if err := hash.Scan(&rec); err != nil {
		return nil, err
	}
	t := rec.toModel(int(count.Val()))
	return &t, nil
}

func (s *Storage) ListTournaments(ctx context.Context) ([]model.Tournament, error) {
	ids, err := s.client.SMembers(ctx, tournamentsKey()).Result()
	if err != nil {
		return nil, err
	}
	tournaments := make([]model.Tournament, 0, len(ids))
	for _, id := range ids {
		t, err := s.FindTournament(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, err
		}
		tournaments = append(tournaments, *t)
	}
	sort.Slice(tournaments, func(i, j int) bool {
		if !tournaments[i].StartDate.Equal(tournaments[j].StartDate) {
			return tournaments[i].StartDate.After(tournaments[j].StartDate)
		}
		return tournaments[i].Name < tournaments[j].Name
	})
	return tournaments, nil
}
