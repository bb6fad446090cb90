package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/stats"
)

// New wraps an initialized database. driverName is only used by sqlx for
// bind variable style; every query uses "?".
func New(db *sql.DB, driverName string) *Store {
	return &Store{
		db: sqlx.NewDb(db, driverName),
	}
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	return err
}

// mustAffect turns a write that touched no rows into ErrNotFound.
func mustAffect(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	return nil
}

func (s *Store) FindPlayer(ctx context.Context, id string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p model.Player
	err := s.db.GetContext(ctx, &p, "SELECT "+playerColumns+" FROM players WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err, "player", id)
	}
	return &p, nil
}

func (s *Store) FindPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p model.Player
	err := s.db.GetContext(ctx, &p, "SELECT "+playerColumns+" FROM players WHERE name = ?", name)
	if err != nil {
		return nil, notFound(err, "player", name)
	}
	return &p, nil
}

func (s *Store) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.selectPlayers(ctx, "ORDER BY name ASC, id ASC")
}

func (s *Store) Standings(ctx context.Context) ([]model.Player, error) {
	return s.selectPlayers(ctx, "ORDER BY points DESC, goal_difference DESC, name ASC")
}

func (s *Store) selectPlayers(ctx context.Context, order string) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := []model.Player{}
	if err := s.db.SelectContext(ctx, &players, "SELECT "+playerColumns+" FROM players "+order); err != nil {
		return nil, err
	}
	return players, nil
}

// InsertPlayer stores a new player with zeroed totals. An empty ID is filled in.
func (s *Store) InsertPlayer(ctx context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM players WHERE name = ?)", p.Name); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("player %q: %w", p.Name, model.ErrDuplicate)
	}

	if p.ID == "" {
		p.ID = model.NewID()
	}
	*p = model.Player{ID: p.ID, Name: p.Name}
	if _, err := tx.ExecContext(ctx, "INSERT INTO players (id, name) VALUES (?, ?)", p.ID, p.Name); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Inserted player", "playerID", p.ID, "name", p.Name)
	return nil
}

func (s *Store) RenamePlayer(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM players WHERE name = ? AND id != ?)", name, id); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("player %q: %w", name, model.ErrDuplicate)
	}
	res, err := tx.ExecContext(ctx, "UPDATE players SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	if err := mustAffect(res, "player", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) DeletePlayer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
	if err != nil {
		return err
	}
	return mustAffect(res, "player", id)
}

// incrementQuery builds "SET col = col + ?" for every aggregate column.
func incrementQuery(id string, delta stats.Fields) (string, []any) {
	pairs := delta.Pairs()
	sets := make([]string, 0, len(pairs))
	args := make([]any, 0, len(pairs)+1)
	for _, p := range pairs {
		sets = append(sets, fmt.Sprintf("%s = %s + ?", p.Column, p.Column))
		args = append(args, p.Value)
	}
	args = append(args, id)
	return "UPDATE players SET " + strings.Join(sets, ", ") + " WHERE id = ?", args
}

func (s *Store) IncrementPlayerFields(ctx context.Context, id string, delta stats.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query, args := incrementQuery(id, delta)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return mustAffect(res, "player", id)
}

func (s *Store) RecordMatch(ctx context.Context, m *model.Match, p1, p2 stats.Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := model.NewID()
	_, err = tx.ExecContext(ctx, "INSERT INTO matches ("+matchColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, m.Player1ID, m.Player2ID, m.Player1Goals, m.Player2Goals, m.Date.UnixNano(), m.Team1, m.Team2, nullString(m.TournamentID))
	if err != nil {
		return "", err
	}

	for _, side := range []struct {
		id    string
		delta stats.Fields
	}{{m.Player1ID, p1}, {m.Player2ID, p2}} {
		query, args := incrementQuery(side.id, side.delta)
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return "", err
		}
		if err := mustAffect(res, "player", side.id); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	m.ID = id
	return id, nil
}

func (s *Store) FindMatch(ctx context.Context, id string) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row matchRow
	if err := s.db.GetContext(ctx, &row, "SELECT "+matchColumns+" FROM matches WHERE id = ?", id); err != nil {
		return nil, notFound(err, "match", id)
	}
	m := row.toModel()
	return &m, nil
}

func (s *Store) UpdateMatchGoals(ctx context.Context, id string, player1Goals, player2Goals int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE matches SET player1_goals = ?, player2_goals = ? WHERE id = ?", player1Goals, player2Goals, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "match", id)
}

func (s *Store) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return err
	}
	return mustAffect(res, "match", id)
}

func (s *Store) DeleteMatchesForPlayer(ctx context.Context, playerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM matches WHERE player1_id = ? OR player2_id = ?", playerID, playerID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *Store) selectMatches(ctx context.Context, where string, order string, args ...any) ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + matchColumns + " FROM matches"
	if where != "" {
		query += " WHERE " + where
	}
	query += " " + order

	var rows []matchRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	matches := make([]model.Match, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, r.toModel())
	}
	return matches, nil
}

const (
	oldestFirst = "ORDER BY date ASC, id ASC"
	newestFirst = "ORDER BY date DESC, id DESC"
)

func (s *Store) FindMatchesForPlayer(ctx context.Context, playerID string) ([]model.Match, error) {
	return s.selectMatches(ctx, "player1_id = ? OR player2_id = ?", oldestFirst, playerID, playerID)
}

func (s *Store) FindMatchesForPair(ctx context.Context, a, b string) ([]model.Match, error) {
	return s.selectMatches(ctx, "(player1_id = ? AND player2_id = ?) OR (player1_id = ? AND player2_id = ?)", oldestFirst, a, b, b, a)
}

func (s *Store) ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error) {
	var clauses []string
	var args []any
	if filter.PlayerID != "" {
		clauses = append(clauses, "(player1_id = ? OR player2_id = ?)")
		args = append(args, filter.PlayerID, filter.PlayerID)
	}
	if filter.TournamentID != "" {
		clauses = append(clauses, "tournament_id = ?")
		args = append(args, filter.TournamentID)
	}
	return s.selectMatches(ctx, strings.Join(clauses, " AND "), newestFirst, args...)
}

func (s *Store) InsertTournament(ctx context.Context, t *model.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM tournaments WHERE slug = ?)", t.Slug); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("tournament %q: %w", t.Slug, model.ErrDuplicate)
	}
	if t.ID == "" {
		t.ID = model.NewID()
	}
	_, err = tx.ExecContext(ctx, "INSERT INTO tournaments (id, name, slug, start_date, end_date, description) VALUES (?, ?, ?, ?, ?, ?)",
		t.ID, t.Name, t.Slug, t.StartDate.UnixNano(), t.EndDate.UnixNano(), t.Description)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) FindTournament(ctx context.Context, id string) (*model.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row tournamentRow
	if err := s.db.GetContext(ctx, &row, "SELECT "+tournamentColumns+" FROM tournaments t WHERE t.id = ?", id); err != nil {
		return nil, notFound(err, "tournament", id)
	}
	t := row.toModel()
	return &t, nil
}

func (s *Store) ListTournaments(ctx context.Context) ([]model.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []tournamentRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT "+tournamentColumns+" FROM tournaments t ORDER BY t.start_date DESC, t.name ASC"); err != nil {
		return nil, err
	}
	tournaments := make([]model.Tournament, 0, len(rows))
	for _, r := range rows {
		tournaments = append(tournaments, r.toModel())
	}
	return tournaments, nil
}
