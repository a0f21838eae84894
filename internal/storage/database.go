package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conorfennell/playercards/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// ErrNotFound is returned when a requested player does not exist.
var ErrNotFound = errors.New("not found")

// dsnParams are applied to every pooled connection. _txlock=immediate makes
// BEGIN take the write lock so check-then-insert sequences cannot interleave.
const dsnParams = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
// The database file is created if it does not exist.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	conn, err := sql.Open("sqlite", filepath.Clean(path)+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.CreateSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateSchema creates the player and card tables if they don't exist.
// It is safe to call repeatedly.
func (db *DB) CreateSchema(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SeedIfAbsent inserts a player named name with the given cards unless a
// player with that name already exists. It reports whether a row was inserted.
func (db *DB) SeedIfAbsent(ctx context.Context, name string, cards []domain.Card) (bool, error) {
	inserted := false
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var found int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM player WHERE name = ? LIMIT 1`, name).Scan(&found)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to look up player %q: %w", name, err)
		}

		if _, err := insertPlayer(ctx, tx, name, cards); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// InsertPlayerWithCards stores a player and all of its cards in a single
// transaction and returns the stored player with generated ids.
// Either the player and every card become visible, or nothing does.
func (db *DB) InsertPlayerWithCards(ctx context.Context, name string, cards []domain.Card) (domain.Player, error) {
	var player domain.Player
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		p, err := insertPlayer(ctx, tx, name, cards)
		if err != nil {
			return err
		}
		player = p
		return nil
	})
	if err != nil {
		return domain.Player{}, err
	}
	return player, nil
}

// ListPlayers retrieves all players with their cards, ordered by player id
// and then card id. Players without cards carry an empty, non-nil slice.
func (db *DB) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT p.id, p.name, c.id, c.rank, c.suit, c.color, c.value
		FROM player p
		LEFT JOIN card c ON c.player_id = p.id
		ORDER BY p.id, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		var (
			playerID   int64
			playerName string
			cardID     sql.NullInt64
			rank       sql.NullString
			suit       sql.NullString
			color      sql.NullString
			value      sql.NullInt64
		)
		if err := rows.Scan(&playerID, &playerName, &cardID, &rank, &suit, &color, &value); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}

		// Rows arrive grouped by player id.
		if len(players) == 0 || players[len(players)-1].ID != playerID {
			players = append(players, domain.Player{ID: playerID, Name: playerName, Cards: []domain.Card{}})
		}
		if !cardID.Valid {
			continue
		}
		current := &players[len(players)-1]
		current.Cards = append(current.Cards, domain.Card{
			ID:       cardID.Int64,
			Rank:     rank.String,
			Suit:     suit.String,
			Color:    color.String,
			Value:    int(value.Int64),
			PlayerID: playerID,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate player rows: %w", err)
	}
	return players, nil
}

// FindPlayer retrieves a single player by id, without cards.
func (db *DB) FindPlayer(ctx context.Context, id int64) (domain.Player, error) {
	var p domain.Player
	err := db.conn.QueryRowContext(ctx, `SELECT id, name FROM player WHERE id = ?`, id).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Player{}, fmt.Errorf("player %d: %w", id, ErrNotFound)
		}
		return domain.Player{}, fmt.Errorf("failed to find player %d: %w", id, err)
	}
	return p, nil
}

// CardsForPlayer retrieves all cards held by the given player, ordered by id.
func (db *DB) CardsForPlayer(ctx context.Context, playerID int64) ([]domain.Card, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, rank, suit, color, value, player_id
		FROM card WHERE player_id = ?
		ORDER BY id
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for player %d: %w", playerID, err)
	}
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.Rank, &c.Suit, &c.Color, &c.Value, &c.PlayerID); err != nil {
			return nil, fmt.Errorf("failed to scan card row for player %d: %w", playerID, err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows for player %d: %w", playerID, err)
	}
	return cards, nil
}

func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertPlayer writes the player row first so its generated id is available
// to the card rows.
func insertPlayer(ctx context.Context, tx *sql.Tx, name string, cards []domain.Card) (domain.Player, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Player{}, fmt.Errorf("player name is required")
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO player (name) VALUES (?)`, name)
	if err != nil {
		return domain.Player{}, fmt.Errorf("failed to insert player %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Player{}, fmt.Errorf("failed to get last insert ID for player %q: %w", name, err)
	}

	player := domain.Player{ID: id, Name: name, Cards: make([]domain.Card, 0, len(cards))}
	for _, c := range cards {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO card (rank, suit, color, value, player_id)
			VALUES (?, ?, ?, ?, ?)
		`, c.Rank, c.Suit, c.Color, c.Value, id)
		if err != nil {
			return domain.Player{}, fmt.Errorf("failed to insert card for player %d: %w", id, err)
		}
		cardID, err := res.LastInsertId()
		if err != nil {
			return domain.Player{}, fmt.Errorf("failed to get last insert ID for card of player %d: %w", id, err)
		}
		c.ID = cardID
		c.PlayerID = id
		player.Cards = append(player.Cards, c)
	}
	return player, nil
}
