package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/conorfennell/playercards/internal/config"
	"github.com/conorfennell/playercards/internal/domain"
	"github.com/conorfennell/playercards/internal/parser"
	"github.com/conorfennell/playercards/internal/storage"
)

// seedPlayers inserts the configured default player and every player of the
// optional roster file, skipping names that already exist.
func seedPlayers(ctx context.Context, db *storage.DB, cfg config.Seed, logger *slog.Logger) error {
	cards, err := parser.ParseCards(cfg.Cards)
	if err != nil {
		return fmt.Errorf("failed to parse seed cards: %w", err)
	}
	players := []domain.Player{{Name: cfg.Player, Cards: cards}}

	if cfg.File != "" {
		roster, err := parser.ParseFile(cfg.File)
		if err != nil {
			return fmt.Errorf("failed to parse roster %s: %w", cfg.File, err)
		}
		players = append(players, roster...)
	}

	for _, p := range players {
		inserted, err := db.SeedIfAbsent(ctx, p.Name, p.Cards)
		if err != nil {
			return fmt.Errorf("failed to seed player %q: %w", p.Name, err)
		}
		if inserted {
			logger.Info("Seeded player", "name", p.Name, "cards", len(p.Cards))
		} else {
			logger.Debug("Seed player already present", "name", p.Name)
		}
	}
	return nil
}
