package storage

const schema = `
-- The 'player' table stores one row per player; names are not unique.
CREATE TABLE IF NOT EXISTS player (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL
);

-- The 'card' table stores the cards each player holds.
CREATE TABLE IF NOT EXISTS card (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    rank TEXT NOT NULL,
    suit TEXT NOT NULL,
    color TEXT NOT NULL,
    value INTEGER NOT NULL,
    player_id INTEGER NOT NULL,

    FOREIGN KEY(player_id) REFERENCES player(id)
);

CREATE INDEX IF NOT EXISTS idx_card_player_id ON card(player_id);
`
