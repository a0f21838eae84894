package domain

// Player owns zero or more cards.
type Player struct {
	ID    int64
	Name  string
	Cards []Card
}

// Card is a playing card held by exactly one player.
// Suit is singular and lower-case ("heart"), Color is "red" or "black".
type Card struct {
	ID       int64
	Rank     string
	Suit     string
	Color    string
	Value    int
	PlayerID int64
}
