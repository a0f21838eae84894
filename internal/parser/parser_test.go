package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCard(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedRank  string
		expectedSuit  string
		expectedColor string
		expectedValue int
		expectErr     bool
	}{
		{
			name:          "Number card",
			input:         "2 of hearts",
			expectedRank:  "2",
			expectedSuit:  "heart",
			expectedColor: "red",
			expectedValue: 2,
		},
		{
			name:          "Singular suit",
			input:         "3 of spade",
			expectedRank:  "3",
			expectedSuit:  "spade",
			expectedColor: "black",
			expectedValue: 3,
		},
		{
			name:          "Ten",
			input:         "10 of diamonds",
			expectedRank:  "10",
			expectedSuit:  "diamond",
			expectedColor: "red",
			expectedValue: 10,
		},
		{
			name:          "Face card spelled out",
			input:         "Queen of Clubs",
			expectedRank:  "Q",
			expectedSuit:  "club",
			expectedColor: "black",
			expectedValue: 12,
		},
		{
			name:          "Ace letter",
			input:         "  A   of   hearts ",
			expectedRank:  "A",
			expectedSuit:  "heart",
			expectedColor: "red",
			expectedValue: 1,
		},
		{name: "Unknown suit", input: "2 of stars", expectErr: true},
		{name: "Rank too low", input: "1 of hearts", expectErr: true},
		{name: "Rank too high", input: "11 of hearts", expectErr: true},
		{name: "Missing of", input: "2 hearts", expectErr: true},
		{name: "Empty", input: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			card, err := ParseCard(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("Expected an error for %q, got card %+v", tc.input, card)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCard() returned an unexpected error: %v", err)
			}
			if card.Rank != tc.expectedRank {
				t.Errorf("Expected Rank to be '%s', but got '%s'", tc.expectedRank, card.Rank)
			}
			if card.Suit != tc.expectedSuit {
				t.Errorf("Expected Suit to be '%s', but got '%s'", tc.expectedSuit, card.Suit)
			}
			if card.Color != tc.expectedColor {
				t.Errorf("Expected Color to be '%s', but got '%s'", tc.expectedColor, card.Color)
			}
			if card.Value != tc.expectedValue {
				t.Errorf("Expected Value to be %d, but got %d", tc.expectedValue, card.Value)
			}
		})
	}
}

func TestParseCards(t *testing.T) {
	cards, err := ParseCards([]string{"2 of hearts", "3 of spades"})
	if err != nil {
		t.Fatalf("ParseCards() returned an unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}

	if _, err := ParseCards([]string{"2 of hearts", "joker"}); err == nil {
		t.Fatal("Expected an error for an invalid notation")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name            string
		input           string
		expectedPlayers int
		expectedName    string
		expectedCards   int
		expectErr       bool
	}{
		{
			name:            "Single player",
			input:           "P: Jimmy\nC: 2 of hearts\nC: 3 of spades",
			expectedPlayers: 1,
			expectedName:    "Jimmy",
			expectedCards:   2,
		},
		{
			name: "Two players with comments and separator",
			input: `
# starting hands
P: Ada
C: 5 of clubs
---
P: Grace
C: King of diamonds
`,
			expectedPlayers: 2,
		},
		{
			name:            "Player without cards",
			input:           "P: Nobody",
			expectedPlayers: 1,
			expectedName:    "Nobody",
			expectedCards:   0,
		},
		{
			name:            "New player closes the previous one",
			input:           "P: One\nC: 2 of hearts\nP: Two\nC: 4 of spades",
			expectedPlayers: 2,
		},
		{
			name:            "Empty input",
			input:           "",
			expectedPlayers: 0,
		},
		{name: "Card before player", input: "C: 2 of hearts", expectErr: true},
		{name: "Card after separator", input: "P: Ada\n---\nC: 2 of hearts", expectErr: true},
		{name: "Bad card", input: "P: Ada\nC: 2 of stars", expectErr: true},
		{name: "Empty name", input: "P:   ", expectErr: true},
		{name: "Unknown line", input: "P: Ada\nhello", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			players, err := Parse(strings.NewReader(tc.input))
			if tc.expectErr {
				if err == nil {
					t.Fatalf("Expected an error, got players %+v", players)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}

			if len(players) != tc.expectedPlayers {
				t.Fatalf("Expected %d players, but got %d", tc.expectedPlayers, len(players))
			}

			if tc.expectedPlayers == 1 {
				p := players[0]
				if p.Name != tc.expectedName {
					t.Errorf("Expected Name to be '%s', but got '%s'", tc.expectedName, p.Name)
				}
				if len(p.Cards) != tc.expectedCards {
					t.Errorf("Expected %d cards, but got %d", tc.expectedCards, len(p.Cards))
				}
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.txt")
	if err := os.WriteFile(path, []byte("P: Jimmy\nC: 2 of hearts\n"), 0o644); err != nil {
		t.Fatalf("Failed to write roster: %v", err)
	}

	players, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() returned an unexpected error: %v", err)
	}
	if len(players) != 1 || players[0].Cards[0].Suit != "heart" {
		t.Fatalf("Unexpected players: %+v", players)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}
