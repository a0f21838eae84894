package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/conorfennell/playercards/internal/domain"
)

const (
	playerPrefix = "P:"
	cardPrefix   = "C:"
	separator    = "---"
	commentMark  = "#"
)

type state int

const (
	seeking state = iota
	readingPlayer
)

var suits = map[string]struct {
	name  string
	color string
}{
	"heart":    {"heart", "red"},
	"hearts":   {"heart", "red"},
	"diamond":  {"diamond", "red"},
	"diamonds": {"diamond", "red"},
	"club":     {"club", "black"},
	"clubs":    {"club", "black"},
	"spade":    {"spade", "black"},
	"spades":   {"spade", "black"},
}

var faces = map[string]struct {
	rank  string
	value int
}{
	"a":     {"A", 1},
	"ace":   {"A", 1},
	"j":     {"J", 11},
	"jack":  {"J", 11},
	"q":     {"Q", 12},
	"queen": {"Q", 12},
	"k":     {"K", 13},
	"king":  {"K", 13},
}

// ParseCard turns notation such as "2 of hearts" or "Queen of spades" into a
// card. Aces count 1 and face cards 11 to 13.
func ParseCard(s string) (domain.Card, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) != 3 || fields[1] != "of" {
		return domain.Card{}, fmt.Errorf("invalid card %q: want \"<rank> of <suit>\"", s)
	}

	suit, ok := suits[fields[2]]
	if !ok {
		return domain.Card{}, fmt.Errorf("invalid card %q: unknown suit %q", s, fields[2])
	}

	card := domain.Card{Suit: suit.name, Color: suit.color}
	if face, ok := faces[fields[0]]; ok {
		card.Rank = face.rank
		card.Value = face.value
		return card, nil
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 2 || n > 10 {
		return domain.Card{}, fmt.Errorf("invalid card %q: unknown rank %q", s, fields[0])
	}
	card.Rank = strconv.Itoa(n)
	card.Value = n
	return card, nil
}

// ParseCards parses each notation in order and stops at the first failure.
func ParseCards(notations []string) ([]domain.Card, error) {
	cards := make([]domain.Card, 0, len(notations))
	for _, n := range notations {
		c, err := ParseCard(n)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// ParseFile reads a roster file from the given path and extracts all players.
func ParseFile(path string) ([]domain.Player, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a roster from an io.Reader. A "P:" line starts a player, each
// following "C:" line adds one card to it, and "---" ends the player.
func Parse(r io.Reader) ([]domain.Player, error) {
	scanner := bufio.NewScanner(r)
	var players []domain.Player
	var currentPlayer domain.Player
	currentState := seeking
	lineNo := 0

	finishPlayer := func() {
		if currentState == readingPlayer {
			players = append(players, currentPlayer)
		}
		currentPlayer = domain.Player{}
		currentState = seeking
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "" || strings.HasPrefix(line, commentMark):
			continue
		case line == separator:
			finishPlayer()
		case strings.HasPrefix(line, playerPrefix):
			finishPlayer()
			name := strings.TrimSpace(line[len(playerPrefix):])
			if name == "" {
				return nil, fmt.Errorf("line %d: player name is empty", lineNo)
			}
			currentPlayer = domain.Player{Name: name, Cards: []domain.Card{}}
			currentState = readingPlayer
		case strings.HasPrefix(line, cardPrefix):
			if currentState != readingPlayer {
				return nil, fmt.Errorf("line %d: card outside of a player", lineNo)
			}
			card, err := ParseCard(line[len(cardPrefix):])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			currentPlayer.Cards = append(currentPlayer.Cards, card)
		default:
			return nil, fmt.Errorf("line %d: unrecognised line %q", lineNo, line)
		}
	}

	finishPlayer() // Finish the very last player in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return players, nil
}
