package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/playercards/internal/digest"
	"github.com/conorfennell/playercards/internal/domain"
	"github.com/conorfennell/playercards/internal/storage"
)

const (
	greeting = "Hiyo! I am Bnuuy! Round"

	msgInvalidRequest = "Invalid request data"
	msgPlayerNotFound = "Player not found"
	msgInternal       = "Internal server error"
	msgPlayerCreated  = "Player and cards added successfully"

	maxBodyBytes = 1 << 20
)

type createPlayerRequest struct {
	Name  string        `json:"name" validate:"notblank"`
	Cards []cardRequest `json:"cards" validate:"required,dive"`
}

type cardRequest struct {
	Rank  string `json:"rank" validate:"required"`
	Suit  string `json:"suit" validate:"required"`
	Color string `json:"color" validate:"required"`
	Value *int   `json:"value" validate:"required"`
}

type cardResponse struct {
	ID    int64  `json:"id"`
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
	Color string `json:"color"`
	Value int    `json:"value"`
}

type playerResponse struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Cards []cardResponse `json:"card"`
}

type playersResponse struct {
	Players []playerResponse `json:"players"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleRoot answers liveness probes without touching the store.
func (s *Server) handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, greeting)
	}
}

// handleListPlayers renders every player with its cards. The response carries
// an ETag of its body and honours If-None-Match.
func (s *Server) handleListPlayers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.db.ListPlayers(r.Context())
		if err != nil {
			s.logger.Error("Error listing players", "error", err, "request_id", middleware.GetReqID(r.Context()))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
			return
		}
		s.logger.Debug("GET /players activated", "players", len(players))

		resp := playersResponse{Players: make([]playerResponse, 0, len(players))}
		for _, p := range players {
			resp.Players = append(resp.Players, toPlayerResponse(p, p.Cards))
		}

		body, err := json.Marshal(resp)
		if err != nil {
			s.logger.Error("Error encoding players", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
			return
		}

		etag := digest.ETag(body)
		w.Header().Set("ETag", etag)
		if inm := r.Header.Get("If-None-Match"); inm != "" && digest.Matches(inm, etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}

// handleGetPlayer renders one player, loading its cards with an explicit query.
func (s *Server) handleGetPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
			return
		}

		player, err := s.db.FindPlayer(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: msgPlayerNotFound})
				return
			}
			s.logger.Error("Error finding player", "player_id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
			return
		}

		cards, err := s.db.CardsForPlayer(r.Context(), id)
		if err != nil {
			s.logger.Error("Error getting cards for player", "player_id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
			return
		}

		writeJSON(w, http.StatusOK, toPlayerResponse(player, cards))
	}
}

// handleCreatePlayer validates the whole payload and then stores the player
// and its cards atomically.
func (s *Server) handleCreatePlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		var req createPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.logger.Info("Rejected player request", "reason", "decode", "error", err)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
			return
		}

		if err := s.validate.Struct(req); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					s.logger.Info("Rejected player request", "field", fe.Namespace(), "rule", fe.Tag())
				}
			} else {
				s.logger.Info("Rejected player request", "error", err)
			}
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
			return
		}

		cards := make([]domain.Card, 0, len(req.Cards))
		for _, c := range req.Cards {
			cards = append(cards, domain.Card{
				Rank:  c.Rank,
				Suit:  c.Suit,
				Color: c.Color,
				Value: *c.Value,
			})
		}

		player, err := s.db.InsertPlayerWithCards(r.Context(), req.Name, cards)
		if err != nil {
			s.logger.Error("Error inserting player", "name", req.Name, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
			return
		}
		s.logger.Info("Player created", "player_id", player.ID, "cards", len(player.Cards))

		writeJSON(w, http.StatusCreated, messageResponse{Message: msgPlayerCreated})
	}
}

func toPlayerResponse(p domain.Player, cards []domain.Card) playerResponse {
	resp := playerResponse{
		ID:    p.ID,
		Name:  p.Name,
		Cards: make([]cardResponse, 0, len(cards)),
	}
	for _, c := range cards {
		resp.Cards = append(resp.Cards, cardResponse{
			ID:    c.ID,
			Rank:  c.Rank,
			Suit:  c.Suit,
			Color: c.Color,
			Value: c.Value,
		})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
