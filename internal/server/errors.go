package server

import (
	"errors"
	"net/http"

	"github.com/lox/partycards/internal/deck"
	"github.com/lox/partycards/internal/game"
	"github.com/lox/partycards/internal/packs"
)

// ErrBadParams is returned for query or message parameters that cannot be parsed
var ErrBadParams = errors.New("bad parameters")

// classify maps an error to an HTTP status and a stable error code
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, packs.ErrPackNotFound), errors.Is(err, packs.ErrCollectionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, packs.ErrMalformed):
		return http.StatusUnprocessableEntity, "malformed"
	case errors.Is(err, deck.ErrExhausted):
		return http.StatusConflict, "exhausted"
	case errors.Is(err, ErrBadParams), errors.Is(err, deck.ErrInvalidRoster), errors.Is(err, game.ErrInvalidHandSize),
		errors.Is(err, packs.ErrNoBaseURL):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, ErrorData{Code: code, Message: err.Error()})
}
