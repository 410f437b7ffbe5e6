package server

import (
	"context"
	"net/http"
)

// SubmitAnswerRequest is the body of POST /api/simulate-submit-answer.
// Pointer fields distinguish "omitted" from a zero value; omitted fields
// reach the store as nil.
type SubmitAnswerRequest struct {
	PlayerID    string   `json:"playerId"`
	QuestionID  string   `json:"questionId"`
	AnswerIndex *int     `json:"answerIndex"`
	TextAnswer  *string  `json:"textAnswer"`
	Wager       *float64 `json:"wager"`
	WagerSlot   *string  `json:"wagerSlot"`
	PlayerRound *int     `json:"playerRound"`
}

type SubmitAnswerResponse struct {
	Success bool `json:"success"`
}

const submitFallbackMessage = "Failed to submit answer"

// answerSubmitter is the slice of Store the submission endpoint needs,
// so tests can substitute the game-state mutation.
type answerSubmitter interface {
	SubmitAnswer(ctx context.Context, playerID, questionID string, answerIndex *int, textAnswer *string, wager *float64, wagerSlot *string, playerRound *int) (string, error)
}

func handleSubmitAnswer(store answerSubmitter, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setSubmitCORSHeaders(w)

		var req SubmitAnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, submitErrorMessage(err))
			return
		}

		if req.PlayerID == "" || req.QuestionID == "" {
			writeError(w, http.StatusBadRequest, "Missing playerId or questionId")
			return
		}

		code, err := store.SubmitAnswer(r.Context(),
			req.PlayerID, req.QuestionID,
			req.AnswerIndex, req.TextAnswer, req.Wager, req.WagerSlot, req.PlayerRound,
		)
		if err != nil {
			// Every failure collapses to 400; clients distinguish outcomes
			// by the error message alone.
			writeError(w, http.StatusBadRequest, submitErrorMessage(err))
			return
		}

		broker.Publish(code, Event{
			Type:       "answer_submitted",
			PlayerID:   req.PlayerID,
			QuestionID: req.QuestionID,
		})

		writeJSON(w, http.StatusOK, SubmitAnswerResponse{Success: true})
	}
}

func handleSubmitAnswerPreflight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setSubmitCORSHeaders(w)
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

func setSubmitCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func submitErrorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return submitFallbackMessage
}
