package server

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Host and lobby errors, mapped to HTTP status codes by the handlers.
var (
	ErrBadHostKey     = errors.New("invalid host key")
	ErrAlreadyStarted = errors.New("game already started")
	ErrGameOver       = errors.New("game has ended")
	ErrNameTaken      = errors.New("player name already taken")
)

// Submission errors. Their messages are part of the wire contract of
// POST /api/simulate-submit-answer, which returns err.Error() verbatim
// in the {"error": ...} envelope, hence the unconventional casing.
var (
	ErrPlayerNotFound   = errors.New("Player not found")
	ErrQuestionNotFound = errors.New("Question not found")
	ErrGameNotActive    = errors.New("Game is not active")
	ErrDuplicateAnswer  = errors.New("Answer already submitted")
	ErrInvalidWager     = errors.New("Invalid wager")
)

// QuestionInput describes one question when creating a game. A non-empty
// WagerSlot marks a wager question: players stake points instead of playing
// for the fixed Points value.
type QuestionInput struct {
	Prompt          string   `json:"prompt"`
	Options         []string `json:"options,omitempty"`
	CorrectIndex    *int     `json:"correctIndex,omitempty"`
	AcceptedAnswers []string `json:"acceptedAnswers,omitempty"`
	Points          float64  `json:"points"`
	Round           int      `json:"round"`
	WagerSlot       string   `json:"wagerSlot,omitempty"`
}

type CreatedGame struct {
	Code    string `json:"code"`
	HostKey string `json:"hostKey"`
}

type GameInfoData struct {
	Name          string `json:"name"`
	HostName      string `json:"hostName"`
	Status        string `json:"status"`
	PlayerCount   int    `json:"playerCount"`
	QuestionCount int    `json:"questionCount"`
}

type QuestionView struct {
	ID        string   `json:"id"`
	Prompt    string   `json:"prompt"`
	Options   []string `json:"options"`
	Points    float64  `json:"points"`
	Round     int      `json:"round"`
	WagerSlot string   `json:"wagerSlot,omitempty"`
}

type PlayerStanding struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Answered int     `json:"answered"`
}

type GameStateData struct {
	Name            string           `json:"name"`
	Status          string           `json:"status"`
	QuestionNumber  int              `json:"questionNumber"`
	TotalQuestions  int              `json:"totalQuestions"`
	CurrentQuestion *QuestionView    `json:"currentQuestion"`
	Players         []PlayerStanding `json:"players"`
}

type AdvanceResult struct {
	QuestionNumber int  `json:"questionNumber"`
	GameComplete   bool `json:"gameComplete"`
}

type Store interface {
	CreateGame(ctx context.Context, name, hostName string, questions []QuestionInput) (CreatedGame, error)
	GameInfo(ctx context.Context, code string) (GameInfoData, error)
	JoinGame(ctx context.Context, code, playerName string) (playerID string, err error)
	StartGame(ctx context.Context, code, hostKey string) error
	AdvanceQuestion(ctx context.Context, code, hostKey string) (AdvanceResult, error)
	GameState(ctx context.Context, code string) (GameStateData, error)

	// SubmitAnswer applies one answer submission to game state. The seven
	// values arrive in this fixed order from the submission endpoint; nil
	// pointers mean the caller omitted the field. Returns the code of the
	// game the answer was applied to.
	SubmitAnswer(ctx context.Context, playerID, questionID string, answerIndex *int, textAnswer *string, wager *float64, wagerSlot *string, playerRound *int) (string, error)
}
