package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Game documents stored as JSONB, one row per game keyed by join code.

type gameDoc struct {
	Code            string        `json:"code"`
	Name            string        `json:"name"`
	HostName        string        `json:"hostName"`
	HostKeyHash     string        `json:"hostKeyHash"`
	Status          string        `json:"status"`
	CurrentQuestion int           `json:"currentQuestion"`
	Questions       []questionDoc `json:"questions"`
	Players         []playerDoc   `json:"players"`
	CreatedAt       string        `json:"createdAt"`
}

type questionDoc struct {
	ID              string   `json:"id"`
	Prompt          string   `json:"prompt"`
	Options         []string `json:"options,omitempty"`
	CorrectIndex    *int     `json:"correctIndex,omitempty"`
	AcceptedAnswers []string `json:"acceptedAnswers,omitempty"`
	Points          float64  `json:"points"`
	Round           int      `json:"round"`
	WagerSlot       string   `json:"wagerSlot,omitempty"`
}

type playerDoc struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Score    float64     `json:"score"`
	JoinedAt string      `json:"joinedAt"`
	Answers  []answerDoc `json:"answers"`
}

type answerDoc struct {
	QuestionID  string   `json:"questionId"`
	AnswerIndex *int     `json:"answerIndex"`
	TextAnswer  *string  `json:"textAnswer,omitempty"`
	Wager       *float64 `json:"wager,omitempty"`
	WagerSlot   *string  `json:"wagerSlot"`
	PlayerRound *int     `json:"playerRound"`
	IsCorrect   *bool    `json:"isCorrect,omitempty"`
	PointsDelta float64  `json:"pointsDelta"`
	AnsweredAt  string   `json:"answeredAt"`
}

const (
	statusLobby  = "lobby"
	statusActive = "active"
	statusEnded  = "ended"
)

// GameStore implements Store on SQLite: a games table with one JSONB doc per
// game, plus a players index table so SubmitAnswer can resolve a bare
// playerId to its game.
type GameStore struct {
	db *sql.DB
}

func NewGameStore(ctx context.Context, db *sql.DB) (*GameStore, error) {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS games (
			code TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS players (
			id        TEXT PRIMARY KEY,
			game_code TEXT NOT NULL REFERENCES games(code)
		)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}

	return &GameStore{db: db}, nil
}

func (s *GameStore) getGame(ctx context.Context, code string) (gameDoc, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM games WHERE code = ?`, code,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return gameDoc{}, ErrNotFound
	}
	if err != nil {
		return gameDoc{}, err
	}
	var g gameDoc
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return gameDoc{}, err
	}
	return g, nil
}

func (s *GameStore) insertGame(ctx context.Context, g gameDoc) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (code, data) VALUES (?, jsonb(?))`,
		g.Code, string(data),
	)
	return err
}

// modifyGame loads a game, applies fn, and saves it in a transaction, so
// concurrent mutations of the same game never lose each other's writes.
// after, when non-nil, runs inside the same transaction once the doc is
// saved.
func (s *GameStore) modifyGame(ctx context.Context, code string, fn func(*gameDoc) error, after func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT json(data) FROM games WHERE code = ?`, code,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var g gameDoc
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return err
	}

	if err := fn(&g); err != nil {
		return err
	}

	jsonData, err := json.Marshal(g)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE games SET data = jsonb(?) WHERE code = ?`,
		string(jsonData), g.Code,
	); err != nil {
		return err
	}

	if after != nil {
		if err := after(tx); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *GameStore) gameCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	return n, err
}

func (s *GameStore) CreateGame(ctx context.Context, name, hostName string, questions []QuestionInput) (CreatedGame, error) {
	// Retry on the unlikely code collision.
	for i := 0; i < 5; i++ {
		created, err := s.createGame(ctx, name, hostName, questions, newJoinCode())
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, errCodeTaken) {
			return CreatedGame{}, err
		}
	}
	return CreatedGame{}, fmt.Errorf("allocating join code: too many collisions")
}

var errCodeTaken = errors.New("join code taken")

func (s *GameStore) createGame(ctx context.Context, name, hostName string, questions []QuestionInput, code string) (CreatedGame, error) {
	if _, err := s.getGame(ctx, code); err == nil {
		return CreatedGame{}, errCodeTaken
	} else if !errors.Is(err, ErrNotFound) {
		return CreatedGame{}, err
	}

	hostKey := newHostKey()
	hash, err := bcrypt.GenerateFromPassword([]byte(hostKey), bcrypt.DefaultCost)
	if err != nil {
		return CreatedGame{}, fmt.Errorf("hashing host key: %w", err)
	}

	g := gameDoc{
		Code:        code,
		Name:        name,
		HostName:    hostName,
		HostKeyHash: string(hash),
		Status:      statusLobby,
		CreatedAt:   nowUTC(),
	}
	for _, q := range questions {
		g.Questions = append(g.Questions, questionDoc{
			ID:              uuid.NewString(),
			Prompt:          q.Prompt,
			Options:         q.Options,
			CorrectIndex:    q.CorrectIndex,
			AcceptedAnswers: q.AcceptedAnswers,
			Points:          q.Points,
			Round:           q.Round,
			WagerSlot:       q.WagerSlot,
		})
	}

	if err := s.insertGame(ctx, g); err != nil {
		return CreatedGame{}, err
	}
	return CreatedGame{Code: code, HostKey: hostKey}, nil
}

func (s *GameStore) GameInfo(ctx context.Context, code string) (GameInfoData, error) {
	g, err := s.getGame(ctx, code)
	if err != nil {
		return GameInfoData{}, err
	}
	return GameInfoData{
		Name:          g.Name,
		HostName:      g.HostName,
		Status:        g.Status,
		PlayerCount:   len(g.Players),
		QuestionCount: len(g.Questions),
	}, nil
}

func (s *GameStore) JoinGame(ctx context.Context, code, playerName string) (string, error) {
	playerID := uuid.NewString()

	// Doc update and index insert commit together: a player visible in the
	// lobby must always be resolvable by SubmitAnswer.
	err := s.modifyGame(ctx, code, func(g *gameDoc) error {
		if g.Status == statusEnded {
			return ErrGameOver
		}
		for _, p := range g.Players {
			if strings.EqualFold(p.Name, playerName) {
				return ErrNameTaken
			}
		}
		g.Players = append(g.Players, playerDoc{
			ID:       playerID,
			Name:     playerName,
			JoinedAt: nowUTC(),
		})
		return nil
	}, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO players (id, game_code) VALUES (?, ?)`, playerID, code,
		)
		return err
	})
	if err != nil {
		return "", err
	}
	return playerID, nil
}

func (s *GameStore) verifyHostKey(g gameDoc, hostKey string) error {
	if bcrypt.CompareHashAndPassword([]byte(g.HostKeyHash), []byte(hostKey)) != nil {
		return ErrBadHostKey
	}
	return nil
}

func (s *GameStore) StartGame(ctx context.Context, code, hostKey string) error {
	return s.modifyGame(ctx, code, func(g *gameDoc) error {
		if err := s.verifyHostKey(*g, hostKey); err != nil {
			return err
		}
		switch g.Status {
		case statusActive:
			return ErrAlreadyStarted
		case statusEnded:
			return ErrGameOver
		}

		g.Status = statusActive
		g.CurrentQuestion = 0
		return nil
	}, nil)
}

func (s *GameStore) AdvanceQuestion(ctx context.Context, code, hostKey string) (AdvanceResult, error) {
	var result AdvanceResult

	err := s.modifyGame(ctx, code, func(g *gameDoc) error {
		if err := s.verifyHostKey(*g, hostKey); err != nil {
			return err
		}
		if g.Status != statusActive {
			return ErrGameNotActive
		}

		g.CurrentQuestion++
		if g.CurrentQuestion >= len(g.Questions) {
			g.Status = statusEnded
			result = AdvanceResult{GameComplete: true}
			return nil
		}
		result = AdvanceResult{QuestionNumber: g.CurrentQuestion + 1}
		return nil
	}, nil)
	if err != nil {
		return AdvanceResult{}, err
	}
	return result, nil
}

func (s *GameStore) GameState(ctx context.Context, code string) (GameStateData, error) {
	g, err := s.getGame(ctx, code)
	if err != nil {
		return GameStateData{}, err
	}

	state := GameStateData{
		Name:           g.Name,
		Status:         g.Status,
		TotalQuestions: len(g.Questions),
		Players:        []PlayerStanding{},
	}

	if g.Status == statusActive && g.CurrentQuestion < len(g.Questions) {
		q := g.Questions[g.CurrentQuestion]
		state.QuestionNumber = g.CurrentQuestion + 1
		// Correct answers never leave the store.
		state.CurrentQuestion = &QuestionView{
			ID:        q.ID,
			Prompt:    q.Prompt,
			Options:   q.Options,
			Points:    q.Points,
			Round:     q.Round,
			WagerSlot: q.WagerSlot,
		}
	}

	for _, p := range g.Players {
		state.Players = append(state.Players, PlayerStanding{
			ID:       p.ID,
			Name:     p.Name,
			Score:    p.Score,
			Answered: len(p.Answers),
		})
	}
	return state, nil
}

func (s *GameStore) SubmitAnswer(ctx context.Context, playerID, questionID string, answerIndex *int, textAnswer *string, wager *float64, wagerSlot *string, playerRound *int) (string, error) {
	var code string
	err := s.db.QueryRowContext(ctx,
		`SELECT game_code FROM players WHERE id = ?`, playerID,
	).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPlayerNotFound
	}
	if err != nil {
		return "", err
	}

	err = s.modifyGame(ctx, code, func(g *gameDoc) error {
		player := -1
		for i, p := range g.Players {
			if p.ID == playerID {
				player = i
				break
			}
		}
		if player < 0 {
			return ErrPlayerNotFound
		}

		question := -1
		for i, q := range g.Questions {
			if q.ID == questionID {
				question = i
				break
			}
		}
		if question < 0 {
			return ErrQuestionNotFound
		}

		if g.Status != statusActive {
			return ErrGameNotActive
		}
		for _, a := range g.Players[player].Answers {
			if a.QuestionID == questionID {
				return ErrDuplicateAnswer
			}
		}
		if wager != nil && (*wager < 0 || *wager > g.Players[player].Score) {
			return ErrInvalidWager
		}

		q := g.Questions[question]
		answer := answerDoc{
			QuestionID:  questionID,
			AnswerIndex: answerIndex,
			TextAnswer:  textAnswer,
			Wager:       wager,
			WagerSlot:   wagerSlot,
			PlayerRound: playerRound,
			AnsweredAt:  nowUTC(),
		}

		if correct := scoreAnswer(q, answerIndex, textAnswer); correct != nil {
			answer.IsCorrect = correct
			stake := q.Points
			if wager != nil {
				stake = *wager
			}
			switch {
			case *correct:
				answer.PointsDelta = stake
			case wager != nil:
				// Wrong wagers cost the stake; wrong fixed-point answers are free.
				answer.PointsDelta = -stake
			}
			g.Players[player].Score += answer.PointsDelta
		}

		g.Players[player].Answers = append(g.Players[player].Answers, answer)
		return nil
	}, nil)
	if err != nil {
		return "", err
	}
	return code, nil
}

// scoreAnswer returns nil when the submission cannot be scored against the
// question (no choice index and no accepted text answers).
func scoreAnswer(q questionDoc, answerIndex *int, textAnswer *string) *bool {
	if answerIndex != nil && q.CorrectIndex != nil {
		correct := *answerIndex == *q.CorrectIndex
		return &correct
	}
	if textAnswer != nil && len(q.AcceptedAnswers) > 0 {
		given := strings.TrimSpace(*textAnswer)
		for _, accepted := range q.AcceptedAnswers {
			if strings.EqualFold(given, strings.TrimSpace(accepted)) {
				correct := true
				return &correct
			}
		}
		correct := false
		return &correct
	}
	return nil
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// newJoinCode returns a 4-letter game code. I and O are excluded to keep
// codes unambiguous when read aloud.
func newJoinCode() string {
	b := make([]byte, 4)
	rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}

func newHostKey() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
