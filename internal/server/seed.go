package server

import (
	"context"
	"errors"
	"log/slog"
)

// SeedDemo creates a demo game with code DEMO on an empty database so the
// service is playable out of the box. Idempotent: does nothing once any
// game exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, store *GameStore) error {
	n, err := store.gameCount(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	two := 2
	one := 1
	questions := []QuestionInput{
		{
			Prompt:       "Which planet is known as the Red Planet?",
			Options:      []string{"Venus", "Jupiter", "Mars", "Mercury"},
			CorrectIndex: &two,
			Points:       100,
			Round:        1,
		},
		{
			Prompt:       "How many strings does a standard violin have?",
			Options:      []string{"Four", "Five", "Six", "Seven"},
			CorrectIndex: nil,
			AcceptedAnswers: []string{
				"four", "4",
			},
			Points: 100,
			Round:  1,
		},
		{
			Prompt:       "Which ocean is the largest?",
			Options:      []string{"Atlantic", "Pacific", "Indian", "Arctic"},
			CorrectIndex: &one,
			Points:       200,
			Round:        2,
			WagerSlot:    "final",
		},
	}

	created, err := store.createGame(ctx, "Demo Trivia Night", "TriviYay", questions, "DEMO")
	if errors.Is(err, errCodeTaken) {
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("demo game seeded", "code", created.Code, "host_key", created.HostKey)
	return nil
}
