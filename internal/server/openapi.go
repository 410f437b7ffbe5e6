package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "TriviYay API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the TriviYay multiplayer trivia game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Creates a game with its questions. Returns the join code and the host key; the key is shown once and only its hash is stored.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(CreatedGame{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createGame)

	// GET /api/games/{code}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}")
	getGame.SetSummary("Look up game")
	getGame.SetDescription("Lobby summary for a join code, shown before joining.")
	getGame.AddRespStructure(GameInfoData{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// GET /api/games/{code}/metadata
	getMetadata, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/metadata")
	getMetadata.SetSummary("Link-preview metadata")
	getMetadata.SetDescription("Social-sharing metadata for a game code, templated from the configured base URL.")
	getMetadata.AddRespStructure(GameMetadata{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getMetadata)

	// POST /api/games/{code}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/join")
	postJoin.SetSummary("Join a game")
	postJoin.SetDescription("Player joins by code with a display name. Returns the player ID used for answer submission.")
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postJoin)

	// GET /api/games/{code}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Public game state: status, current question without its answer, and the leaderboard.")
	getState.AddRespStructure(GameStateData{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// POST /api/games/{code}/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/start")
	postStart.SetSummary("Start game")
	postStart.SetDescription("Moves the game from lobby to active. Requires the X-Host-Key header.")
	postStart.AddRespStructure(StartGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStart)

	// POST /api/games/{code}/advance
	postAdvance, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/advance")
	postAdvance.SetSummary("Advance question")
	postAdvance.SetDescription("Moves to the next question, ending the game after the last one. Requires the X-Host-Key header.")
	postAdvance.AddRespStructure(AdvanceResult{}, openapi.WithHTTPStatus(http.StatusOK))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAdvance)

	// GET /api/games/{code}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of lobby and game updates for one game code.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/simulate-submit-answer
	postSubmit, _ := r.NewOperationContext(http.MethodPost, "/api/simulate-submit-answer")
	postSubmit.SetSummary("Submit answer")
	postSubmit.SetDescription("Submits a player's answer. Requires playerId and questionId; all failures are reported as 400 with an error message.")
	postSubmit.AddReqStructure(SubmitAnswerRequest{})
	postSubmit.AddRespStructure(SubmitAnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postSubmit)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
