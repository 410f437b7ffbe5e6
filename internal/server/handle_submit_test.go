package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeSubmitter records SubmitAnswer calls and returns a scripted result.
type fakeSubmitter struct {
	calls []submitCall
	code  string
	err   error
}

type submitCall struct {
	playerID    string
	questionID  string
	answerIndex *int
	textAnswer  *string
	wager       *float64
	wagerSlot   *string
	playerRound *int
}

func (f *fakeSubmitter) SubmitAnswer(_ context.Context, playerID, questionID string, answerIndex *int, textAnswer *string, wager *float64, wagerSlot *string, playerRound *int) (string, error) {
	f.calls = append(f.calls, submitCall{
		playerID:    playerID,
		questionID:  questionID,
		answerIndex: answerIndex,
		textAnswer:  textAnswer,
		wager:       wager,
		wagerSlot:   wagerSlot,
		playerRound: playerRound,
	})
	return f.code, f.err
}

func postSubmit(t *testing.T, fake *fakeSubmitter, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := handleSubmitAnswer(fake, NewBroker())
	req := httptest.NewRequest(http.MethodPost, "/api/simulate-submit-answer", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func checkCORSHeaders(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	want := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
	}
	for name, value := range want {
		if got := rec.Header().Get(name); got != value {
			t.Errorf("%s = %q, want %q", name, got, value)
		}
	}
}

func TestSubmitAnswerMissingIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"missing questionId", `{"playerId":"p1"}`},
		{"missing playerId", `{"questionId":"q1"}`},
		{"empty playerId", `{"playerId":"","questionId":"q1"}`},
		{"null questionId", `{"playerId":"p1","questionId":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSubmitter{}
			rec := postSubmit(t, fake, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding: %v", err)
			}
			if resp.Error != "Missing playerId or questionId" {
				t.Errorf("error = %q, want %q", resp.Error, "Missing playerId or questionId")
			}
			if len(fake.calls) != 0 {
				t.Errorf("mutator called %d times, want 0", len(fake.calls))
			}
			checkCORSHeaders(t, rec)
		})
	}
}

func TestSubmitAnswerMinimal(t *testing.T) {
	fake := &fakeSubmitter{code: "DEMO"}
	rec := postSubmit(t, fake, `{"playerId":"p1","questionId":"q1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"success":true}` {
		t.Errorf("body = %s, want {\"success\":true}", got)
	}
	checkCORSHeaders(t, rec)

	if len(fake.calls) != 1 {
		t.Fatalf("mutator called %d times, want 1", len(fake.calls))
	}
	call := fake.calls[0]
	if call.playerID != "p1" || call.questionID != "q1" {
		t.Errorf("identifiers = (%q, %q), want (p1, q1)", call.playerID, call.questionID)
	}
	if call.answerIndex != nil {
		t.Errorf("answerIndex = %v, want nil", *call.answerIndex)
	}
	if call.textAnswer != nil {
		t.Errorf("textAnswer = %v, want nil", *call.textAnswer)
	}
	if call.wager != nil {
		t.Errorf("wager = %v, want nil", *call.wager)
	}
	if call.wagerSlot != nil {
		t.Errorf("wagerSlot = %v, want nil", *call.wagerSlot)
	}
	if call.playerRound != nil {
		t.Errorf("playerRound = %v, want nil", *call.playerRound)
	}
}

func TestSubmitAnswerAllFields(t *testing.T) {
	fake := &fakeSubmitter{code: "DEMO"}
	rec := postSubmit(t, fake, `{
		"playerId":"p1","questionId":"q1","answerIndex":2,
		"textAnswer":"mars","wager":150,"wagerSlot":"final","playerRound":3
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if len(fake.calls) != 1 {
		t.Fatalf("mutator called %d times, want 1", len(fake.calls))
	}
	call := fake.calls[0]
	if call.answerIndex == nil || *call.answerIndex != 2 {
		t.Errorf("answerIndex = %v, want 2", call.answerIndex)
	}
	if call.textAnswer == nil || *call.textAnswer != "mars" {
		t.Errorf("textAnswer = %v, want mars", call.textAnswer)
	}
	if call.wager == nil || *call.wager != 150 {
		t.Errorf("wager = %v, want 150", call.wager)
	}
	if call.wagerSlot == nil || *call.wagerSlot != "final" {
		t.Errorf("wagerSlot = %v, want final", call.wagerSlot)
	}
	if call.playerRound == nil || *call.playerRound != 3 {
		t.Errorf("playerRound = %v, want 3", call.playerRound)
	}
}

func TestSubmitAnswerMutatorError(t *testing.T) {
	fake := &fakeSubmitter{err: ErrQuestionNotFound}
	rec := postSubmit(t, fake, `{"playerId":"p1","questionId":"nope"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var resp ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Error != "Question not found" {
		t.Errorf("error = %q, want %q", resp.Error, "Question not found")
	}
	checkCORSHeaders(t, rec)
}

func TestSubmitAnswerMutatorErrorWithoutMessage(t *testing.T) {
	fake := &fakeSubmitter{err: errors.New("")}
	rec := postSubmit(t, fake, `{"playerId":"p1","questionId":"q1"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var resp ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Error != "Failed to submit answer" {
		t.Errorf("error = %q, want %q", resp.Error, "Failed to submit answer")
	}
}

func TestSubmitAnswerMalformedBody(t *testing.T) {
	fake := &fakeSubmitter{}
	rec := postSubmit(t, fake, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var resp ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Error == "" {
		t.Error("error message is empty")
	}
	if len(fake.calls) != 0 {
		t.Errorf("mutator called %d times, want 0", len(fake.calls))
	}
	checkCORSHeaders(t, rec)
}

func TestSubmitAnswerPreflight(t *testing.T) {
	h := handleSubmitAnswerPreflight()

	// Body content on OPTIONS is ignored.
	req := httptest.NewRequest(http.MethodOptions, "/api/simulate-submit-answer", strings.NewReader(`{"playerId":"p1"}`))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{}` {
		t.Errorf("body = %s, want {}", got)
	}
	checkCORSHeaders(t, rec)
}
