package websocket

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizcraft/internal/models"
	"quizcraft/internal/session"
)

type staticLoader struct {
	quiz *models.QuizPayload
}

func (l *staticLoader) GetQuiz(quizID string) (*models.QuizPayload, error) {
	if l.quiz == nil || l.quiz.ID != quizID {
		return nil, errors.New("quiz not found")
	}
	return l.quiz, nil
}

func testQuiz() *models.QuizPayload {
	return &models.QuizPayload{
		ID:         "quiz_ws",
		Subject:    "Math",
		Difficulty: models.DifficultyEasy,
		Questions: []models.QuizQuestion{
			{ID: "q1", Prompt: "1+1?", Options: []models.QuizOption{
				{ID: "a", Text: "1"}, {ID: "b", Text: "2"}, {ID: "c", Text: "3"}, {ID: "d", Text: "4"},
			}, CorrectOptionID: "b", Points: 1},
			{ID: "q2", Prompt: "2+2?", Options: []models.QuizOption{
				{ID: "a", Text: "3"}, {ID: "b", Text: "5"}, {ID: "c", Text: "4"}, {ID: "d", Text: "6"},
			}, CorrectOptionID: "c", Points: 1},
		},
		TotalPoints: 2,
	}
}

func dialSession(t *testing.T, quiz *models.QuizPayload) (*websocket.Conn, func()) {
	t.Helper()

	hub := NewHub(&staticLoader{quiz: quiz})
	go hub.Run()

	router := mux.NewRouter()
	router.HandleFunc("/ws/quiz/{quizID}", hub.HandleSession)
	server := httptest.NewServer(router)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/quiz/" + quiz.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg.Type, msg.Data
}

func readState(t *testing.T, conn *websocket.Conn) sessionState {
	t.Helper()
	msgType, data := readMessage(t, conn)
	require.Equal(t, "session_state", msgType)
	var state sessionState
	require.NoError(t, json.Unmarshal(data, &state))
	return state
}

func send(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		require.NoError(t, err)
		raw = encoded
	}
	require.NoError(t, conn.WriteJSON(Message{Type: msgType, Data: raw}))
}

func TestLiveSessionFullPass(t *testing.T) {
	conn, cleanup := dialSession(t, testQuiz())
	defer cleanup()

	state := readState(t, conn)
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, 2, state.Total)
	assert.False(t, state.Completed)
	require.NotNil(t, state.Question)
	assert.Equal(t, "q1", state.Question.ID)
	assert.Empty(t, state.Question.CorrectOptionID, "answers are withheld from the live client")

	send(t, conn, "select_answer", selectAnswerData{QuestionID: "q1", Answer: "b"})
	state = readState(t, conn)
	assert.Equal(t, "b", state.Answer)

	send(t, conn, "next", nil)
	state = readState(t, conn)
	assert.Equal(t, 1, state.Index)
	assert.Equal(t, "q2", state.Question.ID)

	send(t, conn, "select_answer", selectAnswerData{QuestionID: "q2", Answer: "a"})
	readState(t, conn)

	send(t, conn, "next", nil)
	state = readState(t, conn)
	assert.True(t, state.Completed)
	require.NotNil(t, state.Score)
	assert.Equal(t, 1, state.Score.EarnedPoints)
	assert.Equal(t, 2, state.Score.TotalPoints)
	assert.Equal(t, 50, state.Score.Percentage)

	send(t, conn, "restart", nil)
	state = readState(t, conn)
	assert.Equal(t, 0, state.Index)
	assert.False(t, state.Completed)
	assert.Empty(t, state.Answer)
	assert.Nil(t, state.Score)
}

func TestLiveSessionRefusals(t *testing.T) {
	conn, cleanup := dialSession(t, testQuiz())
	defer cleanup()

	readState(t, conn)

	// next without an answer is refused
	send(t, conn, "next", nil)
	msgType, data := readMessage(t, conn)
	require.Equal(t, "error", msgType)
	var errData map[string]string
	require.NoError(t, json.Unmarshal(data, &errData))
	assert.Contains(t, errData["message"], "no answer")

	// previous at the first question is refused
	send(t, conn, "previous", nil)
	msgType, _ = readMessage(t, conn)
	assert.Equal(t, "error", msgType)

	// the session is still usable afterwards
	send(t, conn, "select_answer", selectAnswerData{QuestionID: "q1", Answer: "a"})
	state := readState(t, conn)
	assert.Equal(t, 0, state.Index)
}

func TestLiveSessionUnknownQuiz(t *testing.T) {
	hub := NewHub(&staticLoader{})
	go hub.Run()

	router := mux.NewRouter()
	router.HandleFunc("/ws/quiz/{quizID}", hub.HandleSession)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/quiz/quiz_nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestSendAfterUnregisterDoesNotPanic(t *testing.T) {
	hub := NewHub(&staticLoader{})
	go hub.Run()

	client := NewClient(hub, nil, "quiz_ws", session.New(testQuiz()))
	hub.register <- client
	hub.unregister <- client
	<-client.done

	// The read pump may race one last message against the hub tearing
	// the client down; it must be dropped, not panic.
	client.sendState()
	client.sendError("late")
}
