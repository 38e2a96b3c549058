// Package websocket hosts live quiz-taking sessions. Each connection
// owns exactly one session state machine; nothing is shared between
// connections and nothing survives a disconnect.
package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"quizcraft/internal/models"
	"quizcraft/internal/session"
)

// Message is the envelope exchanged in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins. Adjust this in production!
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// QuizLoader resolves a quiz id to its generated payload.
type QuizLoader interface {
	GetQuiz(quizID string) (*models.QuizPayload, error)
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	loader     QuizLoader
	mu         sync.RWMutex
}

func NewHub(loader QuizLoader) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		loader:     loader,
	}
}

// Run listens on the register and unregister channels and updates the
// hub state accordingly.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			log.Printf("Client %p connected for quiz %s. Active sessions: %d", client, client.quizID, len(h.clients))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// Only done is closed; send stays open so a late
				// sendMessage from the read pump cannot panic.
				close(client.done)
				log.Printf("Client %p disconnected from quiz %s. Active sessions: %d", client, client.quizID, len(h.clients))
			}
			h.mu.Unlock()
		}
	}
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	quizID string

	// sess is touched only from readPump, so no lock is needed.
	sess *session.Session
}

func NewClient(hub *Hub, conn *websocket.Conn, quizID string, sess *session.Session) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
		quizID: quizID,
		sess:   sess,
	}
}

// HandleSession upgrades the connection and starts a fresh session for
// the requested quiz.
func (h *Hub) HandleSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	quizID := vars["quizID"]
	if quizID == "" {
		http.Error(w, "Missing quiz id", http.StatusBadRequest)
		return
	}

	quiz, err := h.loader.GetQuiz(quizID)
	if err != nil {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := NewClient(h, conn, quizID, session.New(quiz))
	h.register <- client

	// Queue the opening state before the read pump starts so the
	// session is not touched from two goroutines.
	client.sendState()

	go client.writePump()
	go client.readPump()
}

// selectAnswerData is the payload of a select_answer message.
type selectAnswerData struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type sessionState struct {
	QuizID    string                   `json:"quizId"`
	Index     int                      `json:"index"`
	Total     int                      `json:"total"`
	Completed bool                     `json:"completed"`
	Question  *models.QuestionView     `json:"question,omitempty"`
	Answer    string                   `json:"answer,omitempty"`
	Score     *models.QuizScoreSummary `json:"score,omitempty"`
}

func (c *Client) handleMessage(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("invalid message")
		return
	}

	var err error
	switch msg.Type {
	case "select_answer":
		var data selectAnswerData
		if jsonErr := json.Unmarshal(msg.Data, &data); jsonErr != nil {
			c.sendError("invalid select_answer data")
			return
		}
		err = c.sess.SelectAnswer(data.QuestionID, data.Answer)
	case "next":
		err = c.sess.Next()
	case "previous":
		err = c.sess.Previous()
	case "restart":
		err = c.sess.Restart()
	default:
		c.sendError("unknown message type " + msg.Type)
		return
	}

	if err != nil {
		c.sendError(err.Error())
		if !refusedTransition(err) {
			log.Printf("Session error for quiz %s: %v", c.quizID, err)
		}
		return
	}

	c.sendState()
}

// refusedTransition marks the expected refusals that need no server
// log line.
func refusedTransition(err error) bool {
	return errors.Is(err, session.ErrUnanswered) ||
		errors.Is(err, session.ErrAtFirstQuestion) ||
		errors.Is(err, session.ErrCompleted) ||
		errors.Is(err, session.ErrNotCompleted)
}

func (c *Client) sendState() {
	state := sessionState{
		QuizID:    c.quizID,
		Index:     c.sess.CurrentIndex(),
		Total:     len(c.sess.Quiz().Questions),
		Completed: c.sess.Completed(),
	}
	if question, ok := c.sess.Current(); ok {
		view := question.ToView(false)
		state.Question = &view
		state.Answer = c.sess.Answers()[question.ID]
	}
	if score, ok := c.sess.ScoreSummary(); ok {
		state.Score = &score
	}

	c.sendMessage("session_state", state)
}

func (c *Client) sendError(message string) {
	c.sendMessage("error", map[string]string{"message": message})
}

func (c *Client) sendMessage(messageType string, data interface{}) {
	rawData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", messageType, err)
		return
	}
	raw, err := json.Marshal(Message{Type: messageType, Data: rawData})
	if err != nil {
		log.Printf("Error marshaling message envelope: %v", err)
		return
	}

	select {
	case <-c.done:
	case c.send <- raw:
	default:
		log.Printf("Send channel full for client %p; unregistering", c)
		c.hub.unregister <- c
	}
}

// readPump continuously reads messages from the WebSocket connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close: %v", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error writing message to client %p: %v", c, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
