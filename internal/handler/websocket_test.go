package handler

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/gommon/log"
	"github.com/zizouhuweidi/trivia/internal/config"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/quiz"
	"github.com/zizouhuweidi/trivia/internal/repository/memory"
	"github.com/zizouhuweidi/trivia/internal/service"
	ws "github.com/zizouhuweidi/trivia/internal/websocket"
)

func TestQuestionFeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	store := memory.NewSeededStore()
	logger := log.New("test")
	logger.SetOutput(io.Discard)
	svc := service.NewTriviaService(store.Categories(), store.Questions(), quiz.NewPickerWithSource(rand.NewSource(1)), logger).
		WithPublisher(hub)

	e := NewServer(&config.Config{LogLevel: "off", CORSAllowOrigins: []string{"*"}})
	e.Logger.SetOutput(io.Discard)
	NewQuestionHandler(svc).Register(e)
	NewWebSocketHandler(hub).Register(e)

	srv := httptest.NewServer(e)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/questions"

	if _, resp, err := websocket.DefaultDialer.Dial(wsURL+"?category=abc", nil); err == nil {
		t.Fatal("dial with bad category succeeded")
	} else if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("dial with bad category: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?category=3", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Only the Geography question reaches a category 3 subscriber.
	for _, body := range []string{
		`{"question":"Who painted Guernica?","answer":"Picasso","difficulty":2,"category":2}`,
		`{"question":"What is the capital of Australia?","answer":"Canberra","difficulty":2,"category":3}`,
	} {
		resp, err := http.Post(srv.URL+"/questions", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("create status = %d", resp.StatusCode)
		}
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event domain.QuestionEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	if event.Type != domain.EventQuestionCreated || event.Question == nil || event.Question.Answer != "Canberra" {
		t.Fatalf("event = %+v", event)
	}
}
