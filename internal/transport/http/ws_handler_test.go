package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/domain"
	"quiz-submission-service/internal/infra/memory"
)

func TestWebSocketSubmissionFeed(t *testing.T) {
	feed := app.NewFeed()
	service := app.NewSubmissionService(memory.NewSubmissionStore(), feed, nil, app.DefaultSubmissionOptions())
	router := NewRouter(Services{Submissions: service, Feed: feed}, RouterOptions{AllowedOrigin: "http://localhost:5173"})
	server := httptest.NewServer(router)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/submissions/a"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect subscribed event first.
	_, payload := readNext(conn, t, "subscribed")
	if payload["variant"] != "A" {
		t.Fatalf("expected variant A, got %v", payload["variant"])
	}
	waitForSubscribers(t, feed, domain.VariantA, 1)

	score := 4.0
	pct := 3.2
	in := domain.SubmissionInput{
		UserEmail:       "a@x.com",
		Answers:         []domain.AnswerInput{{QuestionID: "q1", Value: "4", Label: "Agree", Score: &score}},
		TotalScore:      &score,
		PercentageScore: &pct,
	}
	// A submission for another variant must not reach this subscriber.
	if _, err := service.Create(context.Background(), domain.VariantB, in); err != nil {
		t.Fatalf("create B: %v", err)
	}
	created, err := service.Create(context.Background(), domain.VariantA, in)
	if err != nil {
		t.Fatalf("create A: %v", err)
	}

	_, payload = readNext(conn, t, "submission")
	if payload["_id"] != created.ID {
		t.Fatalf("expected submission %s, got %v", created.ID, payload["_id"])
	}
	if payload["userEmail"] != "a@x.com" {
		t.Fatalf("unexpected userEmail %v", payload["userEmail"])
	}

	if err := conn.WriteJSON(map[string]any{"type": "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	readNext(conn, t, "pong")

	if err := conn.WriteJSON(map[string]any{"type": "answer"}); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	_, payload = readNext(conn, t, "error")
	if payload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error payload %v", payload)
	}

	conn.Close()
	waitForSubscribers(t, feed, domain.VariantA, 0)
}

func TestWebSocketRejectsUnknownVariant(t *testing.T) {
	feed := app.NewFeed()
	server := httptest.NewServer(NewRouter(Services{Feed: feed}, RouterOptions{}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws/submissions/z")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	feed := app.NewFeed()
	server := httptest.NewServer(NewRouter(Services{Feed: feed}, RouterOptions{AllowedOrigin: "http://localhost:5173"}))
	defer server.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.example.com")
	u := "ws" + server.URL[len("http"):] + "/ws/submissions/A"
	conn, resp, err := websocket.DefaultDialer.Dial(u, header)
	if err == nil {
		conn.Close()
		t.Fatalf("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func waitForSubscribers(t *testing.T, feed *app.Feed, variant domain.Variant, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if feed.Subscribers(variant) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d subscribers on %s, got %d", want, variant, feed.Subscribers(variant))
}
