package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_trimsSlash(t *testing.T) {
	c := New("http://localhost:5000/")
	if c.BaseURL != "http://localhost:5000" {
		t.Errorf("BaseURL: %q", c.BaseURL)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok","version":"dev","commit":"unknown"}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if got["status"] != "ok" {
		t.Fatalf("status: %v", got)
	}
}

func TestCreateAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/agents" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var req CreateAgentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Name != "Payroll" || req.Type != "payroll" || req.Budget != 500 {
			t.Errorf("body: %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Agent{ID: 7, Name: req.Name, Type: req.Type, Status: "active", Budget: req.Budget})
	}))
	defer srv.Close()

	a, err := New(srv.URL).CreateAgent(context.Background(), CreateAgentRequest{Name: "Payroll", Type: "payroll", Budget: 500})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	if a.ID != 7 || a.Status != "active" {
		t.Fatalf("agent: %+v", a)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"agent not found"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).StopAgent(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error from 404")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "api PUT /api/agents/42/stop: agent not found" {
		t.Fatalf("message: %q", err.Error())
	}
}

func TestAPIError_noBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Metrics(context.Background())
	if err == nil || err.Error() != "api GET /api/metrics: status 502" {
		t.Fatalf("unexpected error: %v", err)
	}
	if IsNotFound(err) {
		t.Fatal("502 is not a not-found error")
	}
}

func TestListPaths(t *testing.T) {
	tests := []struct {
		name string
		call func(c *Client) error
		want string
	}{
		{"all transactions", func(c *Client) error { _, err := c.ListTransactions(context.Background(), 0); return err }, "/api/transactions"},
		{"agent transactions", func(c *Client) error { _, err := c.ListTransactions(context.Background(), 3); return err }, "/api/agents/3/transactions"},
		{"activities default", func(c *Client) error { _, err := c.ListActivities(context.Background(), 0); return err }, "/api/activities"},
		{"activities limit", func(c *Client) error { _, err := c.ListActivities(context.Background(), 5); return err }, "/api/activities?limit=5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.RequestURI()
				w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			if err := tt.call(New(srv.URL)); err != nil {
				t.Fatalf("call: %v", err)
			}
			if got != tt.want {
				t.Fatalf("path: got %q want %q", got, tt.want)
			}
		})
	}
}

func TestConversation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/conversation/message", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["sessionId"] != "s 1" || body["message"] != "hello" {
			t.Errorf("body: %v", body)
		}
		w.Write([]byte(`{"success":true,"response":"hi there","sessionId":"s 1"}`))
	})
	mux.HandleFunc("GET /api/conversation/{id}/history", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "s 1" {
			t.Errorf("session: %q", r.PathValue("id"))
		}
		w.Write([]byte(`{"success":true,"history":[{"role":"user","content":"hello"},{"role":"assistant","content":"hi there"}]}`))
	})
	mux.HandleFunc("DELETE /api/conversation/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"cleared":true}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	reply, err := c.Chat(ctx, "s 1", "hello")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Response != "hi there" {
		t.Fatalf("reply: %+v", reply)
	}

	hist, err := c.History(ctx, "s 1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 || hist[1].Role != "assistant" {
		t.Fatalf("history: %+v", hist)
	}

	cleared, err := c.ClearHistory(ctx, "s 1")
	if err != nil || !cleared {
		t.Fatalf("ClearHistory: %v %v", cleared, err)
	}
}
