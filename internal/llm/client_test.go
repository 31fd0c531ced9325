package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatReply(content string) ChatResponse {
	return ChatResponse{
		ID:     "test-id",
		Object: "chat.completion",
		Choices: []ChatChoice{
			{
				Index:        0,
				Message:      Message{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8081", "test-key", "test-model", 0.2)
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8081" {
		t.Errorf("NewClient() BaseURL = %v, want http://localhost:8081", client.BaseURL)
	}
	if client.APIKey != "test-key" {
		t.Errorf("NewClient() APIKey = %v, want test-key", client.APIKey)
	}
	if client.Model != "test-model" {
		t.Errorf("NewClient() Model = %v, want test-model", client.Model)
	}
	if client.Temperature != 0.2 {
		t.Errorf("NewClient() Temperature = %v, want 0.2", client.Temperature)
	}
	if client.client == nil {
		t.Error("NewClient() client should not be nil")
	}
}

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name       string
		prompt     string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantReply  string
		wantErr    bool
	}{
		{
			name:   "successful completion",
			prompt: "Based on the following context",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}
				if !strings.Contains(r.Header.Get("Authorization"), "Bearer") {
					t.Error("missing Authorization header")
				}

				var req ChatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
					t.Errorf("expected one user message, got %+v", req.Messages)
				}
				if req.Temperature == nil || *req.Temperature != 0 {
					t.Errorf("expected temperature 0 to be sent, got %v", req.Temperature)
				}

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(chatReply("  Paris.  "))
			},
			wantReply: "  Paris.  ",
		},
		{
			name:   "no choices returned",
			prompt: "Hello",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(ChatResponse{ID: "test-id", Choices: []ChatChoice{}})
			},
			wantErr: true,
		},
		{
			name:   "server error",
			prompt: "Hello",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			},
			wantErr: true,
		},
		{
			name:   "malformed body",
			prompt: "Hello",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "test-model", 0)
			reply, err := client.Complete(context.Background(), tt.prompt)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Complete() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Complete() unexpected error: %v", err)
				return
			}

			if reply != tt.wantReply {
				t.Errorf("Complete() reply = %q, want %q", reply, tt.wantReply)
			}
		})
	}
}

func TestClient_ChatWithMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		if len(req.Messages) != 2 {
			t.Errorf("expected 2 messages, got %d", len(req.Messages))
		}
		if req.Model != "custom-model" {
			t.Errorf("expected model custom-model, got %s", req.Model)
		}
		if req.MaxTokens != 100 {
			t.Errorf("expected max_tokens 100, got %d", req.MaxTokens)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatReply("Response"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model", 0)

	messages := []Message{
		{Role: "system", Content: "You are a helpful assistant"},
		{Role: "user", Content: "Hello"},
	}

	params := ChatParams{
		Model:       "custom-model",
		MaxTokens:   100,
		Temperature: 0.7,
	}

	reply, err := client.ChatWithMessages(context.Background(), messages, params)
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}

	if reply != "Response" {
		t.Errorf("ChatWithMessages() reply = %v, want Response", reply)
	}
}

func TestClient_ChatWithMessages_DefaultModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %s", req.Model)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("expected no Authorization header without an API key")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatReply("Response"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "test-model", 0)

	reply, err := client.ChatWithMessages(context.Background(), []Message{{Role: "user", Content: "Hello"}}, ChatParams{})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}

	if reply != "Response" {
		t.Errorf("ChatWithMessages() reply = %v, want Response", reply)
	}
}

func TestClient_ChatWithMessages_NoMessages(t *testing.T) {
	client := NewClient("http://localhost:1", "", "test-model", 0)
	if _, err := client.ChatWithMessages(context.Background(), nil, ChatParams{}); err == nil {
		t.Error("ChatWithMessages() with no messages should return error")
	}
}
