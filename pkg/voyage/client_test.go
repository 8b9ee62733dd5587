package voyage_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"conversational-task-manager/pkg/voyage"
)

func TestVoyageClient(t *testing.T) {
	var lastReq voyage.EmbedRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-voyage-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"invalid key","type":"auth"}}`))
			return
		}

		if err := json.NewDecoder(r.Body).Decode(&lastReq); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if len(lastReq.Input) > 0 && lastReq.Input[0] == "cause_500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		// Reply in reverse order to exercise index mapping.
		resp := voyage.EmbedResponse{}
		for i := len(lastReq.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, voyage.EmbeddingData{
				Embedding: []float32{float32(i), 0.2, 0.3},
				Index:     i,
			})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	client, err := voyage.New("test-voyage-key")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	client.WithBaseURL(ts.URL).WithModel("custom-model")

	t.Run("Embed documents keeps input order", func(t *testing.T) {
		emb, err := client.Embed(context.Background(), []string{"a", "b"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(emb) != 2 || emb[0][0] != 0 || emb[1][0] != 1 {
			t.Fatalf("unexpected embeddings: %v", emb)
		}
		if lastReq.Model != "custom-model" || lastReq.InputType != voyage.InputTypeDocument {
			t.Errorf("unexpected request %+v", lastReq)
		}
	})

	t.Run("EmbedQuery", func(t *testing.T) {
		vec, err := client.EmbedQuery(context.Background(), "groceries")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(vec) != 3 {
			t.Fatalf("expected 3 dims, got %d", len(vec))
		}
		if lastReq.InputType != voyage.InputTypeQuery {
			t.Errorf("input_type = %q", lastReq.InputType)
		}
	})

	t.Run("Server error", func(t *testing.T) {
		if _, err := client.Embed(context.Background(), []string{"cause_500"}); err == nil {
			t.Fatalf("expected error from 500 response")
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		badClient, _ := voyage.New("bad-key")
		badClient.WithBaseURL(ts.URL)
		_, err := badClient.Embed(context.Background(), []string{"Hello world"})
		if err == nil || !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "invalid key") {
			t.Fatalf("expected 401 error with message, got %v", err)
		}
	})

	t.Run("Empty input", func(t *testing.T) {
		if _, err := client.Embed(context.Background(), nil); err == nil {
			t.Fatalf("expected error for empty input")
		}
	})

	t.Run("Missing key", func(t *testing.T) {
		if _, err := voyage.New(""); err == nil {
			t.Fatalf("expected error for empty api key")
		}
	})
}
