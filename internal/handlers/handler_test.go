// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable. The
// model service is always a local httptest fake.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"deckpress/internal/ai"
	"deckpress/internal/cache"
	"deckpress/internal/database"
	"deckpress/internal/middleware"
	"deckpress/internal/models"
	"deckpress/internal/render"
	"deckpress/internal/secrets"
	"deckpress/internal/session"
	"deckpress/internal/store"
)

// testCredentialSecret is a fixed 32-byte hex key for sealing test credentials.
const testCredentialSecret = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "deckpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "deckpress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "deck:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// mockModel is a fake OpenAI-compatible service. Tests shape the next reply
// through set(); a non-200 status applies to both endpoints.
type mockModel struct {
	mu       sync.Mutex
	response string
	status   int
	srv      *httptest.Server
}

func newMockModel(t *testing.T) *mockModel {
	t.Helper()
	m := &mockModel{status: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		status := m.status
		m.mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"denied"}}`))
			return
		}
		w.Write([]byte(`{"data":[]}`))
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		status, response := m.status, m.response
		m.mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"denied"}}`))
			return
		}
		out := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": response}},
			},
		}
		json.NewEncoder(w).Encode(out)
	})

	m.srv = httptest.NewServer(mux)
	t.Cleanup(m.srv.Close)
	return m
}

func (m *mockModel) set(response string, status int) {
	m.mu.Lock()
	m.response, m.status = response, status
	m.mu.Unlock()
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	Model         *mockModel
	Box           *secrets.Box
	Sessions      *session.Store
	UserStore     *store.UserStore
	TemplateStore *store.TemplateStore
	LibraryStore  *store.LibraryStore
	ProposalStore *store.ProposalStore
	DeckCache     *cache.DeckCache

	Auth          *Auth
	Templates     *Templates
	Decks         *Decks
	Presentations *Presentations
	Libraries     *Libraries
	Proposals     *Proposals
	Settings      *Settings
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)
	model := newMockModel(t)

	box, err := secrets.NewBox(testCredentialSecret)
	if err != nil {
		t.Fatalf("secrets.NewBox: %v", err)
	}
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	userStore := store.NewUserStore(db)
	templateStore := store.NewTemplateStore(db)
	libraryStore := store.NewLibraryStore(db)
	proposalStore := store.NewProposalStore(db)
	deckCache := cache.NewDeckCache(vk, time.Minute)
	invoker := ai.NewClient(model.srv.URL)

	return &testEnv{
		DB:            db,
		Valkey:        vk,
		Model:         model,
		Box:           box,
		Sessions:      sessions,
		UserStore:     userStore,
		TemplateStore: templateStore,
		LibraryStore:  libraryStore,
		ProposalStore: proposalStore,
		DeckCache:     deckCache,

		Auth:          NewAuth(sessions, userStore),
		Templates:     NewTemplates(templateStore),
		Decks:         NewDecks(userStore, templateStore, libraryStore, invoker, box, deckCache, renderer),
		Presentations: NewPresentations(userStore, libraryStore, invoker, box, deckCache),
		Libraries:     NewLibraries(userStore, libraryStore, templateStore, invoker, box, nil),
		Proposals:     NewProposals(proposalStore, nil),
		Settings:      NewSettings(userStore, invoker, box),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// jsonRequest builds a JSON request, optionally carrying a session.
func jsonRequest(t *testing.T, method, target string, payload any, sess *session.Data) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		req = req.WithContext(ctxWithSession(req.Context(), sess))
	}
	return req
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody decodes a recorded JSON response body.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// testUser creates a fresh account and a completed session for it.
func testUser(t *testing.T, env *testEnv, email string) (*models.User, *session.Data) {
	t.Helper()

	env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	user, err := env.UserStore.Create(email, "correct-horse-battery", "Test User")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})

	return user, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		TwoFADone: true,
	}
}

// giveCredential seals a valid-looking API key into the user's envelope.
func giveCredential(t *testing.T, env *testEnv, userID uuid.UUID) {
	t.Helper()

	envelope, err := env.Box.Seal("sk-test-credential")
	if err != nil {
		t.Fatalf("seal credential: %v", err)
	}
	if err := env.UserStore.SetAPIKeyEnvelope(userID, &envelope); err != nil {
		t.Fatalf("store credential: %v", err)
	}
}

// seedTemplate creates a prompt template owned by the given user.
func seedTemplate(t *testing.T, env *testEnv, name, body string, ownerID uuid.UUID) *models.PromptTemplate {
	t.Helper()

	env.DB.Exec("DELETE FROM prompt_templates WHERE name = $1", name)
	tmpl, err := env.TemplateStore.Create(name, "test template", body, models.CategoryGeneral, ownerID)
	if err != nil {
		t.Fatalf("create template %q: %v", name, err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM prompt_templates WHERE id = $1", tmpl.ID)
	})
	return tmpl
}

// uniqueEmail avoids collisions between parallel test packages sharing a DB.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@deckpress.test", prefix, uuid.NewString()[:8])
}
