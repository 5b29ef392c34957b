package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/logging"
	"github.com/lgbarn/movehint-go/internal/store"
	"github.com/lgbarn/movehint-go/internal/testutil"
)

func TestNewServer(t *testing.T) {
	cfg := config.NewConfigBuilder().WithServer("127.0.0.1", 9123).WithServerMode("test").Build()
	srv := newServer(cfg, store.NewMemoryStore(), logging.Nop())
	testutil.AssertEqual(t, srv.Addr, "127.0.0.1:9123")

	body := `{"board":"` + testutil.InitialBoard + `","square":"e2"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/moves", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	testutil.AssertEqual(t, w.Code, http.StatusOK)
	testutil.AssertContains(t, w.Body.String(), `"moves":["e3","e4"]`)
}

func TestNewServer_SessionDefaults(t *testing.T) {
	cfg := config.NewConfigBuilder().
		WithServerMode("test").
		WithSession(config.Session{ChainID: "chain-9", Owner: "dave", PlayerColour: "white"}).
		Build()
	repo := store.NewMemoryStore()
	srv := newServer(cfg, repo, logging.Nop())

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)
		return w
	}

	w := post("/v1/sessions", `{"board":"`+testutil.InitialBoard+`"}`)
	testutil.AssertEqual(t, w.Code, http.StatusCreated)
	testutil.AssertContains(t, w.Body.String(), `"chain_id":"chain-9"`)
	testutil.AssertContains(t, w.Body.String(), `"owner":"dave"`)

	var created struct {
		ID string `json:"id"`
	}
	testutil.AssertNoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	post("/v1/sessions/"+created.ID+"/click", `{"square":"g1"}`)
	w = post("/v1/sessions/"+created.ID+"/click", `{"square":"f3"}`)
	testutil.AssertContains(t, w.Body.String(), `"outcome":"submitted"`)

	records, err := repo.List(context.Background(), "chain-9")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(records), 1)
	testutil.AssertEqual(t, records[0].Player, "dave")
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := config.NewConfigBuilder().WithServer("127.0.0.1", 0).WithServerMode("test").Build()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, logging.Nop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		testutil.AssertNoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRun_BadBackend(t *testing.T) {
	cfg := config.NewConfigBuilder().WithStore("redis", "").Build()
	err := run(context.Background(), cfg, logging.Nop())
	testutil.AssertError(t, err)
}
