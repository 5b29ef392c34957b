package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/logging"
	"github.com/lgbarn/movehint-go/internal/store"
	"github.com/lgbarn/movehint-go/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, engineCfg config.Engine) *gin.Engine {
	t.Helper()
	repo := store.NewMemoryStore()
	t.Cleanup(func() { _ = repo.Close() })
	return NewRouter(Deps{Store: repo, Engine: engineCfg, Log: logging.Nop()})
}

// do sends body as JSON and decodes the response into a generic map.
func do(t *testing.T, r http.Handler, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var got map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding %s: %v", w.Body.String(), err)
	}
	return w.Code, got
}

func labelsOf(values ...string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, config.Engine{})
	code, got := do(t, r, http.MethodGet, "/healthz", nil)
	testutil.AssertEqual(t, code, http.StatusOK)
	testutil.AssertEqual(t, got["status"], "ok")
}

func TestMoves(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]string
		engine    config.Engine
		wantCode  int
		wantMoves []interface{}
		wantErr   string
	}{
		{
			name:      "knight",
			body:      map[string]string{"board": testutil.InitialBoard, "square": "b1"},
			wantCode:  http.StatusOK,
			wantMoves: labelsOf("a3", "c3"),
		},
		{
			name:      "castling from board string",
			body:      map[string]string{"board": testutil.CastlingBoard, "square": "e1"},
			wantCode:  http.StatusOK,
			wantMoves: labelsOf("c1", "d1", "f1", "g1", "d2", "e2", "f2"),
		},
		{
			name:      "en passant from board string",
			body:      map[string]string{"board": testutil.EnPassantBoard, "square": "e5"},
			wantCode:  http.StatusOK,
			wantMoves: labelsOf("d6", "e6"),
		},
		{
			name:      "blocked piece",
			body:      map[string]string{"board": testutil.InitialBoard, "square": "a1"},
			wantCode:  http.StatusOK,
			wantMoves: labelsOf(),
		},
		{
			name:      "safe king steps",
			body:      map[string]string{"board": "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1", "square": "e1"},
			engine:    config.Engine{SafeKingSteps: true},
			wantCode:  http.StatusOK,
			wantMoves: labelsOf("d2", "f1"),
		},
		{
			name:     "bad board",
			body:     map[string]string{"board": "8/8 w", "square": "e1"},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid board notation",
		},
		{
			name:     "bad square",
			body:     map[string]string{"board": testutil.InitialBoard, "square": "z9"},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid square",
		},
		{
			name:     "empty square",
			body:     map[string]string{"board": testutil.InitialBoard, "square": "e4"},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid piece",
		},
		{
			name:     "missing field",
			body:     map[string]string{"board": testutil.InitialBoard},
			wantCode: http.StatusBadRequest,
			wantErr:  "Square",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, tt.engine)
			code, got := do(t, r, http.MethodPost, "/v1/moves", tt.body)
			testutil.AssertEqual(t, code, tt.wantCode)
			if tt.wantErr != "" {
				msg, _ := got["error"].(string)
				testutil.AssertContains(t, msg, tt.wantErr)
				return
			}
			testutil.AssertEqual(t, got["square"], tt.body["square"])
			testutil.AssertEqual(t, got["moves"], tt.wantMoves)
		})
	}
}

func TestHints(t *testing.T) {
	r := newTestRouter(t, config.Engine{})
	code, got := do(t, r, http.MethodPost, "/v1/hints", map[string]string{
		"board": "4k3/8/8/8/8/8/4P3/4K3 b - - 0 1",
	})
	testutil.AssertEqual(t, code, http.StatusOK)
	testutil.AssertEqual(t, got["side"], "black")
	testutil.AssertEqual(t, got["squares"], labelsOf("e8"))
	testutil.AssertEqual(t, got["count"], float64(5))
	testutil.AssertEqual(t, got["check_consistent"], true)
}

func TestHints_CheckMarker(t *testing.T) {
	tests := []struct {
		name           string
		board          string
		wantMarker     interface{}
		wantConsistent bool
	}{
		{"no marker", testutil.InitialBoard, nil, true},
		{"marker agrees", testutil.CheckedBoard, "wK", true},
		{"marker without an attack", testutil.InitialBoard + " ;wK", "wK", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, config.Engine{})
			code, got := do(t, r, http.MethodPost, "/v1/hints", map[string]string{"board": tt.board})
			testutil.AssertEqual(t, code, http.StatusOK)
			testutil.AssertEqual(t, got["check_marker"], tt.wantMarker)
			testutil.AssertEqual(t, got["check_consistent"], tt.wantConsistent)
		})
	}
}

func TestAttacked(t *testing.T) {
	tests := []struct {
		name          string
		body          map[string]string
		wantCode      int
		wantAttacked  bool
		wantAttackers []interface{}
	}{
		{
			name:          "defended by pawns",
			body:          map[string]string{"board": testutil.InitialBoard, "square": "e3", "by": "white"},
			wantCode:      http.StatusOK,
			wantAttacked:  true,
			wantAttackers: labelsOf("d2", "f2"),
		},
		{
			name:          "not attacked",
			body:          map[string]string{"board": testutil.InitialBoard, "square": "e4", "by": "black"},
			wantCode:      http.StatusOK,
			wantAttacked:  false,
			wantAttackers: labelsOf(),
		},
		{
			name:     "bad colour",
			body:     map[string]string{"board": testutil.InitialBoard, "square": "e4", "by": "red"},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, config.Engine{})
			code, got := do(t, r, http.MethodPost, "/v1/attacked", tt.body)
			testutil.AssertEqual(t, code, tt.wantCode)
			if code != http.StatusOK {
				return
			}
			testutil.AssertEqual(t, got["attacked"], tt.wantAttacked)
			testutil.AssertEqual(t, got["attackers"], tt.wantAttackers)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
		want     map[string]interface{}
	}{
		{
			name:     "quiet move",
			body:     map[string]string{"board": testutil.InitialBoard, "from": "g1", "to": "f3"},
			wantCode: http.StatusOK,
			want:     map[string]interface{}{"kind": "move", "piece": "wN", "from": "g1", "to": "f3", "captured_on": "-"},
		},
		{
			name:     "en passant",
			body:     map[string]string{"board": testutil.EnPassantBoard, "from": "e5", "to": "d6"},
			wantCode: http.StatusOK,
			want:     map[string]interface{}{"kind": "en_passant", "piece": "wP", "from": "e5", "to": "d6", "captured": "bP", "captured_on": "d5"},
		},
		{
			name:     "castle",
			body:     map[string]string{"board": testutil.CastlingBoard, "from": "e1", "to": "c1"},
			wantCode: http.StatusOK,
			want:     map[string]interface{}{"kind": "castle", "piece": "wK", "from": "e1", "to": "c1", "captured_on": "-"},
		},
		{
			name:     "promotion with choice",
			body:     map[string]string{"board": "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "from": "a7", "to": "a8", "promotion": "N"},
			wantCode: http.StatusOK,
			want:     map[string]interface{}{"kind": "promotion", "piece": "wP", "from": "a7", "to": "a8", "captured_on": "-", "promoted": "wN"},
		},
		{
			name:     "illegal",
			body:     map[string]string{"board": testutil.InitialBoard, "from": "e2", "to": "e5"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "bad promotion",
			body:     map[string]string{"board": "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "from": "a7", "to": "a8", "promotion": "K"},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, config.Engine{})
			code, got := do(t, r, http.MethodPost, "/v1/classify", tt.body)
			testutil.AssertEqual(t, code, tt.wantCode)
			if tt.want != nil {
				testutil.AssertEqual(t, got, tt.want)
			}
		})
	}
}

func TestGameMoves(t *testing.T) {
	r := newTestRouter(t, config.Engine{})

	code, got := do(t, r, http.MethodGet, "/v1/games/g1/moves", nil)
	testutil.AssertEqual(t, code, http.StatusNotFound)
	testutil.AssertContains(t, got["error"].(string), "game not found")

	code, got = do(t, r, http.MethodPost, "/v1/games/g1/moves", map[string]string{
		"board": testutil.InitialBoard, "from": "e2", "to": "e4",
	})
	testutil.AssertEqual(t, code, http.StatusCreated)
	board := got["board"].(string)
	testutil.AssertEqual(t, board, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	record := got["record"].(map[string]interface{})
	testutil.AssertEqual(t, record["ply"], float64(1))
	testutil.AssertEqual(t, record["kind"], "move")

	code, got = do(t, r, http.MethodPost, "/v1/games/g1/moves", map[string]string{
		"board": board, "from": "d7", "to": "d5",
	})
	testutil.AssertEqual(t, code, http.StatusCreated)
	board = got["board"].(string)

	code, got = do(t, r, http.MethodPost, "/v1/games/g1/moves", map[string]string{
		"board": board, "from": "e4", "to": "d5",
	})
	testutil.AssertEqual(t, code, http.StatusCreated)
	testutil.AssertEqual(t, got["record"].(map[string]interface{})["captured"], "bP")

	code, got = do(t, r, http.MethodGet, "/v1/games/g1/moves", nil)
	testutil.AssertEqual(t, code, http.StatusOK)
	testutil.AssertEqual(t, len(got["moves"].([]interface{})), 3)
	pairs := got["pairs"].([]interface{})
	testutil.AssertEqual(t, len(pairs), 2)
	pair := pairs[0].(map[string]interface{})
	testutil.AssertEqual(t, pair["white"].(map[string]interface{})["to"], "e4")
	testutil.AssertEqual(t, pair["black"].(map[string]interface{})["to"], "d5")
	testutil.AssertEqual(t, got["captured_pieces"], labelsOf("bP"))
}

func TestGameMoves_Errors(t *testing.T) {
	r := newTestRouter(t, config.Engine{})
	promotion := "4k3/P7/8/8/8/8/8/4K3 w - - 0 1"

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
	}{
		{"illegal", map[string]string{"board": testutil.InitialBoard, "from": "e2", "to": "d3"}, http.StatusUnprocessableEntity},
		{"promotion needs a choice", map[string]string{"board": promotion, "from": "a7", "to": "a8"}, http.StatusUnprocessableEntity},
		{"wrong colour promotion letter", map[string]string{"board": promotion, "from": "a7", "to": "a8", "promotion": "x"}, http.StatusBadRequest},
		{"bad board", map[string]string{"board": "x", "from": "a7", "to": "a8"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, got := do(t, r, http.MethodPost, "/v1/games/g2/moves", tt.body)
			testutil.AssertEqual(t, code, tt.wantCode)
			testutil.AssertNotNil(t, got["error"])
		})
	}

	code, _ := do(t, r, http.MethodGet, "/v1/games/g2/moves", nil)
	testutil.AssertEqual(t, code, http.StatusNotFound, "failed moves are not recorded")
}

func TestNewRouter_WithoutStore(t *testing.T) {
	r := NewRouter(Deps{Log: logging.Nop()})
	req := httptest.NewRequest(http.MethodGet, "/v1/games/g1/moves", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	testutil.AssertEqual(t, w.Code, http.StatusNotFound)
}
