package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vilain-Petit-Canard/API-Films/internal/models"
	"github.com/vilain-Petit-Canard/API-Films/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	t     *testing.T
	h     http.Handler
	store *repository.MemoryStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := repository.NewMemoryStore()
	h := New(Deps{
		Store:      store,
		Logger:     zerolog.Nop(),
		BcryptCost: bcrypt.MinCost,
	})
	return &testAPI{t: t, h: h, store: store}
}

func (a *testAPI) do(method, target, body string) (int, any) {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)

	var out any
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (a *testAPI) object(method, target, body string) (int, map[string]any) {
	a.t.Helper()
	code, out := a.do(method, target, body)
	obj, ok := out.(map[string]any)
	require.True(a.t, ok, "want a JSON object, got %v", out)
	return code, obj
}

func titles(t *testing.T, out any) []string {
	t.Helper()
	items, ok := out.([]any)
	require.True(t, ok, "want a JSON array, got %v", out)
	var got []string
	for _, it := range items {
		got = append(got, it.(map[string]any)["titre"].(string))
	}
	return got
}

func TestFilmsList(t *testing.T) {
	api := newTestAPI(t)
	for _, body := range []string{
		`{"titre":"Casablanca","annee":1942}`,
		`{"titre":"Alien","annee":1979}`,
		`{"titre":"Brazil","annee":1985}`,
		`{"titre":"Dune","annee":2021}`,
	} {
		code, _ := api.object(http.MethodPost, "/api/films", body)
		require.Equal(t, http.StatusOK, code)
	}

	code, out := api.do(http.MethodGet, "/api/films", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Alien", "Brazil", "Casablanca"}, titles(t, out))

	_, out = api.do(http.MethodGet, "/api/films?ordre=desc&limite=2", "")
	assert.Equal(t, []string{"Dune", "Casablanca"}, titles(t, out))

	_, out = api.do(http.MethodGet, "/api/films?tri=annee&ordre=desc&limite=10", "")
	assert.Equal(t, []string{"Dune", "Brazil", "Alien", "Casablanca"}, titles(t, out))

	_, out = api.do(http.MethodGet, "/api/films?limite=abc", "")
	assert.Len(t, out, 3, "unparsable limit falls back to the default")
}

func TestFilmsLifecycle(t *testing.T) {
	api := newTestAPI(t)

	code, created := api.object(http.MethodPost, "/api/films", `{"titre":"Alien","_id":"forged"}`)
	require.Equal(t, http.StatusOK, code)
	id := created["id"].(string)
	assert.Equal(t, "film "+id+" added", created["message"])
	assert.NotContains(t, created, "data")

	code, doc := api.object(http.MethodGet, "/api/films/"+id, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"titre": "Alien"}, doc)

	code, body := api.object(http.MethodPut, "/api/films/"+id, `{"annee":1979}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "film "+id+" updated", body["message"])

	_, doc = api.object(http.MethodGet, "/api/films/"+id, "")
	assert.Equal(t, map[string]any{"titre": "Alien", "annee": float64(1979)}, doc)

	code, body = api.object(http.MethodDelete, "/api/films/"+id, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "film "+id+" deleted", body["message"])

	code, body = api.object(http.MethodGet, "/api/films/"+id, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "film not found", body["message"])
}

func TestUpdateUnknownID(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.object(http.MethodPut, "/api/films/missing", `{"titre":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "film not found", body["message"])

	code, body = api.object(http.MethodPut, "/donnees/missing", `{"user":"x"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "donnee missing updated", body["message"])
	assert.Zero(t, api.store.Count("donnees"))
}

func TestUpdateRejectsNonObjectBody(t *testing.T) {
	api := newTestAPI(t)
	code, _ := api.object(http.MethodPut, "/donnees/x", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDonnees(t *testing.T) {
	api := newTestAPI(t)

	for _, body := range []string{`{}`, `{"user":""}`, `{"user":null,"n":1}`} {
		code, out := api.object(http.MethodPost, "/donnees", body)
		assert.Equal(t, http.StatusBadRequest, code, body)
		assert.Equal(t, "user field is required", out["message"])
	}
	assert.Zero(t, api.store.Count("donnees"))

	code, created := api.object(http.MethodPost, "/donnees", `{"user":"bob","score":3,"_id":"forged"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, map[string]any{"user": "bob", "score": float64(3)}, created["data"], "the echo matches what was stored")
	_, _ = api.object(http.MethodPost, "/donnees", `{"user":"ana"}`)
	_, _ = api.object(http.MethodPost, "/donnees", `{"user":"carl"}`)

	users := func(out any) []string {
		var got []string
		for _, it := range out.([]any) {
			got = append(got, it.(map[string]any)["user"].(string))
		}
		return got
	}

	_, out := api.do(http.MethodGet, "/donnees", "")
	assert.Equal(t, []string{"ana", "bob", "carl"}, users(out))

	_, out = api.do(http.MethodGet, "/donnees?order-direction=desc&limit=2&tri=score", "")
	assert.Equal(t, []string{"carl", "bob"}, users(out))

	code, out2 := api.object(http.MethodGet, "/donnees/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "donnee not found", out2["message"])
}

func TestRegistration(t *testing.T) {
	api := newTestAPI(t)

	code, acc := api.object(http.MethodPost, "/utilisateurs/inscription", `{"courriel":"ana@example.com","mdp":"Secret1!"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"courriel": "ana@example.com"}, acc)

	code, body := api.object(http.MethodPost, "/utilisateurs/inscription", `{"courriel":"ana@example.com","mdp":"Other2?x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "email already exists", body["message"])
	assert.Equal(t, 1, api.store.Count(models.UsersCollection))

	for _, payload := range []string{
		`{"courriel":"bob@example.com","mdp":"weakpass"}`,
		`{"courriel":"bob@example.com","mdp":"Sh0rt!"}`,
		`{"courriel":"not-an-email","mdp":"Secret1!"}`,
		`{"courriel":"bob@example.com"}`,
		`not json`,
	} {
		code, body := api.object(http.MethodPost, "/utilisateurs/inscription", payload)
		assert.Equal(t, http.StatusBadRequest, code, payload)
		assert.Equal(t, "data non-conforming", body["message"], payload)
	}
	assert.Equal(t, 1, api.store.Count(models.UsersCollection))
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	code, _ := api.object(http.MethodPost, "/utilisateurs/inscription", `{"courriel":"ana@example.com","mdp":"Secret1!"}`)
	require.Equal(t, http.StatusOK, code)

	code, acc := api.object(http.MethodPost, "/utilisateurs/connexion", `{"courriel":"ana@example.com","mdp":"Secret1!"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ana@example.com", acc["courriel"])
	assert.NotContains(t, acc, "mdp")

	code, body := api.object(http.MethodPost, "/utilisateurs/connexion", `{"courriel":"ana@example.com","mdp":"Wrong1!x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid password", body["message"])

	code, body = api.object(http.MethodPost, "/utilisateurs/connexion", `{"courriel":"bob@example.com","mdp":"Secret1!"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid email", body["message"])
}

func TestFallback(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.object(http.MethodGet, "/nowhere/else?x=1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found", body["message"])
	assert.Equal(t, "/nowhere/else?x=1", body["path"])

	code, body = api.object(http.MethodPatch, "/api/films/abc", `{}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "/api/films/abc", body["path"])

	code, _ = api.object(http.MethodGet, "/utilisateurs/connexion", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	code, body := api.object(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestLargeIntegersAreStoredExactly(t *testing.T) {
	api := newTestAPI(t)
	const big = "9007199254740993"

	code, created := api.object(http.MethodPost, "/donnees", `{"user":"ana","compteur":`+big+`}`)
	require.Equal(t, http.StatusCreated, code)
	id := created["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/donnees/"+id, nil)
	rec := httptest.NewRecorder()
	api.h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"compteur":`+big)
}

func TestSwaggerDocs(t *testing.T) {
	api := newTestAPI(t)

	code, doc := api.object(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, code)
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	for _, p := range []string{"/api/films", "/api/films/{id}", "/donnees", "/donnees/{id}", "/utilisateurs/inscription", "/utilisateurs/connexion", "/health"} {
		assert.Contains(t, paths, p)
	}
}
