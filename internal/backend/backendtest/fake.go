// Package backendtest runs an in-memory HR backend for tests.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"console/internal/backend"
	"console/internal/logging"
)

const Token = "fake-token"

// Call is one request seen by the fake.
type Call struct {
	Method        string
	Path          string
	Authorization string
}

type account struct {
	password string
	role     string
	enabled  []string
}

type Fake struct {
	Server *httptest.Server

	mu       sync.Mutex
	accounts map[string]account
	data     map[string][]backend.Record
	fail     map[string]int
	revoked  bool
	calls    []Call
	nextID   int
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Fake {
	t.Helper()
	f := &Fake{
		accounts: map[string]account{},
		data:     map[string][]backend.Record{},
		fail:     map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("GET /api/v1/{slug}", f.authed(f.list))
	mux.HandleFunc("POST /api/v1/{slug}", f.authed(f.create))
	mux.HandleFunc("PUT /api/v1/{slug}/{id}", f.authed(f.update))
	mux.HandleFunc("DELETE /api/v1/{slug}/{id}", f.authed(f.delete))
	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// Client returns an anonymous client pointed at the fake.
func (f *Fake) Client(t testing.TB) *backend.Client {
	t.Helper()
	c, err := backend.New(f.Server.URL, f.Server.Client(), 0, logging.Discard(), nil)
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	return c
}

func (f *Fake) AddUser(username, password, role string, enabled ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[username] = account{password: password, role: role, enabled: enabled}
}

// Seed appends records to slug, assigning ids to records without one.
func (f *Fake) Seed(slug string, recs ...backend.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range recs {
		if r.ID() == "" {
			r["id"] = f.newID()
		}
		f.data[slug] = append(f.data[slug], r)
	}
}

// Fail makes every request for slug answer with status.
func (f *Fake) Fail(slug string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[slug] = status
}

// Revoke makes every authenticated request answer 401.
func (f *Fake) Revoke() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = true
}

func (f *Fake) Records(slug string) []backend.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.Record(nil), f.data[slug]...)
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *Fake) newID() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func (f *Fake) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, Call{Method: r.Method, Path: r.URL.Path, Authorization: r.Header.Get("Authorization")})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *Fake) authed(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		revoked := f.revoked
		status := f.fail[r.PathValue("slug")]
		f.mu.Unlock()

		if revoked || r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
			return
		}
		if status != 0 {
			writeJSON(w, status, map[string]string{"message": "injected failure"})
			return
		}
		next(w, r, r.PathValue("slug"))
	}
}

func (f *Fake) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
		return
	}
	f.mu.Lock()
	acc, ok := f.accounts[creds.Username]
	f.mu.Unlock()
	if !ok || acc.password != creds.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, backend.LoginResult{
		Token:  Token,
		User:   backend.User{Username: creds.Username, Role: acc.role},
		Tenant: backend.Tenant{EnabledEntities: acc.enabled},
	})
}

func (f *Fake) list(w http.ResponseWriter, _ *http.Request, slug string) {
	f.mu.Lock()
	recs := f.data[slug]
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, recs)
}

func (f *Fake) create(w http.ResponseWriter, r *http.Request, slug string) {
	var rec backend.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
		return
	}
	f.mu.Lock()
	rec["id"] = f.newID()
	f.data[slug] = append(f.data[slug], rec)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}

func (f *Fake) update(w http.ResponseWriter, r *http.Request, slug string) {
	var rec backend.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
		return
	}
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.data[slug] {
		if existing.ID() == id {
			rec["id"] = id
			f.data[slug][i] = rec
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
}

func (f *Fake) delete(w http.ResponseWriter, r *http.Request, slug string) {
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	recs := f.data[slug]
	for i, existing := range recs {
		if existing.ID() == id {
			f.data[slug] = append(recs[:i:i], recs[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
