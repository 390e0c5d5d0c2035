package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personweb/internal/apiclient"
	"personweb/internal/config"
	"personweb/internal/model"
	"personweb/internal/repository"
)

// fakePersonAPI plays both the Command and the Query API over an in-memory map.
type fakePersonAPI struct {
	mu       sync.Mutex
	persons  map[string]model.Person
	order    []string
	lastBody map[string]any
	lastPath string
}

func newFakePersonAPI(seed ...model.Person) *fakePersonAPI {
	f := &fakePersonAPI{persons: map[string]model.Person{}}
	for _, p := range seed {
		f.persons[p.ID] = p
		f.order = append(f.order, p.ID)
	}
	return f
}

func (f *fakePersonAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastPath = r.URL.EscapedPath()
	f.lastBody = nil
	if r.Body != nil {
		b, _ := io.ReadAll(r.Body)
		if len(b) > 0 {
			_ = json.Unmarshal(b, &f.lastBody)
		}
	}

	id := strings.TrimPrefix(r.URL.Path, "/persons/")
	switch {
	case r.URL.Path == "/persons" && r.Method == http.MethodGet:
		out := make([]model.Person, 0, len(f.order))
		for _, id := range f.order {
			out = append(out, f.persons[id])
		}
		writeJSON(w, http.StatusOK, out)
	case r.URL.Path == "/persons" && r.Method == http.MethodPost:
		p := model.Person{
			ID:        "generated-1",
			Name:      f.lastBody["name"].(string),
			Email:     f.lastBody["email"].(string),
			CreatedAt: "2024-01-02T03:04:05",
		}
		f.persons[p.ID] = p
		f.order = append(f.order, p.ID)
		writeJSON(w, http.StatusCreated, p)
	default:
		p, ok := f.persons[id]
		if !ok {
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, p)
		case http.MethodPatch:
			p.Name = f.lastBody["name"].(string)
			p.Email = f.lastBody["email"].(string)
			p.UpdatedAt = "2024-02-02T03:04:05"
			f.persons[id] = p
			writeJSON(w, http.StatusOK, p)
		case http.MethodDelete:
			delete(f.persons, id)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (f *fakePersonAPI) body() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody
}

func (f *fakePersonAPI) path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T, h http.Handler) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	logger, _ := logtest.NewNullLogger()
	c, err := apiclient.New("test", config.APIConfig{URL: srv.URL, TimeoutSec: 2}, apiclient.WithLogger(logger))
	require.NoError(t, err)
	return c
}

func TestPersonQuery_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns persons in api order", func(t *testing.T) {
		api := newFakePersonAPI(
			model.Person{ID: "1", Name: "Ada", Email: "ada@example.com"},
			model.Person{ID: "2", Name: "Grace", Email: "grace@example.com"},
		)
		repo := NewPersonQuery(newClient(t, api))

		persons, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, persons, 2)
		assert.Equal(t, "Ada", persons[0].Name)
		assert.Equal(t, "Grace", persons[1].Name)
	})

	t.Run("null body is an empty list", func(t *testing.T) {
		repo := NewPersonQuery(newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "null")
		})))

		persons, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, persons)
		assert.Empty(t, persons)
	})

	t.Run("api error is returned", func(t *testing.T) {
		repo := NewPersonQuery(newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})))

		persons, err := repo.List(ctx)
		assert.Error(t, err)
		assert.Nil(t, persons)
	})
}

func TestPersonQuery_FindByID(t *testing.T) {
	ctx := context.Background()
	api := newFakePersonAPI(model.Person{ID: "a/b", Name: "Ada", Email: "ada@example.com"})
	repo := NewPersonQuery(newClient(t, api))

	t.Run("found with escaped id", func(t *testing.T) {
		p, err := repo.FindByID(ctx, "a/b")
		require.NoError(t, err)
		assert.Equal(t, "Ada", p.Name)
		assert.Equal(t, "/persons/a%2Fb", api.path())
	})

	t.Run("not found", func(t *testing.T) {
		p, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, p)
	})

	t.Run("empty body is not found", func(t *testing.T) {
		repo := NewPersonQuery(newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))
		_, err := repo.FindByID(ctx, "1")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestPersonCommand_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("sends only name and email", func(t *testing.T) {
		api := newFakePersonAPI()
		repo := NewPersonCommand(newClient(t, api))

		p, err := repo.Create(ctx, model.PersonInput{Name: "Ada", Email: "ada@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "generated-1", p.ID)
		assert.Equal(t, "2024-01-02T03:04:05", p.CreatedAt)
		assert.Equal(t, map[string]any{"name": "Ada", "email": "ada@example.com"}, api.body())
	})

	t.Run("empty answer falls back to the input", func(t *testing.T) {
		repo := NewPersonCommand(newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})))

		p, err := repo.Create(ctx, model.PersonInput{Name: "Ada", Email: "ada@example.com"})
		require.NoError(t, err)
		assert.Equal(t, model.Person{Name: "Ada", Email: "ada@example.com"}, *p)
	})

	t.Run("api error", func(t *testing.T) {
		repo := NewPersonCommand(newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "duplicate email", http.StatusConflict)
		})))

		_, err := repo.Create(ctx, model.PersonInput{Name: "Ada", Email: "ada@example.com"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
		assert.Contains(t, err.Error(), "duplicate email")
	})
}

func TestPersonCommand_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	api := newFakePersonAPI(model.Person{ID: "1", Name: "Ada", Email: "ada@example.com"})
	repo := NewPersonCommand(newClient(t, api))

	p, err := repo.Update(ctx, "1", model.PersonInput{Name: "Ada King", Email: "ada@example.org"})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", p.Name)
	assert.Equal(t, "2024-02-02T03:04:05", p.UpdatedAt)
	assert.Equal(t, map[string]any{"name": "Ada King", "email": "ada@example.org"}, api.body())

	_, err = repo.Update(ctx, "missing", model.PersonInput{Name: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "1"))
	assert.ErrorIs(t, repo.Delete(ctx, "1"), repository.ErrNotFound)
}
