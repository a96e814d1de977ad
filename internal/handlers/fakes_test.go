package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/quizapi/internal/auth"
	"github.com/yourorg/quizapi/internal/middleware"
	"github.com/yourorg/quizapi/internal/models"
	"github.com/yourorg/quizapi/internal/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var errBoom = errors.New("Error 1146 (42S02): Table 'quiz.users' doesn't exist")

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.User
	err    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{nextID: 1, rows: map[int64]models.User{}}
}

func (f *fakeUsers) List(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	users := []models.User{}
	for _, u := range f.rows {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeUsers) Get(ctx context.Context, id int64) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.rows[id]; ok {
		return []models.User{u}, nil
	}
	return []models.User{}, nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.User{}, f.err
	}
	for _, u := range f.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeUsers) Create(ctx context.Context, u models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	for _, existing := range f.rows {
		if existing.Email == u.Email {
			return 0, store.ErrDuplicate
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.rows[u.ID] = u
	return u.ID, nil
}

func (f *fakeUsers) Update(ctx context.Context, id int64, u models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[id]; !ok {
		return store.ErrNotFound
	}
	u.ID = id
	f.rows[id] = u
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeQuizzes struct {
	mu       sync.Mutex
	rows     []models.Quiz
	err      error
	lastList *bool
}

func (f *fakeQuizzes) List(ctx context.Context, visibleOnly bool) ([]models.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = &visibleOnly
	if f.err != nil {
		return nil, f.err
	}
	quizzes := []models.Quiz{}
	for _, q := range f.rows {
		if !visibleOnly || q.IsVisible {
			quizzes = append(quizzes, q)
		}
	}
	return quizzes, nil
}

func (f *fakeQuizzes) Get(ctx context.Context, id int64) (models.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Quiz{}, f.err
	}
	for _, q := range f.rows {
		if q.ID == id {
			return q, nil
		}
	}
	return models.Quiz{}, store.ErrNotFound
}

func (f *fakeQuizzes) Create(ctx context.Context, q models.Quiz) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	q.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, q)
	return q.ID, nil
}

type fakeQuestions struct {
	mu      sync.Mutex
	quizzes *fakeQuizzes
	rows    []models.Question
	err     error
}

func (f *fakeQuestions) List(ctx context.Context) ([]models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Question{}, f.rows...), nil
}

func (f *fakeQuestions) Create(ctx context.Context, q models.Question, ownerID int64, admin bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	quiz, err := f.quizzes.Get(ctx, q.IDQuiz)
	if err != nil || (!admin && quiz.IDUser != ownerID) {
		return 0, store.ErrQuizNotOwned
	}
	q.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, q)
	return q.ID, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

type testEnv struct {
	app       *fiber.App
	users     *fakeUsers
	quizzes   *fakeQuizzes
	questions *fakeQuestions
	tokens    *auth.TokenManager
	hasher    *auth.Hasher
}

// newTestEnv mounts the handlers the same way routes.Register does, on fake stores.
func newTestEnv() *testEnv {
	env := &testEnv{
		users:   newFakeUsers(),
		quizzes: &fakeQuizzes{},
		tokens:  auth.NewTokenManager(testSecret),
		hasher:  auth.NewHasher(bcrypt.MinCost),
	}
	env.questions = &fakeQuestions{quizzes: env.quizzes}

	users := NewUserHandler(env.users, env.hasher, env.tokens, 0)
	quizzes := NewQuizHandler(env.quizzes, 0)
	questions := NewQuestionHandler(env.questions, 0)
	gate := middleware.RequireAuth(env.tokens)

	app := fiber.New()
	app.Get("/users", users.List)
	app.Post("/users/create", users.Create)
	app.Post("/users/login", users.Login)
	app.Put("/users/update/:id", users.Update)
	app.Delete("/users/delete/:id", users.Delete)
	app.Get("/users/:id", users.Get)

	app.Get("/quizzes", gate, quizzes.List)
	app.Get("/quizzes/visible", quizzes.ListVisible)
	app.Post("/quizzes/create", gate, quizzes.Create)
	app.Get("/quizzes/:id", gate, quizzes.Get)

	app.Get("/questions", questions.List)
	app.Post("/questions/create", gate, questions.Create)

	env.app = app
	return env
}

func (env *testEnv) token(t *testing.T, id int64, role models.Role) string {
	t.Helper()
	tok, _, err := env.tokens.Issue(id, role)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatal(err)
			}
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, raw
}

func decode(t *testing.T, raw []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("cannot decode %s: %v", raw, err)
	}
}
