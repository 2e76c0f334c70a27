package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/auth"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	articlesrepo "github.com/dmitrijs2005/linkshare/internal/server/repositories/articles"
	usersrepo "github.com/dmitrijs2005/linkshare/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// fakeUsersRepo keeps users in memory keyed by name. Set the *Err fields to
// force failures.
type fakeUsersRepo struct {
	mu     sync.Mutex
	byName map[string]*models.User
	nextID int64

	createErr error
	getErr    error
	listErr   error
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byName: map[string]*models.User{}}
	for _, u := range users {
		f.byName[u.UserName] = u
		if u.ID > f.nextID {
			f.nextID = u.ID
		}
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.byName[u.UserName] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.User, 0, len(f.byName))
	for id := int64(1); id <= f.nextID; id++ {
		for _, u := range f.byName {
			if u.ID == id {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

type fakeArticlesRepo struct {
	byID   map[int64]*models.Article
	nextID int64

	listOut []models.ArticleView
	listErr error

	createErr error
	getErr    error
	viewErr   error
	deleteErr error

	deleted []int64
}

func newFakeArticlesRepo(articles ...*models.Article) *fakeArticlesRepo {
	f := &fakeArticlesRepo{byID: map[int64]*models.Article{}}
	for _, a := range articles {
		f.byID[a.ID] = a
		if a.ID > f.nextID {
			f.nextID = a.ID
		}
	}
	return f
}

func (f *fakeArticlesRepo) List(ctx context.Context) ([]models.ArticleView, error) {
	return f.listOut, f.listErr
}

func (f *fakeArticlesRepo) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeArticlesRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeArticlesRepo) GetView(ctx context.Context, id int64) (*models.ArticleView, error) {
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.ArticleView{ID: a.ID, URL: a.URL, Title: a.Title, UserID: a.UserID, CreatedAt: a.CreatedAt, UserName: "owner"}, nil
}

func (f *fakeArticlesRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeArticlesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Articles(db dbx.DBTX) articlesrepo.Repository { return m.a }

// countingHasher records how many verifications ran.
type countingHasher struct {
	auth.PasswordHasher
	mu       sync.Mutex
	verifies int
	hashErr  error
}

func newCountingHasher() *countingHasher {
	return &countingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost)}
}

func (h *countingHasher) Hash(plaintext string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return h.PasswordHasher.Hash(plaintext)
}

func (h *countingHasher) Verify(plaintext, hash string) (bool, error) {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return h.PasswordHasher.Verify(plaintext, hash)
}

func (h *countingHasher) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.verifies
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService([]byte("k"), time.Hour, nil)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(b)
}
