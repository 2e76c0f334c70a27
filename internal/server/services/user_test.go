package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserServiceWith(t *testing.T, users *fakeUsersRepo, hasher *countingHasher) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	s, err := NewUserService(db, &fakeRepoManager{u: users}, hasher, newTokens(t))
	if err != nil {
		t.Fatalf("NewUserService: %v", err)
	}
	return s
}

func TestNewUserService_HashError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	h := newCountingHasher()
	h.hashErr = errBoom{}
	if _, err := NewUserService(db, &fakeRepoManager{}, h, newTokens(t)); err == nil {
		t.Fatal("expected error when the dummy hash cannot be computed")
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newUserServiceWith(t, newFakeUsersRepo(), newCountingHasher())

	tests := []struct {
		name     string
		username string
		password string
		wantMsg  string
	}{
		{"missing username", "", "password1", MsgCredentialsRequired},
		{"missing password", "alice12", "", MsgCredentialsRequired},
		{"both missing", "", "", MsgCredentialsRequired},
		// The message says 3 to 30 but the enforced range is 5 to 20.
		{"username of 4 rejected", "abcd", "password1", MsgUsernameLength},
		{"username of 3 rejected despite message", "abc", "password1", MsgUsernameLength},
		{"username of 21 rejected", strings.Repeat("a", 21), "password1", MsgUsernameLength},
		{"username of 30 rejected despite message", strings.Repeat("a", 30), "password1", MsgUsernameLength},
		{"password of 7", "alice12", "passwor", MsgPasswordTooShort},
		{"password over 72 bytes", "alice12", strings.Repeat("p", 73), MsgPasswordTooLong},
		// Astral characters count as two units each.
		{"username of 2 emoji is 4 units", "😀😀", "password1", MsgUsernameLength},
		{"username of 11 emoji is 22 units", strings.Repeat("😀", 11), "password1", MsgUsernameLength},
		{"password of 3 emoji is 6 units", "alice12", "😀😀😀", MsgPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), Credentials{Username: tt.username, Password: tt.password})
			require.ErrorIs(t, err, common.ErrorValidation)

			var verr *common.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func TestRegister_LengthBoundsAccepted(t *testing.T) {
	s := newUserServiceWith(t, newFakeUsersRepo(), newCountingHasher())

	for _, name := range []string{"abcde", strings.Repeat("b", 20), "żółwik", "😀😀😀", strings.Repeat("😀", 10)} {
		u, err := s.Register(context.Background(), Credentials{Username: name, Password: "12345678"})
		require.NoError(t, err, name)
		assert.NotZero(t, u.ID)
	}
}

func TestRegister_PasswordLengthInUTF16Units(t *testing.T) {
	s := newUserServiceWith(t, newFakeUsersRepo(), newCountingHasher())

	_, err := s.Register(context.Background(), Credentials{Username: "alice12", Password: "😀😀😀😀"})
	require.NoError(t, err)
}

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"alice", 5},
		{"żółw", 4},
		{"😀", 2},
		{"a😀b", 4},
		{"\xff", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, utf16Len(tt.in), "%q", tt.in)
	}
}

func TestRegister_StoresHashNotPassword(t *testing.T) {
	users := newFakeUsersRepo()
	s := newUserServiceWith(t, users, newCountingHasher())

	u, err := s.Register(context.Background(), Credentials{Username: "alice12", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.IsAdmin, "new users are never admins")

	stored := users.byName["alice12"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password1", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2a$"))
}

func TestRegister_Duplicate(t *testing.T) {
	s := newUserServiceWith(t, newFakeUsersRepo(), newCountingHasher())
	ctx := context.Background()

	_, err := s.Register(ctx, Credentials{Username: "alice12", Password: "password1"})
	require.NoError(t, err)

	_, err = s.Register(ctx, Credentials{Username: "alice12", Password: "password2"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_DuplicateAtInsert(t *testing.T) {
	users := newFakeUsersRepo()
	users.createErr = common.ErrorAlreadyExists
	s := newUserServiceWith(t, users, newCountingHasher())

	_, err := s.Register(context.Background(), Credentials{Username: "alice12", Password: "password1"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_StoreErrors(t *testing.T) {
	users := newFakeUsersRepo()
	users.getErr = errBoom{}
	s := newUserServiceWith(t, users, newCountingHasher())

	_, err := s.Register(context.Background(), Credentials{Username: "alice12", Password: "password1"})
	if !errors.Is(err, common.ErrorInternal) || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("want internal error carrying the cause, got %v", err)
	}

	users = newFakeUsersRepo()
	users.createErr = errBoom{}
	s = newUserServiceWith(t, users, newCountingHasher())

	_, err = s.Register(context.Background(), Credentials{Username: "alice12", Password: "password1"})
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestRegister_HashError(t *testing.T) {
	h := newCountingHasher()
	s := newUserServiceWith(t, newFakeUsersRepo(), h)
	h.hashErr = common.ErrorInternal

	_, err := s.Register(context.Background(), Credentials{Username: "alice12", Password: "password1"})
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestLogin_Success(t *testing.T) {
	users := newFakeUsersRepo(&models.User{ID: 1, UserName: "alice12", PasswordHash: mustHash(t, "password1")})
	s := newUserServiceWith(t, users, newCountingHasher())

	res, err := s.Login(context.Background(), Credentials{Username: "alice12", Password: "password1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.PublicUser{ID: 1, UserName: "alice12", IsAdmin: false}, res.User)

	claims, err := s.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "alice12", claims.Username)
	assert.False(t, claims.IsAdmin)
}

func TestLogin_AdminFlagInToken(t *testing.T) {
	users := newFakeUsersRepo(&models.User{ID: 9, UserName: "admin", PasswordHash: mustHash(t, "adminpass"), IsAdmin: true})
	s := newUserServiceWith(t, users, newCountingHasher())

	res, err := s.Login(context.Background(), Credentials{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)

	claims, err := s.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	h := newCountingHasher()
	users := newFakeUsersRepo(&models.User{ID: 1, UserName: "validuser", PasswordHash: mustHash(t, "password1")})
	s := newUserServiceWith(t, users, h)
	ctx := context.Background()

	before := h.count()
	_, errWrong := s.Login(ctx, Credentials{Username: "validuser", Password: "wrongpassword"})
	afterWrong := h.count()
	_, errMissing := s.Login(ctx, Credentials{Username: "nonexistentuser", Password: "anything"})
	afterMissing := h.count()

	require.ErrorIs(t, errWrong, common.ErrorUnauthorized)
	require.ErrorIs(t, errMissing, common.ErrorUnauthorized)
	assert.Equal(t, errWrong, errMissing)
	assert.Equal(t, afterWrong-before, afterMissing-afterWrong, "both paths run one hash comparison")
}

func TestLogin_OverlongPassword(t *testing.T) {
	users := newFakeUsersRepo(&models.User{ID: 1, UserName: "alice12", PasswordHash: mustHash(t, "password1")})
	s := newUserServiceWith(t, users, newCountingHasher())

	_, err := s.Login(context.Background(), Credentials{Username: "alice12", Password: strings.Repeat("p", 100)})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_MissingFields(t *testing.T) {
	s := newUserServiceWith(t, newFakeUsersRepo(), newCountingHasher())

	for _, c := range []Credentials{{Username: "alice12"}, {Password: "password1"}, {}} {
		_, err := s.Login(context.Background(), c)
		var verr *common.ValidationError
		require.True(t, errors.As(err, &verr), "%+v", c)
		assert.Equal(t, MsgCredentialsRequired, verr.Message)
	}
}

func TestLogin_StoreError(t *testing.T) {
	users := newFakeUsersRepo()
	users.getErr = errBoom{}
	s := newUserServiceWith(t, users, newCountingHasher())

	_, err := s.Login(context.Background(), Credentials{Username: "alice12", Password: "password1"})
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_CorruptHashIsInternal(t *testing.T) {
	users := newFakeUsersRepo(&models.User{ID: 1, UserName: "alice12", PasswordHash: "not-a-bcrypt-hash"})
	s := newUserServiceWith(t, users, newCountingHasher())

	_, err := s.Login(context.Background(), Credentials{Username: "alice12", Password: "password1"})
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestListUsers(t *testing.T) {
	users := newFakeUsersRepo(
		&models.User{ID: 1, UserName: "admin", PasswordHash: "h", IsAdmin: true},
		&models.User{ID: 2, UserName: "alice12", PasswordHash: "h"},
	)
	s := newUserServiceWith(t, users, newCountingHasher())

	got, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "admin", got[0].UserName)
	assert.True(t, got[0].IsAdmin)
	assert.Equal(t, "alice12", got[1].UserName)

	users.listErr = errBoom{}
	_, err = s.ListUsers(context.Background())
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestEnsureAdmin_CreatesOnce(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	users := newFakeUsersRepo()
	s, err := NewUserService(db, &fakeRepoManager{u: users}, newCountingHasher(), newTokens(t))
	require.NoError(t, err)

	created, err := s.EnsureAdmin(context.Background(), "adminpass")
	require.NoError(t, err)
	assert.True(t, created)

	admin := users.byName[common.AdminUserName]
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin)

	created, err = s.EnsureAdmin(context.Background(), "otherpass")
	require.NoError(t, err)
	assert.False(t, created)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestEnsureAdmin_RollsBackOnError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	users := newFakeUsersRepo()
	users.createErr = errBoom{}
	s, err := NewUserService(db, &fakeRepoManager{u: users}, newCountingHasher(), newTokens(t))
	require.NoError(t, err)

	_, err = s.EnsureAdmin(context.Background(), "adminpass")
	assert.ErrorIs(t, err, common.ErrorInternal)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestEnsureAdmin_WeakPassword(t *testing.T) {
	s := newUserServiceWith(t, newFakeUsersRepo(), newCountingHasher())

	_, err := s.EnsureAdmin(context.Background(), "short")
	assert.ErrorIs(t, err, common.ErrorValidation)
}
