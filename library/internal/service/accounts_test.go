package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/permission"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
	"github.com/Astemirdum/library-borrow/pkg/auth"
)

func newAccountService(t *testing.T) (*AccountService, *memStore) {
	t.Helper()
	tokens, err := auth.NewTokenManager(auth.Config{Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	store := newMemStore()
	return NewAccountService(store, tokens, zap.NewNop()), store
}

func TestAccountService_RegisterLoginAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	id, err := svc.Register(ctx, model.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.RegisterRequest{Username: "alice", Password: "other12"})
	require.ErrorIs(t, err, errs.ErrConflict)

	resp, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, id, resp.UserID)
	require.Equal(t, DefaultRoleName, resp.RoleName)
	require.NotEmpty(t, resp.Token)

	p, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	require.Equal(t, id, p.UserID)
	require.True(t, p.Can(permission.ViewBooks|permission.ManageOwnBorrowingSlips))
	require.False(t, p.Can(permission.ManageBooks))
}

func TestAccountService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)
	_, err := svc.Register(ctx, model.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "nobody", Password: "secret1"})
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	require.EqualError(t, err, "invalid username or password")
}

func TestAccountService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	_, err := svc.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	id, err := svc.Register(ctx, model.RegisterRequest{Username: "bob", Password: "secret1"})
	require.NoError(t, err)
	token, _, err := svc.tokens.Issue(id)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, 999, id))
	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestAccountService_RoleChangeAppliesToIssuedToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	id, err := svc.Register(ctx, model.RegisterRequest{Username: "carol", Password: "secret1"})
	require.NoError(t, err)
	token, _, err := svc.tokens.Issue(id)
	require.NoError(t, err)

	admin := int64(1)
	require.NoError(t, svc.UpdateUser(ctx, id, model.UserPatch{RoleID: &admin}))

	p, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.True(t, p.Can(permission.ManageUsers))
	require.False(t, p.Can(permission.ManageOwnBorrowingSlips))
}

func TestAccountService_UndefinedPermissionBits(t *testing.T) {
	ctx := context.Background()
	svc, store := newAccountService(t)

	store.roles[9] = model.Role{ID: 9, Name: "Broken", Permissions: permission.ViewBooks | 64}
	id, err := svc.CreateUser(ctx, model.CreateUserRequest{Username: "frank", Password: "secret1", RoleID: 9})
	require.NoError(t, err)
	token, _, err := svc.tokens.Issue(id)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, token)
	require.Error(t, err)
	code, _ := errs.Classify(err)
	require.Equal(t, errs.CodeInternal, code)
}

func TestAccountService_Users(t *testing.T) {
	ctx := context.Background()
	svc, store := newAccountService(t)

	_, err := svc.CreateUser(ctx, model.CreateUserRequest{Username: "dave", Password: "secret1", RoleID: 42})
	require.ErrorIs(t, err, errs.ErrValidation)

	id, err := svc.CreateUser(ctx, model.CreateUserRequest{Username: "dave", Password: "secret1", RoleID: 1})
	require.NoError(t, err)

	err = svc.UpdateUser(ctx, id, model.UserPatch{})
	require.ErrorIs(t, err, errs.ErrValidation)

	pass := "newsecret"
	require.NoError(t, svc.UpdateUser(ctx, id, model.UserPatch{Password: &pass}))
	u, err := store.GetUser(ctx, id)
	require.NoError(t, err)
	require.True(t, auth.CheckPassword(u.PasswordHash, pass))

	err = svc.UpdateUser(ctx, 404, model.UserPatch{Password: &pass})
	require.ErrorIs(t, err, errs.ErrNotFound)

	err = svc.DeleteUser(ctx, id, id)
	require.ErrorIs(t, err, errs.ErrConflict)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, svc.DeleteUser(ctx, 1000, id))
	_, err = svc.GetUser(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAccountService_DeleteUserWithSlips(t *testing.T) {
	ctx := context.Background()
	svc, store := newAccountService(t)

	id, err := svc.CreateUser(ctx, model.CreateUserRequest{Username: "erin", Password: "secret1", RoleID: 3})
	require.NoError(t, err)
	require.NoError(t, store.InTx(ctx, func(tx repository.SlipTx) error {
		_, err := tx.CreateSlip(ctx, id, time.Now())
		return err
	}))

	err = svc.DeleteUser(ctx, 1000, id)
	require.ErrorIs(t, err, errs.ErrInUse)
	require.EqualError(t, err, "cannot delete user 1 because they have borrowing slips")
	code, _ := errs.Classify(err)
	require.Equal(t, errs.CodeConflict, code)
}
