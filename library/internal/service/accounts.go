package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/permission"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
	"github.com/Astemirdum/library-borrow/pkg/auth"
)

// DefaultRoleName is assigned to self-registered members.
const DefaultRoleName = "Sinh viên"

type AccountService struct {
	log    *zap.Logger
	repo   repository.UserRepository
	tokens TokenManager
}

func NewAccountService(repo repository.UserRepository, tokens TokenManager, log *zap.Logger) *AccountService {
	return &AccountService{
		log:    log.Named("accounts"),
		repo:   repo,
		tokens: tokens,
	}
}

func (s *AccountService) Register(ctx context.Context, req model.RegisterRequest) (int64, error) {
	role, err := s.repo.GetRoleByName(ctx, DefaultRoleName)
	if err != nil {
		s.log.Error("default role lookup", zap.String("role", DefaultRoleName), zap.Error(err))
		return 0, errors.Wrap(err, "default role")
	}
	return s.createUser(ctx, req.Username, req.Password, role.ID)
}

func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, errs.ErrNotFound) {
		return model.LoginResponse{}, errs.Wrapf(errs.ErrUnauthenticated, "invalid username or password")
	}
	if err != nil {
		return model.LoginResponse{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return model.LoginResponse{}, errs.Wrapf(errs.ErrUnauthenticated, "invalid username or password")
	}
	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.LoginResponse{}, errors.Wrap(err, "issue token")
	}
	return model.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		UserID:    user.ID,
		Username:  user.Username,
		RoleName:  user.RoleName,
	}, nil
}

// Authenticate resolves a bearer token to a principal. The role is read on
// every call so permission changes apply to tokens already issued.
func (s *AccountService) Authenticate(ctx context.Context, token string) (permission.Principal, error) {
	userID, err := s.tokens.Parse(token)
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return permission.Principal{}, errs.Wrapf(errs.ErrUnauthenticated, "token expired")
	case err != nil:
		return permission.Principal{}, errs.Wrapf(errs.ErrUnauthenticated, "invalid token")
	}
	p, err := s.repo.GetPrincipal(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return permission.Principal{}, errs.Wrapf(errs.ErrForbidden, "user no longer exists")
	}
	if err != nil {
		return permission.Principal{}, err
	}
	if !p.Permissions.Valid() {
		s.log.Error("role grants undefined permissions",
			zap.String("role", p.RoleName), zap.Stringer("permissions", p.Permissions))
		return permission.Principal{}, errors.Errorf("role %q grants undefined permissions", p.RoleName)
	}
	return p, nil
}

func (s *AccountService) CreateUser(ctx context.Context, req model.CreateUserRequest) (int64, error) {
	if err := s.checkRole(ctx, req.RoleID); err != nil {
		return 0, err
	}
	return s.createUser(ctx, req.Username, req.Password, req.RoleID)
}

func (s *AccountService) createUser(ctx context.Context, username, password string, roleID int64) (int64, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.CreateUser(ctx, username, hash, roleID)
	if err != nil {
		return 0, err
	}
	s.log.Info("user created", zap.Int64("user_id", id), zap.String("username", username))
	return id, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

func (s *AccountService) GetUser(ctx context.Context, id int64) (model.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return model.User{}, errs.Wrapf(errs.ErrNotFound, "user %d not found", id)
	}
	return user, err
}

func (s *AccountService) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) error {
	if patch.Empty() {
		return errs.Wrapf(errs.ErrValidation, "no fields provided for update")
	}
	if patch.RoleID != nil {
		if err := s.checkRole(ctx, *patch.RoleID); err != nil {
			return err
		}
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return err
		}
		patch.PasswordHash = &hash
	}
	err := s.repo.UpdateUser(ctx, id, patch)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Wrapf(errs.ErrNotFound, "user %d not found", id)
	}
	return err
}

// DeleteUser removes a member. Members cannot delete themselves.
func (s *AccountService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return errs.Wrapf(errs.ErrConflict, "cannot delete your own account")
	}
	err := s.repo.DeleteUser(ctx, id)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return errs.Wrapf(errs.ErrNotFound, "user %d not found", id)
	case errors.Is(err, errs.ErrInUse):
		return errs.Wrapf(errs.ErrInUse, "cannot delete user %d because they have borrowing slips", id)
	}
	return err
}

func (s *AccountService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *AccountService) checkRole(ctx context.Context, roleID int64) error {
	_, err := s.repo.GetRole(ctx, roleID)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Wrapf(errs.ErrValidation, "role %d does not exist", roleID)
	}
	return err
}
