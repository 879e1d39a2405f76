// Package seed loads initial accounts from a YAML file.
package seed

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/auth"
)

type Account struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type File struct {
	Accounts []Account `yaml:"accounts"`
}

type Store interface {
	GetRoleByName(ctx context.Context, name string) (model.Role, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	CreateUser(ctx context.Context, username, passwordHash string, roleID int64) (int64, error)
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrap(err, "read seed file")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, errors.Wrap(err, "parse seed file")
	}
	for i, a := range f.Accounts {
		if a.Username == "" || a.Password == "" || a.Role == "" {
			return File{}, errors.Errorf("account #%d: username, password and role are required", i+1)
		}
	}
	return f, nil
}

// Apply creates every account that does not exist yet and returns how many
// were created. Existing usernames are left untouched.
func Apply(ctx context.Context, store Store, f File, log *zap.Logger) (int, error) {
	created := 0
	for _, a := range f.Accounts {
		_, err := store.GetUserByUsername(ctx, a.Username)
		if err == nil {
			log.Debug("account exists", zap.String("username", a.Username))
			continue
		}
		if !errors.Is(err, errs.ErrNotFound) {
			return created, errors.Wrapf(err, "lookup %s", a.Username)
		}
		role, err := store.GetRoleByName(ctx, a.Role)
		if err != nil {
			return created, errors.Wrapf(err, "role %q for %s", a.Role, a.Username)
		}
		hash, err := auth.HashPassword(a.Password)
		if err != nil {
			return created, err
		}
		id, err := store.CreateUser(ctx, a.Username, hash, role.ID)
		if err != nil {
			return created, errors.Wrapf(err, "create %s", a.Username)
		}
		log.Info("account seeded", zap.Int64("user_id", id), zap.String("username", a.Username), zap.String("role", a.Role))
		created++
	}
	return created, nil
}
