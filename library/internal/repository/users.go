package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/permission"
)

func selectUsers() sq.SelectBuilder {
	return qb.Select("m.id", "m.username", "m.password_hash", "m.role_id", "r.name as role_name", "m.created_at").
		From(membersTableName + " m").
		Join(fmt.Sprintf("%s r on m.role_id = r.id", rolesTableName))
}

func (r *repository) CreateUser(ctx context.Context, username, passwordHash string, roleID int64) (int64, error) {
	query, args, err := qb.Insert(membersTableName).
		Columns("username", "password_hash", "role_id").
		Values(username, passwordHash, roleID).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, translate(err, errs.Wrapf(errs.ErrValidation, "invalid role_id %d", roleID))
	}
	return id, nil
}

func (r *repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	query, args, err := selectUsers().Where(sq.Eq{"m.id": id}).Limit(1).ToSql()
	if err != nil {
		return model.User{}, err
	}
	u, err := collectOne[model.User](ctx, r.db, query, args...)
	if err != nil {
		return model.User{}, translate(err, nil)
	}
	return u, nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	query, args, err := selectUsers().Where(sq.Eq{"m.username": username}).Limit(1).ToSql()
	if err != nil {
		return model.User{}, err
	}
	u, err := collectOne[model.User](ctx, r.db, query, args...)
	if err != nil {
		return model.User{}, translate(err, nil)
	}
	return u, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := selectUsers().OrderBy("m.id").ToSql()
	if err != nil {
		return nil, err
	}
	users, err := collectAll[model.User](ctx, r.db, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

func (r *repository) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) error {
	var onFK error
	if patch.RoleID != nil {
		onFK = errs.Wrapf(errs.ErrValidation, "invalid role_id %d", *patch.RoleID)
	}
	return r.update(ctx, membersTableName, id, patch.Fields(), onFK)
}

func (r *repository) DeleteUser(ctx context.Context, id int64) error {
	return r.delete(ctx, membersTableName, id)
}

func (r *repository) ListRoles(ctx context.Context) ([]model.Role, error) {
	query, args, err := qb.Select("id", "name", "permissions").
		From(rolesTableName).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	roles, err := collectAll[model.Role](ctx, r.db, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list roles")
	}
	return roles, nil
}

func (r *repository) GetRole(ctx context.Context, id int64) (model.Role, error) {
	return r.getRole(ctx, sq.Eq{"id": id})
}

func (r *repository) GetRoleByName(ctx context.Context, name string) (model.Role, error) {
	return r.getRole(ctx, sq.Eq{"name": name})
}

func (r *repository) getRole(ctx context.Context, where sq.Eq) (model.Role, error) {
	query, args, err := qb.Select("id", "name", "permissions").
		From(rolesTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Role{}, err
	}
	role, err := collectOne[model.Role](ctx, r.db, query, args...)
	if err != nil {
		return model.Role{}, translate(err, nil)
	}
	return role, nil
}

// GetPrincipal resolves a user and the current permission mask of its role.
// It always reads the store so role changes apply on the next request.
func (r *repository) GetPrincipal(ctx context.Context, userID int64) (permission.Principal, error) {
	query, args, err := qb.Select("m.id", "m.username", "r.name", "r.permissions").
		From(membersTableName + " m").
		Join(fmt.Sprintf("%s r on m.role_id = r.id", rolesTableName)).
		Where(sq.Eq{"m.id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return permission.Principal{}, err
	}
	var (
		p     permission.Principal
		perms int64
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&p.UserID, &p.Username, &p.RoleName, &perms); err != nil {
		return permission.Principal{}, translate(err, nil)
	}
	p.Permissions = permission.Set(perms)
	return p, nil
}
