package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/permission"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
)

// memStore is an in-memory store with the same all-or-nothing semantics as
// the postgres one: InTx works on a copy that replaces the state only when
// fn succeeds.
type memStore struct {
	mu    sync.Mutex
	state memState

	users      map[int64]model.User
	roles      map[int64]model.Role
	categories map[int64]model.Category
}

type memState struct {
	nextSlip int64
	nextItem int64
	nextBook int64
	books    map[int64]model.Book
	slips    map[int64]model.Slip
	items    map[int64][]model.SlipItem
}

func (s memState) clone() memState {
	c := memState{
		nextSlip: s.nextSlip,
		nextItem: s.nextItem,
		nextBook: s.nextBook,
		books:    make(map[int64]model.Book, len(s.books)),
		slips:    make(map[int64]model.Slip, len(s.slips)),
		items:    make(map[int64][]model.SlipItem, len(s.items)),
	}
	for k, v := range s.books {
		c.books[k] = v
	}
	for k, v := range s.slips {
		c.slips[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]model.SlipItem(nil), v...)
	}
	return c
}

func newMemStore(bookIDs ...int64) *memStore {
	m := &memStore{
		state: memState{
			books: make(map[int64]model.Book),
			slips: make(map[int64]model.Slip),
			items: make(map[int64][]model.SlipItem),
		},
		users:      make(map[int64]model.User),
		categories: make(map[int64]model.Category),
		roles: map[int64]model.Role{
			1: {ID: 1, Name: "Admin", Permissions: permission.ManageUsers | permission.ManageBooks | permission.ManageCategories | permission.ViewBooks},
			3: {ID: 3, Name: DefaultRoleName, Permissions: permission.ViewBooks | permission.ManageOwnBorrowingSlips},
		},
	}
	for _, id := range bookIDs {
		m.state.books[id] = model.Book{ID: id, Title: "title", Author: "author"}
		if id > m.state.nextBook {
			m.state.nextBook = id
		}
	}
	return m
}

var _ repository.SlipRepository = (*memStore)(nil)
var _ repository.UserRepository = (*memStore)(nil)
var _ repository.CatalogRepository = (*memStore)(nil)

func (m *memStore) InTx(ctx context.Context, fn func(tx repository.SlipTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	work := m.state.clone()
	if err := fn(&memTx{st: &work}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) ListSlips(_ context.Context, userID int64) ([]model.SlipSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.SlipSummary
	for _, s := range m.state.slips {
		if s.UserID == userID {
			out = append(out, model.SlipSummary{Slip: s, ItemCount: len(m.state.items[s.ID])})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) GetSlip(_ context.Context, slipID int64) (model.SlipSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.state.slips[slipID]
	if !ok {
		return model.SlipSummary{}, errs.ErrNotFound
	}
	return model.SlipSummary{Slip: s, ItemCount: len(m.state.items[slipID])}, nil
}

func (m *memStore) ListSlipItems(_ context.Context, slipID int64) ([]model.SlipItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.SlipItem(nil), m.state.items[slipID]...), nil
}

func (m *memStore) slipCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.slips)
}

func (m *memStore) setStatus(slipID int64, status model.SlipStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state.slips[slipID]
	s.Status = status
	m.state.slips[slipID] = s
}

type memTx struct {
	st *memState
}

func (t *memTx) BookExists(_ context.Context, bookID int64) (bool, error) {
	_, ok := t.st.books[bookID]
	return ok, nil
}

func (t *memTx) CreateSlip(_ context.Context, userID int64, createdAt time.Time) (int64, error) {
	t.st.nextSlip++
	id := t.st.nextSlip
	t.st.slips[id] = model.Slip{ID: id, UserID: userID, Status: model.StatusDraft, CreatedAt: createdAt}
	return id, nil
}

func (t *memTx) LockSlip(_ context.Context, slipID int64) (model.Slip, error) {
	s, ok := t.st.slips[slipID]
	if !ok {
		return model.Slip{}, errs.ErrNotFound
	}
	return s, nil
}

func (t *memTx) AddSlipItem(_ context.Context, slipID, bookID int64) error {
	book, ok := t.st.books[bookID]
	if !ok {
		return errs.BookReference(bookID)
	}
	for _, it := range t.st.items[slipID] {
		if it.BookID == bookID {
			return errs.ErrDuplicateItem
		}
	}
	t.st.nextItem++
	t.st.items[slipID] = append(t.st.items[slipID], model.SlipItem{
		ID: t.st.nextItem, SlipID: slipID, BookID: bookID, Title: book.Title, Author: book.Author,
	})
	return nil
}

func (t *memTx) ClearSlipItems(_ context.Context, slipID int64) error {
	delete(t.st.items, slipID)
	return nil
}

func (t *memTx) CountSlipItems(_ context.Context, slipID int64) (int, error) {
	return len(t.st.items[slipID]), nil
}

func (t *memTx) SetSlipStatus(_ context.Context, slipID int64, status model.SlipStatus, submittedAt *time.Time) error {
	s, ok := t.st.slips[slipID]
	if !ok {
		return errs.ErrNotFound
	}
	s.Status = status
	s.SubmittedAt = submittedAt
	t.st.slips[slipID] = s
	return nil
}

func (t *memTx) DeleteSlip(_ context.Context, slipID int64) error {
	if _, ok := t.st.slips[slipID]; !ok {
		return errs.ErrNotFound
	}
	delete(t.st.slips, slipID)
	delete(t.st.items, slipID)
	return nil
}

func (m *memStore) CreateUser(_ context.Context, username, passwordHash string, roleID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return 0, errs.Wrapf(errs.ErrConflict, "username already exists")
		}
	}
	id := int64(len(m.users) + 1)
	m.users[id] = model.User{ID: id, Username: username, PasswordHash: passwordHash, RoleID: roleID, RoleName: m.roles[roleID].Name}
	return id, nil
}

func (m *memStore) GetUser(_ context.Context, id int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (m *memStore) ListUsers(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) UpdateUser(_ context.Context, id int64, patch model.UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.RoleID != nil {
		u.RoleID = *patch.RoleID
		u.RoleName = m.roles[u.RoleID].Name
	}
	m.users[id] = u
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return errs.ErrNotFound
	}
	for _, sl := range m.state.slips {
		if sl.UserID == id {
			return errs.Wrapf(errs.ErrInUse, "entity is referenced by other records")
		}
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) ListRoles(context.Context) ([]model.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetRole(_ context.Context, id int64) (model.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[id]
	if !ok {
		return model.Role{}, errs.ErrNotFound
	}
	return r, nil
}

func (m *memStore) GetRoleByName(_ context.Context, name string) (model.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return model.Role{}, errs.ErrNotFound
}

func (m *memStore) GetPrincipal(_ context.Context, userID int64) (permission.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return permission.Principal{}, errs.ErrNotFound
	}
	r, ok := m.roles[u.RoleID]
	if !ok {
		return permission.Principal{}, errs.ErrNotFound
	}
	return permission.Principal{UserID: u.ID, Username: u.Username, RoleName: r.Name, Permissions: r.Permissions}, nil
}

type recordPublisher struct {
	mu     sync.Mutex
	events []model.SlipEvent
	err    error
}

func (p *recordPublisher) Publish(_ context.Context, ev model.SlipEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordPublisher) types() []model.SlipEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.SlipEventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

var errBroker = errors.New("broker down")

func (m *memStore) ListBooks(context.Context) ([]model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Book
	for _, b := range m.state.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetBook(_ context.Context, id int64) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.state.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return b, nil
}

func (m *memStore) BookExists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.state.books[id]
	return ok, nil
}

func (m *memStore) CreateBook(_ context.Context, req model.CreateBookRequest) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[req.CategoryID]; !ok {
		return 0, &errs.ReferenceError{Entity: "category", ID: req.CategoryID}
	}
	m.state.nextBook++
	id := m.state.nextBook
	m.state.books[id] = model.Book{ID: id, Title: req.Title, Author: req.Author, CategoryID: req.CategoryID, Quantity: *req.Quantity, Price: *req.Price}
	return id, nil
}

func (m *memStore) UpdateBook(_ context.Context, id int64, patch model.BookPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.state.books[id]
	if !ok {
		return errs.ErrNotFound
	}
	if patch.CategoryID != nil {
		if _, ok := m.categories[*patch.CategoryID]; !ok {
			return &errs.ReferenceError{Entity: "category", ID: *patch.CategoryID}
		}
		b.CategoryID = *patch.CategoryID
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Quantity != nil {
		b.Quantity = *patch.Quantity
	}
	m.state.books[id] = b
	return nil
}

func (m *memStore) DeleteBook(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.books[id]; !ok {
		return errs.ErrNotFound
	}
	for _, items := range m.state.items {
		for _, it := range items {
			if it.BookID == id {
				return errs.Wrapf(errs.ErrInUse, "entity is referenced by other records")
			}
		}
	}
	delete(m.state.books, id)
	return nil
}

func (m *memStore) ListCategories(context.Context) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) CreateCategory(_ context.Context, req model.CreateCategoryRequest) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == req.Name {
			return 0, errs.Wrapf(errs.ErrConflict, "category name already exists")
		}
	}
	id := int64(len(m.categories) + 1)
	m.categories[id] = model.Category{ID: id, Name: req.Name, Description: req.Description}
	return id, nil
}

func (m *memStore) UpdateCategory(_ context.Context, id int64, patch model.CategoryPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return errs.ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = patch.Description
	}
	m.categories[id] = c
	return nil
}

func (m *memStore) DeleteCategory(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return errs.ErrNotFound
	}
	for _, b := range m.state.books {
		if b.CategoryID == id {
			return errs.Wrapf(errs.ErrInUse, "entity is referenced by other records")
		}
	}
	delete(m.categories, id)
	return nil
}
