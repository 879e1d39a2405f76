package model

// Patches list only the fields a caller may change. A nil pointer means
// "leave unchanged"; Fields returns the column set to write.

type BookPatch struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Author      *string  `json:"author" validate:"omitempty,min=1"`
	ISBN        *string  `json:"isbn" validate:"omitempty,max=32"`
	PublishYear *int     `json:"publishYear" validate:"omitempty,gte=0,lte=9999"`
	Publisher   *string  `json:"publisher"`
	CategoryID  *int64   `json:"categoryId" validate:"omitempty,gt=0"`
	Description *string  `json:"description"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
}

func (p BookPatch) Fields() map[string]interface{} {
	f := make(map[string]interface{})
	setIf(f, "title", p.Title)
	setIf(f, "author", p.Author)
	setIf(f, "isbn", p.ISBN)
	setIf(f, "publish_year", p.PublishYear)
	setIf(f, "publisher", p.Publisher)
	setIf(f, "category_id", p.CategoryID)
	setIf(f, "description", p.Description)
	setIf(f, "quantity", p.Quantity)
	setIf(f, "price", p.Price)
	return f
}

func (p BookPatch) Empty() bool { return len(p.Fields()) == 0 }

type CategoryPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

func (p CategoryPatch) Fields() map[string]interface{} {
	f := make(map[string]interface{})
	setIf(f, "name", p.Name)
	setIf(f, "description", p.Description)
	return f
}

func (p CategoryPatch) Empty() bool { return len(p.Fields()) == 0 }

// UserPatch carries a plain password; the service hashes it into
// PasswordHash before the patch reaches the store.
type UserPatch struct {
	Username     *string `json:"username" validate:"omitempty,min=3,max=64"`
	Password     *string `json:"password" validate:"omitempty,min=6,max=72"`
	RoleID       *int64  `json:"roleId" validate:"omitempty,gt=0"`
	PasswordHash *string `json:"-"`
}

func (p UserPatch) Fields() map[string]interface{} {
	f := make(map[string]interface{})
	setIf(f, "username", p.Username)
	setIf(f, "password_hash", p.PasswordHash)
	setIf(f, "role_id", p.RoleID)
	return f
}

func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Password == nil && p.RoleID == nil
}

func setIf[T any](f map[string]interface{}, column string, v *T) {
	if v != nil {
		f[column] = *v
	}
}
