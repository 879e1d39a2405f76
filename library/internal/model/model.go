package model

import (
	"time"

	"github.com/Astemirdum/library-borrow/library/internal/permission"
)

type Role struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Permissions permission.Set `json:"permissions" db:"permissions"`
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	RoleID       int64     `json:"roleId" db:"role_id"`
	RoleName     string    `json:"roleName" db:"role_name"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Category struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
}

type Book struct {
	ID           int64   `json:"id" db:"id"`
	Title        string  `json:"title" db:"title"`
	Author       string  `json:"author" db:"author"`
	ISBN         *string `json:"isbn" db:"isbn"`
	PublishYear  *int    `json:"publishYear" db:"publish_year"`
	Publisher    *string `json:"publisher" db:"publisher"`
	CategoryID   int64   `json:"categoryId" db:"category_id"`
	CategoryName *string `json:"categoryName" db:"category_name"`
	Description  *string `json:"description" db:"description"`
	// Quantity is the number of copies owned, not the number available.
	Quantity int     `json:"quantity" db:"quantity"`
	Price    float64 `json:"price" db:"price"`
}
