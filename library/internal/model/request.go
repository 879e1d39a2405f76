package model

import "time"

type SlipItemsRequest struct {
	BookIDs []int64 `json:"bookIds" validate:"omitempty,dive,gt=0"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	RoleName  string    `json:"roleName"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	RoleID   int64  `json:"roleId" validate:"required,gt=0"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

type CreateBookRequest struct {
	Title       string   `json:"title" validate:"required"`
	Author      string   `json:"author" validate:"required"`
	ISBN        *string  `json:"isbn" validate:"omitempty,max=32"`
	PublishYear *int     `json:"publishYear" validate:"omitempty,gte=0,lte=9999"`
	Publisher   *string  `json:"publisher"`
	CategoryID  int64    `json:"categoryId" validate:"required,gt=0"`
	Description *string  `json:"description"`
	Quantity    *int     `json:"quantity" validate:"required,gte=0"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
}

// Created is the body returned by create endpoints.
type Created struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
