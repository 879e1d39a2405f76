package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
)

// Publisher delivers slip events after the owning transaction commits.
type Publisher interface {
	Publish(ctx context.Context, ev model.SlipEvent) error
}

// TokenManager issues and verifies bearer tokens.
type TokenManager interface {
	Issue(userID int64) (string, time.Time, error)
	Parse(token string) (int64, error)
}

type Service struct {
	*SlipService
	*CatalogService
	*AccountService
}

func NewService(repo repository.Repository, tokens TokenManager, events Publisher, log *zap.Logger) *Service {
	return &Service{
		SlipService:    NewSlipService(repo, events, log),
		CatalogService: NewCatalogService(repo, log),
		AccountService: NewAccountService(repo, tokens, log),
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, model.SlipEvent) error { return nil }
