package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/permission"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
)

// SlipService is the borrowing slip engine. Every mutation runs as a single
// transaction and leaves no partial state behind when it fails.
type SlipService struct {
	log    *zap.Logger
	repo   repository.SlipRepository
	events Publisher
	now    func() time.Time
}

func NewSlipService(repo repository.SlipRepository, events Publisher, log *zap.Logger) *SlipService {
	if events == nil {
		events = nopPublisher{}
	}
	return &SlipService{
		log:    log.Named("slips"),
		repo:   repo,
		events: events,
		now:    time.Now,
	}
}

// CreateSlip opens a draft slip for userID holding the distinct books of
// bookIDs. An empty list yields an empty draft.
func (s *SlipService) CreateSlip(ctx context.Context, userID int64, bookIDs []int64) (model.SlipResult, error) {
	ids, err := normalize(bookIDs)
	if err != nil {
		return model.SlipResult{}, err
	}

	var res model.SlipResult
	err = s.repo.InTx(ctx, func(tx repository.SlipTx) error {
		slipID, err := tx.CreateSlip(ctx, userID, s.now().UTC())
		if err != nil {
			return err
		}
		if err := addItems(ctx, tx, slipID, ids); err != nil {
			return err
		}
		res = model.SlipResult{SlipID: slipID, Status: model.StatusDraft, ItemCount: len(ids)}
		return nil
	})
	if err != nil {
		return model.SlipResult{}, s.fail("create slip", err, zap.Int64("user_id", userID))
	}

	s.publish(ctx, model.EventSlipCreated, userID, res)
	return res, nil
}

// UpdateSlipItems replaces the item set of a draft slip.
func (s *SlipService) UpdateSlipItems(ctx context.Context, userID, slipID int64, bookIDs []int64) (model.SlipResult, error) {
	ids, err := normalize(bookIDs)
	if err != nil {
		return model.SlipResult{}, err
	}

	var res model.SlipResult
	err = s.repo.InTx(ctx, func(tx repository.SlipTx) error {
		slip, err := lockOwned(ctx, tx, userID, slipID)
		if err != nil {
			return err
		}
		if !slip.Status.Editable() {
			return notEditable(slip)
		}
		if err := tx.ClearSlipItems(ctx, slipID); err != nil {
			return err
		}
		if err := addItems(ctx, tx, slipID, ids); err != nil {
			return err
		}
		res = model.SlipResult{SlipID: slipID, Status: slip.Status, ItemCount: len(ids)}
		return nil
	})
	if err != nil {
		return model.SlipResult{}, s.fail("update slip items", err, zap.Int64("slip_id", slipID))
	}

	s.publish(ctx, model.EventSlipItemsUpdated, userID, res)
	return res, nil
}

// SubmitSlip moves a non-empty draft to submitted. It succeeds at most once
// per slip.
func (s *SlipService) SubmitSlip(ctx context.Context, userID, slipID int64) (model.SlipResult, error) {
	var res model.SlipResult
	err := s.repo.InTx(ctx, func(tx repository.SlipTx) error {
		slip, err := lockOwned(ctx, tx, userID, slipID)
		if err != nil {
			return err
		}
		if !slip.Status.CanTransitionTo(model.StatusSubmitted) {
			return errs.Wrapf(errs.ErrInvalidState, "borrowing slip %d is already %s", slipID, slip.Status)
		}
		n, err := tx.CountSlipItems(ctx, slipID)
		if err != nil {
			return err
		}
		if n == 0 {
			return errs.Wrapf(errs.ErrValidation, "cannot submit an empty borrowing slip")
		}
		at := s.now().UTC()
		if err := tx.SetSlipStatus(ctx, slipID, model.StatusSubmitted, &at); err != nil {
			return err
		}
		res = model.SlipResult{SlipID: slipID, Status: model.StatusSubmitted, ItemCount: n, SubmittedAt: &at}
		return nil
	})
	if err != nil {
		return model.SlipResult{}, s.fail("submit slip", err, zap.Int64("slip_id", slipID))
	}

	s.publish(ctx, model.EventSlipSubmitted, userID, res)
	return res, nil
}

// DeleteSlip removes a draft slip together with its items.
func (s *SlipService) DeleteSlip(ctx context.Context, userID, slipID int64) error {
	err := s.repo.InTx(ctx, func(tx repository.SlipTx) error {
		slip, err := lockOwned(ctx, tx, userID, slipID)
		if err != nil {
			return err
		}
		if !slip.Status.Editable() {
			return notEditable(slip)
		}
		return tx.DeleteSlip(ctx, slipID)
	})
	if err != nil {
		return s.fail("delete slip", err, zap.Int64("slip_id", slipID))
	}

	s.publish(ctx, model.EventSlipDeleted, userID, model.SlipResult{SlipID: slipID, Status: model.StatusDraft})
	return nil
}

func (s *SlipService) ListSlips(ctx context.Context, userID int64) ([]model.SlipSummary, error) {
	slips, err := s.repo.ListSlips(ctx, userID)
	if err != nil {
		return nil, s.fail("list slips", err, zap.Int64("user_id", userID))
	}
	if slips == nil {
		slips = []model.SlipSummary{}
	}
	return slips, nil
}

// GetSlip returns the slip with its items. A slip owned by someone else is
// reported exactly like a missing one.
func (s *SlipService) GetSlip(ctx context.Context, userID, slipID int64) (model.SlipDetail, error) {
	slip, err := s.repo.GetSlip(ctx, slipID)
	if errors.Is(err, errs.ErrNotFound) || (err == nil && !permission.IsOwner(userID, slip)) {
		return model.SlipDetail{}, slipNotFound(slipID)
	}
	if err != nil {
		return model.SlipDetail{}, s.fail("get slip", err, zap.Int64("slip_id", slipID))
	}
	items, err := s.repo.ListSlipItems(ctx, slipID)
	if err != nil {
		return model.SlipDetail{}, s.fail("list slip items", err, zap.Int64("slip_id", slipID))
	}
	if items == nil {
		items = []model.SlipItem{}
	}
	return model.SlipDetail{SlipSummary: slip, Items: items}, nil
}

func normalize(bookIDs []int64) ([]int64, error) {
	ids := model.UniqueBookIDs(bookIDs)
	for _, id := range ids {
		if id <= 0 {
			return nil, errs.Wrapf(errs.ErrValidation, "invalid book ID %d", id)
		}
	}
	return ids, nil
}

func addItems(ctx context.Context, tx repository.SlipTx, slipID int64, ids []int64) error {
	for _, id := range ids {
		ok, err := tx.BookExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return errs.BookReference(id)
		}
		if err := tx.AddSlipItem(ctx, slipID, id); err != nil {
			return err
		}
	}
	return nil
}

func lockOwned(ctx context.Context, tx repository.SlipTx, userID, slipID int64) (model.Slip, error) {
	slip, err := tx.LockSlip(ctx, slipID)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Slip{}, slipNotFound(slipID)
	}
	if err != nil {
		return model.Slip{}, err
	}
	if !permission.IsOwner(userID, slip) {
		return model.Slip{}, slipNotFound(slipID)
	}
	if !slip.Status.Valid() {
		return model.Slip{}, errors.Errorf("borrowing slip %d has unknown status %q", slipID, slip.Status)
	}
	return slip, nil
}

func slipNotFound(id int64) error {
	return errs.Wrapf(errs.ErrNotFound, "borrowing slip %d not found", id)
}

func notEditable(slip model.Slip) error {
	return errs.Wrapf(errs.ErrInvalidState, "borrowing slip %d is %s; only draft slips can be modified", slip.ID, slip.Status)
}

// fail logs errors outside the taxonomy and passes err through unchanged.
func (s *SlipService) fail(op string, err error, fields ...zap.Field) error {
	if code, _ := errs.Classify(err); code == errs.CodeInternal {
		s.log.Error(op, append(fields, zap.Error(err))...)
	}
	return err
}

func (s *SlipService) publish(ctx context.Context, typ model.SlipEventType, userID int64, res model.SlipResult) {
	ev := model.SlipEvent{
		Type:      typ,
		SlipID:    res.SlipID,
		UserID:    userID,
		Status:    res.Status,
		ItemCount: res.ItemCount,
		Timestamp: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish slip event",
			zap.String("type", string(typ)), zap.Int64("slip_id", res.SlipID), zap.Error(err))
	}
}
