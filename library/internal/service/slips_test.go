package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
)

const (
	alice int64 = 10
	bob   int64 = 20
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newSlipService(t *testing.T, books ...int64) (*SlipService, *memStore, *recordPublisher) {
	t.Helper()
	store := newMemStore(books...)
	pub := &recordPublisher{}
	svc := NewSlipService(store, pub, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, store, pub
}

func itemBookIDs(items []model.SlipItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.BookID)
	}
	return out
}

func TestSlipService_CreateSlip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		bookIDs   []int64
		wantCount int
		wantBooks []int64
		wantErr   error
	}{
		{name: "duplicates collapse", bookIDs: []int64{5, 5, 7}, wantCount: 2, wantBooks: []int64{5, 7}},
		{name: "empty draft", bookIDs: nil, wantCount: 0, wantBooks: []int64{}},
		{name: "unknown book", bookIDs: []int64{5, 999}, wantErr: errs.ErrInvalidReference},
		{name: "non positive id", bookIDs: []int64{5, 0}, wantErr: errs.ErrValidation},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			svc, store, pub := newSlipService(t, 5, 7)

			res, err := svc.CreateSlip(ctx, alice, tt.bookIDs)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Zero(t, store.slipCount())
				require.Empty(t, pub.types())
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.StatusDraft, res.Status)
			require.Equal(t, tt.wantCount, res.ItemCount)

			detail, err := svc.GetSlip(ctx, alice, res.SlipID)
			require.NoError(t, err)
			require.Equal(t, alice, detail.UserID)
			require.Equal(t, fixedNow, detail.CreatedAt)
			require.Equal(t, tt.wantBooks, itemBookIDs(detail.Items))
			require.Equal(t, []model.SlipEventType{model.EventSlipCreated}, pub.types())
		})
	}
}

func TestSlipService_CreateSlip_NamesMissingBook(t *testing.T) {
	svc, store, _ := newSlipService(t, 5)
	_, err := svc.CreateSlip(context.Background(), alice, []int64{5, 999})
	require.EqualError(t, err, "book with ID 999 does not exist")
	require.Zero(t, store.slipCount())
}

func TestSlipService_UpdateSlipItems(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newSlipService(t, 1, 2, 3)

	created, err := svc.CreateSlip(ctx, alice, []int64{1, 2})
	require.NoError(t, err)

	res, err := svc.UpdateSlipItems(ctx, alice, created.SlipID, []int64{3, 3, 2})
	require.NoError(t, err)
	require.Equal(t, 2, res.ItemCount)

	detail, err := svc.GetSlip(ctx, alice, created.SlipID)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 2}, itemBookIDs(detail.Items))

	_, err = svc.UpdateSlipItems(ctx, alice, created.SlipID, []int64{1, 999})
	require.ErrorIs(t, err, errs.ErrInvalidReference)

	detail, err = svc.GetSlip(ctx, alice, created.SlipID)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 2}, itemBookIDs(detail.Items), "failed update must leave items untouched")

	require.Equal(t, []model.SlipEventType{model.EventSlipCreated, model.EventSlipItemsUpdated}, pub.types())
}

func TestSlipService_DraftOnly(t *testing.T) {
	t.Parallel()
	statuses := []model.SlipStatus{
		model.StatusSubmitted, model.StatusApproved, model.StatusRejected,
		model.StatusBorrowed, model.StatusReturned, model.StatusOverdue,
	}
	for _, st := range statuses {
		st := st
		t.Run(string(st), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			svc, store, _ := newSlipService(t, 1, 2)
			created, err := svc.CreateSlip(ctx, alice, []int64{1})
			require.NoError(t, err)
			store.setStatus(created.SlipID, st)

			_, err = svc.UpdateSlipItems(ctx, alice, created.SlipID, []int64{2})
			require.ErrorIs(t, err, errs.ErrInvalidState)

			err = svc.DeleteSlip(ctx, alice, created.SlipID)
			require.ErrorIs(t, err, errs.ErrInvalidState)

			_, err = svc.SubmitSlip(ctx, alice, created.SlipID)
			require.ErrorIs(t, err, errs.ErrInvalidState)

			detail, err := svc.GetSlip(ctx, alice, created.SlipID)
			require.NoError(t, err)
			require.Equal(t, st, detail.Status)
			require.Equal(t, []int64{1}, itemBookIDs(detail.Items))
		})
	}
}

func TestSlipService_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newSlipService(t, 1, 2)
	created, err := svc.CreateSlip(ctx, alice, []int64{1})
	require.NoError(t, err)
	store.setStatus(created.SlipID, "lost")

	_, err = svc.UpdateSlipItems(ctx, alice, created.SlipID, []int64{2})
	require.Error(t, err)
	code, _ := errs.Classify(err)
	require.Equal(t, errs.CodeInternal, code)
	require.Equal(t, []model.SlipEventType{model.EventSlipCreated}, pub.types())
}

func TestSlipService_SubmitSlip(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newSlipService(t, 1)

	created, err := svc.CreateSlip(ctx, alice, []int64{1})
	require.NoError(t, err)

	res, err := svc.SubmitSlip(ctx, alice, created.SlipID)
	require.NoError(t, err)
	require.Equal(t, model.StatusSubmitted, res.Status)
	require.Equal(t, 1, res.ItemCount)
	require.NotNil(t, res.SubmittedAt)
	require.Equal(t, fixedNow, *res.SubmittedAt)

	_, err = svc.SubmitSlip(ctx, alice, created.SlipID)
	require.ErrorIs(t, err, errs.ErrInvalidState)

	require.Equal(t, []model.SlipEventType{model.EventSlipCreated, model.EventSlipSubmitted}, pub.types())
}

func TestSlipService_SubmitEmptySlip(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newSlipService(t)

	created, err := svc.CreateSlip(ctx, alice, nil)
	require.NoError(t, err)

	_, err = svc.SubmitSlip(ctx, alice, created.SlipID)
	require.ErrorIs(t, err, errs.ErrValidation)

	detail, err := svc.GetSlip(ctx, alice, created.SlipID)
	require.NoError(t, err)
	require.Equal(t, model.StatusDraft, detail.Status)
}

func TestSlipService_DeleteSlip(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newSlipService(t, 1)

	created, err := svc.CreateSlip(ctx, alice, []int64{1})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSlip(ctx, alice, created.SlipID))
	require.Zero(t, store.slipCount())

	_, err = svc.GetSlip(ctx, alice, created.SlipID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSlipService_ForeignSlipLooksMissing(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newSlipService(t, 1)

	created, err := svc.CreateSlip(ctx, alice, []int64{1})
	require.NoError(t, err)

	_, err = svc.GetSlip(ctx, bob, created.SlipID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = svc.UpdateSlipItems(ctx, bob, created.SlipID, nil)
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = svc.SubmitSlip(ctx, bob, created.SlipID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	err = svc.DeleteSlip(ctx, bob, created.SlipID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	foreign, err := svc.GetSlip(ctx, bob, created.SlipID)
	require.Zero(t, foreign)
	_, missing := svc.GetSlip(ctx, bob, created.SlipID+100)
	require.ErrorIs(t, missing, errs.ErrNotFound)
	code, status := errs.Classify(err)
	mcode, mstatus := errs.Classify(missing)
	require.Equal(t, mcode, code)
	require.Equal(t, mstatus, status)

	detail, err := svc.GetSlip(ctx, alice, created.SlipID)
	require.NoError(t, err)
	require.Equal(t, model.StatusDraft, detail.Status)
	require.Len(t, detail.Items, 1)
}

func TestSlipService_ListSlips(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newSlipService(t, 1, 2)

	list, err := svc.ListSlips(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	_, err = svc.CreateSlip(ctx, alice, []int64{1, 2})
	require.NoError(t, err)
	_, err = svc.CreateSlip(ctx, alice, nil)
	require.NoError(t, err)
	_, err = svc.CreateSlip(ctx, bob, []int64{1})
	require.NoError(t, err)

	list, err = svc.ListSlips(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, s := range list {
		require.Equal(t, alice, s.UserID)
	}
	require.Equal(t, 0, list[0].ItemCount)
	require.Equal(t, 2, list[1].ItemCount)
}

func TestSlipService_PublishFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newSlipService(t, 1)
	pub.err = errBroker

	res, err := svc.CreateSlip(ctx, alice, []int64{1})
	require.NoError(t, err)
	require.Equal(t, 1, res.ItemCount)
	require.Equal(t, 1, store.slipCount())
}
