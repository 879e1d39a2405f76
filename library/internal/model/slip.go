package model

import (
	"time"
)

type SlipStatus string

const (
	StatusDraft     SlipStatus = "draft"
	StatusSubmitted SlipStatus = "submitted"
	StatusApproved  SlipStatus = "approved"
	StatusRejected  SlipStatus = "rejected"
	StatusBorrowed  SlipStatus = "borrowed"
	StatusReturned  SlipStatus = "returned"
	StatusOverdue   SlipStatus = "overdue"
)

// transitions lists the full lifecycle. Only draft -> submitted is
// produced by this service; the rest belongs to fulfillment.
var transitions = map[SlipStatus][]SlipStatus{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
	StatusApproved:  {StatusBorrowed},
	StatusBorrowed:  {StatusReturned, StatusOverdue},
	StatusOverdue:   {StatusReturned},
}

func (s SlipStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected,
		StatusBorrowed, StatusReturned, StatusOverdue:
		return true
	}
	return false
}

func (s SlipStatus) CanTransitionTo(next SlipStatus) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// Editable reports whether items may still be added or removed.
func (s SlipStatus) Editable() bool {
	return s == StatusDraft
}

type Slip struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"userId" db:"user_id"`
	Status      SlipStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	SubmittedAt *time.Time `json:"submittedAt" db:"submitted_at"`
}

func (s Slip) OwnerID() int64 { return s.UserID }

type SlipSummary struct {
	Slip
	ItemCount int `json:"itemCount" db:"item_count"`
}

type SlipItem struct {
	ID     int64  `json:"id" db:"id"`
	SlipID int64  `json:"slipId" db:"slip_id"`
	BookID int64  `json:"bookId" db:"book_id"`
	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`
}

type SlipDetail struct {
	SlipSummary
	Items []SlipItem `json:"items"`
}

// SlipResult is returned by the mutating slip operations.
type SlipResult struct {
	SlipID      int64      `json:"slipId"`
	Status      SlipStatus `json:"status"`
	ItemCount   int        `json:"itemCount"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// UniqueBookIDs collapses duplicates, keeping the first occurrence order.
func UniqueBookIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type SlipEventType string

const (
	EventSlipCreated      SlipEventType = "slip.created"
	EventSlipItemsUpdated SlipEventType = "slip.items_updated"
	EventSlipSubmitted    SlipEventType = "slip.submitted"
	EventSlipDeleted      SlipEventType = "slip.deleted"
)

// SlipEvent is emitted after a slip mutation commits.
type SlipEvent struct {
	EventID   string        `json:"eventId"`
	Type      SlipEventType `json:"type"`
	SlipID    int64         `json:"slipId"`
	UserID    int64         `json:"userId"`
	Status    SlipStatus    `json:"status"`
	ItemCount int           `json:"itemCount"`
	Timestamp time.Time     `json:"timestamp"`
}
