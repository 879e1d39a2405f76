// Package permission holds the capability bitmask used for access control
// and the ownership predicate that complements it.
package permission

import (
	"fmt"
	"strings"
)

// Set is a bitmask of capabilities. A role grants the OR of its flags.
type Set uint32

const (
	ManageUsers Set = 1 << iota
	ManageBooks
	ManageCategories
	ViewBooks
	ManageOwnBorrowingSlips
)

// All is the union of every defined flag.
const All = ManageUsers | ManageBooks | ManageCategories | ViewBooks | ManageOwnBorrowingSlips

var names = []struct {
	flag Set
	name string
}{
	{ManageUsers, "MANAGE_USERS"},
	{ManageBooks, "MANAGE_BOOKS"},
	{ManageCategories, "MANAGE_CATEGORIES"},
	{ViewBooks, "VIEW_BOOKS"},
	{ManageOwnBorrowingSlips, "MANAGE_OWN_BORROWING_SLIPS"},
}

// Satisfies reports whether s grants every flag in required.
func (s Set) Satisfies(required Set) bool {
	return s&required == required
}

// Valid reports whether s contains only defined flags.
func (s Set) Valid() bool {
	return s&^All == 0
}

func (s Set) Names() []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if s&n.flag != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

func (s Set) String() string {
	if s == 0 {
		return "NONE"
	}
	str := strings.Join(s.Names(), "|")
	if extra := s &^ All; extra != 0 {
		if str != "" {
			str += "|"
		}
		str += fmt.Sprintf("0x%x", uint32(extra))
	}
	return str
}

// Principal is the resolved caller of a request.
type Principal struct {
	UserID      int64
	Username    string
	RoleName    string
	Permissions Set
}

func (p Principal) Can(required Set) bool {
	return p.Permissions.Satisfies(required)
}

// Owned is implemented by resources that belong to exactly one user.
type Owned interface {
	OwnerID() int64
}

// IsOwner is the ownership predicate applied independently of the
// capability check.
func IsOwner(userID int64, r Owned) bool {
	return userID != 0 && r.OwnerID() == userID
}
