package engine

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors reject an operation before any mutation. They are safe
// to surface to the user verbatim.

type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

type AlreadyCompletedError struct {
	Entity string
	ID     string
}

func (e AlreadyCompletedError) Error() string {
	return fmt.Sprintf("%s %s is already completed", e.Entity, e.ID)
}

type AlreadyPurchasedError struct {
	ID string
}

func (e AlreadyPurchasedError) Error() string {
	return fmt.Sprintf("upgrade %s is already purchased", e.ID)
}

type AlreadyUsedError struct {
	EntryID int64
}

func (e AlreadyUsedError) Error() string {
	return fmt.Sprintf("inventory item #%d is already used", e.EntryID)
}

type InsufficientCoinsError struct {
	Need int
	Have int
}

func (e InsufficientCoinsError) Error() string {
	return fmt.Sprintf("not enough coins: need %d, have %d", e.Need, e.Have)
}

type InsufficientAttributeError struct {
	Attribute Attribute
	Need      int
	Have      int
}

func (e InsufficientAttributeError) Error() string {
	return fmt.Sprintf("not enough %s: need %d, have %d", e.Attribute, e.Need, e.Have)
}

type ExpiredError struct {
	ID        string
	ExpiredAt time.Time
}

func (e ExpiredError) Error() string {
	return fmt.Sprintf("goal %s expired at %s", e.ID, e.ExpiredAt.Format(time.RFC3339))
}

// IsValidation reports whether err is a local rejection (no mutation
// happened) as opposed to a persistence failure.
func IsValidation(err error) bool {
	var nf NotFoundError
	var ac AlreadyCompletedError
	var ap AlreadyPurchasedError
	var au AlreadyUsedError
	var ic InsufficientCoinsError
	var ia InsufficientAttributeError
	var ex ExpiredError
	return errors.As(err, &nf) || errors.As(err, &ac) || errors.As(err, &ap) ||
		errors.As(err, &au) || errors.As(err, &ic) || errors.As(err, &ia) || errors.As(err, &ex)
}
