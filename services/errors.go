package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

// Errors returned by every operation in this package. Callers test them with errors.Is.
var (
	// ErrNotFound means a referenced post, group or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the input violates a field constraint.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden means the requestor does not own the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidOperation means the request can never succeed, e.g. following yourself.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrConstraintViolation means the store rejected a write on a uniqueness, check or foreign key rule.
	ErrConstraintViolation = errors.New("constraint violation")
)

var domainErrors = []error{ErrNotFound, ErrValidation, ErrForbidden, ErrInvalidOperation, ErrConstraintViolation}

// translateStoreError maps gorm and driver errors onto the domain errors.
// Errors that already carry a domain error pass through unchanged.
func translateStoreError(err error) error {
	if err == nil {
		return nil
	}
	for _, de := range domainErrors {
		if errors.Is(err, de) {
			return err
		}
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case isConstraintError(err):
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	return err
}

// isDuplicateKey reports a unique index violation. TranslateError covers the
// drivers we ship; the message checks catch drivers that do not translate.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

func isConstraintError(err error) bool {
	if isDuplicateKey(err) || errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, models.ErrSelfFollow) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "check constraint") ||
		strings.Contains(msg, "foreign key constraint")
}
