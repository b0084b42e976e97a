// Package businessflow contains the core business logic and use cases for shipping price workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// City price errors
	ErrCityPriceNotFound      = errors.New("city price not found")
	ErrCityPriceAlreadyExists = errors.New("city price already exists for this city and category")
	ErrNoCityPricesMatched    = errors.New("no city prices matched the given filter")
	ErrCityRequired           = errors.New("city is required")
	ErrUpdateFieldsRequired   = errors.New("at least one field must be provided for update")
	ErrPriceNegative          = errors.New("price must not be negative")
	ErrCategoryInvalid        = errors.New("category must be one of copart, iaai, manheim")

	// Identity and scoping errors
	ErrIdentityRequired  = errors.New("caller identity is required")
	ErrIdentityInvalid   = errors.New("caller identity is invalid")
	ErrTargetUserInvalid = errors.New("target user id is invalid")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsCityPriceNotFound(err error) bool {
	return errors.Is(err, ErrCityPriceNotFound)
}

func IsCityPriceAlreadyExists(err error) bool {
	return errors.Is(err, ErrCityPriceAlreadyExists)
}

func IsNoCityPricesMatched(err error) bool {
	return errors.Is(err, ErrNoCityPricesMatched)
}

func IsCityRequired(err error) bool {
	return errors.Is(err, ErrCityRequired)
}

func IsUpdateFieldsRequired(err error) bool {
	return errors.Is(err, ErrUpdateFieldsRequired)
}

func IsPriceNegative(err error) bool {
	return errors.Is(err, ErrPriceNegative)
}

func IsCategoryInvalid(err error) bool {
	return errors.Is(err, ErrCategoryInvalid)
}

func IsIdentityRequired(err error) bool {
	return errors.Is(err, ErrIdentityRequired)
}

func IsIdentityInvalid(err error) bool {
	return errors.Is(err, ErrIdentityInvalid)
}

func IsTargetUserInvalid(err error) bool {
	return errors.Is(err, ErrTargetUserInvalid)
}
