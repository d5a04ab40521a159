package errors

import (
	"errors"
	"strings"
)

// Join concatenates the messages of the non-nil errors, or returns nil.
func Join(errs ...error) error {
	var messages []string

	for _, err := range errs {
		if err != nil {
			messages = append(messages, err.Error())
		}
	}

	if len(messages) == 0 {
		return nil
	}

	return errors.New(strings.Join(messages, ", "))
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

// AsData walks the wrapped chain looking for error data assignable to target.
func AsData(err error, target interface{}) bool {
	if castedErr, ok := err.(*Error); ok {
		if castedErr.data != nil && errors.As(castedErr.data, target) {
			return true
		}

		if castedErr.wrappedErr != nil {
			return AsData(castedErr.wrappedErr, target)
		}
	}

	return false
}

func As(err error, target any) bool {
	if castedErr, ok := err.(*Error); ok {
		if castedErr.As(target) {
			return true
		}

		if castedErr.wrappedErr != nil {
			return errors.As(castedErr.wrappedErr, target)
		}
	}

	return errors.As(err, target)
}

// CodeOf returns the code of the outermost *Error in err, ERR_ERROR for
// foreign errors and ERR_UNKNOWN for nil.
func CodeOf(err error) ERR {
	if err == nil {
		return ERR_UNKNOWN
	}

	var tErr *Error
	if As(err, &tErr) {
		return tErr.Code()
	}

	return ERR_ERROR
}

// IsTransient reports whether a rejection may succeed later without the
// transaction changing, which is the case when a parent has not arrived yet.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	switch CodeOf(err) {
	case ERR_INPUT_NOT_FOUND, ERR_ORPHAN_BLOCK:
		return true
	default:
		return false
	}
}

// IsConsensusRejection reports whether err is an expected block or
// transaction rejection rather than a resource or programming failure.
func IsConsensusRejection(err error) bool {
	code := CodeOf(err)

	return code >= ERR_BLOCK_INVALID && code < ERR_POOL_FILLED
}
