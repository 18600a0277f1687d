package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/orc-hfg/uploader/internal/errors"
)

// Classify returns a normalized error class suitable for tagging metrics/logs.
//
// Status-carrying errors map to "status_<code>", context errors to "canceled" or
// "timeout"; everything else is named after its innermost concrete type in snake_case-ish.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}

	var statusErr *apperrors.StatusError
	if goerrors.As(err, &statusErr) {
		return fmt.Sprintf("status_%d", statusErr.StatusCode)
	}
	var respErr *apperrors.ResponseError
	if goerrors.As(err, &respErr) {
		return fmt.Sprintf("status_%d", respErr.StatusCode)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
