package errors

import (
	stderrors "errors"
	"strings"
)

// ClassifyAuthMessage maps a free-text auth failure message to a login error
// code by case-insensitive substring matching. This is the legacy behavior of
// the dashboard, kept only for upstream providers that report errors as raw
// text; first-party providers return structured AppError codes directly and
// never pass through here. Anything unrecognized is ErrCodeUnknown and should
// be surfaced with the raw message.
func ClassifyAuthMessage(msg string) ErrorCode {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "invalid email or password"),
		strings.Contains(m, "invalid credentials"),
		strings.Contains(m, "incorrect password"):
		return ErrCodeInvalidCredentials
	case strings.Contains(m, "user not found"),
		strings.Contains(m, "account not found"),
		strings.Contains(m, "no account"):
		return ErrCodeAccountNotFound
	case strings.Contains(m, "account is not active"),
		strings.Contains(m, "suspended"),
		strings.Contains(m, "disabled"):
		return ErrCodeAccountSuspended
	case strings.Contains(m, "email not verified"),
		strings.Contains(m, "verify your email"):
		return ErrCodeEmailNotVerified
	case strings.Contains(m, "rate limit"),
		strings.Contains(m, "too many"):
		return ErrCodeRateLimited
	case strings.Contains(m, "network"),
		strings.Contains(m, "connection"),
		strings.Contains(m, "timeout"):
		return ErrCodeNetwork
	default:
		return ErrCodeUnknown
	}
}

// ClassifyAuthError returns err unchanged when it already carries a login
// error code, otherwise classifies its message. The result always has a code
// from the login taxonomy.
func ClassifyAuthError(err error) *AppError {
	if err == nil {
		return nil
	}
	if code := GetCode(err); code != "" && code != ErrCodeInternal {
		var appErr *AppError
		if stderrors.As(err, &appErr) {
			return appErr
		}
	}
	return &AppError{
		Code:    ClassifyAuthMessage(err.Error()),
		Message: err.Error(),
		Cause:   err,
	}
}
