package domain

import (
	"errors"
	"net"
)

// AuthErrorKind is the closed set of authentication failure categories.
// All identity-provider errors are classified into one of these at the
// point of catch; downstream code switches over kinds, never over raw
// provider error names.
type AuthErrorKind int

const (
	KindUnknown AuthErrorKind = iota
	KindNotAuthenticated
	KindInvalidCredentials
	KindUserNotFound
	KindUserNotConfirmed
	KindNewPasswordRequired
	KindUserDisabled
	KindPasswordResetRequired
	KindInvalidParameter
	KindInvalidPassword
	KindRateLimited
	KindNetworkError
	KindServiceUnavailable
	KindNoTenantsFound
	KindSSONotConfigured
)

// String returns the stable name of the kind.
func (k AuthErrorKind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "NotAuthenticated"
	case KindInvalidCredentials:
		return "InvalidCredentials"
	case KindUserNotFound:
		return "UserNotFound"
	case KindUserNotConfirmed:
		return "UserNotConfirmed"
	case KindNewPasswordRequired:
		return "NewPasswordRequired"
	case KindUserDisabled:
		return "UserDisabled"
	case KindPasswordResetRequired:
		return "PasswordResetRequired"
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindInvalidPassword:
		return "InvalidPassword"
	case KindRateLimited:
		return "RateLimited"
	case KindNetworkError:
		return "NetworkError"
	case KindServiceUnavailable:
		return "ServiceUnavailable"
	case KindNoTenantsFound:
		return "NoTenantsFound"
	case KindSSONotConfigured:
		return "SSONotConfigured"
	default:
		return "Unknown"
	}
}

// Message returns the user-facing message for the kind.
func (k AuthErrorKind) Message() string {
	switch k {
	case KindNotAuthenticated:
		return "You are not signed in. Please log in to continue."
	case KindInvalidCredentials:
		return "Invalid email or password. Please try again."
	case KindUserNotFound:
		return "No account found with this email address."
	case KindUserNotConfirmed:
		return "Please verify your email address before logging in."
	case KindNewPasswordRequired:
		return "Please set a new password to continue."
	case KindUserDisabled:
		return "This account has been disabled. Please contact support."
	case KindPasswordResetRequired:
		return "Password reset required. Please check your email."
	case KindInvalidParameter:
		return "Invalid input. Please check your entries."
	case KindInvalidPassword:
		return "Password does not meet requirements."
	case KindRateLimited:
		return "Too many attempts. Please wait and try again."
	case KindNetworkError:
		return "Network error. Please check your connection."
	case KindServiceUnavailable:
		return "Service temporarily unavailable. Please try again later."
	case KindNoTenantsFound:
		return "No workspaces found for this email. Please sign up first."
	case KindSSONotConfigured:
		return "SSO is not yet configured for this organization."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// Recoverable reports whether the user can recover from the failure on
// their own (retry, wait, verify email) as opposed to needing support.
func (k AuthErrorKind) Recoverable() bool {
	switch k {
	case KindUserNotConfirmed, KindNewPasswordRequired, KindInvalidCredentials,
		KindInvalidPassword, KindRateLimited, KindNetworkError, KindNoTenantsFound:
		return true
	default:
		return false
	}
}

// AuthError is a classified authentication failure. It wraps the original
// error so local handling can still inspect it.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// Message returns the user-facing message for the error.
func (e *AuthError) Message() string { return e.Kind.Message() }

// providerKinds maps identity-provider exception names to kinds.
var providerKinds = map[string]AuthErrorKind{
	"UserNotConfirmedException":      KindUserNotConfirmed,
	"NewPasswordChallenge":           KindNewPasswordRequired,
	"NotAuthorizedException":         KindInvalidCredentials,
	"UserNotFoundException":          KindUserNotFound,
	"UserDisabledException":          KindUserDisabled,
	"PasswordResetRequiredException": KindPasswordResetRequired,
	"InvalidParameterException":      KindInvalidParameter,
	"InvalidPasswordException":       KindInvalidPassword,
	"TooManyRequestsException":       KindRateLimited,
	"LimitExceededException":         KindRateLimited,
	"NetworkError":                   KindNetworkError,
	"ServiceUnavailableException":    KindServiceUnavailable,
	"NoTenantsFoundException":        KindNoTenantsFound,
	"SsoNotConfiguredException":      KindSSONotConfigured,
}

// Classify converts any error into an AuthError with a known kind.
// It is the single classification point for identity-provider failures.
func Classify(err error) *AuthError {
	if err == nil {
		return nil
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if kind, ok := providerKinds[provErr.Name]; ok {
			return &AuthError{Kind: kind, Err: err}
		}
		return &AuthError{Kind: KindUnknown, Err: err}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrNoCredential),
		errors.Is(err, ErrTokenExpired):
		return &AuthError{Kind: KindNotAuthenticated, Err: err}
	case errors.Is(err, ErrRateLimited):
		return &AuthError{Kind: KindRateLimited, Err: err}
	case errors.Is(err, ErrProviderUnavailable), errors.Is(err, ErrJWKSUnavailable):
		return &AuthError{Kind: KindServiceUnavailable, Err: err}
	case errors.As(err, &netErr):
		return &AuthError{Kind: KindNetworkError, Err: err}
	default:
		return &AuthError{Kind: KindUnknown, Err: err}
	}
}
