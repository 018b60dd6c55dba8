package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateTitle  = errors.New("duplicate title")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrProductNotFound = errors.New("product not found")
	ErrMissingID       = errors.New("missing id")
	ErrNotFound        = errors.New("not found")
	ErrDatabase        = errors.New("database error")
	ErrTimeout         = errors.New("request timed out")
)

var (
	ErrNoToken          = errors.New("no bearer token")
	ErrTokenMalformed   = errors.New("malformed token")
	ErrHeaderMalformed  = errors.New("malformed token header")
	ErrKeyResolution    = errors.New("key resolution failed")
	ErrSignatureInvalid = errors.New("signature invalid")
	ErrClaimInvalid     = errors.New("claim invalid")
)

// Sub-reasons of ErrKeyResolution. ErrKeyFetch means the key-set endpoint was
// unreachable or returned garbage; it must never be conflated with an unknown
// kid, since callers treat one as retryable and the other as a bad token.
var (
	ErrUnknownKey = fmt.Errorf("%w: unknown signing key", ErrKeyResolution)
	ErrKeyFetch   = fmt.Errorf("%w: key set fetch failed", ErrKeyResolution)
)

// Sub-reasons of ErrClaimInvalid, kept distinct so tests and internal logs can
// tell them apart. The HTTP surface only ever reports the coarse code.
var (
	ErrTokenExpired     = fmt.Errorf("%w: token expired", ErrClaimInvalid)
	ErrTokenNotYetValid = fmt.Errorf("%w: token not yet valid", ErrClaimInvalid)
	ErrIssuerMismatch   = fmt.Errorf("%w: issuer mismatch", ErrClaimInvalid)
	ErrAudienceMismatch = fmt.Errorf("%w: audience mismatch", ErrClaimInvalid)
)

// AuthCode maps an authentication failure to its stable wire code.
func AuthCode(err error) string {
	switch {
	case errors.Is(err, ErrNoToken):
		return "NoToken"
	case errors.Is(err, ErrTokenMalformed):
		return "MalformedToken"
	case errors.Is(err, ErrHeaderMalformed):
		return "MalformedHeader"
	case errors.Is(err, ErrKeyResolution):
		return "KeyResolutionFailed"
	case errors.Is(err, ErrSignatureInvalid):
		return "SignatureInvalid"
	case errors.Is(err, ErrClaimInvalid):
		return "ClaimInvalid"
	default:
		return "Unauthorized"
	}
}
