package ant

import "github.com/antlang/ant/internal/ant/anterr"

// ErrorCode and AntError are re-exported from internal/ant/anterr so that
// the substrate packages (memo, fetch, cek) can construct and panic with
// the same typed error the public API returns, without pkg/ant importing
// back into them (spec section 9.1).
type ErrorCode = anterr.ErrorCode

type AntError = anterr.AntError

const (
	ErrUnknown              = anterr.ErrUnknown
	ErrInvalidConfig        = anterr.ErrInvalidConfig
	ErrBlackHoleReentry     = anterr.ErrBlackHoleReentry
	ErrDepthMismatch        = anterr.ErrDepthMismatch
	ErrValueAliased         = anterr.ErrValueAliased
	ErrDegreeMismatch       = anterr.ErrDegreeMismatch
	ErrUnknownWordTag       = anterr.ErrUnknownWordTag
	ErrNonWellformedContext = anterr.ErrNonWellformedContext
	ErrNoRuleApplicable     = anterr.ErrNoRuleApplicable
	ErrRequestMismatch      = anterr.ErrRequestMismatch
)
