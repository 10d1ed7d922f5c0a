package tx

// Result is the outcome code of a single applied operation. Failures
// surface as codes on the operation result, never as process faults: a
// failed operation voids its enclosing transaction, and the ledger
// close itself always completes.
type Result int

const (
	OpSuccess Result = iota

	// Order book / matching
	OpInvalidOffer
	OpOfferNotFound
	OpInsufficientLiquidity

	// Trustlines and authorization
	OpNotAuthorized
	OpNoTrustLine
	OpLimitBelowBalance
	OpAuthNotRevocable
	OpAuthNotRequired
	OpLineFull
	OpUnderfunded

	// Path payments
	OpTooFewDestAssets
	OpTooMuchSourceAssets
	OpPathTooLong

	// Accounts
	OpNoAccount
	OpNoDestination
	OpAccountExists
	OpHasObligations

	// Structure
	OpMalformed
	OpNotAttempted
	OpInternal
)

var resultNames = map[Result]string{
	OpSuccess:               "op_success",
	OpInvalidOffer:          "op_invalid_offer",
	OpOfferNotFound:         "op_offer_not_found",
	OpInsufficientLiquidity: "op_insufficient_liquidity",
	OpNotAuthorized:         "op_not_authorized",
	OpNoTrustLine:           "op_no_trust_line",
	OpLimitBelowBalance:     "op_limit_below_balance",
	OpAuthNotRevocable:      "op_auth_not_revocable",
	OpAuthNotRequired:       "op_auth_not_required",
	OpLineFull:              "op_line_full",
	OpUnderfunded:           "op_underfunded",
	OpTooFewDestAssets:      "op_too_few_dest_assets",
	OpTooMuchSourceAssets:   "op_too_much_source_assets",
	OpPathTooLong:           "op_path_too_long",
	OpNoAccount:             "op_no_account",
	OpNoDestination:         "op_no_destination",
	OpAccountExists:         "op_account_exists",
	OpHasObligations:        "op_has_obligations",
	OpMalformed:             "op_malformed",
	OpNotAttempted:          "op_not_attempted",
	OpInternal:              "op_internal",
}

func (r Result) String() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return "op_unknown"
}

// IsSuccess reports whether the operation applied.
func (r Result) IsSuccess() bool {
	return r == OpSuccess
}
