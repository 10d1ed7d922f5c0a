package tx

import (
	"errors"

	"github.com/lumenforge/lumend/internal/core/asset"
)

// AllowTrust grants or revokes the trustor's authorization to hold a
// credit issued by the source account.
type AllowTrust struct {
	BaseOp
	Trustor   string
	AssetCode string
	Authorize bool
}

func (op *AllowTrust) Kind() OpKind { return KindAllowTrust }

func (op *AllowTrust) Validate() error {
	if op.Trustor == "" {
		return errors.New("allow_trust: missing trustor")
	}
	if op.AssetCode == "" || len(op.AssetCode) > 12 {
		return errors.New("allow_trust: bad asset code")
	}
	return nil
}

func (op *AllowTrust) apply(ctx *applyContext) Result {
	issuer := ctx.opSource(op.BaseOp)
	st := ctx.state

	acc := st.Account(issuer)
	if acc == nil {
		return OpNoAccount
	}
	if op.Trustor == issuer {
		return OpMalformed
	}
	if !acc.Flags.AuthRequired {
		return OpAuthNotRequired
	}
	if !op.Authorize && !acc.Flags.AuthRevocable {
		return OpAuthNotRevocable
	}

	line := st.TrustLine(op.Trustor, asset.Credit(op.AssetCode, issuer))
	if line == nil {
		return OpNoTrustLine
	}
	line.Authorized = op.Authorize
	return OpSuccess
}
