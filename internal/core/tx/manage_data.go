package tx

import (
	"errors"
	"fmt"
)

// ManageData sets or deletes one named data entry on the source
// account. A nil value deletes the entry.
type ManageData struct {
	BaseOp
	Name  string
	Value []byte
}

func (op *ManageData) Kind() OpKind { return KindManageData }

func (op *ManageData) Validate() error {
	if op.Name == "" || len(op.Name) > 64 {
		return errors.New("manage_data: name must be 1-64 bytes")
	}
	if len(op.Value) > 64 {
		return fmt.Errorf("manage_data: value exceeds 64 bytes (%d)", len(op.Value))
	}
	return nil
}

func (op *ManageData) apply(ctx *applyContext) Result {
	acc := ctx.state.Account(ctx.opSource(op.BaseOp))
	if acc == nil {
		return OpNoAccount
	}
	if op.Value == nil {
		delete(acc.Data, op.Name)
		return OpSuccess
	}
	if acc.Data == nil {
		acc.Data = make(map[string][]byte)
	}
	acc.Data[op.Name] = append([]byte(nil), op.Value...)
	return OpSuccess
}
