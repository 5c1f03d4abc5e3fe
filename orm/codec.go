package orm

import (
	"reflect"

	"github.com/iov-one/vault/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Marshal serializes a model using the binary amino encoding.
func Marshal(m Model) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "cannot marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal loads serialized data into given model. Destination must be a
// pointer. Empty data is the encoding of a zero value model.
func Unmarshal(raw []byte, dest Model) error {
	if len(raw) == 0 {
		v := reflect.ValueOf(dest)
		if v.Kind() != reflect.Ptr || v.IsNil() {
			return errors.Wrapf(errors.ErrHuman, "%T is not a pointer", dest)
		}
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}
