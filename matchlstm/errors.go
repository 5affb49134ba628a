package matchlstm

import "github.com/getlantern/errors"

// validationError reports a caller input that breaks the model's contract.
func validationError(desc string, args ...interface{}) error {
	return errors.New(desc, args...).Op("validate")
}

// deviceError reports parameters and activations living on different devices.
func deviceError(desc string, args ...interface{}) error {
	return errors.New(desc, args...).Op("device")
}
