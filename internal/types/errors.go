package types

import "github.com/juju/errors"

// Error taxonomy of the core. ConfigError and a display HardwareError are
// fatal at boot; input HardwareError degrades to "no event"; AppLoadError
// and AppRuntimeError are recovered at the launcher boundary.

type ConfigError struct{ Err error }

func (e ConfigError) Error() string { return "config: " + e.Err.Error() }
func (e ConfigError) Unwrap() error { return e.Err }

func NewConfigError(format string, args ...interface{}) error {
	return ConfigError{Err: errors.Errorf(format, args...)}
}

func WrapConfig(err error, msg string) error {
	if err == nil {
		return nil
	}
	return ConfigError{Err: errors.Annotate(err, msg)}
}

func IsConfigError(err error) bool {
	_, ok := errors.Cause(err).(ConfigError)
	return ok
}

type HardwareError struct{ Err error }

func (e HardwareError) Error() string { return "hardware: " + e.Err.Error() }
func (e HardwareError) Unwrap() error { return e.Err }

func NewHardwareError(format string, args ...interface{}) error {
	return HardwareError{Err: errors.Errorf(format, args...)}
}

func WrapHardware(err error, msg string) error {
	if err == nil {
		return nil
	}
	return HardwareError{Err: errors.Annotate(err, msg)}
}

func IsHardwareError(err error) bool {
	_, ok := errors.Cause(err).(HardwareError)
	return ok
}

type AppLoadError struct {
	AppID string
	Err   error
}

func (e AppLoadError) Error() string { return "app load " + e.AppID + ": " + e.Err.Error() }
func (e AppLoadError) Unwrap() error { return e.Err }

func NewAppLoadError(appID string, err error) error {
	return AppLoadError{AppID: appID, Err: err}
}

func IsAppLoadError(err error) bool {
	_, ok := errors.Cause(err).(AppLoadError)
	return ok
}

type AppRuntimeError struct {
	AppID string
	Op    string // "handleInput" or "drawScreen"
	Err   error
}

func (e AppRuntimeError) Error() string {
	return "app " + e.AppID + " " + e.Op + ": " + e.Err.Error()
}
func (e AppRuntimeError) Unwrap() error { return e.Err }

func NewAppRuntimeError(appID, op string, err error) error {
	return AppRuntimeError{AppID: appID, Op: op, Err: err}
}

func IsAppRuntimeError(err error) bool {
	_, ok := errors.Cause(err).(AppRuntimeError)
	return ok
}
