package recipe

import "errors"

var (
	ErrUnsupportedCppStd           = errors.New("unsupported language standard")
	ErrProbabilityRequiresNumerics = errors.New("core_probability requires core_numerics")
	ErrGUIRequiresCore             = errors.New("gui requires core_numerics, core_geometry, core_serialisation, core_utilities and core_imaging")
	ErrVideoRequiresImaging        = errors.New("core_video requires core_utilities and core_imaging")
	ErrConflictingRequirement      = errors.New("conflicting requirement")
)

// ConfigError reports a configuration that must not be built.
// Err is one of the Err* values above.
type ConfigError struct {
	Err    error
	Detail string
}

func (e *ConfigError) Error() string {
	msg := "invalid configuration: " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
