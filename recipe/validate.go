package recipe

// Rule is one cross-option constraint.
type Rule struct {
	Err      error
	Violated func(o Options) bool
}

// Rules are checked in order by Validate.
var Rules = []Rule{
	{
		Err: ErrProbabilityRequiresNumerics,
		Violated: func(o Options) bool {
			return o.Get(CoreProbability) && !o.Get(CoreNumerics)
		},
	},
	{
		Err: ErrGUIRequiresCore,
		Violated: func(o Options) bool {
			return o.Get(GUI) && !(o.Get(CoreNumerics) && o.Get(CoreGeometry) &&
				o.Get(CoreSerialisation) && o.Get(CoreUtilities) && o.Get(CoreImaging))
		},
	},
	{
		Err: ErrVideoRequiresImaging,
		Violated: func(o Options) bool {
			return o.Get(CoreVideo) && !(o.Get(CoreUtilities) && o.Get(CoreImaging))
		},
	},
}

// Validate checks o against s and every Rule, returning the first
// violation as a *ConfigError. An unset s.CppStd is not checked.
func Validate(o Options, s Settings) error {
	if s.CppStd != "" {
		if err := CheckMinCppStd(s.CppStd, MinCppStd); err != nil {
			return err
		}
	}
	for _, r := range Rules {
		if r.Violated(o) {
			return &ConfigError{Err: r.Err}
		}
	}
	return nil
}
