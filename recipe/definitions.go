package recipe

import "sort"

// Definitions are the CMake cache entries passed to the build tool.
// Values are bool or string.
type Definitions map[string]any

// Keys returns the definition names in sorted order.
func (d Definitions) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildDefinitions maps o and s to the CMake switches of the VXL tree.
// On Windows it emits VXL_USE_WIN_WCHAR_T, elsewhere
// VXL_BUILD_POSITION_DEPENDENT_CODE; never both.
func BuildDefinitions(o Options, s Settings) Definitions {
	d := Definitions{
		// root CMakeLists.txt
		"VXL_LEGACY_FUTURE_REMOVE":                true,
		"VXL_USE_HISTORICAL_IMPLICIT_CONVERSIONS": true,
		"VXL_USE_HISTORICAL_PROTECTED_IVARS":      true,
		"VXL_USE_LFS":                             false,
		"VXL_BUILD_CORE_NUMERICS_ONLY":            false,
		"VXL_BUILD_CORE_NUMERICS":                 o.Get(CoreNumerics),
		"VXL_BUILD_CORE_GEOMETRY":                 o.Get(CoreGeometry),
		"VXL_BUILD_CORE_SERIALISATION":            o.Get(CoreSerialisation),
		"VXL_BUILD_CORE_UTILITIES":                o.Get(CoreUtilities),
		"VXL_BUILD_CORE_IMAGING":                  o.Get(CoreImaging),
		"VXL_BUILD_EXAMPLES":                      false,
		"VXL_BUILD_NONDEPRECATED_ONLY":            true,
		"VXL_BUILD_CORE_PROBABILITY":              o.Get(CoreProbability),
		"VXL_USE_GEOTIFF":                         true,
		"VXL_BUILD_CONTRIB":                       false,
		"VXL_BUILD_OBJECT_LIBRARIES":              false,

		// core/CMakeLists.txt
		"VXL_BUILD_VGUI":       false,
		"VXL_BUILD_CORE_VIDEO": o.Get(CoreVideo),

		"BUILD_SHARED_LIBS": o.Get(Shared),
	}
	if s.IsWindows() {
		d["VXL_USE_WIN_WCHAR_T"] = true
	} else {
		d["VXL_BUILD_POSITION_DEPENDENT_CODE"] = o.GetSafe(FPIC, true)
	}
	if s.BuildType != "" {
		d["CMAKE_BUILD_TYPE"] = s.BuildType
	}
	return d
}
