package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

// MinCppStd is the oldest C++ standard VXL compiles with.
const MinCppStd = "11"

// draft names some compilers accept before a standard is final
var draftStd = map[string]int{
	"0x": 2011,
	"1y": 2014,
	"1z": 2017,
	"2a": 2020,
	"2b": 2023,
	"2c": 2026,
}

// CheckMinCppStd fails with ErrUnsupportedCppStd if cppstd is older than
// min. A "gnu" prefix is ignored, so gnu14 counts as 14.
func CheckMinCppStd(cppstd, min string) error {
	have, err := cppStdYear(cppstd)
	if err != nil {
		return &ConfigError{Err: ErrUnsupportedCppStd, Detail: err.Error()}
	}
	want, err := cppStdYear(min)
	if err != nil {
		return &ConfigError{Err: ErrUnsupportedCppStd, Detail: err.Error()}
	}
	if have < want {
		return &ConfigError{
			Err:    ErrUnsupportedCppStd,
			Detail: fmt.Sprintf("current cppstd (%s) is lower than the required C++ standard (%s)", cppstd, min),
		}
	}
	return nil
}

// cppStdYear maps a standard setting to its publication year.
func cppStdYear(v string) (int, error) {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), "gnu")
	if year, ok := draftStd[s]; ok {
		return year, nil
	}
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid cppstd %q", v)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid cppstd %q", v)
	}
	if n >= 98 {
		return 1900 + n, nil
	}
	return 2000 + n, nil
}
