//go:build !unix && !windows

package lockedfile

import (
	"errors"
	"os"
)

func lock(f *os.File) error {
	return errors.ErrUnsupported
}

func unlock(f *os.File) error {
	return errors.ErrUnsupported
}
