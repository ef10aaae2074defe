// Package deps locates the installed packages a configuration requires.
package deps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goplus/vxlpkg/mod/module"
)

// ErrNotFound is matched by errors.Is for a *NotFoundError.
var ErrNotFound = errors.New("package not found")

// Package is a required package together with its install root.
type Package struct {
	module.Version
	Root string // directory holding include/, lib/, ...
}

// Provider makes required packages available to a build.
type Provider interface {
	// Provide returns one Package per requirement, in the same order.
	// If any requirement is unavailable no package is returned and the
	// error is a *NotFoundError listing all of them.
	Provide(ctx context.Context, requires []module.Version) ([]Package, error)
}

// NotFoundError lists requirements a Provider could not satisfy.
type NotFoundError struct {
	Missing []module.Version
}

func (e *NotFoundError) Error() string {
	refs := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		refs[i] = m.String()
	}
	return fmt.Sprintf("%s: %s", ErrNotFound, strings.Join(refs, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Store is a Provider backed by a directory of installed packages:
//
//	dir/
//	  <escaped name>@<version>/
//	    include/
//	    lib/
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the install root of mod inside the store. The directory
// may not exist.
func (s *Store) Dir(mod module.Version) (string, error) {
	escaped, err := module.EscapePath(mod.Path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", mod, err)
	}
	return filepath.Join(s.dir, escaped+"@"+mod.Version), nil
}

func (s *Store) Provide(ctx context.Context, requires []module.Version) ([]Package, error) {
	pkgs := make([]Package, 0, len(requires))
	var missing []module.Version
	for _, req := range requires {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		root, err := s.Dir(req)
		if err != nil {
			return nil, err
		}
		fi, err := os.Stat(root)
		if err != nil || !fi.IsDir() {
			missing = append(missing, req)
			continue
		}
		pkgs = append(pkgs, Package{Version: req, Root: root})
	}
	if len(missing) > 0 {
		return nil, &NotFoundError{Missing: missing}
	}
	return pkgs, nil
}
