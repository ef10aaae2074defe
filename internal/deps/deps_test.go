package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goplus/vxlpkg/mod/module"
)

func installFake(t *testing.T, s *Store, mods ...module.Version) {
	t.Helper()
	for _, m := range mods {
		dir, err := s.Dir(m)
		if err != nil {
			t.Fatalf("Dir(%s): %v", m, err)
		}
		if err := os.MkdirAll(filepath.Join(dir, "lib"), 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestStore_Dir(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	got, err := s.Dir(module.Version{Path: "zlib", Version: "1.2.11"})
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if want := filepath.Join(root, "zlib@1.2.11"); got != want {
		t.Errorf("Dir = %q, want %q", got, want)
	}
	if _, err := s.Dir(module.Version{Path: "/abs", Version: "1"}); err == nil {
		t.Error("Dir accepted an absolute package name")
	}
}

func TestStore_Provide(t *testing.T) {
	s := NewStore(t.TempDir())
	zlib := module.Version{Path: "zlib", Version: "1.2.11"}
	clipper := module.Version{Path: "clipper", Version: "6.4.2"}
	installFake(t, s, zlib, clipper)

	pkgs, err := s.Provide(context.Background(), []module.Version{clipper, zlib})
	if err != nil {
		t.Fatalf("Provide: %v", err)
	}
	if len(pkgs) != 2 || pkgs[0].Version != clipper || pkgs[1].Version != zlib {
		t.Fatalf("Provide = %v", pkgs)
	}
	for _, p := range pkgs {
		if _, err := os.Stat(filepath.Join(p.Root, "lib")); err != nil {
			t.Errorf("%s: root %s has no lib dir", p.Version, p.Root)
		}
	}

	pkgs, err = s.Provide(context.Background(), nil)
	if err != nil || len(pkgs) != 0 {
		t.Errorf("Provide(nil) = %v, %v; want empty", pkgs, err)
	}
}

func TestStore_ProvideMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	zlib := module.Version{Path: "zlib", Version: "1.2.11"}
	installFake(t, s, zlib)

	// another version of an installed package does not count
	reqs := []module.Version{
		{Path: "dcmtk", Version: "3.6.6"},
		zlib,
		{Path: "zlib", Version: "1.2.13"},
	}
	pkgs, err := s.Provide(context.Background(), reqs)
	if pkgs != nil {
		t.Errorf("Provide returned packages alongside an error: %v", pkgs)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Provide = %v, want %v", err, ErrNotFound)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %T, want *NotFoundError", err)
	}
	if len(nf.Missing) != 2 {
		t.Errorf("Missing = %v, want 2 entries", nf.Missing)
	}
	if want := "package not found: dcmtk/3.6.6, zlib/1.2.13"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestStore_ProvideCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStore(t.TempDir()).Provide(ctx, []module.Version{{Path: "zlib", Version: "1.2.11"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Provide = %v, want %v", err, context.Canceled)
	}
}
