package packaging

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCopyLicense(t *testing.T) {
	src, pkg := t.TempDir(), t.TempDir()
	writeFiles(t, src, map[string]string{"LICENSE": "BSD-3-Clause\n"})

	if err := CopyLicense(src, pkg); err != nil {
		t.Fatalf("CopyLicense: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(pkg, "licenses", "LICENSE"))
	if err != nil {
		t.Fatalf("license not copied: %v", err)
	}
	if string(data) != "BSD-3-Clause\n" {
		t.Errorf("license = %q", data)
	}
}

func TestCopyLicenseMissing(t *testing.T) {
	err := CopyLicense(t.TempDir(), t.TempDir())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("CopyLicense = %v, want %v", err, fs.ErrNotExist)
	}
}

func TestCollectLibs(t *testing.T) {
	pkg := t.TempDir()
	writeFiles(t, pkg, map[string]string{
		"lib/libvnl.a":             "",
		"lib/libvnl.so":            "",
		"lib/libvgl.dylib":         "",
		"lib/vil.lib":              "",
		"lib/libvul.lib":           "",
		"lib/libvsl.bc":            "",
		"lib/libvnl.so.2.0.2":      "",
		"lib/cmake/vxl/config.txt": "",
		"lib/README":               "",
		"include/vxl/vnl.h":        "",
	})

	libs, err := CollectLibs(pkg)
	if err != nil {
		t.Fatalf("CollectLibs: %v", err)
	}
	want := []string{"libvul", "vgl", "vil", "vnl", "vsl"}
	if !reflect.DeepEqual(libs, want) {
		t.Errorf("CollectLibs = %v, want %v", libs, want)
	}
	if got := LinkFlags(libs); got != "-llibvul -lvgl -lvil -lvnl -lvsl" {
		t.Errorf("LinkFlags = %q", got)
	}
}

func TestCollectLibsNoLibDir(t *testing.T) {
	libs, err := CollectLibs(t.TempDir())
	if err != nil || len(libs) != 0 {
		t.Errorf("CollectLibs = %v, %v; want empty", libs, err)
	}
}
