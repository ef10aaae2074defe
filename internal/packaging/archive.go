package packaging

import (
	"archive/tar"
	"archive/zip"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
	"lukechampine.com/blake3"
)

// Format is the layout of a package artifact.
type Format string

const (
	FormatDir    Format = "dir"
	FormatZip    Format = "zip"
	FormatTar    Format = "tar"
	FormatTarGz  Format = "tar.gz"
	FormatTarZst Format = "tar.zst"
	FormatTarXz  Format = "tar.xz"
)

// DigestExt is appended to an archive path to name its digest file.
const DigestExt = ".b3"

// Artifact is a written package.
type Artifact struct {
	Path   string
	Format Format
	Digest string // hex BLAKE3-256 of the archive, empty for FormatDir
}

// FormatOf infers the artifact format from the destination name.
func FormatOf(dest string) Format {
	name := strings.ToLower(dest)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return FormatZip
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatTarGz
	case strings.HasSuffix(name, ".tar.zst"):
		return FormatTarZst
	case strings.HasSuffix(name, ".tar.xz"):
		return FormatTarXz
	case strings.HasSuffix(name, ".tar"):
		return FormatTar
	}
	return FormatDir
}

// Archive writes the contents of srcDir to dest in the format implied by
// its name. Archives get a "<dest>.b3" file holding their digest in the
// format printed by b3sum.
func Archive(srcDir, dest string) (*Artifact, error) {
	format := FormatOf(dest)
	if format == FormatDir {
		if err := copyDir(srcDir, dest); err != nil {
			return nil, fmt.Errorf("copy %s: %w", srcDir, err)
		}
		return &Artifact{Path: dest, Format: format}, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, err
	}
	if err := writeArchive(srcDir, dest, format); err != nil {
		os.Remove(dest)
		return nil, err
	}
	digest, err := FileDigest(dest)
	if err != nil {
		return nil, err
	}
	line := digest + "  " + filepath.Base(dest) + "\n"
	if err := os.WriteFile(dest+DigestExt, []byte(line), 0o644); err != nil {
		return nil, err
	}
	return &Artifact{Path: dest, Format: format, Digest: digest}, nil
}

// FileDigest returns the hex BLAKE3-256 digest of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeArchive(srcDir, dest string, format Format) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	if format == FormatZip {
		if err := zipDir(srcDir, f); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		return f.Close()
	}

	var w io.WriteCloser
	switch format {
	case FormatTarGz:
		w = pgzip.NewWriter(f)
	case FormatTarZst:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = zw
	case FormatTarXz:
		xw, err := xz.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to create xz writer: %w", err)
		}
		w = xw
	default:
		w = nopCloser{f}
	}
	if err := tarDir(srcDir, w); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

// copyDir copies srcDir into dest, replacing what is already there.
// Symlinks are recreated, not followed.
func copyDir(srcDir, dest string) error {
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("readlink %s: %w", path, err)
			}
			if err := removeFile(target); err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			if err := removeFile(target); err != nil {
				return err
			}
			return copyFile(path, target, info.Mode().Perm())
		}
		return nil
	})
}

// removeFile removes a file or symlink at path, so that writing a
// replacement never goes through an old link.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func copyFile(src, dest string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// zipDir writes the contents of srcDir to w as a zip archive.
func zipDir(srcDir string, out io.Writer) error {
	w := zip.NewWriter(out)

	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			// a zip symlink stores its target as the entry body
			link, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("readlink %s: %w", path, err)
			}
			_, err = io.WriteString(writer, link)
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		return err
	}
	return w.Close()
}

// tarDir writes the contents of srcDir to w as a tar stream.
// Entries are root-owned so the archive does not depend on the builder.
func tarDir(srcDir string, w io.Writer) error {
	tw := tar.NewWriter(w)

	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		var linkTarget string
		if info.Mode()&os.ModeSymlink != 0 {
			// installed libraries are often symlink chains
			linkTarget, err = os.Readlink(path)
			if err != nil {
				return fmt.Errorf("readlink %s: %w", path, err)
			}
		}
		hdr, err := tar.FileInfoHeader(info, linkTarget)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}
		hdr.Uid, hdr.Gid = 0, 0
		hdr.Uname, hdr.Gname = "root", "root"

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}
	return tw.Close()
}
