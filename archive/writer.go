package archive

import (
	"archive/tar"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/klauspost/compress/gzip"

	"github.com/turboshell-dev/turboshell/internal/events"
	"github.com/turboshell-dev/turboshell/manifest"
	"github.com/turboshell-dev/turboshell/resolver"
)

// Write builds the signed archive for rl and its resolved executables,
// writing the full frame (magic, signature, gzip(tar(payload))) to w. l
// is notified once the archive has been fully flushed; a nil l is valid.
func Write(w io.Writer, rl *manifest.RunList, execs []resolver.Executable, priv ed25519.PrivateKey, l events.Listener) error {
	payload, err := buildPayload(rl, execs)
	if err != nil {
		return fmt.Errorf("building archive payload: %w", err)
	}

	sig := ed25519.Sign(priv, payload)

	if _, err := io.WriteString(w, Magic); err != nil {
		return fmt.Errorf("writing magic: %w", err)
	}
	sigB64 := base64.StdEncoding.EncodeToString(sig)
	if len(sigB64) != SignatureB64Len {
		return fmt.Errorf("internal error: signature block is %d bytes, want %d", len(sigB64), SignatureB64Len)
	}
	if _, err := io.WriteString(w, sigB64); err != nil {
		return fmt.Errorf("writing signature: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("writing compressed payload: %w", err)
	}

	events.Emit(l, events.ArchiveWritten{
		Roles:    len(rl.Roles),
		Packages: len(execs),
		Bytes:    len(Magic) + SignatureB64Len + len(payload),
	})
	return nil
}

// buildPayload produces the gzip-compressed tar bytes that get signed.
func buildPayload(rl *manifest.RunList, execs []resolver.Executable) ([]byte, error) {
	var gzBuf bytes.Buffer
	gz := gzip.NewWriter(&gzBuf)
	tw := tar.NewWriter(gz)

	archiveToml, err := rl.Encode()
	if err != nil {
		return nil, err
	}
	if err := writeRegular(tw, "archive.toml", archiveToml, 0o444); err != nil {
		return nil, fmt.Errorf("writing archive.toml: %w", err)
	}

	rolesMode := fs.FileMode(0o755)
	if info, err := os.Stat(filepath.Join(rl.BaseDir, "roles")); err == nil {
		rolesMode = info.Mode()
	}
	if err := writeDir(tw, "roles/", rolesMode); err != nil {
		return nil, fmt.Errorf("writing roles/ entry: %w", err)
	}

	for _, role := range rl.Roles {
		rel, err := manifest.RolePath(rl.BaseDir, role)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", role.Name, err)
		}
		mode, err := manifest.StatRole(role)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", role.Name, err)
		}
		data, err := os.ReadFile(role.Path)
		if err != nil {
			return nil, fmt.Errorf("reading role manifest %s: %w", role.Path, err)
		}
		if err := writeRegular(tw, rel, data, mode); err != nil {
			return nil, fmt.Errorf("writing role %s: %w", role.Name, err)
		}
	}

	seen := make(map[string]bool, len(execs))
	for _, ex := range execs {
		if seen[ex.Name] {
			continue
		}
		seen[ex.Name] = true
		if err := walkPackageDir(tw, rl.BaseDir, ex.Dir); err != nil {
			return nil, fmt.Errorf("packaging %s: %w", ex.Name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing tar writer: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer: %w", err)
	}
	return gzBuf.Bytes(), nil
}

func writeRegular(tw *tar.Writer, name string, data []byte, mode fs.FileMode) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Format:   tar.FormatGNU,
		Name:     name,
		Size:     int64(len(data)),
		Mode:     int64(mode.Perm()),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

func writeDir(tw *tar.Writer, name string, mode fs.FileMode) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeDir,
		Format:   tar.FormatGNU,
		Name:     name,
		Size:     0,
		Mode:     int64(mode.Perm()),
	}
	return tw.WriteHeader(hdr)
}

// walkPackageDir recursively adds pkgDir's tree to tw, skipping any entry
// whose basename begins with ".". Archive paths are pkgDir's absolute
// path with basedir (plus a trailing slash) stripped.
func walkPackageDir(tw *tar.Writer, basedir, pkgDir string) error {
	return filepath.WalkDir(pkgDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(basedir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		if d.IsDir() {
			return writeDir(tw, rel+"/", info.Mode())
		}

		return streamRegular(tw, path, rel, info)
	})
}

// streamRegular copies path's contents into tw without buffering the whole
// file in memory, mirroring the teacher's preference for streaming package
// payloads straight from disk.
func streamRegular(tw *tar.Writer, path, rel string, info fs.FileInfo) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Format:   tar.FormatGNU,
		Name:     rel,
		Size:     info.Size(),
		Mode:     int64(info.Mode().Perm()),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}
