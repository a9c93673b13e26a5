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

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/klauspost/compress/gzip"
)

// Verify reads an archive frame from r, checks the magic header, and
// verifies the detached signature over the remaining gzip(tar(...))
// bytes against pub. On success it returns those compressed payload
// bytes unchanged.
func Verify(r io.Reader, pub ed25519.PublicKey) ([]byte, error) {
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("not a turboshell archive: bad magic %q", magic)
	}

	sigB64 := make([]byte, SignatureB64Len)
	if _, err := io.ReadFull(r, sigB64); err != nil {
		return nil, fmt.Errorf("reading signature: %w", err)
	}
	sig, err := base64.StdEncoding.DecodeString(string(sigB64))
	if err != nil {
		return nil, fmt.Errorf("signature is not valid base64: %w", err)
	}
	if len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("signature is %d bytes, want %d", len(sig), ed25519.SignatureSize)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}

	if !ed25519.Verify(pub, payload, sig) {
		return nil, fmt.Errorf("signature verification failed")
	}
	return payload, nil
}

// Explode gunzips and untars payload into basedir, recreating every
// directory and regular file it contains with its stored permissions.
// Any entry type other than a regular file or directory (symlinks, hard
// links, devices) is a hard failure: archives never carry them.
func Explode(payload []byte, basedir string) error {
	gz, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		target := filepath.Join(basedir, filepath.FromSlash(hdr.Name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, fs.FileMode(hdr.Mode).Perm()); err != nil {
				return fmt.Errorf("creating %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating parent of %s: %w", hdr.Name, err)
			}
			if err := writeExplodedFile(target, tr, fs.FileMode(hdr.Mode).Perm()); err != nil {
				return fmt.Errorf("writing %s: %w", hdr.Name, err)
			}
		default:
			return fmt.Errorf("unexpected tar entry %s of type %d: archives carry only directories and regular files", hdr.Name, hdr.Typeflag)
		}
	}
}

func writeExplodedFile(target string, r io.Reader, mode fs.FileMode) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}
