package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DevVersion is the version string of builds without release ldflags.
const DevVersion = "(devel)"

// Progress is reported at each update stage: check, download, verify,
// extract, apply and done.
type Progress struct {
	Stage   string
	Message string
}

// Update installs the latest release over the running executable and
// returns the installed version. target may name a specific tag.
func (c *Checker) Update(ctx context.Context, current, target string, report func(Progress)) (string, error) {
	if current == DevVersion {
		return "", ErrDevBuild
	}
	if report == nil {
		report = func(Progress) {}
	}

	tag := target
	if tag == "" {
		report(Progress{"check", "Checking for latest version..."})
		rel, err := c.Latest(ctx, current)
		if err != nil {
			return "", fmt.Errorf("check for updates: %w", err)
		}
		if !rel.Newer {
			return "", ErrAlreadyLatest
		}
		tag = rel.Version
	}

	asset, err := assetNameFor(c.goos, c.goarch)
	if err != nil {
		return "", err
	}
	releaseURL := fmt.Sprintf("%s/%s/%s/releases/download/%s", c.downloadBaseURL, c.owner, c.repo, tag)

	report(Progress{"download", fmt.Sprintf("Downloading %s...", tag)})
	archive, err := c.fetch(ctx, releaseURL+"/"+asset)
	if err != nil {
		return "", fmt.Errorf("download archive: %w", err)
	}

	report(Progress{"verify", "Verifying checksum..."})
	sums, err := c.fetch(ctx, releaseURL+"/checksums.txt")
	if err != nil {
		return "", fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums)[asset]
	if !ok {
		return "", fmt.Errorf("no checksum found for %s in checksums.txt", asset)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return "", err
	}

	report(Progress{"extract", "Extracting binary..."})
	binary, err := extractBinary(archive, asset)
	if err != nil {
		return "", fmt.Errorf("extract binary: %w", err)
	}

	report(Progress{"apply", "Applying update..."})
	path, err := c.execPath()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceFile(path, binary); err != nil {
		return "", fmt.Errorf("apply update: %w", err)
	}

	report(Progress{"done", fmt.Sprintf("Updated to %s", tag)})
	return tag, nil
}

// assetNameFor follows the goreleaser archive naming of the release job.
func assetNameFor(goos, goarch string) (string, error) {
	if goos == "darwin" {
		return BinaryName + "_Darwin_all.tar.gz", nil
	}
	arch := map[string]string{"amd64": "x86_64", "arm64": "arm64", "386": "i386"}[goarch]
	if arch == "" {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "linux":
		return fmt.Sprintf("%s_Linux_%s.tar.gz", BinaryName, arch), nil
	case "windows":
		return fmt.Sprintf("%s_Windows_%s.zip", BinaryName, arch), nil
	}
	return "", fmt.Errorf("unsupported operating system: %s", goos)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// parseChecksums reads "<sha256>  <file>" lines.
func parseChecksums(data []byte) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if parts := strings.Fields(line); len(parts) == 2 {
			out[parts[1]] = parts[0]
		}
	}
	return out
}

func verifyChecksum(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != wantHex {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, wantHex, got)
	}
	return nil
}

func extractBinary(archive []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		return extractFromZip(archive, BinaryName+".exe")
	}
	return extractFromTarGz(archive, BinaryName)
}

func extractFromTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("binary %q not found in archive", name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
}

func extractFromZip(data []byte, name string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// replaceFile writes data next to path and renames it into place, keeping
// the original file mode. The written copy is re-hashed before the rename.
func replaceFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	tmpDir, err := os.MkdirTemp(filepath.Dir(path), "."+BinaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	tmp := filepath.Join(tmpDir, BinaryName+"-new")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	written, err := os.ReadFile(tmp)
	if err != nil {
		return fmt.Errorf("re-read temp file: %w", err)
	}
	if sha256.Sum256(written) != sha256.Sum256(data) {
		return fmt.Errorf("%w: temp file changed after write", ErrChecksum)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	if err := os.Chmod(path, info.Mode()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return nil
}
