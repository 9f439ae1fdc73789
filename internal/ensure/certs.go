package ensure

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// CertFile is a piece of TLS material to install.
type CertFile struct {
	Name string
	Data []byte
}

// IsKey reports whether the file holds a private key.
func (f CertFile) IsKey() bool {
	name := strings.ToLower(f.Name)
	return strings.Contains(name, "key") || strings.Contains(string(f.Data), "PRIVATE KEY-----")
}

// CertSource yields TLS material from somewhere the operator controls.
type CertSource interface {
	Fetch(ctx context.Context) ([]CertFile, error)
}

// LocalGlob reads TLS material from local files matching a glob pattern.
type LocalGlob string

// Fetch implements CertSource.
func (g LocalGlob) Fetch(_ context.Context) ([]CertFile, error) {
	matches, err := filepath.Glob(string(g))
	if err != nil {
		return nil, fmt.Errorf("invalid certificate pattern %q: %w", string(g), err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no certificate files match %q", string(g))
	}
	sort.Strings(matches)

	files := make([]CertFile, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", m, err)
		}
		if info.IsDir() {
			continue
		}
		// #nosec G304
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", m, err)
		}
		files = append(files, CertFile{Name: filepath.Base(m), Data: data})
	}
	return files, nil
}

// CertPaths are the remote locations of the installed certificate and key.
type CertPaths struct {
	Certificate string
	Key         string
	All         []string
}

// Certificates installs the files from src into remoteDir. Keys get mode
// 0600, everything else 0644. The directory is owned by root.
//
// <name>.pem and <name>.key are served when present. Otherwise a fullchain
// file, then the first other certificate and the first key are used.
func (h *Host) Certificates(ctx context.Context, src CertSource, remoteDir, name string) (CertPaths, error) {
	files, err := src.Fetch(ctx)
	if err != nil {
		return CertPaths{}, err
	}
	if len(files) == 0 {
		return CertPaths{}, fmt.Errorf("certificate source returned no files")
	}

	if err := h.Directory(ctx, remoteDir, "root", "root", 0o755); err != nil {
		return CertPaths{}, err
	}

	var (
		paths     CertPaths
		named     CertPaths
		fullchain string
	)
	for _, f := range files {
		dst := path.Join(remoteDir, f.Name)
		mode := os.FileMode(0o644)
		if f.IsKey() {
			mode = 0o600
		}
		if _, err := h.File(ctx, dst, f.Data, "root", mode); err != nil {
			return CertPaths{}, err
		}
		paths.All = append(paths.All, dst)

		switch {
		case f.IsKey():
			if name != "" && f.Name == name+".key" {
				named.Key = dst
			}
			if paths.Key == "" {
				paths.Key = dst
			}
		default:
			if name != "" && f.Name == name+".pem" {
				named.Certificate = dst
			}
			if fullchain == "" && strings.Contains(f.Name, "fullchain") {
				fullchain = dst
			}
			if paths.Certificate == "" {
				paths.Certificate = dst
			}
		}
	}
	paths.Certificate = cmp.Or(named.Certificate, fullchain, paths.Certificate)
	paths.Key = cmp.Or(named.Key, paths.Key)

	if paths.Certificate == "" || paths.Key == "" {
		return paths, fmt.Errorf("expected a certificate and a private key, got %d file(s)", len(files))
	}
	return paths, nil
}
