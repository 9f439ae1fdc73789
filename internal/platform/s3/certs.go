package s3

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/imamik/hostkit/internal/ensure"
)

const urlScheme = "s3://"

// IsURL reports whether pattern names an object storage location.
func IsURL(pattern string) bool {
	return strings.HasPrefix(pattern, urlScheme)
}

// ParseURL splits s3://bucket/prefix into bucket and prefix.
func ParseURL(raw string) (bucket, prefix string, err error) {
	if !IsURL(raw) {
		return "", "", fmt.Errorf("not an s3 URL: %q", raw)
	}
	rest := strings.TrimPrefix(raw, urlScheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("s3 URL %q has no bucket", raw)
	}
	return bucket, prefix, nil
}

// CertSource fetches certificate files stored under a bucket prefix.
type CertSource struct {
	client *Client
	bucket string
	prefix string
}

var _ ensure.CertSource = (*CertSource)(nil)

// NewCertSource creates a source for the objects under url.
func NewCertSource(client *Client, url string) (*CertSource, error) {
	bucket, prefix, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &CertSource{client: client, bucket: bucket, prefix: prefix}, nil
}

// Fetch implements ensure.CertSource. Objects are named by the last element of
// their key; "directory" placeholder keys are skipped.
func (s *CertSource) Fetch(ctx context.Context) ([]ensure.CertFile, error) {
	keys, err := s.client.ListObjects(ctx, s.bucket, s.prefix)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	var files []ensure.CertFile
	for _, key := range keys {
		if strings.HasSuffix(key, "/") {
			continue
		}
		data, err := s.client.GetObject(ctx, s.bucket, key)
		if err != nil {
			return nil, err
		}
		files = append(files, ensure.CertFile{Name: path.Base(key), Data: data})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no certificate files under %s%s/%s", urlScheme, s.bucket, s.prefix)
	}
	return files, nil
}
