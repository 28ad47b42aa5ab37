package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

type ExtractionCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// ExtractionCacheKey folds case in scheme and host, drops the fragment and a
// trailing slash, and keeps the query as is.
func ExtractionCacheKey(rawURL string) string {
	norm := strings.TrimSpace(rawURL)
	if u, err := url.Parse(norm); err == nil && u.Host != "" {
		u.Scheme = strings.ToLower(u.Scheme)
		u.Host = strings.ToLower(u.Host)
		u.Fragment = ""
		u.Path = strings.TrimSuffix(u.Path, "/")
		norm = u.String()
	}
	sum := sha256.Sum256([]byte(norm))
	return "extract:posting:" + hex.EncodeToString(sum[:])
}
