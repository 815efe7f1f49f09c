package filestorage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/placementprep/internal/pkg/logger"
)

// LocalStorage serves objects from a directory on the local filesystem and
// hands out HMAC-signed links to them.
type LocalStorage struct {
	basePath string // The root directory holding the objects
	baseURL  string // Public URL prefix the media route is mounted at
	secret   []byte
	now      func() time.Time
}

// NewLocalStorage creates a new LocalStorage instance.
// baseURL must point at the route that serves ServeKey, e.g. https://host/media.
func NewLocalStorage(basePath, baseURL, signingSecret string) (*LocalStorage, error) {
	if signingSecret == "" {
		return nil, fmt.Errorf("signing secret is required")
	}
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		secret:   []byte(signingSecret),
		now:      time.Now,
	}, nil
}

// cleanKey rejects keys that would escape the storage root
func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func (ls *LocalStorage) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, ls.secret)
	mac.Write([]byte(key))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedURL implements URLSigner
func (ls *LocalStorage) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	expires := ls.now().Add(ttl).Unix()

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", ls.sign(cleaned, expires))

	escaped := make([]string, 0)
	for _, seg := range strings.Split(cleaned, "/") {
		escaped = append(escaped, url.PathEscape(seg))
	}
	return ls.baseURL + "/" + strings.Join(escaped, "/") + "?" + q.Encode(), nil
}

// Verify checks a signature produced by SignedURL and returns the
// filesystem path of the object.
func (ls *LocalStorage) Verify(key, expires, sig string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return "", ErrSignatureInvalid
	}
	if !hmac.Equal([]byte(sig), []byte(ls.sign(cleaned, exp))) {
		return "", ErrSignatureInvalid
	}
	if ls.now().Unix() > exp {
		return "", ErrSignatureExpired
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(cleaned)), nil
}
