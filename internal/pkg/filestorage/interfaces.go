package filestorage

import (
	"context"
	"errors"
	"time"
)

// Signature verification errors
var (
	ErrSignatureInvalid = errors.New("invalid media signature")
	ErrSignatureExpired = errors.New("media link expired")
	ErrInvalidKey       = errors.New("invalid media key")
)

// URLSigner turns an object key into a time-limited URL
type URLSigner interface {
	// SignedURL returns a URL for key that stops working after ttl
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
