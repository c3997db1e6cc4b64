package filestore

import (
	"context"
	"errors"
)

var ErrStoreUnavailable = errors.New("attachment store is not configured")

type unavailableStore struct{}

// NewUnavailableStore stands in when no bucket is configured, so the API can
// boot without object storage and fail only the sign endpoint.
func NewUnavailableStore() Store {
	return unavailableStore{}
}

func (unavailableStore) SignUpload(ctx context.Context, fileName, contentType string) (*SignedUpload, error) {
	return nil, ErrStoreUnavailable
}
