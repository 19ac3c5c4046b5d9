package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"sim-backend/internal/shared/util"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Put(ctx context.Context, storageKey, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// SnapshotKey is the storage key of an analysis result snapshot. Organization
// ids are hashed so keys never carry caller-controlled path segments.
func SnapshotKey(organizationID, analysisID string) (string, error) {
	name, err := util.SanitizeSegment(analysisID)
	if err != nil {
		return "", fmt.Errorf("snapshot key: %w", err)
	}
	return path.Join("analyses", util.HashKey(organizationID), name+".json"), nil
}
