package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for reading stored dataset objects.
type ObjectStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
