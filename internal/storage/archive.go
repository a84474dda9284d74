package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
)

// Archive keeps a copy of every rendered card.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ObjectKey builds a unique, date-partitioned key for filename.
func ObjectKey(now time.Time, filename string) string {
	return path.Join("cards", now.UTC().Format("2006/01/02"), fmt.Sprintf("%s-%s", uuid.NewString(), filename))
}
