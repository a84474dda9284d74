package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/youruser/cardapp/internal/util"
)

// DirArchive writes cards below a local directory.
type DirArchive struct {
	root string
}

func NewDirArchive(root string) (*DirArchive, error) {
	if err := util.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &DirArchive{root: root}, nil
}

func (a *DirArchive) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	p := filepath.Join(a.root, filepath.FromSlash(filepath.Clean("/"+key)))
	if err := util.WriteFileAtomic(p, data); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return p, nil
}
