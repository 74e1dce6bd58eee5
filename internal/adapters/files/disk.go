// Package files stores validated uploads on local disk. It only exists to
// back the FileStore port in single-node deployments; object storage slots
// in behind the same interface.
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

type Disk struct {
	root    string
	baseURL string
}

func NewDisk(root, baseURL string) *Disk {
	return &Disk{root: root, baseURL: baseURL}
}

// Save writes the blob under root/key and returns baseURL/key. The key's
// directory is created on demand; keys are generated upstream and never
// contain user input.
func (d *Disk) Save(_ context.Context, key, _ string, data io.Reader) (string, error) {
	dst := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return path.Join(d.baseURL, key), nil
}
