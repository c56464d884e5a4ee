// Package export saves downloaded datasets and evaluation results, either to
// a local directory or to an S3 bucket.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/qacurator/internal/filex"
)

// Exporter stores data under name and returns where it went.
type Exporter interface {
	Export(ctx context.Context, name string, data []byte) (string, error)
}

// New returns the S3 exporter when a bucket is configured, else a Dir
// exporter rooted at dir.
func New(ctx context.Context, dir string, s3opts S3Options) (Exporter, error) {
	if s3opts.Bucket != "" {
		s, err := NewS3(ctx, s3opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	d, err := NewDir(dir)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Dir writes each export to its own file in a directory. An existing file is
// never overwritten; a numeric suffix is added instead.
type Dir struct {
	root string
}

func NewDir(dir string) (*Dir, error) {
	root, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &Dir{root: root}, nil
}

func (d *Dir) Root() string { return d.root }

const maxSuffix = 1000

func (d *Dir) Export(_ context.Context, name string, data []byte) (string, error) {
	name = filex.SafeName(name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxSuffix; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
		path := filepath.Join(d.root, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, d.root)
}
