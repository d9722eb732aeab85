package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

type LocalStore struct {
	fs     afero.Fs
	prefix string
}

func NewLocalStore(fs afero.Fs, prefix string) *LocalStore {
	if len(prefix) == 0 {
		prefix = DefaultURLPrefix
	}
	return &LocalStore{fs: fs, prefix: strings.TrimRight(prefix, "/")}
}

func (v *LocalStore) Put(_ context.Context, folder, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	if err := v.fs.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("unable to prepare media folder: %w", err)
	}
	if err := afero.WriteReader(v.fs, filepath.Join(folder, name), r); err != nil {
		return "", fmt.Errorf("unable to write media file: %w", err)
	}

	return path.Join(v.prefix, folder, name), nil
}
