package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Store persists an uploaded asset and returns the stable reference that
// is stored on a content item.
type Store interface {
	Put(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

var S Store

var (
	ErrNotAnImage = errors.New("upload a valid image")
	ErrTooLarge   = errors.New("the uploaded file is too large")
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

const (
	DefaultMaxSize   = 10 << 20
	DefaultURLPrefix = "/media"
)

func NewStore() (Store, error) {
	switch driver := viper.GetString("media.driver"); driver {
	case "", "local":
		fs := afero.NewBasePathFs(afero.NewOsFs(), GetLocalRoot())
		return NewLocalStore(fs, GetLocalURLPrefix()), nil
	case "cloudinary":
		return NewCloudinaryStore(
			viper.GetString("media.cloudinary_url"),
			viper.GetString("media.cloudinary_folder"),
		)
	default:
		return nil, fmt.Errorf("unsupported media driver %q", driver)
	}
}

func IsLocal() bool {
	driver := viper.GetString("media.driver")
	return len(driver) == 0 || driver == "local"
}

// GetLocalRoot is the directory the local store writes into.
func GetLocalRoot() string {
	if root := viper.GetString("media.root"); len(root) > 0 {
		return root
	}
	return "uploads"
}

// GetLocalURLPrefix is the path the local files are served under.
func GetLocalURLPrefix() string {
	if prefix := strings.TrimSuffix(viper.GetString("media.url_prefix"), "/"); len(prefix) > 0 {
		return prefix
	}
	return DefaultURLPrefix
}

// CheckUpload rejects files that are not images or exceed the configured size.
func CheckUpload(filename, contentType string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !lo.Contains(imageExtensions, ext) {
		return ErrNotAnImage
	}
	if len(contentType) > 0 && !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}

	limit := viper.GetInt64("media.max_size")
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	if size > limit {
		return ErrTooLarge
	}

	return nil
}
