package media

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type CloudinaryStore struct {
	cld  *cloudinary.Cloudinary
	root string
}

func NewCloudinaryStore(url, root string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("unable to configure cloudinary: %w", err)
	}
	if len(root) == 0 {
		root = "takeaways"
	}
	return &CloudinaryStore{cld: cld, root: root}, nil
}

func (v *CloudinaryStore) Put(ctx context.Context, folder, _ string, r io.Reader) (string, error) {
	result, err := v.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   path.Join(v.root, folder),
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload to cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}
