package media

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func TestLocalStorePut(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewLocalStore(fs, "/media/")

	ref, err := store.Put(context.Background(), "images", "Hero.PNG", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if !strings.HasPrefix(ref, "/media/images/") {
		t.Errorf("Expected reference under /media/images/, got %s", ref)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Errorf("Expected lower-cased extension, got %s", ref)
	}

	stored := filepath.Join("images", filepath.Base(ref))
	data, err := afero.ReadFile(fs, stored)
	if err != nil {
		t.Fatalf("Expected file at %s: %v", stored, err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("Unexpected file content %q", data)
	}
}

func TestLocalStoreNamesAreUnique(t *testing.T) {
	store := NewLocalStore(afero.NewMemMapFs(), "")

	first, err := store.Put(context.Background(), "thumbnails", "a.jpg", strings.NewReader("1"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	second, err := store.Put(context.Background(), "thumbnails", "a.jpg", strings.NewReader("2"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if first == second {
		t.Errorf("Expected distinct references, both were %s", first)
	}
	if !strings.HasPrefix(first, "/media/thumbnails/") {
		t.Errorf("Expected default prefix, got %s", first)
	}
}

func TestCheckUpload(t *testing.T) {
	defer viper.Reset()
	viper.Set("media.max_size", 1024)

	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		want        error
	}{
		{"jpeg accepted", "photo.jpeg", "image/jpeg", 100, nil},
		{"missing content type accepted", "photo.webp", "", 100, nil},
		{"pdf rejected", "notes.pdf", "application/pdf", 100, ErrNotAnImage},
		{"spoofed extension rejected", "photo.png", "text/html", 100, ErrNotAnImage},
		{"too large", "photo.png", "image/png", 2048, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUpload(tt.filename, tt.contentType, tt.size)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
