// Package carousel builds the image manifest for the homepage carousel.
package carousel

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExts are the file extensions included in the manifest.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".svg":  true,
}

// Manifest is the serialized carousel manifest.
type Manifest struct {
	Images []string `json:"images"`
}

// Scan walks dir recursively and returns the image paths relative to root,
// sorted lexically with forward slashes (the form the site's JS expects).
func Scan(dir, root string) (*Manifest, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("carousel directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("carousel path is not a directory: %s", dir)
	}

	var images []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		images = append(images, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	sort.Strings(images)
	return &Manifest{Images: images}, nil
}

// Write saves the manifest as pretty-printed JSON, creating parent
// directories as needed.
func (m *Manifest) Write(path string) error {
	if m.Images == nil {
		m.Images = []string{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
