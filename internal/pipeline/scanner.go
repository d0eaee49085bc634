package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the asset key: relpath without extension, or with it when
	// another file in the same directory shares the stem.
	Key string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions selects candidate files. The container is still detected
// from content when the file is compressed.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// IsImagePath reports whether path has a recognized image extension.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScanImages walks the input directory and returns all image sources,
// skipping hidden directories.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && info.Name() != "." {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsImagePath(path) {
			return nil
		}
		ext := filepath.Ext(path)

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		// Key: relative path without extension, using forward slashes.
		key := strings.TrimSuffix(relPath, ext)
		key = filepath.ToSlash(key)

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     key,
			Size:    info.Size(),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	// photo.png and photo.jpg would both map to "photo".
	stems := make(map[string]int, len(sources))
	for _, s := range sources {
		stems[s.Key]++
	}
	for i, s := range sources {
		if stems[s.Key] > 1 {
			sources[i].Key = s.RelPath
		}
	}
	return sources, nil
}
