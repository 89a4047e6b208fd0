package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var dataExts = map[string]bool{".csv": true, ".tsv": true, ".txt": true}

// Discover resolves the input path. A file is returned as-is; a directory is
// walked for delimited files, sorted by path so loads are deterministic.
func Discover(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if !info.IsDir() {
		return []DiscoveredFile{newDiscovered(path, info)}, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !dataExts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // vanished between walk and stat
		}
		files = append(files, newDiscovered(p, fi))
		return nil
	})
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(files) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no .csv files found: %w", ErrNoRows)}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func newDiscovered(path string, info os.FileInfo) DiscoveredFile {
	return DiscoveredFile{
		Path:    path,
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}
