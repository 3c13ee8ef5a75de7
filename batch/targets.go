package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// contentExtensions are the local file types a directory expansion picks up.
var contentExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".html": true,
	".htm":  true,
	".md":   true,
}

// ExpandTargets turns a mixed argument list of URLs, files, and directories
// into a flat list of targets. Directories expand recursively to their
// content files, sorted lexicographically so runs are reproducible; URLs and
// plain files pass through in argument order.
func ExpandTargets(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			out = append(out, arg)
			continue
		}
		expanded, err := expandPath(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func expandPath(path string) ([]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("batch: target %s: %w", path, err)
	}
	if !st.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if contentExtensions[strings.ToLower(filepath.Ext(p))] {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: expand %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}
