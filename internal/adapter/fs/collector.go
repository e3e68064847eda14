package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// CollectPDFs expands the given arguments into a sorted, deduplicated
// list of PDF paths. Each argument may be a file, a directory (searched
// recursively) or a glob pattern such as "docs/**/*.pdf".
func CollectPDFs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	add := func(path string) {
		if !isPDF(path) || seen[path] {
			return
		}
		seen[path] = true
		paths = append(paths, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			matches, err := doublestar.FilepathGlob(filepath.Join(arg, "**", "*.pdf"))
			if err != nil {
				return nil, fmt.Errorf("failed to scan directory %s: %w", arg, err)
			}
			for _, m := range matches {
				add(m)
			}
		case err == nil:
			if !isPDF(arg) {
				return nil, fmt.Errorf("not a PDF file: %s", arg)
			}
			add(arg)
		default:
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match: %s", arg)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
