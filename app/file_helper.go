package app

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is the name of the per-directory ignore file consulted
// when walking directories for CFG fixtures, mirroring how a
// .gitignore shapes a git tree walk.
const IgnoreFileName = ".cfgregionignore"

// FileHelper provides file operation utilities for locating CFG fixture
// files (*.cfg.json / *.cfg.yaml).
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectFixtureFiles collects CFG fixture files from paths
func (h *FileHelper) CollectFixtureFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.isFixtureFile(path) && !h.isExcluded(path, excludePatterns) {
				files = append(files, path)
			}
			continue
		}

		ignorer := h.loadIgnoreFile(path)

		if recursive {
			err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}

				rel, relErr := filepath.Rel(path, filePath)
				if relErr == nil && ignorer != nil && ignorer.MatchesPath(rel) {
					if info.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}

				if info.IsDir() {
					dirName := filepath.Base(filePath)
					for _, pattern := range excludePatterns {
						if pattern == dirName {
							return filepath.SkipDir
						}
						if matched, _ := filepath.Match(pattern, dirName); matched {
							return filepath.SkipDir
						}
					}
					return nil
				}

				if h.isFixtureFile(filePath) && !h.isExcluded(filePath, excludePatterns) {
					files = append(files, filePath)
				}

				return nil
			})
		} else {
			entries, dirErr := os.ReadDir(path)
			if dirErr != nil {
				return nil, dirErr
			}

			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				filePath := filepath.Join(path, entry.Name())
				if ignorer != nil && ignorer.MatchesPath(entry.Name()) {
					continue
				}
				if h.isFixtureFile(filePath) && !h.isExcluded(filePath, excludePatterns) {
					files = append(files, filePath)
				}
			}
		}

		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// loadIgnoreFile reads dir/.cfgregionignore if present, returning nil when
// absent (no filtering applied).
func (h *FileHelper) loadIgnoreFile(dir string) *gitignore.GitIgnore {
	path := filepath.Join(dir, IgnoreFileName)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	ignorer, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return ignorer
}

// IsValidFixtureFile checks if a file is a valid CFG fixture file
func (h *FileHelper) IsValidFixtureFile(path string) bool {
	return h.isFixtureFile(path)
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// isFixtureFile checks if a file is a CFG fixture based on its suffix
// (*.cfg.json / *.cfg.yaml / *.cfg.yml).
func (h *FileHelper) isFixtureFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".cfg.json") ||
		strings.HasSuffix(lower, ".cfg.yaml") ||
		strings.HasSuffix(lower, ".cfg.yml")
}

// isExcluded checks if a path matches any exclude pattern
func (h *FileHelper) isExcluded(path string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

// ResolveFilePaths resolves file paths, returning existing files directly
// or collecting fixture files from directories.
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	if allFiles {
		return paths, nil
	}

	return fileHelper.CollectFixtureFiles(paths, recursive, includePatterns, excludePatterns)
}
