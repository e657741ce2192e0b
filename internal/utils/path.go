package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// PathResolver finds seed data relative to the running binary.
type PathResolver struct {
	executableDir string
	configDir     string
}

// NewPathResolver creates a resolver anchored at the executable location.
// configDir is used as one more place to look for a data directory.
func NewPathResolver(configDir string) (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		configDir:     configDir,
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, configDir)
	return pr, nil
}

// ResolveData returns the first existing candidate for userPath, which may be
// a single dictionary file or a directory holding dictionary files.
// Candidates, in order: the path itself, relative to the executable dir,
// then <exec>/data and <configDir>/data. An empty userPath only checks the
// fallbacks. ok is false when nothing usable was found.
func (pr *PathResolver) ResolveData(userPath string) (string, bool) {
	var candidates []string
	if userPath != "" {
		candidates = append(candidates, userPath)
		if !filepath.IsAbs(userPath) {
			candidates = append(candidates, filepath.Join(pr.executableDir, userPath))
		}
	}
	candidates = append(candidates, filepath.Join(pr.executableDir, "data"))
	if pr.configDir != "" {
		candidates = append(candidates, filepath.Join(pr.configDir, "data"))
	}

	for _, path := range candidates {
		if IsDataPath(path) {
			log.Debugf("Found data at: %s", path)
			return path, true
		}
		log.Debugf("Data candidate not valid: %s", path)
	}
	return "", false
}

// IsDataPath reports whether path is a regular file or a directory that
// holds dict_*.bin chunks or *.txt word lists.
func IsDataPath(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !stat.IsDir() {
		return true
	}
	for _, pattern := range []string{"dict_*.bin", "*.txt"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}
