// Package output writes generated posts to disk.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"socialpost-ai/internal/domain"
)

// ErrInvalidTitle is returned when a title has no usable characters.
var ErrInvalidTitle = errors.New("title has no usable characters")

// FileWriter saves posts under <root>/<safe title>/.
type FileWriter struct {
	root string
}

// NewFileWriter creates a writer rooted at dir.
func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{root: dir}
}

// Save writes content for platform and returns the written paths.
// x threads get one x_tweet_<i>.txt file per tweet; other platforms
// get a single <platform>.txt file.
func (w *FileWriter) Save(title, platform, content string) ([]string, error) {
	dirName := SafeTitle(title)
	if dirName == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTitle, title)
	}
	dir := filepath.Join(w.root, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	if platform == domain.PlatformX {
		tweets := strings.Split(content, domain.ThreadSeparator)
		paths := make([]string, 0, len(tweets))
		for i, tweet := range tweets {
			path := filepath.Join(dir, fmt.Sprintf("x_tweet_%d.txt", i+1))
			if err := os.WriteFile(path, []byte(strings.TrimSpace(tweet)), 0o644); err != nil {
				return paths, fmt.Errorf("write tweet %d: %w", i+1, err)
			}
			paths = append(paths, path)
		}
		return paths, nil
	}

	path := filepath.Join(dir, platform+".txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("write %s post: %w", platform, err)
	}
	return []string{path}, nil
}

// SafeTitle keeps letters, digits, spaces, '-' and '_', trims the result
// and turns spaces into '-'.
func SafeTitle(title string) string {
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, title)
	return strings.ReplaceAll(strings.TrimSpace(kept), " ", "-")
}
