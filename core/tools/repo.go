package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/gobwas/glob"

	"github.com/hyper-light/quill/core/state"
)

const readFileSizeLimit = 250_000

// textFilePatterns matches the text-like files worth feeding to a model when
// summarizing a repository.
var textFilePatterns = []string{
	"*.md", "*.txt", "*.go", "*.py", "*.java", "*.R", "*.json",
	"*.yaml", "*.yml", "*.html", "*.css", "*.js", "*.ts",
	"*.c", "*.cpp", "*.h", "*.hpp",
}

func compileTextGlobs() []glob.Glob {
	globs := make([]glob.Glob, 0, len(textFilePatterns))
	for _, pat := range textFilePatterns {
		globs = append(globs, glob.MustCompile(pat))
	}
	return globs
}

// NewCloneRepositoryTool clones a git repository into a temporary directory
// and returns the local path for a follow-up read_path_contents call.
func NewCloneRepositoryTool() *Tool {
	return &Tool{
		Name:        "clone_repository",
		Description: "Clone a git repository by URL into a temporary directory; returns the local path.",
		Parameters: stringSchema(
			[]string{"repo_url"},
			map[string]string{"repo_url": "URL of the git repository to clone."},
		),
		Handler: Graceful("clone_repository", func(ctx context.Context, args map[string]any, st *state.State) (string, error) {
			url, err := stringArg(args, "repo_url")
			if err != nil {
				return "", err
			}

			dir, err := os.MkdirTemp("", "quill-repo-*")
			if err != nil {
				return "", fmt.Errorf("clone %s: %w", url, err)
			}

			if _, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
				URL:   url,
				Depth: 1,
			}); err != nil {
				os.RemoveAll(dir)
				return "", fmt.Errorf("clone %s: %w", url, err)
			}
			return dir, nil
		}),
	}
}

// ReadPathContents returns a prompt-ready string concatenating the text-like
// files under path: the file itself, or every matching file recursively for
// a directory. Large and binary files are skipped.
func ReadPathContents(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	globs := compileTextGlobs()
	var files []string
	if info.IsDir() {
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			if isTextFile(p, globs) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
	} else if isTextFile(path, globs) {
		files = []string{path}
	}

	var b strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		rel, relErr := filepath.Rel(path, f)
		if relErr != nil {
			rel = f
		}
		fmt.Fprintf(&b, "--- %s ---\n%s\n\n", rel, data)
	}
	return strings.TrimSpace(b.String()), nil
}

func isTextFile(path string, globs []glob.Glob) bool {
	info, err := os.Stat(path)
	if err != nil || info.Size() > readFileSizeLimit {
		return false
	}
	base := filepath.Base(path)
	for _, g := range globs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// NewReadPathContentsTool exposes ReadPathContents as a tool for repository
// summarization.
func NewReadPathContentsTool() *Tool {
	return &Tool{
		Name:        "read_path_contents",
		Description: "Read the text-like files under a local path (recursively for directories) and return their concatenated contents.",
		Parameters: stringSchema(
			[]string{"path"},
			map[string]string{"path": "Local file or directory path to read."},
		),
		Handler: Graceful("read_path_contents", func(ctx context.Context, args map[string]any, st *state.State) (string, error) {
			path, err := stringArg(args, "path")
			if err != nil {
				return "", err
			}
			return ReadPathContents(path)
		}),
	}
}
