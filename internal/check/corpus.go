package check

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is one loaded source file.
type Source struct {
	// Path is the file path relative to the corpus root.
	Path string

	// Lines contains the file content split into lines, without line
	// terminators. A trailing carriage return is stripped as well so the
	// checks behave identically on CRLF files.
	Lines []string
}

// Corpus is the set of source files the built-in checks operate on.
// It is loaded once per run and shared between checks so the tree is
// read a single time.
type Corpus struct {
	// Root is the directory the corpus was loaded from.
	Root string

	// Files contains the loaded sources in path order.
	Files []*Source
}

// LoadOptions configures corpus loading.
type LoadOptions struct {
	// ExcludeDirs lists directory names skipped entirely.
	ExcludeDirs []string

	// ExcludeFiles lists file-name patterns (filepath.Match syntax)
	// skipped regardless of content, e.g. generated modules.
	ExcludeFiles []string

	// Extensions restricts loading to the given file extensions
	// (with dot, e.g. ".py"). Empty means all files.
	Extensions []string
}

// Load reads all matching files under root into a Corpus.
// Hidden directories (name starting with ".") are always skipped; the
// analysis tools this project wraps do the same.
func Load(ctx context.Context, root string, opts LoadOptions) (*Corpus, error) {
	corpus := &Corpus{Root: root}

	excludeDirs := make(map[string]bool, len(opts.ExcludeDirs))
	for _, name := range opts.ExcludeDirs {
		excludeDirs[name] = true
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && (excludeDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchExtension(name, opts.Extensions) {
			return nil
		}
		if matchAny(name, opts.ExcludeFiles) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		src, err := readSource(path, rel)
		if err != nil {
			// Unreadable files are skipped, matching the behavior of the
			// wrapped tools which also only report what they can open.
			return nil
		}
		corpus.Files = append(corpus.Files, src)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(corpus.Files, func(i, j int) bool {
		return corpus.Files[i].Path < corpus.Files[j].Path
	})

	return corpus, nil
}

// readSource loads a single file into a Source.
func readSource(path, rel string) (*Source, error) {
	f, err := os.Open(path) //nolint:gosec // Paths come from walking the user-provided target
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src := &Source{Path: rel}
	scanner := bufio.NewScanner(f)
	// Lines in generated or minified files can exceed the default limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		src.Lines = append(src.Lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return src, nil
}

// matchExtension reports whether the file name has one of the extensions.
func matchExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// matchAny reports whether the base name matches any of the patterns.
// Patterns without wildcards compare exactly.
func matchAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
