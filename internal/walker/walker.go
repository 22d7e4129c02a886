package walker

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"treedelta/internal/hash"
	"treedelta/internal/log"
	"treedelta/internal/progress"
	"treedelta/internal/tree"
)

type FileInfo struct {
	Path    string // absolute
	Rel     string // slash separated, relative to the walk root
	Size    int64
	ModTime time.Time
}

type WalkResult struct {
	Files  []FileInfo
	Dirs   []string // slash separated, relative to the walk root
	Errors []error
}

// Walk collects the regular files and directories below rootPath. Symlinks
// and other special files are ignored.
func Walk(rootPath string, exclusions []string) (*WalkResult, error) {
	result := &WalkResult{
		Files:  make([]FileInfo, 0),
		Dirs:   make([]string, 0),
		Errors: make([]error, 0),
	}

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// If error is on the root path, return it (don't continue walking)
			if path == rootPath {
				return err
			}
			// Skip permission errors and continue walking
			result.Errors = append(result.Errors, err)
			return nil
		}
		if path == rootPath {
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}

		if shouldExclude(relPath, d, exclusions) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case d.IsDir():
			result.Dirs = append(result.Dirs, filepath.ToSlash(relPath))
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return nil
			}
			result.Files = append(result.Files, FileInfo{
				Path:    path,
				Rel:     filepath.ToSlash(relPath),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		default:
			log.Debugf("skipping %s: not a regular file", path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return result, nil
}

func shouldExclude(relPath string, d fs.DirEntry, exclusions []string) bool {
	for _, pattern := range exclusions {
		// Handle directory exclusions (patterns ending with /)
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			// A directory pattern matches the directory itself and, through
			// SkipDir, everything below it.
			parts := strings.Split(relPath, string(filepath.Separator))
			if !d.IsDir() {
				parts = parts[:len(parts)-1]
			}
			for _, part := range parts {
				if matched, _ := filepath.Match(dirPattern, part); matched || part == dirPattern {
					return true
				}
			}
			continue
		}

		matched, err := filepath.Match(pattern, filepath.Base(relPath))
		if err == nil && matched {
			return true
		}
		// Also try matching against the full relative path for patterns with /
		if strings.Contains(pattern, "/") {
			matched, err := filepath.Match(pattern, filepath.ToSlash(relPath))
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}

type HashResult struct {
	Hashes map[string]tree.Digest // absolute path -> digest
	Errors []error
}

// HashFiles hashes files with at most numWorkers concurrent readers. A file
// that cannot be read is recorded in Errors and left out; only cancellation
// of ctx fails the whole run.
func HashFiles(ctx context.Context, files []FileInfo, numWorkers int, progressBar *progress.Bar) (*HashResult, error) {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	result := &HashResult{
		Hashes: make(map[string]tree.Digest, len(files)),
		Errors: make([]error, 0),
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(numWorkers)

	for _, fileInfo := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			digest, err := hash.HashFile(fileInfo.Path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", fileInfo.Path, err))
				return nil
			}
			result.Hashes[fileInfo.Path] = tree.Digest(digest)

			if progressBar != nil {
				progressBar.SetDirectory(filepath.Dir(fileInfo.Path))
				progressBar.Add(fileInfo.Size)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("hashing interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("hashing interrupted: %w", err)
	}

	return result, nil
}

// Options configure Snapshot.
type Options struct {
	Exclude  []string
	Workers  int
	Progress bool
}

// Snapshot walks rootPath, hashes every file and builds the digested tree.
// Files that could not be read are left out of the tree and returned as
// errors alongside it.
func Snapshot(ctx context.Context, rootPath string, opts Options) (*tree.Node, []error, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	walkResult, err := Walk(absRoot, opts.Exclude)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("found %d files and %d directories in %s", len(walkResult.Files), len(walkResult.Dirs), absRoot)

	var bar *progress.Bar
	if opts.Progress {
		var total int64
		for _, f := range walkResult.Files {
			total += f.Size
		}
		bar = progress.New(int64(len(walkResult.Files)), total)
	}

	hashResult, err := HashFiles(ctx, walkResult.Files, opts.Workers, bar)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, nil, err
	}

	digests := make(map[string]tree.Digest, len(hashResult.Hashes))
	for _, f := range walkResult.Files {
		if d, ok := hashResult.Hashes[f.Path]; ok {
			digests[f.Rel] = d
		}
	}

	root, err := tree.Build(digests, walkResult.Dirs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build tree: %w", err)
	}

	errs := append(walkResult.Errors, hashResult.Errors...)
	for _, e := range errs {
		log.WithError(e).Warn("skipped")
	}
	return root, errs, nil
}
