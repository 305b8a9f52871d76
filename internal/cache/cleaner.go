// Package cache removes artifacts left behind by earlier runs: the cached
// feed snapshot and downloaded icons.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/open-edge-platform/appstream-mapper/internal/config"
	"github.com/open-edge-platform/appstream-mapper/internal/feed"
	fileutil "github.com/open-edge-platform/appstream-mapper/internal/utils/file"
)

// CleanOptions defines what cached artifacts should be removed.
type CleanOptions struct {
	CleanFeed  bool // remove the cached feed snapshot under cache_dir
	CleanIcons bool // remove downloaded icons under output_dir/icons
	DryRun     bool // report actions without deleting anything
}

// CleanResult contains the outcome of a cache cleanup run.
type CleanResult struct {
	RemovedPaths []string
	SkippedPaths []string
}

// Clean removes cached artifacts according to the provided options.
func Clean(opts CleanOptions) (*CleanResult, error) {
	if !opts.CleanFeed && !opts.CleanIcons {
		return nil, fmt.Errorf("at least one scope must be specified")
	}

	targets, err := gatherTargets(opts)
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(targets))
	skipped := make([]string, 0)

	for _, target := range targets {
		exists, err := pathExists(target)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", target, err)
		}
		if !exists {
			skipped = append(skipped, target)
			continue
		}

		if opts.DryRun {
			removed = append(removed, target)
			continue
		}

		if err := os.RemoveAll(target); err != nil {
			return nil, fmt.Errorf("removing %s: %w", target, err)
		}
		removed = append(removed, target)
	}

	sort.Strings(removed)
	sort.Strings(skipped)

	return &CleanResult{
		RemovedPaths: removed,
		SkippedPaths: skipped,
	}, nil
}

func gatherTargets(opts CleanOptions) ([]string, error) {
	targets := []string{}

	if opts.CleanFeed {
		cacheDir, err := config.CacheDir()
		if err != nil {
			return nil, err
		}
		target := filepath.Join(cacheDir, feed.CacheFileName)
		if err := ensureSubPath(cacheDir, target); err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	if opts.CleanIcons {
		outputDir, err := config.OutputDir()
		if err != nil {
			return nil, err
		}
		target := filepath.Join(outputDir, "icons")
		if err := ensureSubPath(outputDir, target); err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	sort.Strings(targets)
	return targets, nil
}

func ensureSubPath(base, target string) error {
	ok, err := fileutil.IsSubPath(base, target)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("refusing to operate on %s because it is outside %s", target, base)
	}
	return nil
}

func pathExists(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("path must not be empty")
	}
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
