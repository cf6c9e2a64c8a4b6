// SPDX-License-Identifier: Apache-2.0

package deptree

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UpdateNeeded implements spec.md §4.3: it reports whether the cache file
// at cachePath must be rebuilt because it is missing, or because it is
// older than any of watchPaths (directory trees or plain files), or older
// than any file named in the external-config side list at configPath.
func UpdateNeeded(cachePath string, watchPaths []string, configPath string) (bool, error) {
	cacheTime, err := mtime(cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}

	for _, p := range watchPaths {
		if p == "" {
			continue
		}
		newer, err := newerThan(cacheTime, p)
		if err != nil {
			return false, err
		}
		if !newer {
			return true, nil
		}
	}

	configured, err := LoadConfig(configPath)
	if err != nil {
		return false, err
	}
	for _, p := range configured {
		newer, err := newerThan(cacheTime, p)
		if err != nil {
			return false, err
		}
		if !newer {
			return true, nil
		}
	}
	return false, nil
}

func mtime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// newerThan reports whether sourceTime is newer than (or equal to) target,
// recursing into directories and treating dotfiles as invisible, per
// spec.md §4.3. If target cannot be stat'd, the cache is treated as newer
// (not stale) for that path, matching spec.md's "if a target cannot be
// stat'd, treat the cache as newer" rule — there is no errno to preserve
// in Go, os.Stat simply returns its own independent error per call.
func newerThan(sourceTime time.Time, target string) (bool, error) {
	info, err := os.Stat(target)
	if err != nil {
		return true, nil
	}
	if sourceTime.Before(info.ModTime()) {
		return false, nil
	}
	if !info.IsDir() {
		return true, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return true, nil
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		newer, err := newerThan(sourceTime, filepath.Join(target, e.Name()))
		if err != nil {
			return false, err
		}
		if !newer {
			return false, nil
		}
	}
	return true, nil
}
