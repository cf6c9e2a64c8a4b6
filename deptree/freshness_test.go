// SPDX-License-Identifier: Apache-2.0

package deptree_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/depsvc/rcdep/deptree"
	. "github.com/onsi/gomega"
)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	g := NewWithT(t)
	g.Expect(os.WriteFile(path, []byte("x"), 0o644)).To(Succeed())
	g.Expect(os.Chtimes(path, mtime, mtime)).To(Succeed())
}

func TestUpdateNeededMissingCache(test *testing.T) {
	t := NewGomegaWithT(test)
	dir := test.TempDir()

	needed, err := deptree.UpdateNeeded(filepath.Join(dir, "cache"), nil, filepath.Join(dir, "depconfig"))
	t.Expect(err).NotTo(HaveOccurred())
	t.Expect(needed).To(BeTrue())
}

func TestUpdateNeededStaleWatchPath(test *testing.T) {
	t := NewGomegaWithT(test)
	dir := test.TempDir()

	cache := filepath.Join(dir, "cache")
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	touch(test, cache, older)

	initd := filepath.Join(dir, "init.d")
	t.Expect(os.Mkdir(initd, 0o755)).To(Succeed())
	touch(test, filepath.Join(initd, "sshd"), newer)

	needed, err := deptree.UpdateNeeded(cache, []string{initd}, filepath.Join(dir, "depconfig"))
	t.Expect(err).NotTo(HaveOccurred())
	t.Expect(needed).To(BeTrue())
}

func TestUpdateNeededFreshCache(test *testing.T) {
	t := NewGomegaWithT(test)
	dir := test.TempDir()

	initd := filepath.Join(dir, "init.d")
	t.Expect(os.Mkdir(initd, 0o755)).To(Succeed())
	touch(test, filepath.Join(initd, "sshd"), time.Now().Add(-time.Hour))

	cache := filepath.Join(dir, "cache")
	touch(test, cache, time.Now())

	needed, err := deptree.UpdateNeeded(cache, []string{initd}, filepath.Join(dir, "depconfig"))
	t.Expect(err).NotTo(HaveOccurred())
	t.Expect(needed).To(BeFalse())
}

func TestUpdateNeededIgnoresDotfiles(test *testing.T) {
	t := NewGomegaWithT(test)
	dir := test.TempDir()

	initd := filepath.Join(dir, "init.d")
	t.Expect(os.Mkdir(initd, 0o755)).To(Succeed())
	touch(test, filepath.Join(initd, ".swapfile"), time.Now())
	// Creating the dotfile bumped init.d's own mtime; move it back so only
	// the dotfile is newer than the cache.
	dirTime := time.Now().Add(-2 * time.Hour)
	t.Expect(os.Chtimes(initd, dirTime, dirTime)).To(Succeed())

	cache := filepath.Join(dir, "cache")
	touch(test, cache, time.Now().Add(-time.Hour))

	needed, err := deptree.UpdateNeeded(cache, []string{initd}, filepath.Join(dir, "depconfig"))
	t.Expect(err).NotTo(HaveOccurred())
	t.Expect(needed).To(BeFalse())
}

func TestUpdateNeededFromConfigList(test *testing.T) {
	t := NewGomegaWithT(test)
	dir := test.TempDir()

	cache := filepath.Join(dir, "cache")
	touch(test, cache, time.Now().Add(-time.Hour))

	confFile := filepath.Join(dir, "app.conf")
	touch(test, confFile, time.Now())

	configList := filepath.Join(dir, "depconfig")
	t.Expect(deptree.SaveConfig([]string{confFile}, configList)).To(Succeed())

	needed, err := deptree.UpdateNeeded(cache, nil, configList)
	t.Expect(err).NotTo(HaveOccurred())
	t.Expect(needed).To(BeTrue())
}
