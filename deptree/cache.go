// SPDX-License-Identifier: Apache-2.0

package deptree

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/renameio"
)

// Load reads a DepTree from the shell-sourceable cache format described in
// spec.md §4.2/§6. A missing cache file is not an error: Load returns
// (nil, nil) so callers can distinguish "no cache yet" from "cache
// corrupt" (which never surfaces as an error either — malformed lines are
// silently skipped per spec.md §7).
func Load(path string) (*DepTree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	tree := New()
	var cur *DepInfo
	var curType *DepType

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		rest, ok := cutPrefix(line, "depinfo_")
		if !ok {
			continue
		}
		idx, rest, ok := cutField(rest, "_")
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(idx); err != nil {
			continue
		}

		if svcVal, ok := cutAssignment(rest, "service"); ok {
			name := unquote(svcVal)
			if name == "" {
				continue
			}
			cur = tree.GetOrCreate(ServiceName(name))
			curType = nil
			continue
		}

		tag, rest, ok := cutField(rest, "_")
		if !ok || cur == nil {
			continue
		}
		kStr, valPart, ok := cutEquals(rest)
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(kStr); err != nil {
			continue
		}
		val := unquote(valPart)
		if val == "" {
			continue
		}

		if curType == nil || curType.Type != TypeTag(tag) {
			curType = cur.TypeOrCreate(TypeTag(tag))
		}
		curType.Add(ServiceName(val))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tree, nil
}

// Save writes tree to path in tree iteration order, via an atomic
// rename so concurrent readers never observe a partially written file.
func Save(tree *DepTree, path string) error {
	var sb strings.Builder
	for i, di := range tree.infos {
		fmt.Fprintf(&sb, "depinfo_%d_service='%s'\n", i, di.Service)
		for _, dt := range di.Depends {
			for k, svc := range dt.Services {
				fmt.Fprintf(&sb, "depinfo_%d_%s_%d='%s'\n", i, dt.Type, k, svc)
			}
		}
	}
	return renameio.WriteFile(path, []byte(sb.String()), 0o644)
}

// SaveConfig writes the external-config side list (spec.md §6): one path
// per line, no quoting. If files is empty the sibling file is removed
// instead of written.
func SaveConfig(files []string, path string) error {
	if len(files) == 0 {
		err := os.Remove(path)
		if err != nil && os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(f)
		sb.WriteByte('\n')
	}
	return renameio.WriteFile(path, []byte(sb.String()), 0o644)
}

// LoadConfig reads the external-config side list. A missing file yields
// a nil slice and no error.
func LoadConfig(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out, scanner.Err()
}

// cutPrefix is like strings.CutPrefix, except that it returns an empty
// string rather than s when prefix is absent.
func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

// cutField splits s on the first occurrence of sep, mirroring the shell
// implementation's strsep(&p, "_") calls.
func cutField(s, sep string) (field, rest string, ok bool) {
	i := strings.Index(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// cutAssignment checks that s begins with "name=" and returns the value
// part, used for the depinfo_<i>_service='...' line shape.
func cutAssignment(s, name string) (value string, ok bool) {
	prefix := name + "="
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

// cutEquals splits "<k>='<v>'" into k and the quoted value.
func cutEquals(s string) (k, v string, ok bool) {
	i := strings.Index(s, "=")
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// unquote strips a single layer of shell single-quoting, matching
// get_shell_value() in the source this codec is grounded on.
func unquote(s string) string {
	s = strings.TrimSuffix(s, "\n")
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return strings.Trim(s, "'")
}
