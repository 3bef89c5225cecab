package deck

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadIcons reads an icon pool from a list of paths (files or directories).
// Every non-empty line is one symbol; lines starting with '#' are comments.
func LoadIcons(paths []string) ([]string, error) {
	var icons []string
	seen := map[string]string{}

	add := func(path string) error {
		found, err := loadFile(path)
		if err != nil {
			return err
		}
		for _, icon := range found {
			if prev, ok := seen[icon]; ok {
				return fmt.Errorf("duplicate icon %q in %s (first seen in %s)", icon, path, prev)
			}
			seen[icon] = path
			icons = append(icons, icon)
		}
		return nil
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if !info.IsDir() {
			if err := add(path); err != nil {
				return nil, err
			}
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dir %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if err := add(filepath.Join(path, entry.Name())); err != nil {
				return nil, err
			}
		}
	}

	return icons, nil
}

func loadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var icons []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		icons = append(icons, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan file %s: %w", path, err)
	}
	return icons, nil
}
