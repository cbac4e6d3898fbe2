// Package segment loads user segments from ID-list files.
package segment

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/segstat/internal/model"
)

// LoadFile reads one user ID per line. The segment is named after the file
// unless name is non-empty.
func LoadFile(path, name string) (model.Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Segment{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only segment file.
			_ = cerr
		}
	}()

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	users, err := Read(file)
	if err != nil {
		return model.Segment{}, fmt.Errorf("failed to read segment %s: %w", path, err)
	}
	return model.Segment{Name: name, Users: users}, nil
}

// Read parses an ID list. Blank lines and lines starting with '#' are skipped.
func Read(r io.Reader) (model.UserSet, error) {
	users := model.UserSet{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !keepLine(line) {
			continue
		}
		users[model.UserID(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("segment is empty")
	}
	return users, nil
}

func keepLine(line string) bool {
	return line != "" && !strings.HasPrefix(line, "#")
}
