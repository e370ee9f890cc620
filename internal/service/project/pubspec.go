package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/halyard-dev/halyard/internal/domain/version"
	hlerrors "github.com/halyard-dev/halyard/internal/errors"
	"github.com/halyard-dev/halyard/internal/fileutil"
)

// pubspecVersionLineRegex matches a top-level version line. The captures
// keep the key spacing and any trailing comment across a rewrite.
var pubspecVersionLineRegex = regexp.MustCompile(`^(version:[ \t]*)(\S+)([ \t]*(?:#.*)?\r?)$`)

// errNoVersionLine indicates the pubspec has no top-level version line.
var errNoVersionLine = errors.New("no top-level version line")

// pubspec is the subset of pubspec.yaml halyard reads.
type pubspec struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// readPubspec reads and parses the pubspec file.
func (s *ServiceImpl) readPubspec(_ context.Context) (*pubspec, error) {
	const op = "project.readPubspec"

	data, err := fileutil.ReadFileLimited(s.pubspecPath, maxProjectFileSize)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, hlerrors.IO(op, fmt.Sprintf("pubspec not found: %s", s.pubspecPath))
		}
		return nil, hlerrors.IOWrap(err, op, "failed to read pubspec")
	}

	var p pubspec
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, hlerrors.FormatWrap(err, op, "pubspec is not valid YAML")
	}
	if p.Version == "" {
		return nil, hlerrors.Format(op, fmt.Sprintf("pubspec has no version field: %s", s.pubspecPath))
	}

	return &p, nil
}

// WriteVersion rewrites the pubspec version line in place. Every other
// line of the document, including comments, is preserved byte for byte.
func (s *ServiceImpl) WriteVersion(_ context.Context, v version.AppVersion) error {
	const op = "project.WriteVersion"

	data, err := fileutil.ReadFileLimited(s.pubspecPath, maxProjectFileSize)
	if err != nil {
		if os.IsNotExist(err) {
			return hlerrors.IO(op, fmt.Sprintf("pubspec not found: %s", s.pubspecPath))
		}
		return hlerrors.IOWrap(err, op, "failed to read pubspec")
	}

	updated, err := rewriteVersionLine(data, v)
	if err != nil {
		return hlerrors.FormatWrap(err, op, fmt.Sprintf("cannot update version in %s", s.pubspecPath))
	}

	perm := os.FileMode(0o644)
	if info, statErr := os.Stat(s.pubspecPath); statErr == nil {
		perm = info.Mode().Perm()
	}

	if err := fileutil.AtomicWriteFile(s.pubspecPath, updated, perm); err != nil {
		return hlerrors.IOWrap(err, op, "failed to write pubspec")
	}
	return nil
}

// rewriteVersionLine replaces the value of the first top-level version
// line. Nested version keys are indented and never match.
func rewriteVersionLine(data []byte, v version.AppVersion) ([]byte, error) {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		m := pubspecVersionLineRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lines[i] = m[1] + v.String() + m[3]
		return []byte(strings.Join(lines, "\n")), nil
	}
	return nil, errNoVersionLine
}
