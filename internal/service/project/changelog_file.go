package project

import (
	"context"
	"os"
	"strings"

	"github.com/halyard-dev/halyard/internal/domain/changelog"
	hlerrors "github.com/halyard-dev/halyard/internal/errors"
	"github.com/halyard-dev/halyard/internal/fileutil"
)

// changelogScaffold is the document created when no changelog exists yet.
// Entries insert directly under the heading, so the scaffold carries
// nothing below it.
const changelogScaffold = "# Changelog\n"

// ReadChangelog returns the changelog document, or "" when the file does
// not exist yet.
func (s *ServiceImpl) ReadChangelog(_ context.Context) (string, error) {
	const op = "project.ReadChangelog"

	data, err := fileutil.ReadFileLimited(s.changelogPath, maxProjectFileSize)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", hlerrors.IOWrap(err, op, "failed to read changelog")
	}
	return string(data), nil
}

// MergeEntry renders the entry and inserts it under the changelog's
// top-level heading. A missing or empty changelog is scaffolded first; an
// existing document without a top-level heading is an error, the entry is
// never appended at the end.
func (s *ServiceImpl) MergeEntry(ctx context.Context, entry changelog.Entry) error {
	const op = "project.MergeEntry"

	doc, err := s.ReadChangelog(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(doc) == "" {
		doc = changelogScaffold
	}

	merged, err := changelog.Merge(doc, entry.Render())
	if err != nil {
		return hlerrors.ChangelogWrap(err, op, "cannot insert changelog entry")
	}

	if err := fileutil.AtomicWriteFile(s.changelogPath, []byte(merged), 0o644); err != nil {
		return hlerrors.IOWrap(err, op, "failed to write changelog")
	}
	return nil
}
