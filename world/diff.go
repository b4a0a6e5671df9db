package world

import (
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"

	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/schema"
)

const diffContextLines = 3

// noNewline follows a final line that has no terminating newline, as in git.
const noNewline = "\\ No newline at end of file\n"

// textDiff returns a unified diff turning from into to, labelled with the field
// name. A final line without a newline is followed by the "\ No newline" marker,
// so "note" and "note\n" differ. Identical inputs produce an empty patch.
func textDiff(field, from, to string) (string, error) {
	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(from),
		B:        splitLines(to),
		FromFile: "a/" + field,
		ToFile:   "b/" + field,
		Context:  diffContextLines,
	})
	if err != nil {
		return "", errors.Wrapf(err, "diff %s", field)
	}
	return patch, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n" + noNewline
	}
	return lines
}

// diffStat counts the lines a patch adds and removes. Changed lines count once on
// each side. An empty patch has no changes.
func diffStat(patch string) (added, deleted int) {
	if patch == "" {
		return 0, 0
	}
	fd, err := diff.ParseFileDiff([]byte(patch))
	if err != nil {
		return 0, 0
	}
	stat := fd.Stat()
	return int(stat.Added + stat.Changed), int(stat.Deleted + stat.Changed)
}

// fieldDiff names one textual field and where its patch is written.
type fieldDiff struct {
	field    string
	from, to string
	patch    *string
}

// computeDiffs fills every patch and returns the summed line stats.
func computeDiffs(diffs ...fieldDiff) (added, deleted int, err error) {
	for _, d := range diffs {
		patch, err := textDiff(d.field, d.from, d.to)
		if err != nil {
			return 0, 0, err
		}
		*d.patch = patch
		a, r := diffStat(patch)
		added += a
		deleted += r
	}
	return added, deleted, nil
}

func boolText(b bool) string {
	return strconv.FormatBool(b)
}

func intText(i int64) string {
	return strconv.FormatInt(i, 10)
}

func valueText(v schema.Value) (string, error) {
	return schema.EncodeValueTOML(v)
}
