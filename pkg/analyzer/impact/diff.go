package impact

import (
	"fmt"
	"os"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// ChangeKind tags how a file changed in the diff.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeRenamed  ChangeKind = "renamed"
)

// Hunk is one contiguous change region.
type Hunk struct {
	OrigStart int `json:"orig_start"`
	OrigLines int `json:"orig_lines"`
	NewStart  int `json:"new_start"`
	NewLines  int `json:"new_lines"`
}

// FileChange is one changed file in a parsed diff.
type FileChange struct {
	OrigPath string     `json:"orig_path,omitempty"`
	NewPath  string     `json:"new_path,omitempty"`
	Kind     ChangeKind `json:"kind"`
	Hunks    []Hunk     `json:"hunks,omitempty"`
}

// ParsedDiff is the structured form of a unified diff. Diff syntax is
// handled entirely by sourcegraph/go-diff; nothing downstream ever
// tokenizes diff text.
type ParsedDiff struct {
	Files []FileChange `json:"files"`
}

// ParseDiffFile reads and parses a unified diff file. An unreadable
// diff file is the one fatal input error of impact analysis.
func ParseDiffFile(path string) (*ParsedDiff, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading diff: %w", err)
	}
	return ParseDiff(raw)
}

// ParseDiff parses unified diff bytes.
func ParseDiff(raw []byte) (*ParsedDiff, error) {
	if len(raw) == 0 {
		return &ParsedDiff{}, nil
	}
	fileDiffs, err := godiff.ParseMultiFileDiff(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	parsed := &ParsedDiff{Files: make([]FileChange, 0, len(fileDiffs))}
	for _, fd := range fileDiffs {
		fc := FileChange{
			OrigPath: cleanDiffPath(fd.OrigName),
			NewPath:  cleanDiffPath(fd.NewName),
		}
		switch {
		case fc.OrigPath == "":
			fc.Kind = ChangeAdded
		case fc.NewPath == "":
			fc.Kind = ChangeDeleted
		case fc.OrigPath != fc.NewPath:
			fc.Kind = ChangeRenamed
		default:
			fc.Kind = ChangeModified
		}
		for _, h := range fd.Hunks {
			fc.Hunks = append(fc.Hunks, Hunk{
				OrigStart: int(h.OrigStartLine),
				OrigLines: int(h.OrigLines),
				NewStart:  int(h.NewStartLine),
				NewLines:  int(h.NewLines),
			})
		}
		parsed.Files = append(parsed.Files, fc)
	}
	return parsed, nil
}

// cleanDiffPath strips the conventional a/ and b/ prefixes and maps
// /dev/null to the empty path.
func cleanDiffPath(name string) string {
	if name == "" || name == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}
