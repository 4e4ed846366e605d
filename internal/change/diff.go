package change

import (
	"fmt"
	"io"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// FromDiff parses a unified diff and builds one CodeChange per file.
//
// Old and new content are reconstructed from the diff's text fragments, so
// for partial diffs they cover the changed hunks plus context, not the whole
// file. That is the same information a reviewer sees and is enough for the
// heuristic extraction downstream.
func FromDiff(r io.Reader, author string) ([]CodeChange, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	changes := make([]CodeChange, 0, len(files))
	for _, f := range files {
		c, err := fromFile(f, author)
		if err != nil {
			return nil, err
		}
		changes = append(changes, *c)
	}
	return changes, nil
}

func fromFile(f *gitdiff.File, author string) (*CodeChange, error) {
	oldContent, newContent := reconstruct(f)

	var (
		typ  Type
		path string
		desc string
	)
	switch {
	case f.IsNew:
		typ = Create
		path = "/" + f.NewName
		desc = "file created"
	case f.IsDelete:
		typ = Delete
		path = "/" + f.OldName
		desc = "file deleted"
	case f.IsRename:
		typ = Move
		path = "/" + f.NewName
		desc = fmt.Sprintf("moved from %s", f.OldName)
	default:
		typ = Modify
		path = "/" + f.NewName
		desc = "file modified"
	}

	return New(CodeChange{
		Type:        typ,
		FilePath:    path,
		OldContent:  oldContent,
		NewContent:  newContent,
		Author:      author,
		Description: desc,
	})
}

// reconstruct rebuilds before/after text from the diff fragments
func reconstruct(f *gitdiff.File) (oldContent, newContent string) {
	var oldB, newB strings.Builder
	for _, frag := range f.TextFragments {
		for _, line := range frag.Lines {
			switch line.Op {
			case gitdiff.OpContext:
				oldB.WriteString(line.Line)
				newB.WriteString(line.Line)
			case gitdiff.OpDelete:
				oldB.WriteString(line.Line)
			case gitdiff.OpAdd:
				newB.WriteString(line.Line)
			}
		}
	}
	return oldB.String(), newB.String()
}
