package change

import (
	"testing"

	"guardrails/internal/errors"
)

func TestNewFillsDefaults(t *testing.T) {
	c, err := New(CodeChange{
		Type:       Create,
		FilePath:   "/src/utils/helper.ts",
		NewContent: "export function helper() {}",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.ID == "" {
		t.Error("ID not generated")
	}
	if c.Timestamp.IsZero() {
		t.Error("Timestamp not filled")
	}
}

func TestValidateContentInvariants(t *testing.T) {
	tests := []struct {
		name    string
		change  CodeChange
		wantErr bool
	}{
		{
			name: "modify with both contents",
			change: CodeChange{
				ID: "c1", Type: Modify, FilePath: "/a.ts",
				OldContent: "old", NewContent: "new",
			},
		},
		{
			name: "modify missing old content",
			change: CodeChange{
				ID: "c2", Type: Modify, FilePath: "/a.ts", NewContent: "new",
			},
			wantErr: true,
		},
		{
			name: "modify missing new content",
			change: CodeChange{
				ID: "c3", Type: Modify, FilePath: "/a.ts", OldContent: "old",
			},
			wantErr: true,
		},
		{
			name: "delete with old content",
			change: CodeChange{
				ID: "c4", Type: Delete, FilePath: "/a.ts", OldContent: "old",
			},
		},
		{
			name: "delete missing old content",
			change: CodeChange{
				ID: "c5", Type: Delete, FilePath: "/a.ts",
			},
			wantErr: true,
		},
		{
			name: "create with new content",
			change: CodeChange{
				ID: "c6", Type: Create, FilePath: "/a.ts", NewContent: "new",
			},
		},
		{
			name: "create missing new content",
			change: CodeChange{
				ID: "c7", Type: Create, FilePath: "/a.ts",
			},
			wantErr: true,
		},
		{
			name: "move needs no content",
			change: CodeChange{
				ID: "c8", Type: Move, FilePath: "/b.ts",
			},
		},
		{
			name: "unknown type rejected",
			change: CodeChange{
				ID: "c9", Type: "rename", FilePath: "/a.ts",
			},
			wantErr: true,
		},
		{
			name: "missing file path rejected",
			change: CodeChange{
				ID: "c10", Type: Create, NewContent: "x",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.change)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsCode(err, errors.InvalidChange) {
				t.Errorf("error code = %s, want INVALID_CHANGE", errors.CodeOf(err))
			}
		})
	}
}

func TestContentSelection(t *testing.T) {
	del := CodeChange{Type: Delete, OldContent: "old"}
	if del.Content() != "old" {
		t.Errorf("delete Content() = %q, want old content", del.Content())
	}
	mod := CodeChange{Type: Modify, OldContent: "old", NewContent: "new"}
	if mod.Content() != "new" {
		t.Errorf("modify Content() = %q, want new content", mod.Content())
	}
}
