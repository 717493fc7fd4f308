package resource

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"en-sent.bin":        "sent",
		"en-token.bin":       "tok",
		"conf.pb":            "conf",
		"README.md":          "docs",
		"old/en-chunker.bin": "old",
		"extra/en-pos-x.bin": "pos",
		"extra/notes.txt":    "txt",
	})

	tests := []struct {
		name     string
		includes []string
		excludes []string
		want     []string
	}{
		{
			name: "everything",
			want: []string{"README.md", "conf.pb", "en-sent.bin", "en-token.bin", "extra/en-pos-x.bin", "extra/notes.txt", "old/en-chunker.bin"},
		},
		{
			name:     "models only",
			includes: []string{"**/*.bin", "*.pb"},
			excludes: []string{"old/**"},
			want:     []string{"conf.pb", "en-sent.bin", "en-token.bin", "extra/en-pos-x.bin"},
		},
		{
			name:     "top level",
			includes: []string{"*.bin"},
			want:     []string{"en-sent.bin", "en-token.bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(root, tt.includes, tt.excludes)
			if err != nil {
				t.Fatalf("Collect failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Collect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollect_MissingRoot(t *testing.T) {
	if _, err := Collect(filepath.Join(t.TempDir(), "nope"), nil, nil); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestWriteBundle(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"en-token.bin":       "tok",
		"nested/en-sent.bin": "sent",
	})
	path := filepath.Join(t.TempDir(), "models.db")

	var seen []string
	err := WriteBundle(path, root, []string{"en-token.bin", "nested/en-sent.bin"}, func(done, total int, name string) {
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
		seen = append(seen, name)
	})
	if err != nil {
		t.Fatalf("WriteBundle failed: %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("progress called %d times, want 2", len(seen))
	}

	b, err := OpenBundle(path)
	if err != nil {
		t.Fatalf("OpenBundle failed: %v", err)
	}
	defer func() { _ = b.Close() }()

	data, err := b.ReadFile("nested/en-sent.bin")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "sent" {
		t.Errorf("ReadFile = %q, want sent", data)
	}
}

func TestWriteBundle_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.db")
	if err := WriteBundle(path, t.TempDir(), []string{"missing.bin"}, nil); err == nil {
		t.Error("expected error for missing file")
	}
}
