package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()

	all := c.All()
	if len(all) != 4 {
		t.Fatalf("expected 4 stotras, got %d", len(all))
	}
	if all[0].ID != "1" || all[3].ID != "4" {
		t.Errorf("unexpected order: %+v", all)
	}

	s, ok := c.Lookup("3")
	if !ok || s.Title != "Hanuman Chalisa" || s.Audio != "hanuman_chalisa.mp3" {
		t.Errorf("Lookup(3) = %+v, %v", s, ok)
	}
	if _, ok := c.Lookup("99"); ok {
		t.Error("expected unknown id to miss")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Title = "changed"
	if s, _ := c.Lookup("1"); s.Title == "changed" {
		t.Error("mutating All() result changed the catalog")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "duplicate id",
			yaml: "stotras:\n  - {id: \"1\", title: A}\n  - {id: \"1\", title: B}\n",
			want: "duplicate stotra id",
		},
		{
			name: "missing title",
			yaml: "stotras:\n  - {id: \"1\"}\n",
			want: "id and title are required",
		},
		{
			name: "unknown field",
			yaml: "stotras:\n  - {id: \"1\", title: A, stanzas: 8}\n",
			want: "failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	if err := os.WriteFile(path, []byte("stotras:\n  - id: x\n    title: Custom\n"), 0600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if s, ok := c.Lookup("x"); !ok || s.Title != "Custom" {
		t.Errorf("Lookup(x) = %+v, %v", s, ok)
	}
}

func TestTitle(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		id      string
		title   string
		want    string
		wantErr bool
	}{
		{name: "from catalog", id: "3", want: "Hanuman Chalisa"},
		{name: "explicit title wins", id: "3", title: "Chalisa", want: "Chalisa"},
		{name: "unknown id with title", id: "custom", title: "Shiva Tandava", want: "Shiva Tandava"},
		{name: "unknown id without title", id: "custom", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Title(tt.id, tt.title)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownStotra) {
					t.Errorf("expected ErrUnknownStotra, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}
