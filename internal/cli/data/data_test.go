package data

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/sadhana/internal/cli/clitest"
	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/models"
)

func seed(t *testing.T, env *clitest.Env) {
	t.Helper()
	ctx := context.Background()
	store := env.Ctx.Store
	if err := store.SaveJapaSession(ctx, models.JapaSession{Malas: 2, Date: "2024-03-09T06:00:00.000Z"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRecitation(ctx, models.RecitationLog{StotraID: "1", StotraTitle: "Kāla Bhairava Aṣṭakam", Count: 3, Date: "2024-03-09T07:00:00.000Z"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveGratitudeNote(ctx, models.GratitudeNote{Note: "sunrise", Date: "2024-03-09T08:00:00.000Z"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveGoal(ctx, models.Goal{ID: "g1", Type: models.GoalSpiritual, Title: "Daily japa"}); err != nil {
		t.Fatal(err)
	}
}

func TestExportToFileAndImportBack(t *testing.T) {
	src := clitest.New(t)
	seed(t, src)

	dir := t.TempDir()
	if err := (&ExportCmd{Output: dir}).Run(src.Ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	path := filepath.Join(dir, "SadhnaFlow_Backup_20240310-1200.json")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected export at %s: %v", path, err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("export permissions = %v, want 0600", info.Mode().Perm())
	}

	dst := clitest.New(t)
	if err := (&ImportCmd{File: path, Yes: true}).Run(dst.Ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	ctx := context.Background()
	want, _ := src.Ctx.Store.ExportAll(ctx)
	got, _ := dst.Ctx.Store.ExportAll(ctx)
	for _, key := range constants.AllKeys {
		if string(got[key]) != string(want[key]) {
			t.Errorf("%s differs after round trip:\n got %s\nwant %s", key, got[key], want[key])
		}
	}
	for _, key := range constants.AllKeys {
		if !strings.Contains(dst.Out.String(), "Imported "+key) {
			t.Errorf("import output missing %s: %q", key, dst.Out.String())
		}
	}
}

func TestExportToStdout(t *testing.T) {
	env := clitest.New(t)
	seed(t, env)

	if err := (&ExportCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	for _, key := range constants.AllKeys {
		if !strings.Contains(env.Out.String(), `"`+key+`"`) {
			t.Errorf("stdout export missing %s", key)
		}
	}
}

func TestImportPartialDocument(t *testing.T) {
	env := clitest.New(t)
	seed(t, env)

	path := filepath.Join(t.TempDir(), "partial.json")
	doc := `{"goals_list": [], "japa_history": "oops", "theme": "dark"}`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	if err := (&ImportCmd{File: path, Yes: true}).Run(env.Ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	ctx := context.Background()
	if n := len(env.Ctx.Store.Goals(ctx)); n != 0 {
		t.Errorf("goals should be replaced by the empty array, got %d", n)
	}
	if n := len(env.Ctx.Store.JapaHistory(ctx)); n != 1 {
		t.Errorf("japa history should be untouched, got %d", n)
	}
	out := env.Out.String()
	for _, want := range []string{"Skipped japa_history (not an array)", "Skipped recitation_log (missing)", "Ignored unknown keys: theme", "Backup saved"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestImportRejectsBadFiles(t *testing.T) {
	env := clitest.New(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"not json", "hello"},
		{"array", "[1,2]"},
		{"no collections", `{"theme": "dark"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if err := (&ImportCmd{File: path, Yes: true}).Run(env.Ctx); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if len(env.Prompts) != 0 {
		t.Errorf("bad files should fail before prompting, got %v", env.Prompts)
	}
}

func TestImportCancelled(t *testing.T) {
	env := clitest.New(t)
	path := filepath.Join(t.TempDir(), "in.json")
	if err := os.WriteFile(path, []byte(`{"goals_list": []}`), 0600); err != nil {
		t.Fatal(err)
	}
	seed(t, env)

	env.Answer = false
	if err := (&ImportCmd{File: path}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if n := len(env.Ctx.Store.Goals(context.Background())); n != 1 {
		t.Errorf("cancelled import should not change data, got %d goals", n)
	}
}

func TestWipe(t *testing.T) {
	env := clitest.New(t)
	seed(t, env)

	env.Answer = false
	if err := (&WipeCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if n := len(env.Ctx.Store.JapaHistory(context.Background())); n != 1 {
		t.Fatalf("declined wipe should keep data, got %d sessions", n)
	}

	env.Answer = true
	if err := (&WipeCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	doc, err := env.Ctx.Store.ExportAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range constants.AllKeys {
		if string(doc[key]) != "[]" {
			t.Errorf("%s = %s after wipe, want []", key, doc[key])
		}
	}

	mgr, err := env.Ctx.BackupManager()
	if err != nil {
		t.Fatal(err)
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("expected a backup before the wipe, got %d", len(backups))
	}
}

func TestValidate(t *testing.T) {
	env := clitest.New(t)
	seed(t, env)

	if err := (&ValidateCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.Out.String(), "No problems detected") {
		t.Errorf("clean store should validate, got %q", env.Out.String())
	}

	if err := env.Ctx.Store.SaveGoal(context.Background(), models.Goal{ID: "g1", Type: "weekly", Title: "dup"}); err != nil {
		t.Fatal(err)
	}
	env.Out.Reset()
	if err := (&ValidateCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	out := env.Out.String()
	if !strings.Contains(out, `2 goals share id "g1"`) || !strings.Contains(out, `goal type "weekly"`) {
		t.Errorf("expected duplicate id and bad type problems, got %q", out)
	}
}
