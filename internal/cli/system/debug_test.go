package system

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/julianstephens/sadhana/internal/cli/clitest"
)

func TestDebugPaths(t *testing.T) {
	env := clitest.New(t)

	if err := (&DebugPathsCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	var paths map[string]string
	if err := json.Unmarshal(env.Out.Bytes(), &paths); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, env.Out.String())
	}
	if paths["config"] != env.Ctx.ConfigPath {
		t.Errorf("config = %q, want %q", paths["config"], env.Ctx.ConfigPath)
	}
	if paths["backend"] != "memory" || paths["storage"] != ":memory:" {
		t.Errorf("unexpected storage entries %v", paths)
	}
	if !strings.HasSuffix(paths["backups"], "backups") {
		t.Errorf("backups = %q", paths["backups"])
	}
}

func TestDebugDump(t *testing.T) {
	env := clitest.New(t)
	ctx := context.Background()

	if err := (&DebugDumpCmd{Key: "goals_list"}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an absent collection")
	}

	if err := env.Ctx.Backend.Write(ctx, "goals_list", []byte(`[{"id":"g1"}]`)); err != nil {
		t.Fatal(err)
	}
	if err := (&DebugDumpCmd{Key: "goals_list"}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.Out.String(), `"id": "g1"`) {
		t.Errorf("unexpected dump %q", env.Out.String())
	}

	env.Out.Reset()
	if err := env.Ctx.Backend.Write(ctx, "japa_history", []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if err := (&DebugDumpCmd{Key: "japa_history"}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(env.Out.String()) != "not json" {
		t.Errorf("corrupt payloads should print verbatim, got %q", env.Out.String())
	}

	if err := (&DebugDumpCmd{Key: "theme"}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an unknown key")
	}
}
