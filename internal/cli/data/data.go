// Package data holds the whole-store commands: export, import, wipe and validate.
package data

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/practice"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout. A directory gets a dated backup filename." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	doc, err := ctx.Store.ExportAll(context.Background())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	data, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if c.Output == "" || c.Output == "-" {
		ctx.Println(string(data))
		return nil
	}

	path := c.Output
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		name := constants.BackupFilePrefix + ctx.Today().Format(constants.BackupTimeLayout) + constants.BackupFileSuffix
		path = filepath.Join(path, name)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	counts := doc.Counts()
	ctx.Println(cli.Success("Exported to " + path))
	for _, key := range constants.AllKeys {
		ctx.Printf("  %-16s %d\n", key, counts[key])
	}
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Export or backup file to import. Use - for stdin."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) read() ([]byte, error) {
	if c.File == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(c.File)
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	raw, err := c.read()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	doc, err := practice.ParseDocument(raw)
	if err != nil {
		return err
	}

	counts := doc.Counts()
	var summary []string
	for _, key := range constants.AllKeys {
		if n := counts[key]; n >= 0 {
			summary = append(summary, fmt.Sprintf("%s: %d", key, n))
		}
	}
	if len(summary) == 0 {
		return fmt.Errorf("%s contains no practice collections", c.File)
	}

	ok, err := ctx.ConfirmUnless(c.Yes, "Replace current data?",
		"Collections in the file replace the stored ones ("+strings.Join(summary, ", ")+").")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Import cancelled.")
		return nil
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	bg := context.Background()
	ctx.PerformAutomaticBackup(bg)

	report, err := ctx.Store.ImportAll(bg, doc)
	ctx.PrintImportReport(report)
	if err != nil {
		return fmt.Errorf("import incomplete: %w", err)
	}
	return nil
}

type WipeCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *WipeCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.ConfirmUnless(c.Yes, "Erase all practice data?",
		"Japa history, recitations, gratitude notes and goals will be removed. A backup is taken first.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Wipe cancelled.")
		return nil
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	bg := context.Background()
	ctx.PerformAutomaticBackup(bg)
	if err := ctx.Store.WipeAll(bg); err != nil {
		return fmt.Errorf("wipe failed: %w", err)
	}
	ctx.Println(cli.Success("All practice data erased"))
	return nil
}

// ValidateCmd checks stored records and reports problems without changing anything.
type ValidateCmd struct {
	JSON bool `help:"Print problems as JSON."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	history := ctx.Store.JapaHistory(bg)
	logs := ctx.Store.RecitationLog(bg)
	notes := ctx.Store.GratitudeNotes(bg)
	goals := ctx.Store.Goals(bg)

	result := ctx.Validator.Collections(history, logs, notes, goals)
	for _, s := range history {
		r := ctx.Validator.JapaSession(s)
		result.Problems = append(result.Problems, r.Problems...)
	}
	for _, l := range logs {
		r := ctx.Validator.RecitationLog(l)
		result.Problems = append(result.Problems, r.Problems...)
	}
	for _, n := range notes {
		r := ctx.Validator.GratitudeNote(n)
		result.Problems = append(result.Problems, r.Problems...)
	}
	for _, g := range goals {
		r := ctx.Validator.Goal(g)
		result.Problems = append(result.Problems, r.Problems...)
	}

	if c.JSON {
		if result.Problems == nil {
			return ctx.PrintJSON([]struct{}{})
		}
		return ctx.PrintJSON(result.Problems)
	}
	ctx.Println(result.FormatReport())
	return nil
}
