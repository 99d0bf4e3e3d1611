package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sadhana/internal/models"
	"github.com/julianstephens/sadhana/internal/practice"
)

// PrintJSON writes v as indented JSON.
func (c *Context) PrintJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	c.Println(string(data))
	return nil
}

// FormatDate renders a stored timestamp in the configured zone. Unparseable
// values are shown as stored.
func (c *Context) FormatDate(date string) string {
	t, err := models.ParseTimestamp(date)
	if err != nil {
		return date
	}
	return t.In(c.Location).Format("2006-01-02 15:04")
}

// Limit trims a listing to n entries; n <= 0 keeps everything.
func Limit[T any](records []T, n int) []T {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}

// Relative describes how long ago t was, for listings.
func (c *Context) Relative(date string) string {
	t, err := models.ParseTimestamp(date)
	if err != nil {
		return ""
	}
	d := c.Now().Sub(t)
	switch {
	case d < 0:
		return "in the future"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// PrintImportReport lists what an import or restore did with each key.
func (c *Context) PrintImportReport(report practice.ImportReport) {
	for _, key := range report.Imported {
		c.Println(Success("Imported " + key))
	}
	for _, s := range report.Skipped {
		c.Println(Warning(fmt.Sprintf("Skipped %s (%s)", s.Key, s.Reason)))
	}
	if len(report.Ignored) > 0 {
		c.Println(MutedStyle.Render("Ignored unknown keys: " + strings.Join(report.Ignored, ", ")))
	}
}
