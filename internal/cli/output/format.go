package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Title converts a snake_case or kebab-case identifier to a title.
func Title(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return titleCaser.String(s)
}

// FormatHeader returns a markdown heading of the given level.
func FormatHeader(level int, text string) string {
	level = min(max(level, 1), 6)
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a "**Key:** value" markdown line.
func FormatKeyValue(key, value string) string {
	return "**" + key + ":** " + value
}

// Table writes a table in the renderer's mode. JSON mode writes an array of
// objects keyed by header.
func (r *Renderer) Table(headers []string, rows [][]string) error {
	if r.EffectiveMode() == ModeJSON {
		out := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			obj := make(map[string]string, len(headers))
			for i, h := range headers {
				if i < len(row) {
					obj[h] = row[i]
				}
			}
			out = append(out, obj)
		}
		return r.JSON(out)
	}

	t := table.NewWriter()
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.Println(t.RenderMarkdown())
		return nil
	}
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	r.Println(t.Render())
	return nil
}
