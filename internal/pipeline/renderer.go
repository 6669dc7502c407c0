package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/spellbook/internal/keywords"
	"github.com/ppiankov/spellbook/internal/model"
	"github.com/ppiankov/spellbook/internal/worker"
)

// Output formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Renderer writes annotations, keywords and rules in the supported formats
type Renderer struct {
	includeReminder bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeReminder bool) *Renderer {
	return &Renderer{includeReminder: includeReminder}
}

// ValidFormat reports whether format is one of the output formats
func ValidFormat(format string) bool {
	switch format {
	case FormatText, FormatMarkdown, FormatJSON:
		return true
	}
	return false
}

// RenderAnnotation writes one annotation
func (r *Renderer) RenderAnnotation(w io.Writer, a *model.Annotation, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, a)
	case FormatMarkdown:
		return r.annotationMarkdown(w, a)
	case FormatText:
		return r.annotationText(w, a)
	}
	return fmt.Errorf("unknown format %q", format)
}

func (r *Renderer) annotationText(w io.Writer, a *model.Annotation) error {
	var b strings.Builder
	b.WriteString(a.Text)
	b.WriteString("\n")

	if len(a.Spans) == 0 {
		b.WriteString("  (no keywords)\n")
	}
	for _, s := range a.Spans {
		fmt.Fprintf(&b, "  [%d:%d] %s (%s): %s\n", s.StartIndex, s.EndIndex, s.MatchedText, s.Definition.Type, s.Definition.Definition)
		if r.includeReminder && s.Definition.Reminder != "" {
			fmt.Fprintf(&b, "        %s\n", s.Definition.Reminder)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// annotationMarkdown bolds every keyword and lists each distinct
// definition once, in order of first appearance
func (r *Renderer) annotationMarkdown(w io.Writer, a *model.Annotation) error {
	var b strings.Builder

	for _, seg := range keywords.Segments(a.Text, a.Spans) {
		if seg.Keyword != nil {
			fmt.Fprintf(&b, "**%s**", seg.Text)
		} else {
			b.WriteString(seg.Text)
		}
	}
	b.WriteString("\n")

	seen := make(map[string]bool)
	for _, s := range a.Spans {
		if seen[s.Definition.Keyword] {
			continue
		}
		if len(seen) == 0 {
			b.WriteString("\n")
		}
		seen[s.Definition.Keyword] = true

		fmt.Fprintf(&b, "- **%s**: %s", s.Definition.Keyword, s.Definition.Definition)
		if r.includeReminder && s.Definition.Reminder != "" {
			fmt.Fprintf(&b, " _%s_", s.Definition.Reminder)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// batchEntry is the JSON form of one batch result
type batchEntry struct {
	Index int                       `json:"index"`
	Text  string                    `json:"text"`
	Spans []model.ParsedKeywordSpan `json:"spans,omitempty"`
	Error string                    `json:"error,omitempty"`
}

// RenderBatch writes batch results in input order
func (r *Renderer) RenderBatch(w io.Writer, results []*worker.AnnotateResult, format string) error {
	if format == FormatJSON {
		entries := make([]batchEntry, len(results))
		for i, res := range results {
			entries[i] = batchEntry{Index: res.Index, Text: res.Text}
			if res.Error != nil {
				entries[i].Error = res.Error.Error()
			} else {
				entries[i].Spans = res.Annotation.Spans
			}
		}
		return writeJSON(w, entries)
	}

	for i, res := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if res.Error != nil {
			if _, err := fmt.Fprintf(w, "%s\n  error: %v\n", res.Text, res.Error); err != nil {
				return err
			}
			continue
		}
		if err := r.RenderAnnotation(w, res.Annotation, format); err != nil {
			return err
		}
	}
	return nil
}

// RenderKeywords writes catalog entries
func (r *Renderer) RenderKeywords(w io.Writer, defs []model.KeywordDefinition, format string) error {
	switch format {
	case FormatJSON:
		if defs == nil {
			defs = []model.KeywordDefinition{}
		}
		return writeJSON(w, defs)
	case FormatMarkdown:
		var b strings.Builder
		for _, d := range defs {
			fmt.Fprintf(&b, "### %s\n\n_%s_\n\n%s\n", d.Keyword, d.Type, d.Definition)
			if r.includeReminder && d.Reminder != "" {
				fmt.Fprintf(&b, "\n> %s\n", d.Reminder)
			}
			b.WriteString("\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	case FormatText:
		var b strings.Builder
		for _, d := range defs {
			fmt.Fprintf(&b, "%-18s %-9s %s\n", d.Keyword, d.Type, d.Definition)
			if r.includeReminder && d.Reminder != "" {
				fmt.Fprintf(&b, "%-28s %s\n", "", d.Reminder)
			}
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

// RenderSections writes rule sections
func (r *Renderer) RenderSections(w io.Writer, sections []model.RuleSection, format string) error {
	switch format {
	case FormatJSON:
		if sections == nil {
			sections = []model.RuleSection{}
		}
		return writeJSON(w, sections)
	case FormatMarkdown:
		var b strings.Builder
		for _, s := range sections {
			fmt.Fprintf(&b, "**%s** %s\n\n", s.ID, s.Body)
		}
		_, err := io.WriteString(w, b.String())
		return err
	case FormatText:
		var b strings.Builder
		for i, s := range sections {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s  %s\n", s.ID, s.Body)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

// RenderGlossary writes glossary entries
func (r *Renderer) RenderGlossary(w io.Writer, entries []model.GlossaryEntry, format string) error {
	switch format {
	case FormatJSON:
		if entries == nil {
			entries = []model.GlossaryEntry{}
		}
		return writeJSON(w, entries)
	case FormatMarkdown, FormatText:
		var b strings.Builder
		for i, e := range entries {
			if i > 0 {
				b.WriteString("\n")
			}
			if format == FormatMarkdown {
				fmt.Fprintf(&b, "**%s**\n: %s\n", e.Term, e.Definition)
			} else {
				fmt.Fprintf(&b, "%s\n  %s\n", e.Term, e.Definition)
			}
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

// RulesStats summarizes a loaded rules document
type RulesStats struct {
	Source          string    `json:"source"`
	FetchedAt       time.Time `json:"fetched_at"`
	FromCache       bool      `json:"from_cache"`
	Sections        int       `json:"sections"`
	TopLevel        int       `json:"top_level"`
	Subrules        int       `json:"subrules"`
	GlossaryEntries int       `json:"glossary_entries"`
}

// Stats counts the rules in doc. Subrules carry a letter suffix ("100.1a").
func Stats(doc *model.RulesDocument) RulesStats {
	stats := RulesStats{
		Source:          doc.Source,
		FetchedAt:       doc.FetchedAt,
		FromCache:       doc.FromCache,
		Sections:        len(doc.Sections),
		GlossaryEntries: len(doc.Glossary),
	}
	for _, s := range doc.Sections {
		last := s.ID[len(s.ID)-1]
		if last >= 'a' && last <= 'z' {
			stats.Subrules++
		} else {
			stats.TopLevel++
		}
	}
	return stats
}

// RenderStats writes a summary of doc
func (r *Renderer) RenderStats(w io.Writer, doc *model.RulesDocument, format string) error {
	stats := Stats(doc)
	if format == FormatJSON {
		return writeJSON(w, stats)
	}

	cached := ""
	if stats.FromCache {
		cached = " (cached)"
	}
	_, err := fmt.Fprintf(w,
		"Source:    %s%s\nFetched:   %s\nRules:     %d (%d numbered, %d subrules)\nGlossary:  %d terms\n",
		stats.Source, cached,
		stats.FetchedAt.Format(time.RFC3339),
		stats.Sections, stats.TopLevel, stats.Subrules,
		stats.GlossaryEntries)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
