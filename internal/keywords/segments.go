package keywords

import "github.com/ppiankov/spellbook/internal/model"

// Segments splits text into plain gaps and keyword spans.
// Joining the segment texts in order gives back text. Spans must be sorted
// and non-overlapping, as Annotate returns them; spans that are out of
// order or out of range are treated as plain text.
func Segments(text string, spans []model.ParsedKeywordSpan) []model.Segment {
	segments := make([]model.Segment, 0, len(spans)*2+1)
	pos := 0

	for _, s := range spans {
		if s.StartIndex < pos || s.EndIndex > len(text) || s.StartIndex >= s.EndIndex {
			continue
		}
		if s.StartIndex > pos {
			segments = append(segments, model.Segment{Text: text[pos:s.StartIndex]})
		}
		segments = append(segments, model.Segment{
			Text:    text[s.StartIndex:s.EndIndex],
			Keyword: s.Definition,
		})
		pos = s.EndIndex
	}

	if pos < len(text) {
		segments = append(segments, model.Segment{Text: text[pos:]})
	}

	return segments
}
