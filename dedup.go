package learnify

import "strings"

// DedupQuestions drops questions whose text is a near-duplicate of an
// earlier one, keeping the first occurrence. Comparison is on
// normalized text: case, punctuation and extra whitespace are ignored.
func DedupQuestions(questions []Question) []Question {
	seen := make(map[string]struct{}, len(questions))
	out := questions[:0]
	for _, q := range questions {
		key := normalizeQuestionText(q.Text)
		if _, dup := seen[key]; dup {
			VerboseLog("Dropping duplicate generated question: %s", q.Text)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}

func normalizeQuestionText(text string) string {
	var sb strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				sb.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
