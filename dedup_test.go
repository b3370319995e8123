package learnify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupQuestions(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
		wantTexts []string
	}{
		{
			name: "exact duplicate dropped",
			questions: []Question{
				{Text: "What is photosynthesis?"},
				{Text: "What is photosynthesis?"},
			},
			wantTexts: []string{"What is photosynthesis?"},
		},
		{
			name: "case and punctuation ignored",
			questions: []Question{
				{Text: "What is photosynthesis?"},
				{Text: "what is Photosynthesis"},
				{Text: "WHAT   IS photosynthesis?!"},
			},
			wantTexts: []string{"What is photosynthesis?"},
		},
		{
			name: "first occurrence wins",
			questions: []Question{
				{Text: "First question"},
				{Text: "Second question"},
				{Text: "first question"},
				{Text: "Third question"},
			},
			wantTexts: []string{"First question", "Second question", "Third question"},
		},
		{
			name: "distinct questions untouched",
			questions: []Question{
				{Text: "What is 2+2?"},
				{Text: "What is 3+3?"},
			},
			wantTexts: []string{"What is 2+2?", "What is 3+3?"},
		},
		{
			name:      "empty input",
			questions: nil,
			wantTexts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupQuestions(tt.questions)
			texts := make([]string, 0, len(got))
			for _, q := range got {
				texts = append(texts, q.Text)
			}
			assert.Equal(t, tt.wantTexts, texts)
		})
	}
}

func TestNormalizeQuestionText(t *testing.T) {
	assert.Equal(t, "what is 2 2", normalizeQuestionText("  What is 2+2?  "))
	assert.Equal(t, "hello world", normalizeQuestionText("Hello,   WORLD!!!"))
	assert.Equal(t, "", normalizeQuestionText("?!?"))
}
