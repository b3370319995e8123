package learnify

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ChatMessage is one turn of a study buddy conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "model"
	Content string `json:"content"`
}

// StudyBuddy is a conversational tutor. It guides students toward
// answers instead of handing them out.
type StudyBuddy struct {
	client *openai.Client
}

// NewStudyBuddy creates a study buddy with an OpenAI client.
func NewStudyBuddy(apiKey string) *StudyBuddy {
	return &StudyBuddy{client: openai.NewClient(apiKey)}
}

// Ask answers a student's question about a subject, given the prior
// conversation. Failures surface as ErrGenerationFailed.
func (sb *StudyBuddy) Ask(ctx context.Context, subject, question string, history []ChatMessage) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: sb.persona(subject),
		},
	}
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	resp, err := sb.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    openai.GPT4o,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty answer", ErrGenerationFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

func (sb *StudyBuddy) persona(subject string) string {
	var b strings.Builder
	b.WriteString("You are Learnify, a friendly and encouraging AI study buddy. Your goal is to help students understand concepts without giving them direct answers to test questions.\n\n")
	b.WriteString(fmt.Sprintf("The student is currently studying: %s.\n\n", subject))
	b.WriteString("Your persona:\n")
	b.WriteString("- You are patient, supportive, and knowledgeable\n")
	b.WriteString("- You break down complex topics into simple, easy-to-understand explanations\n")
	b.WriteString("- You use analogies and real-world examples\n")
	b.WriteString("- You NEVER give away answers to quiz or test questions; you guide the student to think for themselves by asking leading questions\n")
	b.WriteString("- Keep your responses concise and conversational\n")
	return b.String()
}
