package learnify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Explainer generates tutoring explanations for incorrect quiz answers.
type Explainer struct {
	client *openai.Client
	logger *LLMLog
}

// NewExplainer creates an explainer with an OpenAI client.
func NewExplainer(apiKey string) *Explainer {
	return &Explainer{client: openai.NewClient(apiKey)}
}

// SetLog attaches an interaction log.
func (e *Explainer) SetLog(logger *LLMLog) {
	e.logger = logger
}

// Explain returns a short explanation of why the student's answer was
// incorrect and why the correct answer is correct. Failures surface as
// ErrGenerationFailed; the caller offers a retry affordance.
func (e *Explainer) Explain(ctx context.Context, req ExplanationRequest) (string, error) {
	prompt := e.buildPrompt(req)
	if e.logger != nil {
		e.logger.LogRequest("Explainer", prompt)
	}

	resp, err := e.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an AI tutor specializing in explaining concepts to students.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Tools: []openai.Tool{
				{
					Type: openai.ToolTypeFunction,
					Function: &openai.FunctionDefinition{
						Name:        "submit_explanation",
						Description: "Submit the explanation for the incorrect answer",
						Parameters: map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"explanation": map[string]interface{}{
									"type":        "string",
									"description": "Why the student's answer was incorrect and the correct answer is correct",
								},
							},
							"required": []string{"explanation"},
						},
					},
				},
			},
			ToolChoice: openai.ToolChoice{
				Type: openai.ToolTypeFunction,
				Function: openai.ToolFunction{
					Name: "submit_explanation",
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	arguments, err := toolCallArguments(resp, "submit_explanation")
	if err != nil {
		return "", err
	}
	if e.logger != nil {
		e.logger.LogResponse("Explainer", arguments)
	}

	var toolArgs struct {
		Explanation string `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(arguments), &toolArgs); err != nil {
		return "", fmt.Errorf("%w: failed to parse tool arguments: %v", ErrGenerationFailed, err)
	}
	if toolArgs.Explanation == "" {
		return "", fmt.Errorf("%w: empty explanation", ErrGenerationFailed)
	}
	return toolArgs.Explanation, nil
}

func (e *Explainer) buildPrompt(req ExplanationRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("A student answered the following question incorrectly. The student is studying the topic: %s.\n\n", req.Topic))
	sb.WriteString(fmt.Sprintf("Question: %s\n", req.Question))
	sb.WriteString(fmt.Sprintf("Student's Answer: %s\n", req.StudentAnswer))
	sb.WriteString(fmt.Sprintf("Correct Answer: %s\n\n", req.CorrectAnswer))

	sb.WriteString("Explain to the student why their answer was incorrect and why the correct answer is correct. ")
	sb.WriteString("Provide a clear and concise explanation, using examples if necessary. ")
	sb.WriteString("The explanation should be no more than 200 words.")

	return sb.String()
}
