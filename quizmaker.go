package learnify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// QuizMaker generates quiz questions from a topic or pasted text using
// the hosted LLM. One request, one response: no retry, no streaming. A
// failed or empty generation surfaces as ErrGenerationFailed and the
// user re-submits the form.
type QuizMaker struct {
	client *openai.Client
	logger *LLMLog
}

// NewQuizMaker creates a quiz maker with an OpenAI client.
func NewQuizMaker(apiKey string) *QuizMaker {
	return &QuizMaker{client: openai.NewClient(apiKey)}
}

// SetLog attaches an interaction log for generated quizzes.
func (qm *QuizMaker) SetLog(logger *LLMLog) {
	qm.logger = logger
}

// Generate produces the requested number of questions. Malformed
// questions are dropped at the boundary and near-identical ones are
// deduplicated; if nothing usable remains the call fails with
// ErrGenerationFailed.
func (qm *QuizMaker) Generate(ctx context.Context, req QuizGenerationRequest) ([]Question, error) {
	if req.NumQuestions < 1 {
		req.NumQuestions = 1
	}
	if req.NumQuestions > 10 {
		req.NumQuestions = 10
	}

	prompt := qm.buildPrompt(req)
	if qm.logger != nil {
		qm.logger.LogRequest("QuizMaker", prompt)
	}

	resp, err := qm.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an expert educator and quiz creator. Generate multiple-choice quizzes with 4-5 options per question.",
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
						Name:        "submit_quiz",
						Description: "Submit the generated quiz questions",
						Parameters: map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"questions": map[string]interface{}{
									"type": "array",
									"items": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"text": map[string]interface{}{
												"type":        "string",
												"description": "The question text",
											},
											"options": map[string]interface{}{
												"type": "array",
												"items": map[string]interface{}{
													"type": "string",
												},
												"description": "4-5 potential answers",
											},
											"correct_answer": map[string]interface{}{
												"type":        "string",
												"description": "The correct answer, copied verbatim from the options array",
											},
										},
										"required": []string{"text", "options", "correct_answer"},
									},
								},
							},
							"required": []string{"questions"},
						},
					},
				},
			},
			ToolChoice: openai.ToolChoice{
				Type: openai.ToolTypeFunction,
				Function: openai.ToolFunction{
					Name: "submit_quiz",
				},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	arguments, err := toolCallArguments(resp, "submit_quiz")
	if err != nil {
		return nil, err
	}
	if qm.logger != nil {
		qm.logger.LogResponse("QuizMaker", arguments)
	}

	var toolArgs struct {
		Questions []struct {
			Text          string   `json:"text"`
			Options       []string `json:"options"`
			CorrectAnswer string   `json:"correct_answer"`
		} `json:"questions"`
	}
	if err := json.Unmarshal([]byte(arguments), &toolArgs); err != nil {
		return nil, fmt.Errorf("%w: failed to parse tool arguments: %v", ErrGenerationFailed, err)
	}

	questions := make([]Question, 0, len(toolArgs.Questions))
	for _, q := range toolArgs.Questions {
		question := Question{
			ID:            NewID(),
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		}
		if err := ValidateQuestion(question); err != nil {
			VerboseLog("Dropping malformed generated question: %v", err)
			continue
		}
		questions = append(questions, question)
	}
	questions = DedupQuestions(questions)

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no usable questions returned", ErrGenerationFailed)
	}
	if len(questions) > req.NumQuestions {
		questions = questions[:req.NumQuestions]
	}
	return questions, nil
}

func (qm *QuizMaker) buildPrompt(req QuizGenerationRequest) string {
	var sb strings.Builder

	sb.WriteString("Generate a multiple-choice quiz based on the provided content.\n\n")
	sb.WriteString("Quiz details:\n")
	sb.WriteString(fmt.Sprintf("- Skill level: %s\n", req.SkillLevel))
	sb.WriteString(fmt.Sprintf("- Number of questions: %d\n\n", req.NumQuestions))

	sb.WriteString("Content (may be a simple topic or a larger block of text):\n")
	sb.WriteString(req.SourceContent)
	sb.WriteString("\n\n")

	sb.WriteString("Requirements:\n")
	sb.WriteString("- Each question must have 4-5 options\n")
	sb.WriteString("- Include one correct answer and several plausible distractors\n")
	sb.WriteString("- The correct answer must be copied verbatim from the options\n")
	sb.WriteString("- Questions must be relevant to the content and appropriate for the skill level\n")
	sb.WriteString("- Use the submit_quiz tool to return the questions\n")

	return sb.String()
}

// toolCallArguments extracts the forced tool call's arguments from a
// chat completion, or fails with ErrGenerationFailed.
func toolCallArguments(resp openai.ChatCompletionResponse, name string) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from model", ErrGenerationFailed)
	}
	choice := resp.Choices[0]
	if len(choice.Message.ToolCalls) == 0 {
		return "", fmt.Errorf("%w: no tool calls in response", ErrGenerationFailed)
	}
	toolCall := choice.Message.ToolCalls[0]
	if toolCall.Function.Name != name {
		return "", fmt.Errorf("%w: unexpected tool call %s", ErrGenerationFailed, toolCall.Function.Name)
	}
	return toolCall.Function.Arguments, nil
}
