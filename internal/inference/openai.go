package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const (
	summarizeInstructions = `Summarize the text the user provides.

Rules:
- Stay between the requested minimum and maximum word counts.
- Only restate what the text actually says, never invent facts.
- Neutral tone, plain prose, no headings or lists.
- Answer in the same language as the input.`

	answerInstructions = `Answer the question using only the provided context.

Rules:
- If the context does not contain the answer, say so in one short sentence.
- Quote the context where possible instead of paraphrasing.
- Output only the answer, nothing else.`
)

// OpenAI generates summaries and answers with the OpenAI Responses API.
// Unlike the HuggingFace backend its answers are generative, not extractive.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI builds a new OpenAI-backed provider
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Name returns the provider name
func (o *OpenAI) Name() string { return "openai" }

// Summarize condenses text within the requested length bounds
func (o *OpenAI) Summarize(ctx context.Context, req SummarizeRequest) (*Summary, error) {
	prompt := fmt.Sprintf("Summarize in %d to %d words:\n\n%s", req.MinLength, req.MaxLength, req.Text)

	text, err := o.respond(ctx, summarizeInstructions, prompt)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	return &Summary{
		Text:        text,
		Model:       o.model,
		ProcessedAt: time.Now(),
	}, nil
}

// Answer answers a question over the given context passage
func (o *OpenAI) Answer(ctx context.Context, req AnswerRequest) (*Answer, error) {
	promptBuilder := strings.Builder{}
	promptBuilder.WriteString("Context:\n")
	promptBuilder.WriteString(req.Context)
	promptBuilder.WriteString("\n\nQuestion:\n")
	promptBuilder.WriteString(req.Question)

	text, err := o.respond(ctx, answerInstructions, promptBuilder.String())
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	return &Answer{
		Text:  text,
		Score: 1.0,
		Start: -1,
		End:   -1,
	}, nil
}

func (o *OpenAI) respond(ctx context.Context, instructions, input string) (string, error) {
	resp, err := o.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           openai.ChatModel(o.model),
		MaxOutputTokens: openai.Int(2048),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(input),
		},
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if resp.Status == "incomplete" {
		return "", fmt.Errorf("response is incomplete (reason = %s)", resp.IncompleteDetails.Reason)
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", fmt.Errorf("output text is missing (status = %s)", resp.Status)
	}
	return text, nil
}
