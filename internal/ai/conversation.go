// Package ai drives the two-pass tool-calling protocol: one completion that
// may request scheduling tools, tool execution, then a final completion that
// phrases the result for the user.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"calbot/internal/ai/tools"
	"calbot/internal/logger"
)

// State identifies where a conversation turn is in its lifecycle.
type State string

const (
	StateIdle           State = "idle"
	StateAwaitingModel  State = "awaiting_model"
	StateExecutingTools State = "executing_tools"
	StateAwaitingFinal  State = "awaiting_final"
	StateComplete       State = "complete"
)

// ProgressFunc receives transient status updates as a turn advances. It
// decouples status reporting from any particular front end; passing nil
// disables reporting.
type ProgressFunc func(state State, message string)

// Conversation holds the message history of a single user turn. It is built
// fresh for every turn and discarded afterwards; nothing persists between
// turns beyond static configuration.
type Conversation struct {
	client   *openai.Client
	registry *tools.ToolRegistry
	progress ProgressFunc

	turnID   string
	state    State
	messages []openai.ChatCompletionMessage
}

func NewConversation(progress ProgressFunc) *Conversation {
	return &Conversation{
		client:   GetClient(),
		registry: tools.GetRegistry(),
		progress: progress,
		turnID:   uuid.NewString(),
		state:    StateIdle,
	}
}

// NewConversationWithClient is like NewConversation but uses the given client
// and registry instead of the package-level ones.
func NewConversationWithClient(client *openai.Client, registry *tools.ToolRegistry, progress ProgressFunc) *Conversation {
	c := NewConversation(progress)
	c.client = client
	c.registry = registry
	return c
}

func (c *Conversation) State() State {
	return c.state
}

func (c *Conversation) setState(state State, message string) {
	c.state = state
	logger.AIDebugf("[turn %s] %s: %s", c.turnID, state, message)
	if c.progress != nil {
		c.progress(state, message)
	}
}

func (c *Conversation) createChatRequest(withTools bool) openai.ChatCompletionRequest {
	cfg := GetConfig()

	request := openai.ChatCompletionRequest{
		Model:       MapModelName(cfg.Model),
		Messages:    c.messages,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxResponseTokens,
	}

	if withTools && cfg.EnableToolCalls {
		request.Tools = c.registry.GetOpenAITools()
		request.ToolChoice = "auto"
	}

	return request
}

// executeToolCalls runs every tool call in the assistant message and returns
// one tool-result message per call, each tagged with the call's id so the
// model can correlate results. Dispatch failures become structured error
// results; the turn itself never aborts here.
func (c *Conversation) executeToolCalls(ctx context.Context, message openai.ChatCompletionMessage) []openai.ChatCompletionMessage {
	toolResponses := make([]openai.ChatCompletionMessage, 0, len(message.ToolCalls))

	for _, toolCall := range message.ToolCalls {
		logger.AIDebugf("[turn %s] Processing tool call %s: %s", c.turnID, toolCall.ID, toolCall.Function.Name)

		result, err := c.registry.ExecuteTool(ctx, toolCall.Function.Name, toolCall.Function.Arguments)
		if err != nil {
			logger.Errorf("Tool dispatch error for %s: %v", toolCall.Function.Name, err)
			payload, marshalErr := json.Marshal(tools.ErrorPayload{
				Error:   "Function call failed",
				Details: err.Error(),
			})
			if marshalErr != nil {
				payload = []byte(`{"error":"Function call failed","details":"unknown"}`)
			}
			result = string(payload)
		}

		toolResponses = append(toolResponses, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    result,
			Name:       toolCall.Function.Name,
			ToolCallID: toolCall.ID,
		})
	}

	return toolResponses
}

func (c *Conversation) fallbackResponse() string {
	toolNames := make([]string, 0)
	for _, msg := range c.messages {
		if msg.Role == openai.ChatMessageRoleTool {
			toolNames = append(toolNames, msg.Name)
		}
	}

	if len(toolNames) > 0 {
		return "I've completed your request using: " + strings.Join(toolNames, ", ")
	}

	return "I've completed the operations but couldn't generate a final response."
}

// RunTurn drives one user utterance through the two-pass protocol and returns
// the assistant's final reply. Tool failures are relayed through the model;
// only LLM transport failures are returned as errors.
func (c *Conversation) RunTurn(ctx context.Context, userInput string) (string, error) {
	if c.client == nil {
		return "", ErrMissingAPIKey
	}

	cfg := GetConfig()

	c.messages = []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: cfg.SystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userInput},
	}

	c.setState(StateAwaitingModel, "Assistant is thinking...")

	resp, err := c.client.CreateChatCompletion(ctx, c.createChatRequest(true))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	aiMessage := resp.Choices[0].Message
	c.messages = append(c.messages, aiMessage)

	if len(aiMessage.ToolCalls) == 0 {
		c.setState(StateComplete, "Assistant needs additional information")
		return aiMessage.Content, nil
	}

	c.setState(StateExecutingTools, "Running the requested operations...")

	toolResponses := c.executeToolCalls(ctx, aiMessage)
	c.messages = append(c.messages, toolResponses...)

	c.setState(StateAwaitingFinal, "Assistant is analyzing the data...")

	resp, err = c.client.CreateChatCompletion(ctx, c.createChatRequest(false))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	final := resp.Choices[0].Message
	c.messages = append(c.messages, final)

	c.setState(StateComplete, "Assistant processed the request")

	if final.Content == "" {
		logger.Warnf("Empty AI response after tool execution")
		return c.fallbackResponse(), nil
	}

	return final.Content, nil
}
