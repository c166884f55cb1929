package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/lexio/internal/enrichment"
	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const DefaultBaseURL = "https://api.openai.com/v1"

var _ enrichment.Client = (*Client)(nil)

// Client implements enrichment.Client against an OpenAI-compatible
// chat-completions endpoint. A local inference server works as long as it
// speaks the same API; point BaseURL at it.
type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(baseURL, apiKey, model string, retryAttempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Retry on JSON parsing errors as they might be due to incomplete responses
	errStr := err.Error()
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

// completeJSON sends one chat completion with a JSON-only system prompt and
// decodes the model's answer into out. Retries with backoff on transient
// failures; non-retryable errors abort immediately.
func (client *Client) completeJSON(ctx context.Context, systemPrompt string, userPayload any, out any) error {
	userJSON, err := json.Marshal(userPayload)
	if err != nil {
		return fmt.Errorf("json.Marshal(userPayload) > %w", err)
	}

	requestBody := ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.2,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: string(userJSON)},
		},
	}

	return retry.Do(
		func() error {
			if err := client.completeJSONOnce(ctx, requestBody, out); err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func (client *Client) completeJSONOnce(ctx context.Context, requestBody ChatCompletionRequest, out any) error {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", responseBody,
	)

	if err := json.NewDecoder(strings.NewReader(content)).Decode(out); err != nil {
		slog.Default().Error("Failed to parse OpenAI response as JSON",
			"model", client.model,
			"error", err)
		return fmt.Errorf("json.Unmarshal(%s) > %w", content, err)
	}
	return nil
}

// GetDefinition implements the enrichment.Client interface
func (client *Client) GetDefinition(
	ctx context.Context,
	params enrichment.DefinitionRequest,
) (enrichment.DefinitionResponse, error) {
	systemPrompt := `You are a dictionary assistant for language learners reading a book.

The user gives you a JSON object with "word", "sentence" and "language".
Define the word AS USED IN THAT SENTENCE. Words have multiple senses; pick the
sense the sentence uses, never the most common sense.

Return ONLY a JSON object:
{
  "definition": "<short learner-friendly definition of the word in this sentence>",
  "word_translation": "<translation of the word into the learner's language, or empty>",
  "word_type": "<noun|verb|adjective|adverb|preposition|..., or empty>",
  "article": "<grammatical article for the word if the language uses one, or empty>"
}

No text outside the JSON. The definition must not contain the word itself.`

	var result enrichment.DefinitionResponse
	if err := client.completeJSON(ctx, systemPrompt, params, &result); err != nil {
		return enrichment.DefinitionResponse{}, fmt.Errorf("completeJSON(definition) > %w", err)
	}
	return result, nil
}

// GetPhraseMeaning implements the enrichment.Client interface
func (client *Client) GetPhraseMeaning(
	ctx context.Context,
	params enrichment.PhraseMeaningRequest,
) (enrichment.PhraseMeaningResponse, error) {
	systemPrompt := `You are a dictionary assistant for language learners reading a book.

The user gives you a JSON object with "phrase", "sentence" and "language".
Explain what the phrase means AS USED IN THAT SENTENCE. Treat idioms and
phrasal verbs as a unit; never define the words individually.

Return ONLY a JSON object:
{
  "meaning": "<short learner-friendly meaning of the phrase in this sentence>",
  "phrase_translation": "<translation of the phrase, or empty>",
  "is_phrasal_verb": <true if the phrase is a phrasal verb, else false>
}

No text outside the JSON.`

	var result enrichment.PhraseMeaningResponse
	if err := client.completeJSON(ctx, systemPrompt, params, &result); err != nil {
		return enrichment.PhraseMeaningResponse{}, fmt.Errorf("completeJSON(phraseMeaning) > %w", err)
	}
	return result, nil
}

// SimplifySentence implements the enrichment.Client interface
func (client *Client) SimplifySentence(
	ctx context.Context,
	params enrichment.SimplifyRequest,
) (enrichment.SimplifyResponse, error) {
	systemPrompt := `You simplify sentences for language learners.

The user gives you a JSON object with "sentence" and "language".
Rewrite the sentence using simpler, more common vocabulary and grammar while
keeping the meaning identical. Keep the same language as the input.

Return ONLY a JSON object:
{
  "simplified": "<the simplified sentence>",
  "sentence_translation": "<translation of the original sentence, or empty>",
  "simplified_translation": "<translation of the simplified sentence, or empty>"
}

No text outside the JSON.`

	var result enrichment.SimplifyResponse
	if err := client.completeJSON(ctx, systemPrompt, params, &result); err != nil {
		return enrichment.SimplifyResponse{}, fmt.Errorf("completeJSON(simplify) > %w", err)
	}
	return result, nil
}

// GetWordEquivalent implements the enrichment.Client interface
func (client *Client) GetWordEquivalent(
	ctx context.Context,
	params enrichment.WordEquivalentRequest,
) (enrichment.WordEquivalentResponse, error) {
	systemPrompt := `You align words between an original sentence and its simplified paraphrase.

The user gives you a JSON object with "word", "sentence" and
"simplified_sentence". Find the single word in the simplified sentence that
plays the role of the given word from the original sentence.

Return ONLY a JSON object:
{
  "equivalent": "<the equivalent word from the simplified sentence>",
  "needs_regeneration": <true if no word in the simplified sentence corresponds to it, else false>
}

If needs_regeneration is true, set "equivalent" to the simple word the
simplified sentence SHOULD contain. No text outside the JSON.`

	var result enrichment.WordEquivalentResponse
	if err := client.completeJSON(ctx, systemPrompt, params, &result); err != nil {
		return enrichment.WordEquivalentResponse{}, fmt.Errorf("completeJSON(wordEquivalent) > %w", err)
	}
	return result, nil
}

// ResimplifyWithWord implements the enrichment.Client interface
func (client *Client) ResimplifyWithWord(
	ctx context.Context,
	params enrichment.ResimplifyRequest,
) (enrichment.ResimplifyResponse, error) {
	systemPrompt := `You simplify sentences for language learners.

The user gives you a JSON object with "sentence", "word", "equivalent" and
"language". Rewrite the sentence with simpler vocabulary and grammar, and the
rewritten sentence MUST contain the word given in "equivalent" standing in for
"word". Keep the same language as the input.

Return ONLY a JSON object:
{
  "simplified": "<the simplified sentence containing the equivalent word>"
}

No text outside the JSON.`

	var result enrichment.ResimplifyResponse
	if err := client.completeJSON(ctx, systemPrompt, params, &result); err != nil {
		return enrichment.ResimplifyResponse{}, fmt.Errorf("completeJSON(resimplify) > %w", err)
	}
	return result, nil
}

// GetIPA implements the enrichment.Client interface. This is the AI fallback;
// phonetics.LexiconTranscriber is preferred when it knows the word.
func (client *Client) GetIPA(
	ctx context.Context,
	params enrichment.IPARequest,
) (enrichment.IPAResponse, error) {
	systemPrompt := `You are a phonetics assistant.

The user gives you a JSON object with "word" and "language".
Transcribe the word into IPA for that language and break it into syllables.

Return ONLY a JSON object:
{
  "ipa": "<IPA transcription without surrounding slashes>",
  "syllables": ["<syllable>", ...]
}

No text outside the JSON.`

	var result enrichment.IPAResponse
	if err := client.completeJSON(ctx, systemPrompt, params, &result); err != nil {
		return enrichment.IPAResponse{}, fmt.Errorf("completeJSON(ipa) > %w", err)
	}
	return result, nil
}

// SearchExamples implements the enrichment.Client interface
func (client *Client) SearchExamples(
	ctx context.Context,
	params enrichment.ExamplesRequest,
) (enrichment.ExamplesResponse, error) {
	systemPrompt := `You provide example sentences for language learners.

The user gives you a JSON object with "word" and "language".
Write 3 short, natural example sentences in that language using the word in
its most common senses.

Return ONLY a JSON object:
{
  "examples": [
    {"sentence": "<example sentence>", "translation": "<translation or empty>"}
  ]
}

No text outside the JSON.`

	var result enrichment.ExamplesResponse
	if err := client.completeJSON(ctx, systemPrompt, params, &result); err != nil {
		return enrichment.ExamplesResponse{}, fmt.Errorf("completeJSON(examples) > %w", err)
	}
	return result, nil
}
