package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/bdi/pkg/bdi/agent"
	"github.com/cognicore/bdi/pkg/bdi/internalerr"
	"github.com/cognicore/bdi/pkg/bdi/logic"
)

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", fmt.Errorf("llm: base URL and model required")
	}
	messages := []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}}
	payload, err := c.send(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return payload.Choices[0].Message.Content, nil
}

func (c *Client) send(ctx context.Context, messages []chatMessage) (*chatResponse, error) {
	reqBody, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

// Chooser asks the model to pick one intention. It stands in for the
// operator in human decision mode.
type Chooser struct {
	Client *Client
	// Task describes the agent's situation in the prompt.
	Task    string
	Timeout time.Duration
}

var _ agent.Chooser = (*Chooser)(nil)

// Choose implements agent.Chooser.
func (c *Chooser) Choose(intentions *logic.KB) (logic.Predicate, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	system := "You select the next action of a reasoning agent. Reply with the number of one option and nothing else."
	reply, err := c.Client.Chat(ctx, system, formatPrompt(c.Task, intentions))
	if err != nil {
		return logic.Predicate{}, err
	}
	return pick(intentions, reply)
}

func pick(intentions *logic.KB, reply string) (logic.Predicate, error) {
	field := strings.Trim(strings.TrimSpace(reply), ".:)")
	if i := strings.IndexAny(field, " \n\t:.)"); i >= 0 {
		field = field[:i]
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return logic.Predicate{}, fmt.Errorf("%w: llm reply is not an option number: %q", internalerr.ErrInvalidInput, reply)
	}
	s, ok := intentions.Get(n - 1)
	if !ok {
		return logic.Predicate{}, fmt.Errorf("%w: llm picked option %d of %d", internalerr.ErrInvalidInput, n, intentions.Len())
	}
	action, ok := s.Fact()
	if !ok {
		return logic.Predicate{}, fmt.Errorf("%w: option %d is not an action: %s", internalerr.ErrInvalidInput, n, s)
	}
	return action, nil
}

func formatPrompt(task string, intentions *logic.KB) string {
	var buf bytes.Buffer
	if task != "" {
		fmt.Fprintf(&buf, "Task: %s\n", task)
	}
	fmt.Fprintf(&buf, "Options:\n")
	for idx, s := range intentions.Sentences() {
		fmt.Fprintf(&buf, "%d. %s\n", idx+1, s)
	}
	fmt.Fprintf(&buf, "\nRespond with the option number.\n")
	return buf.String()
}
