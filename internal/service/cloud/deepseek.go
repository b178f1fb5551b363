package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/qiniu/x/xlog"
	"github.com/sashabaranov/go-openai"

	"github.com/solutions/interview-prep/internal/common/utils"
)

const (
	// DefaultSystemPrompt system message of a turn without an interview context.
	DefaultSystemPrompt = "You are a helpful assistant."

	chatCompletionsPath = "/chat/completions"
)

// chatCompletionBody request body of /chat/completions, stream is always present.
type chatCompletionBody struct {
	Model    string                         `json:"model"`
	Messages []openai.ChatCompletionMessage `json:"messages"`
	Stream   bool                           `json:"stream"`
}

// DeepSeekClient 面向 deepseek chat completion 接口的客户端。
type DeepSeekClient struct {
	apiKey      string
	apiEndPoint string
	model       string
	client      *http.Client
	xl          *xlog.Logger
}

func NewDeepSeekClient(conf *utils.DeepSeekConfig, client *http.Client) *DeepSeekClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &DeepSeekClient{
		apiKey:      conf.APIKey,
		apiEndPoint: strings.TrimRight(conf.BaseURL, "/"),
		model:       conf.Model,
		client:      client,
		xl:          xlog.New("deepseek client"),
	}
}

// ChatCompletion sends a single system and user turn, returns the raw response body.
func (c *DeepSeekClient) ChatCompletion(ctx context.Context, xl *xlog.Logger, system, text string) (string, error) {
	if xl == nil {
		xl = c.xl
	}
	url := c.apiEndPoint + chatCompletionsPath
	body := chatCompletionBody{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Stream: false,
	}

	resp, err := c.PostWithJson(ctx, url, body)
	if err != nil {
		xl.Errorf("call error %+v", err)
		return "", NewCallError(url, err)
	}
	defer resp.Body.Close()

	res, err := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if dsErr := NewDeepSeekError(res); dsErr != nil {
			xl.Errorf("StatusCode %d, %v", resp.StatusCode, dsErr)
		} else {
			xl.Errorf("StatusCode %d", resp.StatusCode)
		}
		return "", NewStatusCodeError(resp.StatusCode, resp.Status)
	}
	if err != nil {
		xl.Errorf("read body error %+v", err)
		return "", NewCallError(url, err)
	}
	xl.Debugf("chat completion done, %d bytes", len(res))
	return string(res), nil
}

func (c *DeepSeekClient) PostWithJson(ctx context.Context, url string, params interface{}) (*http.Response, error) {
	msg, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(msg))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return c.client.Do(req)
}
