package cloud

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

type CallError struct {
	Api string
	Err error
}

func NewCallError(api string, err error) *CallError {
	return &CallError{Api: api, Err: err}
}

func (c CallError) Error() string {
	return fmt.Sprintf("call api %v error:%v", c.Api, c.Err)
}

func (c CallError) Unwrap() error {
	return c.Err
}

type StatusCodeError struct {
	Code int
	Msg  string
}

// NewStatusCodeError status is either a reason phrase or a full "404 Not Found" status line.
func NewStatusCodeError(code int, status string) *StatusCodeError {
	return &StatusCodeError{Code: code, Msg: strings.TrimPrefix(status, strconv.Itoa(code)+" ")}
}

func (s StatusCodeError) Error() string {
	return fmt.Sprintf("resp status %v %s", s.Code, s.Msg)
}

// DeepSeekError error object carried in a failed chat completion body.
type DeepSeekError struct {
	Type    string
	Message string
}

// NewDeepSeekError parse deepseek error body, nil when val carries no error object.
func NewDeepSeekError(val []byte) *DeepSeekError {
	result := gjson.GetBytes(val, "error")
	if !result.Exists() {
		return nil
	}
	return &DeepSeekError{
		Type:    result.Get("type").String(),
		Message: result.Get("message").String(),
	}
}

func (d DeepSeekError) Error() string {
	return fmt.Sprintf("deepseek error type: %s message: %s", d.Type, d.Message)
}
