// Package relay forwards chat turns to the inference service.
package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/qiniu/x/xlog"

	"github.com/solutions/interview-prep/internal/service/cloud"
)

// Completer 单轮对话接口，由 *cloud.DeepSeekClient 实现。
type Completer interface {
	ChatCompletion(ctx context.Context, xl *xlog.Logger, system, text string) (string, error)
}

type Relay struct {
	completer Completer
	xl        *xlog.Logger
}

func NewRelay(completer Completer) *Relay {
	return &Relay{
		completer: completer,
		xl:        xlog.New("relay"),
	}
}

// Reply runs one turn without history. The raw response body is returned as is,
// a failed call is returned as its failure text.
func (r *Relay) Reply(ctx context.Context, xl *xlog.Logger, system, text string) string {
	if xl == nil {
		xl = r.xl
	}
	raw, err := r.completer.ChatCompletion(ctx, xl, system, text)
	if err != nil {
		xl.Warnf("chat completion failed, error %v", err)
		return FailureText(err)
	}
	return raw
}

// FailureText renders err the way it is sent back to the client.
func FailureText(err error) string {
	var statusErr *cloud.StatusCodeError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Request failed with status code %d: %s", statusErr.Code, statusErr.Msg)
	}
	var callErr *cloud.CallError
	if errors.As(err, &callErr) {
		err = callErr.Err
	}
	return fmt.Sprintf("Error occurred: %v", err)
}
