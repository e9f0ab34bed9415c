package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rubixchain/rubix-dapp/pkg/client"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

// Invocation is a single contract function call taken from the latest
// block of a smart contract token chain.
type Invocation struct {
	ContractHash string `json:"contract_hash"`
	ContractPath string `json:"contract_path"`
	Function     string `json:"function"`
	Input        string `json:"input"`
}

// Outcome is what the executor reported for an invocation.
type Outcome struct {
	Success bool
	Message string
}

type Executor interface {
	Execute(context.Context, *Invocation) (*Outcome, error)
}

type ExecutorFunc func(context.Context, *Invocation) (*Outcome, error)

func (f ExecutorFunc) Execute(ctx context.Context, inv *Invocation) (*Outcome, error) {
	return f(ctx, inv)
}

// HTTPExecutor delegates contract execution to a remote service.
type HTTPExecutor struct {
	url  string
	http *http.Client
}

const DefaultExecutorTimeout = 30 * time.Second

// NewHTTPExecutor posts invocations to url. A nil client or one without a
// timeout gets DefaultExecutorTimeout.
func NewHTTPExecutor(url string, client *http.Client) *HTTPExecutor {
	if client == nil {
		client = &http.Client{}
	}
	if client.Timeout <= 0 {
		c := *client
		c.Timeout = DefaultExecutorTimeout
		client = &c
	}
	return &HTTPExecutor{url: url, http: client}
}

func (e *HTTPExecutor) Execute(ctx context.Context, inv *Invocation) (*Outcome, error) {
	if e.url == "" {
		return nil, operation.Errorf(operation.CodeValidation, "no contract executor configured")
	}

	data, err := json.Marshal(inv)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(data))
	if err != nil {
		return nil, operation.NewError(operation.CodeValidation, "invalid executor url", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := e.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, operation.ErrCancelled
		}
		return nil, operation.NewError(operation.CodeTransport, "executor unreachable", err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, operation.NewError(operation.CodeTransport, "failed to read executor response", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, operation.Errorf(operation.CodeTransport, "executor returned %d", res.StatusCode)
	}

	return ParseOutcome(body)
}

// ParseOutcome interprets an execution result. Contracts either return
// the bare string success or a {status, message} object.
func ParseOutcome(body []byte) (*Outcome, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "success" || trimmed == `"success"` {
		return &Outcome{Success: true, Message: "success"}, nil
	}

	var res client.BasicResponse
	if err := json.Unmarshal([]byte(trimmed), &res); err != nil {
		return nil, operation.NewError(operation.CodeTransport, fmt.Sprintf("invalid execution result %q", trimmed), err)
	}

	return &Outcome{Success: res.Status, Message: res.Message}, nil
}
