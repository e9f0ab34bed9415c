package runner

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rubixchain/rubix-dapp/internal/configstore"
	"github.com/rubixchain/rubix-dapp/internal/metrics"
	"github.com/rubixchain/rubix-dapp/internal/store"
	"github.com/rubixchain/rubix-dapp/pkg/client"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

type Config struct {
	ExecutorUrl     string        `flag:"executor-url" desc:"contract execution service invoked for every callback" default:""`
	ExecutorTimeout time.Duration `flag:"executor-timeout" desc:"contract execution request timeout" default:"30s"`
}

type Provider interface {
	App(context.Context) (*configstore.App, error)
}

type Dialer func(nodeAddr, token string) client.Client

// Runner handles the node's smart contract callback. It records the
// request status under the tracking key the orchestrators poll.
type Runner struct {
	provider Provider
	dial     Dialer
	store    store.Store
	executor Executor
	metrics  *metrics.Metrics
}

func New(provider Provider, dial Dialer, store store.Store, executor Executor, metrics *metrics.Metrics) *Runner {
	return &Runner{
		provider: provider,
		dial:     dial,
		store:    store,
		executor: executor,
		metrics:  metrics,
	}
}

type Result struct {
	TrackingKey string
	Function    string
	Status      operation.Status
	Message     string
}

func (r *Runner) Run(ctx context.Context, contractHash string) (*Result, error) {
	if contractHash == "" {
		return nil, operation.Errorf(operation.CodeValidation, "smart contract hash is required")
	}

	app, err := r.provider.App(ctx)
	if err != nil {
		return nil, err
	}
	if app.NodeAddress == "" {
		return nil, operation.Errorf(operation.CodeValidation, "node address required")
	}

	reply, err := r.dial(app.NodeAddress, app.AuthToken).SmartContractData(ctx, contractHash)
	if err != nil {
		return nil, operation.Wrap(err, "unable to fetch latest smart contract data")
	}

	input, ok := reply.Latest()
	if !ok {
		return nil, operation.Errorf(operation.CodeValidation, "no smart contract data for %s", contractHash)
	}

	var call map[string]json.RawMessage
	if err := json.Unmarshal([]byte(input), &call); err != nil {
		return nil, operation.NewError(operation.CodeValidation, "invalid smart contract data", err)
	}
	if len(call) != 1 {
		return nil, operation.Errorf(operation.CodeValidation, "expected a single function call, got %d", len(call))
	}

	var function string
	for name := range call {
		function = name
	}

	family, kind, err := operation.ParseFunction(function)
	if err != nil {
		return nil, operation.NewError(operation.CodeValidation, "", err)
	}

	// a configured hash only runs the functions of its own family
	contract := app.Contract(family)
	if configured, c, ok := app.ContractByHash(contractHash); ok {
		if configured != family {
			return nil, operation.Errorf(operation.CodeValidation, "function %s does not belong to the %s contract %s", function, configured.Upper(), contractHash)
		}
		contract = c
	}

	key := operation.TrackingKey(family, contractHash, kind)
	slog.Info("runner:run", "key", key, "function", function)

	created, err := r.store.Create(ctx, key, operation.Pending)
	if err != nil {
		return nil, err
	}
	if created {
		r.observe(operation.Pending)
	}

	outcome, execErr := r.executor.Execute(ctx, &Invocation{
		ContractHash: contractHash,
		ContractPath: contract.Path,
		Function:     function,
		Input:        input,
	})

	status := operation.StatusFromBool(execErr == nil && outcome.Success)

	// detached from the caller, a terminal status must be written
	// even when the caller went away
	if err := r.store.Update(context.WithoutCancel(ctx), key, status); err != nil {
		return nil, err
	}
	r.observe(status)

	if execErr != nil {
		slog.Error("runner:execute", "key", key, "error", execErr)
		return nil, operation.Wrap(execErr, "failed to execute contract")
	}

	slog.Info("runner:done", "key", key, "status", status, "message", outcome.Message)

	return &Result{
		TrackingKey: key,
		Function:    function,
		Status:      status,
		Message:     outcome.Message,
	}, nil
}

func (r *Runner) observe(status operation.Status) {
	if r.metrics != nil {
		r.metrics.RequestsRecordedTotal.WithLabelValues(status.String()).Inc()
	}
}
