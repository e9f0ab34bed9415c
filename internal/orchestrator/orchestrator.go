package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rubixchain/rubix-dapp/internal/configstore"
	"github.com/rubixchain/rubix-dapp/internal/metrics"
	"github.com/rubixchain/rubix-dapp/internal/tracker"
	"github.com/rubixchain/rubix-dapp/internal/util"
	"github.com/rubixchain/rubix-dapp/pkg/client"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

const contractName = "rubix1"

type Config struct {
	Password   string `flag:"password" desc:"password used to sign execution requests" default:"mypassword"`
	QuorumType int    `flag:"quorum-type" desc:"quorum type of execution requests" default:"2"`
}

// Provider is the part of the configuration store the orchestrator reads.
type Provider interface {
	App(context.Context) (*configstore.App, error)
}

// Dialer returns a node client for the configured node address and
// auth token.
type Dialer func(nodeAddr, token string) client.Client

// Orchestrator runs execute, sign and track for every mutating
// operation. Steps are strictly sequential.
type Orchestrator struct {
	config   *Config
	provider Provider
	dial     Dialer
	tracker  *tracker.Tracker
	validate *validator.Validate
	metrics  *metrics.Metrics
	now      func() time.Time
}

func New(config *Config, provider Provider, dial Dialer, tracker *tracker.Tracker, metrics *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		config:   config,
		provider: provider,
		dial:     dial,
		tracker:  tracker,
		validate: validator.New(),
		metrics:  metrics,
		now:      time.Now,
	}
}

type MintNFTParams struct {
	MetadataPath string `validate:"required"`
	ArtifactPath string `validate:"required"`
}

type TransferNFTParams struct {
	NFT      string  `validate:"required"`
	Owner    string  `validate:"required"`
	Receiver string  `validate:"required"`
	Value    float64 `validate:"gte=0"`
}

type CreateFTParams struct {
	Name       string `validate:"required"`
	Supply     int    `validate:"gt=0"`
	RBTLocked  int    `validate:"gt=0"`
	CreatorDID string `validate:"required"`
}

type TransferFTParams struct {
	Name        string `validate:"required"`
	Amount      int    `validate:"gt=0"`
	CreatorDID  string `validate:"required"`
	ReceiverDID string `validate:"required"`
}

// Result identifies a completed operation.
type Result struct {
	RequestId   string
	TrackingKey string
}

func (o *Orchestrator) MintNFT(ctx context.Context, params *MintNFTParams) (*Result, error) {
	return o.run(ctx, operation.NFT, operation.Mint, params, func(e *env) (string, any) {
		return fmt.Sprintf("Mint NFT Request - %d", o.now().UnixMilli()), map[string]any{
			"name": contractName,
			"nft_info": map[string]any{
				"did":      e.app.UserDID,
				"metadata": params.MetadataPath,
				"artifact": params.ArtifactPath,
			},
		}
	})
}

func (o *Orchestrator) TransferNFT(ctx context.Context, params *TransferNFTParams) (*Result, error) {
	return o.run(ctx, operation.NFT, operation.Transfer, params, func(e *env) (string, any) {
		return fmt.Sprintf("Transfer NFT Request - %d", o.now().UnixMilli()), map[string]any{
			"name": contractName,
			"nft_info": map[string]any{
				"comment":   fmt.Sprintf("NFT Transfer - %d", o.now().UnixMilli()),
				"nft":       params.NFT,
				"nft_data":  "",
				"nft_value": params.Value,
				"owner":     params.Owner,
				"receiver":  params.Receiver,
			},
		}
	})
}

func (o *Orchestrator) CreateFT(ctx context.Context, params *CreateFTParams) (*Result, error) {
	return o.run(ctx, operation.FT, operation.Mint, params, func(e *env) (string, any) {
		return fmt.Sprintf("Create FT %s", params.Name), map[string]any{
			"name": contractName,
			"ft_info": map[string]any{
				"did":         params.CreatorDID,
				"ft_count":    params.Supply,
				"ft_name":     params.Name,
				"token_count": params.RBTLocked,
			},
		}
	})
}

func (o *Orchestrator) TransferFT(ctx context.Context, params *TransferFTParams) (*Result, error) {
	return o.run(ctx, operation.FT, operation.Transfer, params, func(e *env) (string, any) {
		return fmt.Sprintf("Transfer FT %s", params.Name), map[string]any{
			"name": contractName,
			"ft_info": map[string]any{
				"comment":    fmt.Sprintf("Transfer %d %s", params.Amount, params.Name),
				"ft_count":   params.Amount,
				"ft_name":    params.Name,
				"sender":     e.app.UserDID,
				"creatorDID": params.CreatorDID,
				"receiver":   params.ReceiverDID,
			},
		}
	})
}

// ListNFTs returns the NFTs owned by the configured identity.
func (o *Orchestrator) ListNFTs(ctx context.Context) ([]client.NFTInfo, error) {
	app, err := o.app(ctx, "")
	if err != nil {
		return nil, err
	}

	nfts, err := o.dial(app.NodeAddress, app.AuthToken).ListNFTs(ctx)
	if err != nil {
		return nil, operation.Wrap(err, "failed to fetch NFTs")
	}

	owned := []client.NFTInfo{}
	for _, nft := range nfts {
		if nft.Owner == app.UserDID {
			owned = append(owned, nft)
		}
	}

	return owned, nil
}

// ListFTs returns the fungible token balances of the configured identity.
func (o *Orchestrator) ListFTs(ctx context.Context) ([]client.FTInfo, error) {
	app, err := o.app(ctx, "")
	if err != nil {
		return nil, err
	}

	fts, err := o.dial(app.NodeAddress, app.AuthToken).FTInfoByDID(ctx, app.UserDID)
	if err != nil {
		return nil, operation.Wrap(err, "failed to fetch FT information")
	}
	if fts == nil {
		fts = []client.FTInfo{}
	}

	return fts, nil
}

type env struct {
	app      *configstore.App
	contract configstore.Contract
}

// payload returns the execution comment and the function arguments.
type payload func(*env) (string, any)

func (o *Orchestrator) run(ctx context.Context, family operation.Family, kind operation.Kind, params any, build payload) (res *Result, err error) {
	verb := string(kind)
	if family == operation.FT && kind == operation.Mint {
		verb = "create"
	}
	prefix := fmt.Sprintf("failed to %s %s", verb, family.Upper())

	defer func() {
		outcome := "success"
		if err != nil {
			outcome = operation.CodeOf(err).String()
		}
		if o.metrics != nil {
			o.metrics.OperationsTotal.WithLabelValues(string(family), string(kind), outcome).Inc()
		}
	}()

	if err := o.validate.Struct(params); err != nil {
		return nil, operation.Errorf(operation.CodeValidation, "%s", strings.Join(util.ParseBindingError(err), " "))
	}

	app, err := o.app(ctx, family)
	if err != nil {
		return nil, err
	}

	e := &env{app: app, contract: app.Contract(family)}
	key := operation.TrackingKey(family, e.contract.Hash, kind)

	// the key is held from before execution until tracking ends
	reservation, err := o.tracker.Reserve(key)
	if err != nil {
		return nil, operation.Wrap(err, prefix)
	}
	defer reservation.Release()

	comment, args := build(e)

	data, err := json.Marshal(map[string]any{operation.Function(family, kind): args})
	if err != nil {
		return nil, operation.NewError(operation.CodeValidation, "failed to encode smart contract data", err)
	}

	c := o.dial(app.NodeAddress, app.AuthToken)
	op := uuid.New().String()

	slog.Info("orchestrator:execute", "op", op, "family", family, "kind", kind, "contract", e.contract.Hash)

	// 1. execute
	exec, err := c.ExecuteSmartContract(ctx, &client.ExecuteRequest{
		Comment:            comment,
		ExecutorAddr:       app.UserDID,
		QuorumType:         o.config.QuorumType,
		SmartContractData:  string(data),
		SmartContractToken: e.contract.Hash,
	})
	if err != nil {
		return nil, operation.Wrap(err, prefix)
	}
	if !exec.Status {
		return nil, operation.Wrap(rejection(exec.Message, "Smart contract execution failed"), prefix)
	}

	slog.Info("orchestrator:sign", "op", op, "request", exec.Result.Id)

	// 2. sign
	sig, err := c.SubmitSignature(ctx, &client.SignatureRequest{
		Id:       exec.Result.Id,
		Mode:     0,
		Password: o.config.Password,
	})
	if err != nil {
		return nil, operation.Wrap(err, prefix)
	}
	if !sig.Status {
		return nil, operation.Wrap(rejection(sig.Message, "Signature submission failed"), prefix)
	}

	// 3. track
	slog.Info("orchestrator:track", "op", op, "key", key)

	if err := reservation.Track(ctx); err != nil {
		return nil, operation.Wrap(err, prefix)
	}

	slog.Info(fmt.Sprintf("%s %s process completed", family.Upper(), kind), "op", op, "key", key)

	return &Result{RequestId: exec.Result.Id, TrackingKey: key}, nil
}

// app reads the configuration and checks what every operation needs
// before anything goes over the network. An empty family skips the
// contract check.
func (o *Orchestrator) app(ctx context.Context, family operation.Family) (*configstore.App, error) {
	app, err := o.provider.App(ctx)
	if err != nil {
		if operation.CodeOf(err) != 0 {
			return nil, err
		}
		return nil, operation.NewError(operation.CodeValidation, "failed to read configuration", err)
	}

	var missing []string
	if app.NodeAddress == "" {
		missing = append(missing, "node address")
	}
	if app.UserDID == "" {
		missing = append(missing, "user DID")
	}
	if family != "" && app.Contract(family).Hash == "" {
		missing = append(missing, fmt.Sprintf("%s contract hash", family.Upper()))
	}

	if len(missing) > 0 {
		return nil, operation.Errorf(operation.CodeValidation, "%s required", strings.Join(missing, " and "))
	}

	return app, nil
}

func rejection(message string, fallback string) error {
	if message == "" {
		message = fallback
	}
	return operation.Errorf(operation.CodeRemoteRejection, "%s", message)
}
