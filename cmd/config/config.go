package config

import (
	"fmt"
	"time"

	"github.com/rubixchain/rubix-dapp/cmd/util"
	"github.com/rubixchain/rubix-dapp/internal/app/subsystems/api/http"
	"github.com/rubixchain/rubix-dapp/internal/configstore"
	"github.com/rubixchain/rubix-dapp/internal/metrics"
	"github.com/rubixchain/rubix-dapp/internal/orchestrator"
	"github.com/rubixchain/rubix-dapp/internal/runner"
	"github.com/rubixchain/rubix-dapp/internal/store"
	"github.com/rubixchain/rubix-dapp/internal/store/postgres"
	"github.com/rubixchain/rubix-dapp/internal/store/sqlite"
	"github.com/rubixchain/rubix-dapp/internal/tracker"
	"github.com/rubixchain/rubix-dapp/pkg/client"
	"github.com/rubixchain/rubix-dapp/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is shared by the cli commands.
type Config struct {
	Node         Node                `flag:"-" mapstructure:",squash"`
	Tracker      tracker.Config      `flag:"tracker"`
	Orchestrator orchestrator.Config `flag:"orchestrator"`
	Settings     configstore.Config  `flag:"settings"`
	LogLevel     string              `flag:"log-level" desc:"can be one of: debug, info, warn, error, off" default:"warn"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Node         Node                `flag:"-" mapstructure:",squash"`
	Tracker      tracker.Config      `flag:"tracker"`
	Orchestrator orchestrator.Config `flag:"orchestrator"`
	Settings     configstore.Config  `flag:"settings"`
	Http         http.Config         `flag:"http"`
	Runner       runner.Config       `flag:"runner"`
	Store        Store               `flag:"store"`
	MetricsAddr  string              `flag:"metrics-addr" desc:"prometheus metrics server address" default:":9090"`
	LogLevel     string              `flag:"log-level" desc:"can be one of: debug, info, warn, error, off" default:"info"`
}

type Node struct {
	StatusUrl   string        `flag:"status-url" desc:"request status endpoint" default:"http://localhost:8080/request-status"`
	Timeout     time.Duration `flag:"node-timeout" desc:"node request timeout" default:"30s"`
	ConnTimeout time.Duration `flag:"node-conn-timeout" desc:"node connection timeout" default:"10s"`
	Token       string        `flag:"node-token" desc:"bearer token sent to the node" default:""`
}

type Store struct {
	Kind     string          `flag:"kind" desc:"request status store, can be one of: sqlite, postgres" default:"sqlite"`
	Sqlite   sqlite.Config   `flag:"sqlite"`
	Postgres postgres.Config `flag:"postgres"`
}

// Client returns a node client for nodeAddr. The status url is shared by
// every node. The --node-token flag takes precedence over token.
func (n *Node) Client(nodeAddr, token string, m *metrics.Metrics) client.Client {
	if n.Token != "" {
		token = n.Token
	}

	opts := []client.Option{client.WithMetrics(m)}
	if token != "" {
		opts = append(opts, client.WithBearerToken(token))
	}

	return client.New(&client.Config{
		NodeAddr:    nodeAddr,
		StatusUrl:   n.StatusUrl,
		Timeout:     n.Timeout,
		ConnTimeout: n.ConnTimeout,
	}, opts...)
}

// Dialer is shared by the orchestrator and the runner, both pass the
// auth_token of the configuration document.
func (n *Node) Dialer(m *metrics.Metrics) func(nodeAddr, token string) client.Client {
	return func(nodeAddr, token string) client.Client {
		return n.Client(nodeAddr, token, m)
	}
}

// Bind registers the config file flag and the config flags on flags,
// typically the persistent flags of a command group.
func (c *Config) Bind(flags *pflag.FlagSet, vip *viper.Viper) error {
	flags.StringP("config", "c", "", "config file (default rubix-dapp.yaml)")
	return util.Bind(c, flags, vip)
}

// Load reads the config file, flags and env into c and installs the
// logger. Cli logs go to stderr so stdout only carries results.
func (c *Config) Load(cmd *cobra.Command, vip *viper.Viper) error {
	if err := util.Load(cmd, vip, "rubix-dapp"); err != nil {
		return err
	}
	if err := util.Decode(vip, c); err != nil {
		return err
	}
	if err := c.Tracker.Validate(); err != nil {
		return err
	}

	_, err := log.Setup(cmd.ErrOrStderr(), c.LogLevel)
	return err
}

func (c *Config) NewProvider() *configstore.Provider {
	return configstore.New(configstore.NewBackend(&c.Settings), &c.Settings)
}

func (c *Config) NewTracker(m *metrics.Metrics) *tracker.Tracker {
	return tracker.New(c.Node.Client("", "", m), &c.Tracker, m)
}

func (c *Config) NewOrchestrator(m *metrics.Metrics) *orchestrator.Orchestrator {
	return orchestrator.New(&c.Orchestrator, c.NewProvider(), c.Node.Dialer(m), c.NewTracker(m), m)
}

func (c *ServeConfig) Client() *Config {
	return &Config{
		Node:         c.Node,
		Tracker:      c.Tracker,
		Orchestrator: c.Orchestrator,
		Settings:     c.Settings,
		LogLevel:     c.LogLevel,
	}
}

func (s *Store) New() (store.Store, error) {
	switch s.Kind {
	case "sqlite":
		store, err := sqlite.New(&s.Sqlite)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		store, err := postgres.New(&s.Postgres)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store %q", s.Kind)
	}
}
