package cmd

import (
	"context"
	"io"
	netHttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rubixchain/rubix-dapp/cmd/config"
	"github.com/rubixchain/rubix-dapp/cmd/ft"
	"github.com/rubixchain/rubix-dapp/cmd/nft"
	"github.com/rubixchain/rubix-dapp/cmd/serve"
	"github.com/rubixchain/rubix-dapp/cmd/settings"
	"github.com/rubixchain/rubix-dapp/cmd/status"
	"github.com/rubixchain/rubix-dapp/cmd/util"
	"github.com/rubixchain/rubix-dapp/internal/app/subsystems/api/http"
	"github.com/rubixchain/rubix-dapp/internal/configstore"
	"github.com/rubixchain/rubix-dapp/internal/orchestrator"
	"github.com/rubixchain/rubix-dapp/internal/runner"
	"github.com/rubixchain/rubix-dapp/internal/store/postgres"
	"github.com/rubixchain/rubix-dapp/internal/store/sqlite"
	"github.com/rubixchain/rubix-dapp/internal/tracker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cmd func(*config.Config, *viper.Viper) *cobra.Command

func defaultConfig() *config.Config {
	return &config.Config{
		Node: config.Node{
			StatusUrl:   "http://localhost:8080/request-status",
			Timeout:     30 * time.Second,
			ConnTimeout: 10 * time.Second,
		},
		Tracker: tracker.Config{
			Interval: 6 * time.Second,
		},
		Orchestrator: orchestrator.Config{
			Password:   "mypassword",
			QuorumType: 2,
		},
		Settings: configstore.Config{
			TTL:  5 * time.Second,
			File: "config.json",
		},
		LogLevel: "warn",
	}
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		args     []string
		expected func(*config.Config)
	}{
		{
			name:     "default",
			expected: func(*config.Config) {},
		},
		{
			name: "config from file",
			file: `
statusUrl: http://bff:8080/request-status
tracker:
  interval: 2s
orchestrator:
  password: secret
settings:
  ttl: 1s
  url: http://bff:8080
logLevel: debug`,
			expected: func(c *config.Config) {
				c.Node.StatusUrl = "http://bff:8080/request-status"
				c.Tracker.Interval = 2 * time.Second
				c.Orchestrator.Password = "secret"
				c.Settings.TTL = 1 * time.Second
				c.Settings.Url = "http://bff:8080"
				c.LogLevel = "debug"
			},
		},
		{
			name: "config from flags",
			args: []string{
				"--status-url", "http://bff:8081/request-status",
				"--node-token", "token",
				"--tracker-interval", "3s",
				"--orchestrator-quorum-type", "1",
				"--settings-file", "app.json",
				"--log-level", "error",
			},
			expected: func(c *config.Config) {
				c.Node.StatusUrl = "http://bff:8081/request-status"
				c.Node.Token = "token"
				c.Tracker.Interval = 3 * time.Second
				c.Orchestrator.QuorumType = 1
				c.Settings.File = "app.json"
				c.LogLevel = "error"
			},
		},
		{
			name: "config flags take precedence",
			file: `
tracker:
  interval: 2s
orchestrator:
  password: secret
logLevel: debug`,
			args: []string{
				"--tracker-interval", "3s",
				"--log-level", "error",
			},
			expected: func(c *config.Config) {
				c.Tracker.Interval = 3 * time.Second
				c.Orchestrator.Password = "secret"
				c.LogLevel = "error"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, cmdFunc := range []cmd{nft.NewCmd, ft.NewCmd, settings.NewCmd, status.NewCmd} {
				cfg := &config.Config{}
				vip := viper.New()
				cmd := cmdFunc(cfg, vip)

				t.Run(cmd.Name(), func(t *testing.T) {
					// set up config file
					configFile := filepath.Join(t.TempDir(), "rubix-dapp.yaml")
					err := os.WriteFile(configFile, []byte(tt.file), 0644)
					require.NoError(t, err)

					// call command with flags
					err = cmd.ParseFlags(append(tt.args, "--config", configFile))
					require.NoError(t, err)

					// load config
					err = cfg.Load(cmd, vip)
					require.NoError(t, err)

					expected := defaultConfig()
					tt.expected(expected)
					assert.Equal(t, expected, cfg)
				})
			}
		})
	}
}

func TestConfigInvalidInterval(t *testing.T) {
	for _, args := range [][]string{{"--tracker-interval", "0s"}, {"--tracker-interval", "-1s"}} {
		for _, cmdFunc := range []cmd{nft.NewCmd, ft.NewCmd, settings.NewCmd, status.NewCmd} {
			cfg := &config.Config{}
			vip := viper.New()
			cmd := cmdFunc(cfg, vip)

			t.Run(cmd.Name()+args[1], func(t *testing.T) {
				configFile := filepath.Join(t.TempDir(), "rubix-dapp.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte{}, 0644))
				require.NoError(t, cmd.ParseFlags(append(args, "--config", configFile)))

				err := cfg.Load(cmd, vip)
				assert.ErrorContains(t, err, "tracker interval must be positive")
			})
		}
	}

	cfg := &config.ServeConfig{}
	vip := viper.New()
	cmd := serve.NewCmd(cfg, vip)

	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--tracker-interval", "0s"})
	assert.ErrorContains(t, cmd.Execute(), "tracker interval must be positive")
}

func TestNodeToken(t *testing.T) {
	auth := make(chan string, 1)
	server := httptest.NewServer(netHttp.HandlerFunc(func(w netHttp.ResponseWriter, r *netHttp.Request) {
		auth <- r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"nfts": []}`))
	}))
	defer server.Close()

	tcs := []struct {
		name     string
		flag     string
		appToken string
		expected string
	}{
		{name: "auth token", appToken: "apptoken", expected: "Bearer apptoken"},
		{name: "flag takes precedence", flag: "flagtoken", appToken: "apptoken", expected: "Bearer flagtoken"},
		{name: "flag only", flag: "flagtoken", expected: "Bearer flagtoken"},
		{name: "none", expected: ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			node := &config.Node{Token: tc.flag, Timeout: time.Second, ConnTimeout: time.Second}

			_, err := node.Dialer(nil)(server.URL, tc.appToken).ListNFTs(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, <-auth)
		})
	}
}

func TestServeConfig(t *testing.T) {
	cfg := &config.ServeConfig{}
	vip := viper.New()
	cmd := serve.NewCmd(cfg, vip)

	configFile := filepath.Join(t.TempDir(), "rubix-dapp.yaml")
	err := os.WriteFile(configFile, []byte(`
http:
  addr: ":8081"
  walletOrigin: http://localhost:5173
store:
  kind: postgres
  postgres:
    host: db
runner:
  executorUrl: http://executor:9000/run`), 0644)
	require.NoError(t, err)

	err = cmd.ParseFlags([]string{"--config", configFile, "--http-cors-origins", "http://localhost:5173", "--metrics-addr", ":9091"})
	require.NoError(t, err)

	require.NoError(t, cmd.PreRunE(cmd, nil))
	require.NoError(t, util.Decode(vip, cfg))

	client := defaultConfig()
	client.LogLevel = "info"

	assert.Equal(t, &config.ServeConfig{
		Node:         client.Node,
		Tracker:      client.Tracker,
		Orchestrator: client.Orchestrator,
		Settings:     client.Settings,
		Http: http.Config{
			Addr:          ":8081",
			Timeout:       10 * time.Second,
			CorsOrigins:   "http://localhost:5173",
			WalletOrigin:  "http://localhost:5173",
			WalletTimeout: 2 * time.Minute,
		},
		Runner: runner.Config{
			ExecutorUrl:     "http://executor:9000/run",
			ExecutorTimeout: 30 * time.Second,
		},
		Store: config.Store{
			Kind: "postgres",
			Sqlite: sqlite.Config{
				Path:      "requests.db",
				TxTimeout: 10 * time.Second,
			},
			Postgres: postgres.Config{
				Host:      "db",
				Port:      "5432",
				Database:  "rubix_dapp",
				Query:     map[string]string{"sslmode": "disable"},
				MaxConns:  10,
				TxTimeout: 10 * time.Second,
			},
		},
		MetricsAddr: ":9091",
		LogLevel:    "info",
	}, cfg)

	assert.Equal(t, client, cfg.Client())
}
