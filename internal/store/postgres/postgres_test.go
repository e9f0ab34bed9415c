package postgres

import (
	"os"
	"testing"
	"time"

	"github.com/rubixchain/rubix-dapp/internal/store/test"
)

func TestPostgresStore(t *testing.T) {
	host := os.Getenv("TEST_STORE_POSTGRES_HOST")
	port := os.Getenv("TEST_STORE_POSTGRES_PORT")
	username := os.Getenv("TEST_STORE_POSTGRES_USERNAME")
	password := os.Getenv("TEST_STORE_POSTGRES_PASSWORD")
	database := os.Getenv("TEST_STORE_POSTGRES_DATABASE")

	if host == "" {
		t.Skip("Postgres is not configured, skipping")
	}

	config := &Config{
		Host:      host,
		Port:      port,
		Username:  username,
		Password:  password,
		Database:  database,
		Query:     map[string]string{"sslmode": "disable"},
		MaxConns:  4,
		TxTimeout: time.Second,
	}

	for _, tc := range test.TestCases {
		store, err := New(config)
		if err != nil {
			t.Fatal(err)
		}

		if err := store.Start(); err != nil {
			t.Fatal(err)
		}

		tc.Run(t, store)

		if err := store.Reset(); err != nil {
			t.Fatal(err)
		}

		if err := store.Stop(); err != nil {
			t.Fatal(err)
		}
	}

	store, err := New(config)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = store.Reset()
		_ = store.Stop()
	}()

	test.RunConcurrentCreate(t, store)
}
