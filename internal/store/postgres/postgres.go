package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rubixchain/rubix-dapp/internal/store"
	"github.com/rubixchain/rubix-dapp/pkg/operation"

	_ "github.com/lib/pq"
)

const (
	CREATE_TABLE_STATEMENT = `
	CREATE TABLE IF NOT EXISTS requests (
		request_id TEXT PRIMARY KEY,
		status     INTEGER
	);`

	DROP_TABLE_STATEMENT = `
	DROP TABLE IF EXISTS requests;`

	REQUEST_SELECT_STATEMENT = `
	SELECT
		status
	FROM
		requests
	WHERE
		request_id = $1`

	REQUEST_INSERT_STATEMENT = `
	INSERT INTO requests
		(request_id, status)
	VALUES
		($1, $2)
	ON CONFLICT(request_id) DO NOTHING`

	REQUEST_UPSERT_STATEMENT = `
	INSERT INTO requests
		(request_id, status)
	VALUES
		($1, $2)
	ON CONFLICT(request_id) DO UPDATE SET status = EXCLUDED.status`
)

type Config struct {
	Host      string            `flag:"host" desc:"postgres host" default:"localhost"`
	Port      string            `flag:"port" desc:"postgres port" default:"5432"`
	Username  string            `flag:"username" desc:"postgres username" default:""`
	Password  string            `flag:"password" desc:"postgres password" default:""`
	Database  string            `flag:"database" desc:"postgres database name" default:"rubix_dapp"`
	Query     map[string]string `flag:"query" desc:"postgres connection query parameters" default:"{\"sslmode\":\"disable\"}"`
	MaxConns  int               `flag:"max-conns" desc:"maximum number of open connections" default:"10"`
	TxTimeout time.Duration     `flag:"tx-timeout" desc:"postgres statement timeout" default:"10s"`
	Reset     bool              `flag:"reset" desc:"drop the requests table on shutdown" default:"false"`
}

var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	config *Config
	db     *sql.DB
}

func New(config *Config) (*PostgresStore, error) {
	dbUrl := &url.URL{
		User:   url.UserPassword(config.Username, config.Password),
		Host:   fmt.Sprintf("%s:%s", config.Host, config.Port),
		Path:   config.Database,
		Scheme: "postgres",
	}
	q := url.Values{}
	for k, v := range config.Query {
		q.Set(k, v)
	}
	dbUrl.RawQuery = q.Encode()

	db, err := sql.Open("postgres", dbUrl.String())
	if err != nil {
		return nil, err
	}

	if config.MaxConns > 0 {
		db.SetMaxOpenConns(config.MaxConns)
		db.SetMaxIdleConns(config.MaxConns)
	}
	db.SetConnMaxIdleTime(0)

	return &PostgresStore{
		config: config,
		db:     db,
	}, nil
}

func (s *PostgresStore) String() string {
	return "store:postgres"
}

func (s *PostgresStore) Start() error {
	if _, err := s.db.Exec(CREATE_TABLE_STATEMENT); err != nil {
		return err
	}

	return nil
}

func (s *PostgresStore) Stop() error {
	if s.config.Reset {
		if err := s.Reset(); err != nil {
			return err
		}
	}

	return s.db.Close()
}

func (s *PostgresStore) Reset() error {
	if _, err := s.db.Exec(DROP_TABLE_STATEMENT); err != nil {
		return err
	}

	return nil
}

func (s *PostgresStore) Create(ctx context.Context, id string, status operation.Status) (bool, error) {
	ctx, cancel := s.timeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, REQUEST_INSERT_STATEMENT, id, int(status))
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (operation.Status, bool, error) {
	ctx, cancel := s.timeout(ctx)
	defer cancel()

	var status int
	if err := s.db.QueryRowContext(ctx, REQUEST_SELECT_STATEMENT, id).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return operation.Pending, false, nil
		}
		return 0, false, err
	}

	return operation.Status(status), true, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, status operation.Status) error {
	ctx, cancel := s.timeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, REQUEST_UPSERT_STATEMENT, id, int(status))
	return err
}

func (s *PostgresStore) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.TxTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.TxTimeout)
}
