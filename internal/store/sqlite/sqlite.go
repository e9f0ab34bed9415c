package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/rubixchain/rubix-dapp/internal/store"
	"github.com/rubixchain/rubix-dapp/pkg/operation"

	_ "github.com/mattn/go-sqlite3"
)

const (
	CREATE_TABLE_STATEMENT = `
	CREATE TABLE IF NOT EXISTS requests (
		request_id TEXT PRIMARY KEY,
		status     INTEGER
	);`

	REQUEST_SELECT_STATEMENT = `
	SELECT
		status
	FROM
		requests
	WHERE
		request_id = ?`

	REQUEST_INSERT_STATEMENT = `
	INSERT INTO requests
		(request_id, status)
	VALUES
		(?, ?)
	ON CONFLICT(request_id) DO NOTHING`

	REQUEST_UPSERT_STATEMENT = `
	INSERT INTO requests
		(request_id, status)
	VALUES
		(?, ?)
	ON CONFLICT(request_id) DO UPDATE SET status = excluded.status`
)

type Config struct {
	Path      string        `flag:"path" desc:"sqlite database path" default:"requests.db"`
	TxTimeout time.Duration `flag:"tx-timeout" desc:"sqlite statement timeout" default:"10s"`
	Reset     bool          `flag:"reset" desc:"remove sqlite db on shutdown" default:"false"`
}

var _ store.Store = (*SqliteStore)(nil)

type SqliteStore struct {
	config *Config
	db     *sql.DB
}

func New(config *Config) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, err
	}

	// :memory: databases live as long as their connection
	db.SetMaxOpenConns(1)

	return &SqliteStore{
		config: config,
		db:     db,
	}, nil
}

func (s *SqliteStore) String() string {
	return "store:sqlite"
}

func (s *SqliteStore) Start() error {
	if _, err := s.db.Exec(CREATE_TABLE_STATEMENT); err != nil {
		return err
	}

	return nil
}

func (s *SqliteStore) Stop() error {
	if err := s.db.Close(); err != nil {
		return err
	}

	if s.config.Reset {
		return s.Reset()
	}

	return nil
}

func (s *SqliteStore) Reset() error {
	if _, err := os.Stat(s.config.Path); err != nil {
		return nil
	}

	return os.Remove(s.config.Path)
}

func (s *SqliteStore) Create(ctx context.Context, id string, status operation.Status) (bool, error) {
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

func (s *SqliteStore) Get(ctx context.Context, id string) (operation.Status, bool, error) {
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

func (s *SqliteStore) Update(ctx context.Context, id string, status operation.Status) error {
	ctx, cancel := s.timeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, REQUEST_UPSERT_STATEMENT, id, int(status))
	return err
}

func (s *SqliteStore) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.TxTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.TxTimeout)
}
