package postgres

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
)

// ErrNotFound is returned when the requested row does not exist
var ErrNotFound = goerr.Wrap(interfaces.ErrNotFound, "postgres")

//go:embed schema.sql
var schemaSQL string

type Postgres struct {
	pool      *pgxpool.Pool
	schema    string
	hra       *hraRepository
	reference *referenceRepository
	survey    *surveyRepository
	account   *accountRepository
}

var _ interfaces.Repository = &Postgres{}

type Option func(*options)

type options struct {
	schema string
}

// WithSchema places every table in the named schema instead of public
func WithSchema(schema string) Option {
	return func(o *options) {
		o.schema = schema
	}
}

// New opens a connection pool for the DSN and checks that the server is reachable
func New(ctx context.Context, dsn string, opts ...Option) (*Postgres, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse postgres DSN")
	}
	if o.schema != "" {
		poolConfig.ConnConfig.RuntimeParams["search_path"] = o.schema
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create postgres pool",
			goerr.V("host", poolConfig.ConnConfig.Host), goerr.V("database", poolConfig.ConnConfig.Database))
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to ping postgres",
			goerr.V("host", poolConfig.ConnConfig.Host), goerr.V("database", poolConfig.ConnConfig.Database))
	}

	return &Postgres{
		pool:      pool,
		schema:    o.schema,
		hra:       &hraRepository{pool: pool},
		reference: &referenceRepository{pool: pool},
		survey:    &surveyRepository{pool: pool},
		account:   &accountRepository{pool: pool},
	}, nil
}

// Migrate creates the tables and indexes if they do not exist yet
func (p *Postgres) Migrate(ctx context.Context) error {
	if p.schema != "" {
		if _, err := p.pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{p.schema}.Sanitize()); err != nil {
			return goerr.Wrap(err, "failed to create postgres schema", goerr.V("schema", p.schema))
		}
	}
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return goerr.Wrap(err, "failed to apply postgres schema")
	}
	return nil
}

// DropSchema removes the configured schema with everything in it
func (p *Postgres) DropSchema(ctx context.Context) error {
	if p.schema == "" {
		return goerr.New("no schema configured")
	}
	if _, err := p.pool.Exec(ctx, "DROP SCHEMA IF EXISTS "+pgx.Identifier{p.schema}.Sanitize()+" CASCADE"); err != nil {
		return goerr.Wrap(err, "failed to drop postgres schema", goerr.V("schema", p.schema))
	}
	return nil
}

func (p *Postgres) HRA() interfaces.HRARepository {
	return p.hra
}

func (p *Postgres) Reference() interfaces.ReferenceRepository {
	return p.reference
}

func (p *Postgres) Survey() interfaces.SurveyRepository {
	return p.survey
}

func (p *Postgres) Account() interfaces.AccountRepository {
	return p.account
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
