package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/angeloszaimis/dbtime-app/config"
)

// NowQuery is the only statement the service sends.
const NowQuery = "SELECT NOW() as nowtime"

// Open builds a bounded *sql.DB for the configured MariaDB/MySQL server.
// No connection is dialed until the first checkout.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Name

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("failed to create mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTimeDuration())

	return db, nil
}

// Pool hands out one connection per call and always takes it back.
type Pool struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// New wraps db. A non-positive acquireTimeout leaves checkout bounded only
// by the caller's context.
func New(db *sql.DB, acquireTimeout time.Duration) *Pool {
	return &Pool{
		db:             db,
		acquireTimeout: acquireTimeout,
	}
}

// Now returns the database server's current time as the server formats it.
func (p *Pool) Now(ctx context.Context) (string, error) {
	conn, err := p.acquire(ctx)
	if err != nil {
		return "", connectError(err)
	}
	defer conn.Close()

	var now string
	if err := conn.QueryRowContext(ctx, NowQuery).Scan(&now); err != nil {
		return "", queryError(err)
	}

	return now, nil
}

func (p *Pool) acquire(ctx context.Context) (*sql.Conn, error) {
	if p.acquireTimeout <= 0 {
		return p.db.Conn(ctx)
	}

	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	return p.db.Conn(acquireCtx)
}

// InUse returns how many connections are currently checked out.
func (p *Pool) InUse() int {
	return p.db.Stats().InUse
}

func (p *Pool) Close() error {
	return p.db.Close()
}
