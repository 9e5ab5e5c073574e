package postgres

import (
	"context"
	"testing"
	"time"

	"skill-match/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig_QuotesAndOverrides(t *testing.T) {
	pcfg, err := poolConfig(config.DatabaseConfig{
		DBHost:              " db.internal ",
		DBPort:              "6543",
		DBName:              "rankings",
		DBUser:              "matcher",
		DBPassword:          `p w'd\x`,
		ConnectTimeout:      3 * time.Second,
		PoolMaxConns:        7,
		PoolMaxConnLifetime: time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, "db.internal", pcfg.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pcfg.ConnConfig.Port)
	assert.Equal(t, "rankings", pcfg.ConnConfig.Database)
	assert.Equal(t, "matcher", pcfg.ConnConfig.User)
	assert.Equal(t, `p w'd\x`, pcfg.ConnConfig.Password)
	assert.Equal(t, 3*time.Second, pcfg.ConnConfig.ConnectTimeout)
	assert.Equal(t, int32(7), pcfg.MaxConns)
	assert.Equal(t, time.Minute, pcfg.MaxConnLifetime)
	assert.Nil(t, pcfg.ConnConfig.TLSConfig)
}

func TestDSN_SkipsEmptyValues(t *testing.T) {
	got := dsn(config.DatabaseConfig{DBHost: "localhost", DBName: "rankings"})
	assert.Equal(t, `host='localhost' dbname='rankings' sslmode='disable'`, got)
}

func TestPool_ClosedOrNil(t *testing.T) {
	var p *Pool
	assert.ErrorIs(t, p.Ping(context.Background()), errNoPool)
	assert.NoError(t, p.Close())

	p = &Pool{}
	_, err := p.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, errNoPool)
	_, err = p.Begin(context.Background())
	assert.ErrorIs(t, err, errNoPool)
	var n int
	assert.ErrorIs(t, p.QueryRow(context.Background(), "SELECT 1").Scan(&n), errNoPool)
}
