package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePool struct{ closed bool }

func (p *fakePool) Close() { p.closed = true }

func TestOpen_ClosesPoolWhenSchemaFails(t *testing.T) {
	pool := &fakePool{}
	boom := errors.New("ensure schema: permission denied")

	got, err := open(context.Background(),
		func(context.Context) (*fakePool, error) { return pool, nil },
		func(context.Context, *fakePool) error { return boom },
	)

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.True(t, pool.closed)
}

func TestOpen_KeepsPoolOnSuccess(t *testing.T) {
	pool := &fakePool{}

	got, err := open(context.Background(),
		func(context.Context) (*fakePool, error) { return pool, nil },
		func(context.Context, *fakePool) error { return nil },
	)

	require.NoError(t, err)
	assert.Same(t, pool, got)
	assert.False(t, pool.closed)
}

func TestOpen_ConnectFailure(t *testing.T) {
	ensured := false

	_, err := open(context.Background(),
		func(context.Context) (*fakePool, error) { return nil, errors.New("ping postgres: refused") },
		func(context.Context, *fakePool) error { ensured = true; return nil },
	)

	assert.Error(t, err)
	assert.False(t, ensured)
}

func TestOpen_BadDSN(t *testing.T) {
	_, err := Open(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}
