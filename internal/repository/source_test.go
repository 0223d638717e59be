package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/signcare/internal/config"
	"github.com/mamadbah2/signcare/internal/repository/api"
)

func TestOpenAPISource(t *testing.T) {
	cfg := &config.Config{
		Source: config.SourceConfig{Kind: config.SourceAPI},
		API:    config.APIConfig{BaseURL: "https://registry.example.test"},
	}

	source, closeFn, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &api.Client{}, source)
	assert.NoError(t, closeFn(context.Background()))
}

func TestOpenUnknownSource(t *testing.T) {
	cfg := &config.Config{Source: config.SourceConfig{Kind: "csv"}}

	_, _, err := Open(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrUnknownSource)
}
