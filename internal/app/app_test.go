package app_test

import (
	"testing"

	"github.com/linemk/floral-shop/internal/app"
	"github.com/linemk/floral-shop/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	dsn := app.BuildDSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "shop",
		Password: "secret",
		Name:     "floral_store",
	})
	assert.Equal(t, "postgres://shop:secret@db:5433/floral_store?sslmode=disable", dsn)
}
