package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pestdocs/pestdocs/internal/app"
	_ "github.com/pestdocs/pestdocs/internal/testing/guard"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	require.True(t, app.InTestMode())
	main()
}
