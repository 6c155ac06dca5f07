//go:build integration

package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseName(t *testing.T) {
	t.Run("withdraw pieces.ok", func(t *testing.T) {
		first := DatabaseName(t)
		second := DatabaseName(t)

		assert.True(t, strings.HasPrefix(first, "TestDatabaseName_withdraw_pieces_ok_"), first)
		assert.NotEqual(t, first, second)
		assert.NotContains(t, first, "/")
		assert.NotContains(t, first, ".")
	})

	t.Run(strings.Repeat("long", 30), func(t *testing.T) {
		assert.LessOrEqual(t, len(DatabaseName(t)), maxDBNameLen+21)
	})
}
