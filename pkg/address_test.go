package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	const (
		farmAddr   = "farm1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5hjjf88"
		cosmosAddr = "cosmos1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5lzv7xu"
	)

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, ValidateAddress(farmAddr, "farm"))
		assert.NoError(t, ValidateAddress(cosmosAddr, "cosmos"))
	})
	t.Run("wrong prefix", func(t *testing.T) {
		assert.Error(t, ValidateAddress(cosmosAddr, "farm"))
	})
	t.Run("bad checksum", func(t *testing.T) {
		assert.Error(t, ValidateAddress("farm1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5hjjf8q", "farm"))
	})
	t.Run("empty", func(t *testing.T) {
		assert.Error(t, ValidateAddress("", "farm"))
	})
}
