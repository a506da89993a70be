package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseConversions(t *testing.T) {
	testCases := []struct {
		in         string
		snake      string
		upperSnake string
		upperCamel string
	}{
		{"transfer", "transfer", "TRANSFER", "Transfer"},
		{"transferFrom", "transfer_from", "TRANSFER_FROM", "TransferFrom"},
		{"balance_of", "balance_of", "BALANCE_OF", "BalanceOf"},
		{"Erc20", "erc20", "ERC20", "Erc20"},
		{"HTTPServer", "http_server", "HTTP_SERVER", "HttpServer"},
		{"PSP22::transfer", "psp22_transfer", "PSP22_TRANSFER", "Psp22Transfer"},
		{"ink_env::types::AccountId", "ink_env_types_account_id", "INK_ENV_TYPES_ACCOUNT_ID", "InkEnvTypesAccountId"},
		{"_value", "value", "VALUE", "Value"},
		{"", "", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.snake, Snake(tc.in))
			assert.Equal(t, tc.upperSnake, UpperSnake(tc.in))
			assert.Equal(t, tc.upperCamel, UpperCamel(tc.in))
		})
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"get", "URL", "Path"}, Words("getURLPath"))
	assert.Equal(t, []string{"approve2", "X"}, Words("approve2X"))
	assert.Nil(t, Words("::"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "TransferFrom", Capitalize("transferFrom"))
	assert.Equal(t, "Élan", Capitalize("élan"))
	assert.Equal(t, "ABC", Capitalize("ABC"))
	assert.Equal(t, "", Capitalize(""))
}
