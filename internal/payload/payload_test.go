package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStrict(t *testing.T) {
	res, err := Decode([]byte(`{
		"document_type": "balance_sheet",
		"company_name": "Acme Pvt Ltd",
		"period": "31st March 2024",
		"reports": {"balance_sheet": {"assets": {"inventories": 100}}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "balance_sheet", res.DocumentType)
	assert.Equal(t, "Acme Pvt Ltd", res.CompanyName)
	assert.Equal(t, "31st March 2024", res.Period)
	require.Contains(t, res.Reports, "balance_sheet")

	bs := res.Reports["balance_sheet"].(map[string]any)
	inv := bs["assets"].(map[string]any)["inventories"]
	assert.Equal(t, json.Number("100"), inv)
}

func TestDecodeRepairsTrailingComma(t *testing.T) {
	res, err := Decode([]byte(`{"company_name": "Acme", "reports": {"profit_loss": {"revenue": 10,},},}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", res.CompanyName)
	assert.Contains(t, res.Reports, "profit_loss")
}

func TestDecodeEmpty(t *testing.T) {
	_, err := Decode([]byte("  \n"))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFromMapTopLevelReports(t *testing.T) {
	res := FromMap(map[string]any{
		"document_type": "trial_balance",
		"period":        json.Number("2024"),
		"balance_sheet": map[string]any{"total_assets": 5},
		"profit_loss":   map[string]any{"revenue": 10},
		"note":          "ignored scalar",
	})
	assert.Equal(t, "2024", res.Period)
	assert.Equal(t, []string{"balance_sheet", "profit_loss"}, res.Names())
}

func TestScalarText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{" 2024 ", "2024"},
		{json.Number("2023"), "2023"},
		{float64(2022), "2022"},
		{2021, "2021"},
		{true, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScalarText(tt.in))
	}
}
