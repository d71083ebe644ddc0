package quick

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVCanonicalHeaders(t *testing.T) {
	csv := strings.Join([]string{
		"vendor_name,cost_per_record,quality_score,description",
		"Acme Records,12.50,88.5,Premium provider",
		"Budget Checks,6.75,,Cheap option",
	}, "\n")

	vendors, columns, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, []string{"vendor_name", "cost_per_record", "quality_score", "description"}, columns)

	assert.Equal(t, "Acme Records", vendors[0].Name)
	assert.Equal(t, 12.50, vendors[0].CostPerRecord)
	require.NotNil(t, vendors[0].QualityScore)
	assert.Equal(t, 88.5, *vendors[0].QualityScore)
	assert.Equal(t, "Premium provider", vendors[0].Description)

	assert.Nil(t, vendors[1].QualityScore)
}

func TestParseCSVHeaderSynonyms(t *testing.T) {
	csv := strings.Join([]string{
		"Name, Price",
		"Acme,9.25",
	}, "\n")

	vendors, columns, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, []string{"vendor_name", "cost_per_record"}, columns)
	assert.Equal(t, "Acme", vendors[0].Name)
	assert.Equal(t, 9.25, vendors[0].CostPerRecord)
}

func TestParseCSVMissingRequiredColumn(t *testing.T) {
	csv := "vendor_name,quality_score\nAcme,88\n"

	_, _, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cost_per_record")
}

func TestParseCSVSkipsIncompleteRows(t *testing.T) {
	csv := strings.Join([]string{
		"vendor_name,cost_per_record",
		"Acme,9.25",
		",5.00",
		"NoCost,",
	}, "\n")

	vendors, _, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, "Acme", vendors[0].Name)
}

func TestParseCSVNoValidRows(t *testing.T) {
	csv := "vendor_name,cost_per_record\n,\n"

	_, _, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid vendor data")
}

func TestParseCSVEmptyFile(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseCSVBadCost(t *testing.T) {
	csv := "vendor_name,cost_per_record\nAcme,not-a-number\n"

	_, _, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data format error")
}
