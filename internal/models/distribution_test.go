package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribution_KeepsFirstSeenOrder(t *testing.T) {
	var d Distribution
	d.Inc("Loan", 1)
	d.Inc("Insurance", 1)
	d.Inc("Loan", 2)
	d.Inc("Credit Card", 1)

	assert.Equal(t, []string{"Loan", "Insurance", "Credit Card"}, d.Keys())
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, 5, d.Sum())

	n, ok := d.Get("Loan")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = d.Get("Savings")
	assert.False(t, ok)
}

func TestDistribution_SeededKeys(t *testing.T) {
	d := NewDistribution("pending", "approved")
	d.Inc("approved", 1)

	assert.Equal(t, map[string]int{"pending": 0, "approved": 1}, d.ToMap())
	assert.Equal(t, []string{"pending", "approved"}, d.Keys())
}

func TestDistribution_MarshalJSONPreservesOrder(t *testing.T) {
	var d Distribution
	d.Inc("2024-01-07", 1)
	d.Inc("2024-01-05", 2)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"2024-01-07":1,"2024-01-05":2}`, string(data))

	var empty Distribution
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestDistribution_UnmarshalJSONPreservesOrder(t *testing.T) {
	var d Distribution
	require.NoError(t, json.Unmarshal([]byte(`{"zeta":3, "alpha":1, "mid":0}`), &d))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, d.Keys())
	assert.Equal(t, 4, d.Sum())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.Equal(t, 0, d.Len())

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"a":"x"}`), &d))
}

func TestAggregationResult_JSONShape(t *testing.T) {
	res := AggregationResult{TotalLeads: 2}
	res.StatusDistribution = NewDistribution("pending", "approved")
	res.StatusDistribution.Inc("pending", 2)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded AggregationResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.TotalLeads)
	assert.Equal(t, []string{"pending", "approved"}, decoded.StatusDistribution.Keys())
	assert.Equal(t, 0, decoded.CategoryDistribution.Len())
}

func TestDistribution_RoundTripThenUpdate(t *testing.T) {
	var d Distribution
	require.NoError(t, json.Unmarshal([]byte(`{"b":1,"a":2}`), &d))
	d.Inc("b", 4)
	d.Inc("c", 1)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"b":5,"a":2,"c":1}`, string(data))

	var seeded Distribution
	require.NoError(t, json.Unmarshal([]byte(`{}`), &seeded))
	data, err = json.Marshal(seeded)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
