package factoryapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineState_IsValid(t *testing.T) {
	assert.True(t, LineOperational.IsValid())
	assert.True(t, LineWarning.IsValid())
	assert.True(t, LineDown.IsValid())
	assert.False(t, LineState("running").IsValid())
}

func TestWireFieldNames(t *testing.T) {
	data, err := json.Marshal(Metrics{ProfitMargin: 24.5, TimeSeriesData: []TimeSeriesPoint{{Name: "Jan"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"production":0,"efficiency":0,"downtime":0,"profitMargin":24.5,
		"timeSeriesData":[{"name":"Jan","production":0,"efficiency":0,"downtime":0}]}`, string(data))

	data, err = json.Marshal(LineStatus{ID: "line-1", Status: LineWarning, Efficiency: "76%", LastMaintenance: "2 weeks ago"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"line-1","name":"","status":"warning","efficiency":"76%","lastMaintenance":"2 weeks ago"}`, string(data))

	data, err = json.Marshal(MachineTypes{MachineTypes: []string{"Type 1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"machine_types":["Type 1"]}`, string(data))
}
