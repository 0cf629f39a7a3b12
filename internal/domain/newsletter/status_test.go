package newsletter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Status{
		"unknown": StatusUnknown,
		"yes":     StatusSubscribed,
		"no":      StatusNotSubscribed,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"unknown":null,"yes":true,"no":false}`, string(b))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusSubscribed, StatusOf(true))
	assert.Equal(t, StatusNotSubscribed, StatusOf(false))
}
