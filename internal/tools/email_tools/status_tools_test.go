package email_tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAuthStatus_AllProviders(t *testing.T) {
	sc := newToolTestContext(t)

	result, err := handleAuthStatus(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	op := decodeResult(t, result)
	assert.Equal(t, StatusSucceeded, op.Status)
	assert.Equal(t, "Authorization status has been read successfully", op.Message)

	statuses, ok := op.Result.([]interface{})
	require.True(t, ok)
	require.Len(t, statuses, 2)

	first, ok := statuses[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "google", first["provider"])
	// Nothing stored in the fresh temp dir.
	assert.Equal(t, false, first["authorized"])

	second, ok := statuses[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "azure", second["provider"])
	assert.Equal(t, false, second["authorized"])
}

func TestHandleAuthStatus_SingleProvider(t *testing.T) {
	sc := newToolTestContext(t)

	result, err := handleAuthStatus(context.Background(), toolRequest(map[string]interface{}{
		"provider": "outlook",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	op := decodeResult(t, result)
	status, ok := op.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "azure", status["provider"])
}

func TestHandleAuthStatus_UnknownProvider(t *testing.T) {
	sc := newToolTestContext(t)

	result, err := handleAuthStatus(context.Background(), toolRequest(map[string]interface{}{
		"provider": "yahoo",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)

	op := decodeResult(t, result)
	assert.Equal(t, StatusFailed, op.Status)
	assert.Contains(t, op.Message, "unknown provider")
}

func TestHandleAuthStatus_NeverContainsTokens(t *testing.T) {
	sc := newToolTestContext(t)

	result, err := handleAuthStatus(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)

	op := decodeResult(t, result)
	statuses, ok := op.Result.([]interface{})
	require.True(t, ok)
	for _, raw := range statuses {
		status, ok := raw.(map[string]interface{})
		require.True(t, ok)
		assert.NotContains(t, status, "access_token")
		assert.NotContains(t, status, "refresh_token")
	}
}
