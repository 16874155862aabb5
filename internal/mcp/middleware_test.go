package mcp

import (
	"context"
	"crypto/sha256"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestCheckBearer(t *testing.T) {
	want := sha256.Sum256([]byte("access-key"))

	header := http.Header{}
	header.Set("Authorization", "Bearer access-key")
	require.NoError(t, checkBearer(header, want))

	header.Set("Authorization", "Bearer wrong-key")
	err := checkBearer(header, want)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid bearer token")

	header.Set("Authorization", "Bearer ")
	err = checkBearer(header, want)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing bearer token")

	err = checkBearer(http.Header{}, want)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing bearer token")
}

func TestAuthMiddleware_SkipsProtocolMethods(t *testing.T) {
	mw := authMiddleware("access-key")
	nextCalled := false
	handler := mw(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		nextCalled = true
		return nil, nil
	})

	_, err := handler(context.Background(), "ping", nil)
	require.NoError(t, err)
	require.True(t, nextCalled)

	nextCalled = false
	_, err = handler(context.Background(), "initialize", nil)
	require.NoError(t, err)
	require.True(t, nextCalled)
}

func TestAuthMiddleware_RejectsWithoutHeaders(t *testing.T) {
	mw := authMiddleware("access-key")
	handler := mw(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		t.Fatal("next should not be reached")
		return nil, nil
	})

	_, err := handler(context.Background(), "tools/call", &sdkmcp.CallToolRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")
}
