package mcp

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// authMiddleware implements bearer token authentication as MCP middleware.
// The tracker is single-user; the token is checked against the one
// configured access key.
func authMiddleware(accessKey string) sdkmcp.Middleware {
	want := sha256.Sum256([]byte(accessKey))
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}
			if err := checkBearer(extra.Header, want); err != nil {
				return nil, err
			}

			return next(ctx, method, req)
		}
	}
}

// checkBearer validates the Authorization header against the hashed
// access key in constant time.
func checkBearer(header http.Header, want [sha256.Size]byte) error {
	auth := header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if token == "" {
		return fmt.Errorf("unauthorized: missing bearer token")
	}

	got := sha256.Sum256([]byte(token))
	if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
		return fmt.Errorf("unauthorized: invalid bearer token")
	}
	return nil
}
