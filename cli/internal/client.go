package cli

import (
	"fmt"
	"log/slog"

	"github.com/ZzaizZ/goblog/internal/client"
)

// newBlogClient builds a client for the current context, picks the
// transport, restores stored credentials, and wires the token update hook
// so refreshed pairs land back on disk.
func newBlogClient(config *Config) (client.BlogClient, error) {
	transport := transportFlag
	if transport == "" {
		ctx, err := config.GetCurrentContext()
		if err != nil {
			return nil, err
		}
		transport = ctx.Transport
	}
	if transport == "" {
		transport = "grpc"
	}

	persist := client.WithUpdateFunc(func(data client.AuthData) {
		if err := SaveCredentials(data); err != nil {
			slog.Default().Warn("failed to persist credentials", "error", err)
		}
	})

	var blogClient client.BlogClient
	switch transport {
	case "grpc":
		address, err := config.GRPCAddress()
		if err != nil {
			return nil, err
		}
		serverName, err := config.ServerName()
		if err != nil {
			return nil, err
		}
		blogClient, err = client.NewGRPCClient(address, serverName, persist)
		if err != nil {
			return nil, err
		}
	case "http":
		baseURL, err := config.HTTPBaseURL()
		if err != nil {
			return nil, err
		}
		blogClient = client.NewHTTPClient(baseURL, persist)
	default:
		return nil, fmt.Errorf("unknown transport %q (expected grpc or http)", transport)
	}

	// Restore credentials if we have them; commands that need auth will
	// fail server-side otherwise.
	if auth, err := LoadCredentials(); err == nil {
		blogClient.SetupAuthData(*auth)
	}

	return blogClient, nil
}
