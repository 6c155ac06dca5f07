package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
)

// generateSecureKey returns length random bytes, base64 encoded.
func generateSecureKey(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// serverKeys is a fresh set of server secrets.
type serverKeys struct {
	JWTSecretKey string `json:"jwt_secret_key"`
	APIKey       string `json:"api_key"`
}

func newServerKeys() (serverKeys, error) {
	secret, err := generateSecureKey(32)
	if err != nil {
		return serverKeys{}, fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	apiKey, err := generateSecureKey(24)
	if err != nil {
		return serverKeys{}, fmt.Errorf("failed to generate API key: %w", err)
	}
	return serverKeys{JWTSecretKey: secret, APIKey: apiKey}, nil
}

func (c *cli) keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate a JWT secret and an API key for the server environment",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			keys, err := newServerKeys()
			if err != nil {
				return err
			}
			if c.output() == outputJSON {
				return writeJSON(c.out, keys)
			}
			fmt.Fprintln(c.out, "# Token authentication")
			fmt.Fprintf(c.out, "JWT_SECRET_KEY=%s\n", keys.JWTSecretKey)
			fmt.Fprintln(c.out, "# API key authentication, used when JWT_SECRET_KEY is empty")
			_, err = fmt.Fprintf(c.out, "API_KEYS=%s\n", keys.APIKey)
			return err
		},
	}
}
