package main

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/service"
)

var (
	errUserRequired   = errors.New("--user is required")
	errSecretRequired = errors.New("--secret or SCAFFOLDCTL_SECRET is required")
	errUnknownRole    = errors.New("unknown role")
)

var knownRoles = []string{dto.RoleUser, dto.RoleAdmin, dto.RoleSuperadmin}

func (c *cli) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Issue a signed development access token",
		Example: "  scaffoldctl token --user u1 --tenant t1 --role admin --secret dev-secret",
		Args:    cobra.NoArgs,
		PreRunE: c.bindFlags,
		RunE: func(_ *cobra.Command, _ []string) error {
			claims, err := c.claims()
			if err != nil {
				return err
			}
			secret := c.v.GetString("secret")
			if secret == "" {
				return errSecretRequired
			}

			tokens := service.NewTokenService(service.TokenConfig{
				SecretKey:      secret,
				Issuer:         c.v.GetString("issuer"),
				AccessTokenTTL: c.v.GetDuration("ttl"),
			})
			resp, err := tokens.GenerateAccessToken(claims)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			if c.output() == outputJSON {
				return writeJSON(c.out, resp)
			}
			_, err = fmt.Fprintln(c.out, resp.AccessToken)
			return err
		},
	}

	flags := cmd.Flags()
	flags.String("user", "", "user id carried by the token")
	flags.String("tenant", "", "tenant id (empty for superadmin tokens)")
	flags.StringSlice("role", []string{dto.RoleUser}, "roles (user, admin, superadmin)")
	flags.String("secret", "", "HS256 signing secret, must match the server's JWT_SECRET_KEY")
	flags.String("issuer", "scaffold-service", "token issuer")
	flags.Duration("ttl", 15*time.Minute, "token lifetime")
	return cmd
}

func (c *cli) claims() (dto.Claims, error) {
	user := c.v.GetString("user")
	if user == "" {
		return dto.Claims{}, errUserRequired
	}
	roles := c.v.GetStringSlice("role")
	for _, role := range roles {
		if !slices.Contains(knownRoles, role) {
			return dto.Claims{}, fmt.Errorf("%w: %q", errUnknownRole, role)
		}
	}
	return dto.Claims{
		UserID:   user,
		TenantID: c.v.GetString("tenant"),
		Roles:    roles,
	}, nil
}
