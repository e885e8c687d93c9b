package cmd

import (
	"errors"
	"fmt"
	"time"

	"myphone/internal/config"
	"myphone/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	tokenRol      string
	tokenUsuario  string
	tokenSucursal string
	tokenTTL      time.Duration
)

// tokenCmd mints a bearer token signed with JWT_SECRET for local testing.
// Production tokens come from the hosted backend.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Env == "production" {
			return errors.New("token minting is disabled in production")
		}
		signed, err := mintToken(cfg.JWTSecret, tokenRol, tokenUsuario, tokenSucursal, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenRol, "rol", "r", middleware.RolAdministrador, "vendedor | supervisor | administrador")
	tokenCmd.Flags().StringVarP(&tokenUsuario, "usuario", "u", "dev@myphone.local", "username claim")
	tokenCmd.Flags().StringVar(&tokenSucursal, "sucursal", "", "branch claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 8*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func mintToken(secret, rol, username, sucursal string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET is empty")
	}
	switch rol {
	case middleware.RolVendedor, middleware.RolSupervisor, middleware.RolAdministrador:
	default:
		return "", fmt.Errorf("unknown rol %q", rol)
	}
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:   uuid.NewString(),
		Username: username,
		Rol:      rol,
		Sucursal: sucursal,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "myphonectl",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
