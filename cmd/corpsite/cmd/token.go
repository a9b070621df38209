package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/templui/corpsite/internal/config"
	"github.com/templui/corpsite/internal/token"
)

func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and inspect bearer tokens with the configured codec",
	}
	cmd.AddCommand(issueTokenCmd())
	cmd.AddCommand(decodeTokenCmd())
	return cmd
}

func codecFromEnv() (token.Codec, error) {
	cfg := config.Load()
	return token.NewCodec(cfg.TokenCodec, cfg.TokenSecret)
}

func issueTokenCmd() *cobra.Command {
	var (
		id    int64
		email string
		role  string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Print a token for the given identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecFromEnv()
			if err != nil {
				return err
			}
			return issueToken(cmd.OutOrStdout(), codec, token.Claims{
				SubjectID: id,
				Email:     email,
				Role:      token.Role(role),
				ExpiresAt: time.Now().Add(ttl).Unix(),
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 1, "subject id")
	cmd.Flags().StringVar(&email, "email", "", "subject email (required)")
	cmd.Flags().StringVar(&role, "role", string(token.RoleAdmin), "admin, editor or user")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "validity; negative values produce an expired token")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func issueToken(w io.Writer, codec token.Codec, claims token.Claims) error {
	if !claims.Role.Valid() {
		return fmt.Errorf("unknown role %q", claims.Role)
	}
	tok, err := codec.Issue(claims)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, tok)
	return err
}

func decodeTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode TOKEN",
		Short: "Print the claims of a token and whether it has expired",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecFromEnv()
			if err != nil {
				return err
			}
			return decodeToken(cmd.OutOrStdout(), codec, args[0], time.Now())
		},
	}
}

type decodedToken struct {
	token.Claims
	ExpiresAtTime time.Time `json:"expires_at"`
	Expired       bool      `json:"expired"`
}

func decodeToken(w io.Writer, codec token.Codec, raw string, now time.Time) error {
	claims, err := codec.Decode(raw)
	if err != nil {
		return err
	}
	exp := time.Unix(claims.ExpiresAt, 0).UTC()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(decodedToken{
		Claims:        claims,
		ExpiresAtTime: exp,
		Expired:       !exp.After(now),
	})
}
