package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/cardex/internal/logging"
	"github.com/rebeliceyang/cardex/internal/token"
)

// tokenCmd manages the external sync credential
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Get or set the sync token",
}

var tokenGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored sync token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := tokenStore().Get()
		if errors.Is(err, token.ErrNotFound) {
			return errors.New("no sync token stored; set one with 'cardex token set'")
		}
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store the sync token (read from stdin when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tok string
		if len(args) == 1 {
			tok = args[0]
		} else {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read token: %w", err)
			}
			tok = strings.TrimRight(line, "\r\n")
		}

		s := tokenStore()
		if err := s.Set(tok); err != nil {
			return err
		}
		if s.IsUsingFallback() {
			fmt.Println("Token saved to file (keyring unavailable)")
		} else {
			fmt.Println("Token saved to keyring")
		}
		return nil
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:     "rm",
	Aliases: []string{"delete"},
	Short:   "Remove the stored sync token",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tokenStore().Delete()
	},
}

func tokenStore() *token.Store {
	return token.NewStore(cfg.Token.Service, configDir, logging.Console(cfg.Log.Level))
}

func init() {
	tokenCmd.AddCommand(tokenGetCmd)
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenDeleteCmd)
}
