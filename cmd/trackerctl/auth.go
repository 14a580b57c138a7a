package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fernet/fernet-go"
	"github.com/google/subcommands"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/auth"
)

// --- hashPasswordCmd ---

type hashPasswordCmd struct{}

func (*hashPasswordCmd) Name() string     { return "hash-password" }
func (*hashPasswordCmd) Synopsis() string { return "print a bcrypt hash for ADMIN_PASSWORD_HASH" }
func (*hashPasswordCmd) Usage() string {
	return `trackerctl hash-password < password.txt

  Reads the admin password from the first line of stdin.
`
}

func (*hashPasswordCmd) SetFlags(*flag.FlagSet) {}

func (*hashPasswordCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(os.Stderr, "Error: no password on stdin")
		return subcommands.ExitUsageError
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		fmt.Fprintln(os.Stderr, "Error: password is empty")
		return subcommands.ExitUsageError
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println(hash)
	return subcommands.ExitSuccess
}

// --- genKeyCmd ---

type genKeyCmd struct{}

func (*genKeyCmd) Name() string     { return "gen-key" }
func (*genKeyCmd) Synopsis() string { return "print a new token key for AUTH_TOKEN_KEY" }
func (*genKeyCmd) Usage() string {
	return `trackerctl gen-key

  Rotating the key invalidates every issued token.
`
}

func (*genKeyCmd) SetFlags(*flag.FlagSet) {}

func (*genKeyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println(key.Encode())
	return subcommands.ExitSuccess
}
