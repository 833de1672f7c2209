// Command feed drives the UniConnect client stack from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"uniconnect/internal/config"
)

const usage = `Usage:
  feed signup <email> <password> <name> [role]   - Create an account
  feed login <email> <password>                  - Sign in
  feed logout                                    - Sign out
  feed whoami                                    - Show the current session
  feed role <student|professor|investor>         - Select a role once
  feed list                                      - Show the feed
  feed post <content> [hashtags] [file...]       - Create a post
  feed like <post_id>                            - Toggle a like
  feed comment <post_id> <text>                  - Comment on a post
  feed reply <post_id> <comment_id> <text>       - Reply to a comment
  feed dashboard                                 - Show the role dashboard
  feed connect <user_id>                         - Send a connection request
  feed startup <name> [category]                 - Submit a startup
  feed vote <startup_id>                         - Toggle a startup vote`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Println(usage)
		} else {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		a.Close()
		os.Exit(1)
	}
}
