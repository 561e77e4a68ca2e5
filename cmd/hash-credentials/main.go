// Command hash-credentials scans the users table for plaintext-stored
// passwords and upgrades them to one-way hashes. Values that already carry
// a recognized hash prefix are left untouched, so the command is safe to
// re-run; a second run over upgraded data reports a clean scan.
//
// Usage:
//
//	hash-credentials [-dry-run] [-db path]
//
// Exit status is 0 on a clean scan, dry run, or completed upgrade, and 1
// when the operator declines the confirmation prompt or the run fails.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/plumeworks/plume-be/internal/database"
	"github.com/plumeworks/plume-be/internal/logger"
	"github.com/plumeworks/plume-be/internal/maintenance"
	"github.com/plumeworks/plume-be/internal/services"
	"github.com/rs/zerolog/log"
)

// stdinPrompter asks for confirmation on the terminal.
type stdinPrompter struct{}

func (stdinPrompter) Confirm(message string) bool {
	fmt.Printf("%s [y/N]: ", message)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func main() {
	logger.Init()

	dryRun := flag.Bool("dry-run", false, "report affected users without saving")
	dbPath := flag.String("db", os.Getenv("DATABASE_PATH"), "path to the sqlite database")
	flag.Parse()

	if *dbPath == "" {
		*dbPath = "./plume.db"
	}

	db, err := database.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("Failed to open database")
	}
	defer db.Close()

	userService := services.NewUserService(db)
	upgrader := maintenance.NewUpgrader(userService, stdinPrompter{}, nil)

	result, err := upgrader.Run(*dryRun)
	if err != nil {
		log.Error().Err(err).Int("upgraded_before_failure", result.Count).Msg("Credential upgrade failed")
		os.Exit(1)
	}

	switch result.Status {
	case maintenance.StatusClean:
		fmt.Println("No plaintext passwords found.")
	case maintenance.StatusDryRun:
		fmt.Printf("Found %d user(s) with plaintext passwords:\n", len(result.Affected))
		for _, email := range result.Affected {
			fmt.Printf(" - %s\n", email)
		}
		fmt.Println("Dry run complete. No changes were made.")
	case maintenance.StatusAborted:
		fmt.Println("Aborted. No changes made.")
		os.Exit(1)
	case maintenance.StatusUpgraded:
		fmt.Printf("Hashed %d password(s).\n", result.Count)
	}
}
