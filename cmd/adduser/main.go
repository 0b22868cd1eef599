// Command adduser creates an audiovote account from the command line.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/dmitrijs2005/audiovote/internal/server/config"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/audiovote/internal/server/services"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	defaults := &config.Config{}
	defaults.LoadDefaults()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		defaults.DatabaseDSN = dsn
	}

	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("user", "", "username")
	password := fs.String("password", "", "password (prompted for when omitted)")
	driver := fs.String("driver", defaults.DatabaseDriver, "database driver: sqlite or pgx")
	dsn := fs.String("db", defaults.DatabaseDSN, "database DSN or sqlite file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> [-password <password>] [-driver sqlite|pgx] [-db <dsn>]")
		fs.PrintDefaults()
		return errors.New("-user is required")
	}

	pw := *password
	if pw == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		if pw, err = readPassword(stdin); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	ctx := context.Background()
	db, err := repomanager.Open(ctx, *driver, *dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rm, err := repomanager.NewRepositoryManager(*driver)
	if err != nil {
		return err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	u, err := services.NewUserService(db, rm).Register(ctx, *username, pw)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return fmt.Errorf("user %s already exists", *username)
		}
		return err
	}

	fmt.Fprintf(stdout, "Created user %s (id %d)\n", u.Username, u.ID)
	return nil
}

// readPassword reads without echo from a terminal, or a single line from
// anything else (pipes, tests).
func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	sc := bufio.NewScanner(stdin)
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
