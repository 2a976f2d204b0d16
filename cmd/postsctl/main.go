// Command postsctl administers the posts API: it creates users, issues
// bearer tokens and runs schema migrations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/welldanyogia/webrana-posts-backend/internal/auth"
	"github.com/welldanyogia/webrana-posts-backend/internal/config"
	"github.com/welldanyogia/webrana-posts-backend/internal/database"
	"github.com/welldanyogia/webrana-posts-backend/internal/models"
	"github.com/welldanyogia/webrana-posts-backend/internal/repository"
	"gorm.io/gorm"
)

const usage = `usage: postsctl <command> [flags]

commands:
  create-user  -name NAME -email EMAIL -password PASSWORD
  issue-token  -email EMAIL [-ttl 24h]
  migrate
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "postsctl:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errUsage
	}

	if err := config.LoadEnvFiles(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args[0] {
	case "create-user":
		return createUser(ctx, cfg, args[1:], out)
	case "issue-token":
		return issueToken(ctx, cfg, args[1:], out)
	case "migrate":
		return migrate(cfg, out)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return errUsage
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

func createUser(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "login password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	*name = strings.TrimSpace(*name)
	*email = strings.TrimSpace(*email)
	if *name == "" || *email == "" || *password == "" {
		return errors.New("-name, -email and -password are required")
	}

	hash, err := auth.NewBcryptHasher().Hash(*password)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	user := &models.User{Name: *name, Email: *email, PasswordHash: hash}
	if err := repository.NewUserRepository(db).Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return fmt.Errorf("a user with email %s already exists", user.Email)
		}
		return err
	}

	fmt.Fprintf(out, "created user %d <%s>\n", user.ID, user.Email)
	return nil
}

func issueToken(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	email := fs.String("email", "", "email of an existing user")
	ttl := fs.Duration("ttl", cfg.TokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	user, err := repository.NewUserRepository(db).GetByEmail(ctx, *email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no user with email %s", *email)
		}
		return err
	}

	issued, err := tokens.IssueWithTTL(user.ID, *ttl)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, issued.Token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", issued.ExpiresAt.Format(time.RFC3339))
	return nil
}

func migrate(cfg *config.Config, out io.Writer) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	fmt.Fprintln(out, "migrations applied")
	return nil
}
