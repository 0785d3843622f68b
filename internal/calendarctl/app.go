// Package calendarctl implements the administrative command-line tool:
// applying database migrations and managing the users who own calendars.
package calendarctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dmitrijs2005/holidaycal/internal/common"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
	"github.com/dmitrijs2005/holidaycal/internal/server/repositories/repomanager"
)

// ErrNoStorage is returned by commands that need a database when neither a
// DSN nor a MongoDB URI is configured.
var ErrNoStorage = errors.New("either --dsn or --mongo-uri is required")

// seams for tests
var (
	openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenPostgres(ctx, dsn)
	}
	openMongo = func(ctx context.Context, uri, database string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenMongo(ctx, uri, database)
	}
)

// NewApp builds the calendarctl command tree writing to out.
func NewApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "calendarctl",
		Usage:     "Administer the holiday calendar storage.",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dsn", Aliases: []string{"d"}, Usage: "PostgreSQL DSN", EnvVars: []string{"DATABASE_DSN"}},
			&cli.StringFlag{Name: "mongo-uri", Aliases: []string{"m"}, Usage: "MongoDB connection URI", EnvVars: []string{"MONGODB_URI"}},
			&cli.StringFlag{Name: "mongo-db", Usage: "MongoDB database name", EnvVars: []string{"MONGODB_DATABASE"}},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "overall command timeout"},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			usersCommand(),
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the PostgreSQL schema migrations.",
		Action: func(c *cli.Context) error {
			dsn := c.String("dsn")
			if dsn == "" {
				return cli.Exit("migrate requires --dsn", 2)
			}

			ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
			defer cancel()

			m, err := openPostgres(ctx, dsn)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer m.Close(ctx)

			fmt.Fprintln(c.App.Writer, "migrations applied")
			return nil
		},
	}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage calendar owners.",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a user.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
				},
				Action: withStorage(addUser),
			},
			{
				Name:   "list",
				Usage:  "List users.",
				Action: withStorage(listUsers),
			},
		},
	}
}

func withStorage(action func(ctx context.Context, c *cli.Context, m repomanager.RepositoryManager) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
		defer cancel()

		m, err := openStorage(ctx, c.String("dsn"), c.String("mongo-uri"), c.String("mongo-db"))
		if err != nil {
			return err
		}
		defer m.Close(ctx)

		return action(ctx, c, m)
	}
}

func openStorage(ctx context.Context, dsn, mongoURI, mongoDB string) (repomanager.RepositoryManager, error) {
	switch {
	case dsn != "":
		return openPostgres(ctx, dsn)
	case mongoURI != "":
		return openMongo(ctx, mongoURI, mongoDB)
	default:
		return nil, ErrNoStorage
	}
}

func addUser(ctx context.Context, c *cli.Context, m repomanager.RepositoryManager) error {
	email := models.NormalizeEmail(c.String("email"))
	if !models.ValidEmail(email) {
		return cli.Exit(fmt.Sprintf("invalid email %q", c.String("email")), 2)
	}

	u, err := m.Users().Create(ctx, &models.User{Name: c.String("name"), Email: email})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return cli.Exit(fmt.Sprintf("user with email %s already exists", email), 1)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintln(c.App.Writer, u.ID)
	return nil
}

func listUsers(ctx context.Context, c *cli.Context, m repomanager.RepositoryManager) error {
	list, err := m.Users().List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCREATED")
	for _, u := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

// Main runs the tool with os.Args and returns the process exit code.
func Main(ctx context.Context) int {
	app := NewApp(os.Stdout)
	app.ErrWriter = os.Stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			return exit.ExitCode()
		}
		return 1
	}
	return 0
}
