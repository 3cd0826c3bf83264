// Command ledgerctl runs operator tasks against the booking database:
// migrations, staff tokens, manual issuance and approval, and sweeps.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gymclass/internal/auth"
	"gymclass/internal/config"
	"gymclass/internal/db"
	"gymclass/internal/email"
	"gymclass/internal/logger"
	"gymclass/internal/server"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const usage = `usage: ledgerctl <command> [flags]

commands:
  migrate                                   apply database migrations
  token   -user <uuid> -role <role> [-email <addr>] [-ttl <duration>]
  issue   -user <uuid> -package <uuid>
  decide  -subscription <uuid> -admin <uuid> (-approve | -reject)
  sweep                                     expire and lapse overdue subscriptions
`

var errUsage = errors.New("invalid usage")

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout, openApp); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Fatalf("ledgerctl: %v", err)
	}
}

// openApp connects to the database and builds the services. The returned
// func releases the connections.
type appOpener func(cfg *config.Config) (*server.App, *sqlx.DB, func(), error)

func openApp(cfg *config.Config) (*server.App, *sqlx.DB, func(), error) {
	database, err := db.Connect(cfg.DatabaseURL, db.PoolConfig{MaxOpenConns: 2})
	if err != nil {
		return nil, nil, nil, err
	}
	mailer := email.New(cfg.EmailFrom, cfg.EmailFromName, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.RedisAddr)
	closeAll := func() {
		mailer.Close()
		database.Close()
	}
	return server.NewApp(database, cfg, mailer), database, closeAll, nil
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer, open appOpener) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "token":
		return runToken(cfg, args[1:], out)
	case "migrate", "issue", "decide", "sweep":
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	app, database, closeAll, err := open(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	switch args[0] {
	case "migrate":
		if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations applied")
		return nil
	case "issue":
		return runIssue(ctx, app, args[1:], out)
	case "decide":
		return runDecide(ctx, app, args[1:], out)
	default:
		res, err := app.Subscriptions.Sweep(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "expired=%d lapsed=%d\n", res.Expired, res.Lapsed)
		return nil
	}
}

func runToken(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	userFlag := fs.String("user", "", "profile id")
	roleFlag := fs.String("role", "user", "user, trainer or admin")
	emailFlag := fs.String("email", "", "email claim")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		return fmt.Errorf("%w: -user must be a uuid", errUsage)
	}
	role, err := auth.ParseRole(*roleFlag)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	token, err := auth.GenerateAccessToken(auth.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	}, userID, *emailFlag, role, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}

func runIssue(ctx context.Context, app *server.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	userFlag := fs.String("user", "", "profile id")
	packageFlag := fs.String("package", "", "package id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		return fmt.Errorf("%w: -user must be a uuid", errUsage)
	}
	packageID, err := uuid.Parse(*packageFlag)
	if err != nil {
		return fmt.Errorf("%w: -package must be a uuid", errUsage)
	}

	issued, err := app.Subscriptions.IssueSubscription(ctx, userID, packageID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "subscription=%s payment=%s amount_cents=%d\n", issued.Subscription.ID, issued.PaymentID, issued.AmountCents)
	return nil
}

func runDecide(ctx context.Context, app *server.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("decide", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	subFlag := fs.String("subscription", "", "subscription id")
	adminFlag := fs.String("admin", "", "id of the approving admin")
	approve := fs.Bool("approve", false, "approve the payment")
	reject := fs.Bool("reject", false, "reject the payment")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *approve == *reject {
		return fmt.Errorf("%w: exactly one of -approve or -reject", errUsage)
	}

	subID, err := uuid.Parse(*subFlag)
	if err != nil {
		return fmt.Errorf("%w: -subscription must be a uuid", errUsage)
	}
	adminID, err := uuid.Parse(*adminFlag)
	if err != nil {
		return fmt.Errorf("%w: -admin must be a uuid", errUsage)
	}

	actor := auth.Actor{UserID: adminID, Role: auth.RoleAdmin}
	sub, err := app.Subscriptions.DecideApproval(ctx, actor, subID, *approve)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "subscription=%s status=%s payment_status=%s\n", sub.ID, sub.Status, sub.PaymentStatus)
	return nil
}
