package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"legal_aid_app_go/config"
	"legal_aid_app_go/db"
	"legal_aid_app_go/db/migrations"
	"legal_aid_app_go/logger"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Environment, cfg.LogLevel)

	cmd := &cli.Command{
		Name:  "manage",
		Usage: "Administrative tasks for the legal aid backend",
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := db.Initialize(db.OptionsFromConfig(cfg)); err != nil {
				return ctx, fmt.Errorf("initialize database: %w", err)
			}
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			return db.Close()
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Apply pending schema migrations",
				Action: func(ctx context.Context, c *cli.Command) error {
					return db.Migrate(ctx)
				},
			},
			{
				Name:  "migrate-status",
				Usage: "Show the state of each postgres migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					if db.DB.Dialector.Name() != "postgres" {
						return fmt.Errorf("migration status is only tracked for postgres")
					}
					sqlDB, err := db.DB.DB()
					if err != nil {
						return err
					}
					return migrations.Status(ctx, sqlDB)
				},
			},
			{
				Name:  "create-user",
				Usage: "Create a user that can obtain API tokens",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Full name (prompted when empty)"},
					&cli.StringFlag{Name: "email", Usage: "Login email (prompted when empty)"},
					&cli.StringFlag{Name: "case-office", Usage: "Case office id to assign (prompted when empty)"},
				},
				Action: createUser,
			},
			{
				Name:  "export-summary",
				Usage: "Write a daily or monthly summary workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Value: services.ReportMonthly, Usage: "daily or monthly"},
					&cli.StringFlag{Name: "start", Usage: "First month, yyyy-mm"},
					&cli.StringFlag{Name: "end", Usage: "Last month, yyyy-mm"},
					&cli.StringFlag{Name: "out", Usage: "Output file (defaults to <kind>_summary_<window>.xlsx)"},
				},
				Action: exportSummary,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func createUser(ctx context.Context, c *cli.Command) error {
	reader := bufio.NewReader(os.Stdin)
	prompt := func(label, value string) string {
		if value != "" {
			return strings.TrimSpace(value)
		}
		fmt.Print(label + ": ")
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	fmt.Println("=== Create New User ===")
	user := &models.User{
		Name:  prompt("Name", c.String("name")),
		Email: prompt("Email", c.String("email")),
	}
	if raw := prompt("Case office id (optional)", c.String("case-office")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("case office id must be a number")
		}
		id := uint(parsed)
		user.CaseOfficeID = &id
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	if err := services.CreateUser(db.DB, user, string(passwordBytes)); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %d\n", user.ID)
	fmt.Printf("  Name: %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Println()
	fmt.Println("Obtain a token with POST /api/token")
	return nil
}

func exportSummary(ctx context.Context, c *cli.Command) error {
	w, err := services.ResolveReportWindow(c.String("start"), c.String("end"), time.Now())
	if err != nil {
		return err
	}

	kind := c.String("kind")
	var buf *bytes.Buffer
	switch kind {
	case services.ReportDaily:
		report, err := services.DailySummary(ctx, db.Reader(), w)
		if err != nil {
			return err
		}
		if buf, err = services.ExportDailySummary(report); err != nil {
			return err
		}
	case services.ReportMonthly:
		report, err := services.MonthlySummary(ctx, db.Reader(), w)
		if err != nil {
			return err
		}
		if buf, err = services.ExportMonthlySummary(report); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown summary kind %q", kind)
	}

	out := c.String("out")
	if out == "" {
		out = kind + "_summary_" + w.Key() + ".xlsx"
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Info().Str("file", out).Str("window", w.Key()).Msg("Summary exported")
	return nil
}
