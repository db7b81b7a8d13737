package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"gametrade/api"
	"gametrade/auth"
	"gametrade/catalog"
	"gametrade/internal/config"
	"gametrade/internal/metrics"
	"gametrade/reporting"
	"gametrade/session"
	"gametrade/users"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gametrade: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		email      string
		password   string
		roleName   string
		page       int
		size       int
		query      string
		sellerID   string
	)
	pflag.StringVar(&configPath, "config", "", "path to a YAML config file")
	pflag.StringVar(&email, "email", "", "login email")
	pflag.StringVar(&password, "password", "", "login password (or GAMETRADE_PASSWORD)")
	pflag.StringVar(&roleName, "role", "admin", "login role: admin or manager")
	pflag.IntVar(&page, "page", 1, "catalog page number")
	pflag.IntVar(&size, "size", 20, "catalog page size")
	pflag.StringVar(&query, "query", "", "catalog search query")
	pflag.StringVar(&sellerID, "seller", "", "seller id for the stats command")
	pflag.Parse()

	if pflag.NArg() < 1 {
		return fmt.Errorf("usage: gametrade [flags] login|games|stats|bilan|whoami|logout")
	}
	command := pflag.Arg(0)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	displayAppName(cfg.GetAppName())

	clientOpts := []api.Option{
		api.WithLogger(log),
		api.WithMetrics(metrics.New(prometheus.NewRegistry())),
		api.WithCache(),
	}
	if cfg.GetEnv() != "PROD" {
		clientOpts = append(clientOpts, api.WithBodyLogging())
	}
	client, err := api.New(cfg.GetBaseURL(), clientOpts...)
	if err != nil {
		return fmt.Errorf("configure API client: %w", err)
	}

	store := session.NewStore(session.NewFileStorage(cfg.GetDataFolder()),
		session.WithStoreLogger(log),
		session.WithCacheInvalidator(client),
	)
	store.OnChange(func(n session.Notification) {
		if n == session.Expired {
			fmt.Fprintln(os.Stderr, "your session has expired, please log in again")
		}
	})
	client.SetTokenProvider(store)

	if err := store.Restore(); err != nil {
		log.Warn().Err(err).Msg("could not restore session")
	}

	gateway := auth.NewGateway(client, store, auth.WithGatewayLogger(log))
	games := catalog.NewService(client, log)
	reports := reporting.NewService(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch command {
	case "login":
		role, err := users.ParseRole(roleName)
		if err != nil {
			return err
		}
		if password == "" {
			password = os.Getenv("GAMETRADE_PASSWORD")
		}
		user, err := gateway.Login(ctx, email, password, role)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", user.Email, user.Role)
		return nil

	case "logout":
		gateway.Logout()
		fmt.Println("logged out")
		return nil

	case "whoami":
		user, ok := store.CurrentUser()
		if !ok || !store.IsValid() {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Printf("%s (%s)\n", user.Email, user.Role)
		return nil

	case "games":
		list, err := games.List(ctx, catalog.ListParams{Page: page, Size: size, Query: query})
		if err != nil {
			return err
		}
		for _, g := range list {
			fmt.Printf("%-8s %-40s %8.2f  %s\n", g.ID, g.Name, g.Price, g.Status)
		}
		return nil

	case "stats":
		if sellerID == "" {
			return fmt.Errorf("stats requires --seller")
		}
		summary, err := reports.Seller(ctx, sellerID)
		if err != nil {
			return err
		}
		fmt.Printf("sales: %.2f  deposits: %.2f  commission: %.2f  due: %.2f  games: %d\n",
			summary.SalesTotal, summary.DepositTotal, summary.Commission,
			summary.AmountDue, summary.GameCount)
		return nil

	case "bilan":
		balance, err := reports.Financial(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("revenue: %.2f  commission: %.2f  treasury: %.2f\n",
			balance.Revenue, balance.Commission, balance.Treasury)
		return nil
	}
	return fmt.Errorf("unknown command %q", command)
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.New(), nil
	}
	return config.NewWithFile(path)
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.GetLogLevel()))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func displayAppName(appName string) {
	myFigure := figure.NewFigure(appName, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
