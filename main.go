package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"devevent/config"
	"devevent/db"
	"devevent/models"
	"devevent/routes"
	"devevent/utils"
)

func init() {
	if err := config.SetupLogging(); err != nil {
		log.Warnf("invalid LOG_LEVEL, using info: %v", err)
	}
}

func main() {
	app := &cli.App{
		Name:  "devevent",
		Usage: "Event and booking API backed by MongoDB.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/application.yaml",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"EVENTS_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			seedCommand(),
			hashPasswordCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("devevent: %v", err)
	}
}

func openStore(cfg config.Application) *db.Handle {
	return db.NewHandle(cfg.Mongo.URI, cfg.Mongo.Database,
		db.WithConnectTimeout(cfg.Mongo.ConnectTimeout),
		db.WithSetup(models.EnsureIndexes),
	)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			store := openStore(cfg)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := store.Disconnect(ctx); err != nil {
					log.Warnf("disconnect document store: %v", err)
				}
			}()

			var rdb *redis.Client
			if cfg.Redis.Addr != "" {
				rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
				defer rdb.Close()
			} else {
				log.Info("redis not configured, booking quota disabled")
			}

			if cfg.Auth.Secret == "" {
				log.Warn("auth secret not set, event writes are unauthenticated")
			}

			server := gin.New()
			server.Use(gin.Recovery())
			err = routes.RegisterRoutes(server, routes.Options{
				Events:    models.NewMongoEventRepository(store, cfg.Mongo.OpTimeout),
				Bookings:  models.NewMongoBookingRepository(store, cfg.Mongo.OpTimeout),
				Redis:     rdb,
				Auth:      cfg.Auth,
				RateLimit: cfg.RateLimit,
				Quota:     cfg.Quota,
				Analytics: cfg.Analytics,
				Health:    store.Ping,
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           server,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Infof("listening on %s", cfg.HTTP.Addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Insert the events of a YAML file, skipping slugs that already exist.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Value: "seed/events.yaml", Usage: "seed file"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			f, err := models.LoadSeedFile(c.String("file"))
			if err != nil {
				return err
			}

			store := openStore(cfg)
			defer store.Disconnect(context.Background())

			events := models.NewMongoEventRepository(store, cfg.Mongo.OpTimeout)
			res, err := models.Seed(c.Context, events, models.NewEventService(events), f)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Infof("seed done: %d created, %d skipped", res.Created, res.Skipped)
			return nil
		},
	}
}

// hash-password prints the bcrypt hash to put in EVENTS_AUTH_ADMINPASSWORDHASH.
func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Print the bcrypt hash of a password for the admin account.",
		ArgsUsage: "<password>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("exactly one password argument is required")
			}
			hash, err := utils.HashPassword(c.Args().First())
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}
