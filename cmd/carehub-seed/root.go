package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bonchi/carehub/internal/app/seed"
	"github.com/bonchi/carehub/internal/app/store/audit"
	"github.com/bonchi/carehub/internal/app/system/auditlog"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cli carries settings shared by every subcommand.
type cli struct {
	v   *viper.Viper
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "carehub-seed",
		Short:         "Seed and maintain carehub accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.log != nil {
				return nil
			}
			cfg := zap.NewProductionConfig()
			cfg.Encoding = "console"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if c.v.GetBool("verbose") {
				cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
			}
			logger, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			c.log = logger
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	pf.String("mongo-database", "carehub", "MongoDB database name")
	pf.String("mobile", seed.DefaultCoordinatorMobile, "mobile number of the account to act on")
	pf.Duration("timeout", 30*time.Second, "overall time limit")
	pf.Bool("verbose", false, "debug logging")

	c.v.SetEnvPrefix("CAREHUB")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	_ = c.v.BindPFlags(pf)

	root.AddCommand(newCoordinatorCmd(c))
	return root
}

// withSeeder connects, runs fn, and always disconnects. Errors from fn are
// logged before being returned.
func (c *cli) withSeeder(cmd *cobra.Command, fn func(ctx context.Context, s *seed.Seeder) error) (err error) {
	log := c.log
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if err != nil {
			log.Error("seed failed", zap.String("command", cmd.CommandPath()), zap.Error(err))
		}
		_ = log.Sync()
	}()

	uri := c.v.GetString("mongo-uri")
	if err := wafflemongo.ValidateURI(uri); err != nil {
		return fmt.Errorf("invalid mongo uri: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), c.v.GetDuration("timeout"))
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		if derr := client.Disconnect(dctx); derr != nil {
			log.Warn("disconnect failed", zap.Error(derr))
		}
		log.Debug("disconnected from mongo")
	}()

	db := client.Database(c.v.GetString("mongo-database"))
	al := auditlog.New(audit.New(db), log, auditlog.Config{})
	return fn(ctx, seed.New(db, al, log))
}
