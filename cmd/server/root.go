package main

import (
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/config"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigFile = "~/.s3-uploader.yaml"

// app carries state shared by every subcommand once the config is loaded
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	log     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:           "s3-uploader",
		Short:         "Upload, list and download files in an S3 bucket",
		Long:          `s3-uploader serves a small HTTP API and upload page in front of an S3 compatible bucket (AWS S3, LocalStack, MinIO). Run without a subcommand to start the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.s3-uploader.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("bucket", "", "bucket name, overrides S3_BUCKET")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("storage.s3_bucket", flags.Lookup("bucket"))

	rootCmd.AddCommand(
		newServeCmd(a),
		newUploadCmd(a),
		newListCmd(a),
	)
	return rootCmd
}

// loadConfig reads the config file, if any, and builds the logger
func (a *app) loadConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "Failed to read config file %s", a.cfgFile)
		}
	} else if path, err := homedir.Expand(defaultConfigFile); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			a.v.SetConfigFile(path)
			if err := a.v.ReadInConfig(); err != nil {
				return errors.Wrapf(err, "Failed to read config file %s", path)
			}
		}
	}

	a.cfg = config.Load(a.v)
	a.log = logger.New(a.cfg.Log.Level, a.cfg.Log.Format, cmd.ErrOrStderr())
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.WithField("file", used).Debug("Loaded config file")
	}
	return nil
}
