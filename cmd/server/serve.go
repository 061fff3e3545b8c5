package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gops/agent"
	"github.com/pkg/errors"
	"github.com/saransh1220/s3-uploader/internal/gateway"
	"github.com/saransh1220/s3-uploader/internal/modules/filestorage"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/logger"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/metrics"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/tracing"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := a.log
	ctx = logger.WithContext(ctx, logrus.NewEntry(log))

	if a.cfg.Server.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.WithField("err", err).Warn("Could not start gops agent")
		} else {
			defer agent.Close()
		}
	}

	shutdownTracing, err := tracing.Init(ctx, tracing.Options{
		Enabled:     a.cfg.Tracing.Enabled,
		Endpoint:    a.cfg.Tracing.Endpoint,
		SampleRatio: a.cfg.Tracing.SampleRatio,
		ServiceName: a.cfg.Tracing.ServiceName,
	})
	if err != nil {
		return errors.Wrap(err, "Failed to initialize tracing")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.WithField("err", err).Warn("Failed to flush traces")
		}
	}()

	m := metrics.New()
	module, err := filestorage.NewModule(ctx, a.cfg.FileStorage, a.cfg.Server.MaxUploadBytes, m)
	if err != nil {
		return errors.Wrap(err, "Failed to initialize file storage")
	}

	router := gateway.SetupRoutes(gateway.RouterConfig{
		FileHandler: module.Handler(),
		Metrics:     m,
		Logger:      log,
		Server:      a.cfg.Server,
		ServiceName: a.cfg.Tracing.ServiceName,
	})

	logEndpoints(log, a.cfg.Server.Port, module.Service().Bucket())

	server := gateway.NewServer(a.cfg.Server, router.Handler(), log)
	if err := server.Start(ctx); err != nil {
		return errors.Wrap(err, "Server failed")
	}
	return nil
}

func logEndpoints(log *logrus.Logger, port, bucket string) {
	log.WithFields(logrus.Fields{
		"port":   port,
		"bucket": bucket,
	}).Info("Starting s3-uploader")
	for _, ep := range []string{
		"GET  /                 upload page",
		"POST /upload           upload a file (multipart field \"file\")",
		"POST /upload-web       upload from the web form",
		"GET  /files            list stored files",
		"GET  /download/{name}  download a file",
		"GET  /health           storage health check",
		"GET  /metrics          Prometheus metrics",
	} {
		log.Info(fmt.Sprintf("  %s", ep))
	}
}
