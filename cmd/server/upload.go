package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/saransh1220/s3-uploader/internal/modules/filestorage"
	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/application"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a local file under images/",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.commandContext(cmd)
			svc, err := a.fileService(ctx)
			if err != nil {
				return err
			}

			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrap(err, "Failed to open file")
			}
			defer f.Close()

			obj, err := svc.Upload(ctx, filepath.Base(path), f)
			if err != nil {
				return errors.Wrapf(err, "Failed to upload %s", path)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", obj.Key, obj.Size, obj.ContentType)
			return nil
		},
	}
}

// commandContext returns the command's context carrying the app logger
func (a *app) commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx, logrus.NewEntry(a.log))
}

func (a *app) fileService(ctx context.Context) (*application.FileService, error) {
	module, err := filestorage.NewModule(ctx, a.cfg.FileStorage, a.cfg.Server.MaxUploadBytes, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to initialize file storage")
	}
	return module.Service(), nil
}
