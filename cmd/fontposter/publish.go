package main

import (
	"context"
	"fmt"
	"time"

	appcontext "github.com/SeakMengs/FontPoster/internal/app_context"
	"github.com/SeakMengs/FontPoster/internal/util"
	"github.com/SeakMengs/FontPoster/pkg/fontposter"
)

// Upload the posters of this run and the metadata file to the bucket. Batch
// runs first clear the remote poster directory, like the local one.
func publish(ctx context.Context, app *appcontext.Application, res *fontposter.GenerateResult, mode Mode) error {
	cfg := app.Config.Minio
	posterDir := util.GetPosterDirectoryPath(cfg.PREFIX)
	startTime := time.Now()

	if mode == ModeBatch {
		if err := util.RemoveObjectsWithPrefix(ctx, app.S3, cfg.BUCKET, posterDir); err != nil {
			return fmt.Errorf("failed to clear remote posters: %w", err)
		}
	}

	for _, poster := range res.Posters {
		info, err := util.UploadFileToS3ByPath(ctx, poster, &util.FileUploadOptions{
			DirectoryPath: posterDir,
			Bucket:        cfg.BUCKET,
			S3:            app.S3,
		})
		if err != nil {
			return fmt.Errorf("failed to publish %s: %w", poster, err)
		}
		app.Logger.Debugf("Published %s (%d bytes)", info.Key, info.Size)
	}

	info, err := util.UploadFileToS3ByPath(ctx, app.Config.Paths.MetadataPath, &util.FileUploadOptions{
		DirectoryPath: util.GetMetadataDirectoryPath(cfg.PREFIX),
		Bucket:        cfg.BUCKET,
		S3:            app.S3,
	})
	if err != nil {
		return fmt.Errorf("failed to publish metadata: %w", err)
	}

	app.Logger.Infof("Published %d posters and %s to bucket %s in %v", len(res.Posters), info.Key, cfg.BUCKET, time.Since(startTime))
	return nil
}
