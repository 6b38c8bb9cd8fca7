package appcontext

import (
	"github.com/SeakMengs/FontPoster/internal/config"
	"github.com/SeakMengs/FontPoster/internal/util"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Console prints the progress lines meant for the user.
	Console *util.Console

	// S3 is nil unless publishing is enabled.
	S3 *minio.Client
}
