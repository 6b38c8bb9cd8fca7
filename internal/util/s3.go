package util

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
)

func GetPosterDirectoryPath(prefix string) string {
	return path.Join(prefix, "images")
}

func GetMetadataDirectoryPath(prefix string) string {
	return path.Join(prefix, "scripts")
}

func createBucketIfNotExists(ctx context.Context, s3 *minio.Client, bucketName string) error {
	exists, err := s3.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}

	if !exists {
		err = s3.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return err
		}
	}

	return nil
}

type FileUploadOptions struct {
	// Add a prefix to the object name
	// For example, if the file name is "Roboto-poster.jpg" and the prefix is "site/images",
	// the resulting name will be "site/images/Roboto-poster.jpg"
	DirectoryPath string
	Bucket        string
	S3            *minio.Client
}

// uploads a file from a local path to S3
func UploadFileToS3ByPath(ctx context.Context, filePath string, fuo *FileUploadOptions) (minio.UploadInfo, error) {
	if err := createBucketIfNotExists(ctx, fuo.S3, fuo.Bucket); err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to create bucket: %w", err)
	}

	objectName := prepareObjectName(filepath.Base(filePath), fuo.DirectoryPath)

	contentType, err := detectContentType(filePath)
	if err != nil {
		return minio.UploadInfo{}, err
	}

	info, err := fuo.S3.FPutObject(
		ctx,
		fuo.Bucket,
		objectName,
		filePath,
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return info, nil
}

// Remove every object whose key starts with prefix. Used to mirror the local
// poster directory wipe of batch mode.
func RemoveObjectsWithPrefix(ctx context.Context, s3 *minio.Client, bucket string, prefix string) error {
	exists, err := s3.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil
	}

	listCtx, cancelList := context.WithCancel(ctx)
	defer cancelList()

	// listErr is written before objectsCh is closed and read only after the
	// remover has seen the close, so no lock is needed
	var listErr error
	objectsCh := make(chan minio.ObjectInfo)
	go func() {
		defer close(objectsCh)
		for object := range s3.ListObjects(listCtx, bucket, minio.ListObjectsOptions{Prefix: prefix + "/", Recursive: true}) {
			if object.Err != nil {
				listErr = fmt.Errorf("failed to list objects under %q: %w", prefix, object.Err)
				cancelList()
				return
			}
			objectsCh <- object
		}
	}()

	// Drain the error channel fully so the remover goroutine can finish
	var removeErr error
	for rErr := range s3.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if removeErr == nil {
			removeErr = fmt.Errorf("failed to remove %q: %w", rErr.ObjectName, rErr.Err)
		}
	}

	if listErr != nil {
		return listErr
	}
	return removeErr
}

// Object keys always use forward slashes, regardless of the local OS.
func prepareObjectName(fileName string, directoryPath string) string {
	if directoryPath == "" {
		return fileName
	}
	return path.Join(directoryPath, fileName)
}

// Determines the content type of a file by sniffing its content
func detectContentType(filePath string) (string, error) {
	mtype, err := mimetype.DetectFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type of %q: %w", filePath, err)
	}

	return mtype.String(), nil
}
