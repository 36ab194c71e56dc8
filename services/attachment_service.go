package services

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AttachmentService deletes uploaded attachment blobs from S3. It only
// implements the compensating path: uploads themselves happen through
// presigned URLs outside this core, but a blob whose message was rejected,
// lost or deleted must not linger.
type AttachmentService struct {
	Client *s3.Client
	Bucket string
}

var _ AttachmentCleaner = (*AttachmentService)(nil)

// InitializeS3Client initializes the S3 client
func InitializeS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(cfg)
}

// DeleteBlobs removes the given object keys, best-effort. Failures are
// logged and skipped; a leaked blob is preferable to a failed request.
func (s *AttachmentService) DeleteBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			log.Printf("⚠️ Failed to delete attachment blob %s: %v", key, err)
		}
	}
}
