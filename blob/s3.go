package blob

import (
	"bytes"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Provider keeps the blobs in an S3 bucket.
type S3Provider struct {
	api    *s3.S3
	bucket string
}

func NewS3Provider(sess *session.Session, bucket string) *S3Provider {
	return &S3Provider{
		api:    s3.New(sess),
		bucket: bucket,
	}
}

func (p *S3Provider) Get(key string) ([]byte, error) {
	out, err := p.api.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrNotExist
		}
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (p *S3Provider) Put(key string, data []byte) error {
	_, err := p.api.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (p *S3Provider) List(prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(p.bucket),
		Prefix: aws.String(prefix),
	}
	err := p.api.ListObjectsV2Pages(input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, item := range page.Contents {
			keys = append(keys, aws.StringValue(item.Key))
		}
		return true
	})
	return keys, err
}
