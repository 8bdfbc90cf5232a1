package main

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/segstore/publish"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func (c *cli) publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish ROOT",
		Short: "Upload a store's segments to S3 or MinIO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			up, err := c.uploader(cmd)
			if err != nil {
				return err
			}

			s, err := c.openStore(args[0])
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, s.Close()) }()

			logger, err := c.logger()
			if err != nil {
				return err
			}

			res, err := publish.Publish(cmd.Context(), s, up, func(o *publish.Options) {
				o.Prefix = c.v.GetString("prefix")
				o.Concurrency = c.v.GetInt("concurrency")
				o.Logger = logger.Logger
				if r := c.v.GetFloat64("rate"); r > 0 {
					o.Limiter = rate.NewLimiter(rate.Limit(r), 1)
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %d segments (%s)\n", res.Objects, formatBytes(res.Bytes))
			return nil
		},
	}

	f := cmd.Flags()
	f.String("s3-bucket", "", "Destination S3 bucket (credentials from the default AWS chain)")
	f.String("minio-endpoint", "", "MinIO endpoint host:port")
	f.String("minio-bucket", "", "Destination MinIO bucket")
	f.String("minio-access-key", "", "MinIO access key")
	f.String("minio-secret-key", "", "MinIO secret key")
	f.Bool("minio-secure", true, "Use TLS for MinIO")
	f.String("prefix", "", "Object key prefix")
	f.Int("concurrency", publish.DefaultOptions.Concurrency, "Parallel uploads")
	f.Float64("rate", 0, "Maximum uploads started per second (0 = unlimited)")
	return cmd
}

func (c *cli) uploader(cmd *cobra.Command) (publish.Uploader, error) {
	bucket := c.v.GetString("s3-bucket")
	endpoint := c.v.GetString("minio-endpoint")

	switch {
	case bucket != "" && endpoint != "":
		return nil, errors.New("--s3-bucket and --minio-endpoint are mutually exclusive")
	case bucket != "":
		cfg, err := config.LoadDefaultConfig(cmd.Context())
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return publish.NewS3Uploader(s3.NewFromConfig(cfg), bucket), nil
	case endpoint != "":
		mb := c.v.GetString("minio-bucket")
		if mb == "" {
			return nil, errors.New("--minio-endpoint requires --minio-bucket")
		}
		client, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(c.v.GetString("minio-access-key"), c.v.GetString("minio-secret-key"), ""),
			Secure: c.v.GetBool("minio-secure"),
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return publish.NewMinIOUploader(client, mb), nil
	default:
		return nil, errors.New("publish requires --s3-bucket or --minio-endpoint")
	}
}
