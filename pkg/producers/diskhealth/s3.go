// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// SnapshotArchiver uploads decoded snapshots to an object storage bucket,
// one JSON object per drive per collection cycle.
type SnapshotArchiver struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewSnapshotArchiver builds an archiver from the ambient AWS credential
// chain. A custom endpoint supports S3-compatible stores such as RadosGW.
func NewSnapshotArchiver(ctx context.Context, cfg DiskHealthConfig) (*SnapshotArchiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &SnapshotArchiver{
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
	}, nil
}

// Archive uploads every snapshot. Failures are logged per object; one
// failed upload does not block the rest.
func (a *SnapshotArchiver) Archive(ctx context.Context, snapshots []DriveHealth) {
	now := time.Now().UTC().Format(time.RFC3339)
	for _, snap := range snapshots {
		body, err := json.Marshal(snap)
		if err != nil {
			log.Error().Err(err).Str("device", snap.Device).Msg("error encoding snapshot")
			continue
		}

		key := path.Join(a.prefix, snap.NodeName, path.Base(snap.Device), now+".json")
		_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			log.Error().Err(err).Str("bucket", a.bucket).Str("key", key).Msg("error archiving snapshot")
			continue
		}
		log.Debug().Str("bucket", a.bucket).Str("key", key).Msg("snapshot archived")
	}
}
