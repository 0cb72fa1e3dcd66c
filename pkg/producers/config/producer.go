// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"gitlab.clyso.com/clyso/smartmeta/pkg/producers/diskhealth"
)

func StartProducers(ctx context.Context, producer ProducerConfig, globalConfig GlobalConfig, wg *sync.WaitGroup) {
	defer wg.Done()

	natsURL := GetStringSetting(producer.Settings, "nats_url", globalConfig.NatsURL)
	nodeName := GetStringSetting(producer.Settings, "node_name", globalConfig.NodeName)
	instanceID := GetStringSetting(producer.Settings, "instance_id", globalConfig.InstanceID)

	switch producer.Type {
	case "disk_health":
		settings := diskhealth.DiskHealthConfig{
			NatsURL:          natsURL,
			NatsSubject:      GetStringSetting(producer.Settings, "nats_subject", "node.disk.health"),
			UseNats:          natsURL != "",
			Prometheus:       GetBoolSetting(producer.Settings, "prometheus", false),
			PrometheusPort:   GetIntSetting(producer.Settings, "prometheus_port", 8080),
			DumpDirs:         GetStringSliceSetting(producer.Settings, "dump_dirs", nil),
			DrivedbPaths:     GetStringSliceSetting(producer.Settings, "drivedb_paths", []string{"/var/lib/smartmeta/drivedb.h"}),
			WatchDrivedb:     GetBoolSetting(producer.Settings, "watch_drivedb", false),
			VendorAttributes: GetStringSliceSetting(producer.Settings, "vendor_attributes", nil),
			Interval:         GetIntSetting(producer.Settings, "interval", 60),
			NodeName:         nodeName,
			InstanceID:       instanceID,
			S3Bucket:         GetStringSetting(producer.Settings, "s3_bucket", ""),
			S3Prefix:         GetStringSetting(producer.Settings, "s3_prefix", "smart"),
			S3Region:         GetStringSetting(producer.Settings, "s3_region", "us-east-1"),
			S3Endpoint:       GetStringSetting(producer.Settings, "s3_endpoint", ""),
		}
		settings.ArchiveToS3 = settings.S3Bucket != ""
		log.Info().Msg("--- disk health ---")
		diskhealth.StartMonitoring(ctx, settings)
	default:
		log.Warn().Msgf("unknown producer type: %s", producer.Type)
	}
}
