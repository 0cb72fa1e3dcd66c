// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gitlab.clyso.com/clyso/smartmeta/pkg/producers/diskhealth"
)

var (
	dhNatsURL      string
	dhNatsSubject  string
	dhPromEnabled  bool
	dhPromPort     int
	dhDumpDirsFlag string
	dhDrivedbFlag  string
	dhWatchDrivedb bool
	dhOverrides    []string
	dhInterval     int
	dhNodeName     string
	dhInstanceID   string
	dhS3Bucket     string
	dhS3Prefix     string
	dhS3Region     string
	dhS3Endpoint   string
)

var diskHealthCmd = &cobra.Command{
	Use:   "disk-health",
	Short: "SMART attribute collector, decoder and health event publisher",
	Run: func(cmd *cobra.Command, args []string) {
		config := diskhealth.DiskHealthConfig{
			NatsURL:          dhNatsURL,
			NatsSubject:      dhNatsSubject,
			Prometheus:       dhPromEnabled,
			PrometheusPort:   dhPromPort,
			DumpDirs:         splitNonEmpty(dhDumpDirsFlag),
			DrivedbPaths:     splitNonEmpty(dhDrivedbFlag),
			WatchDrivedb:     dhWatchDrivedb,
			VendorAttributes: dhOverrides,
			Interval:         dhInterval,
			NodeName:         dhNodeName,
			InstanceID:       dhInstanceID,
			S3Bucket:         dhS3Bucket,
			S3Prefix:         dhS3Prefix,
			S3Region:         dhS3Region,
			S3Endpoint:       dhS3Endpoint,
		}

		config = mergeDiskHealthConfigWithEnv(config)

		config.UseNats = config.NatsURL != ""
		config.ArchiveToS3 = config.S3Bucket != ""

		event := log.Info()
		event.Bool("use_nats", config.UseNats)
		if config.UseNats {
			event.Str("nats_url", config.NatsURL)
			event.Str("nats_subject", config.NatsSubject)
		}

		event.Bool("prometheus_enabled", config.Prometheus)
		if config.Prometheus {
			event.Int("prometheus_port", config.PrometheusPort)
		}

		event.Str("dump_dirs", fmt.Sprintf("%v", config.DumpDirs)).
			Str("drivedb_paths", fmt.Sprintf("%v", config.DrivedbPaths)).
			Bool("watch_drivedb", config.WatchDrivedb).
			Str("node_name", config.NodeName).
			Str("instance_id", config.InstanceID).
			Int("interval_seconds", config.Interval)

		event.Msg("configuration_loaded")

		validateDiskHealthConfig(config)

		diskhealth.StartMonitoring(cmd.Context(), config)
	},
}

func mergeDiskHealthConfigWithEnv(cfg diskhealth.DiskHealthConfig) diskhealth.DiskHealthConfig {
	cfg.NatsURL = getEnv("NATS_URL", cfg.NatsURL)
	cfg.NatsSubject = getEnv("NATS_SUBJECT", cfg.NatsSubject)
	cfg.PrometheusPort = getEnvInt("PROMETHEUS_PORT", cfg.PrometheusPort)
	if dirsEnv := getEnv("DUMP_DIRS", ""); dirsEnv != "" {
		cfg.DumpDirs = splitNonEmpty(dirsEnv)
	}
	if dbEnv := getEnv("DRIVEDB_PATHS", ""); dbEnv != "" {
		cfg.DrivedbPaths = splitNonEmpty(dbEnv)
	}
	cfg.WatchDrivedb = getEnvBool("WATCH_DRIVEDB", cfg.WatchDrivedb)
	cfg.NodeName = getEnv("NODE_NAME", cfg.NodeName)
	cfg.InstanceID = getEnv("INSTANCE_ID", cfg.InstanceID)
	cfg.Interval = getEnvInt("INTERVAL", cfg.Interval)
	cfg.S3Bucket = getEnv("S3_BUCKET", cfg.S3Bucket)
	cfg.S3Prefix = getEnv("S3_PREFIX", cfg.S3Prefix)
	cfg.S3Region = getEnv("S3_REGION", cfg.S3Region)
	cfg.S3Endpoint = getEnv("S3_ENDPOINT", cfg.S3Endpoint)

	return cfg
}

func init() {
	diskHealthCmd.Flags().StringVar(&dhNatsURL, "nats-url", "", "NATS server URL")
	diskHealthCmd.Flags().StringVar(&dhNatsSubject, "nats-subject", "node.disk.health", "NATS subject to publish health events")
	diskHealthCmd.Flags().BoolVar(&dhPromEnabled, "prometheus", false, "Enable Prometheus metrics")
	diskHealthCmd.Flags().IntVar(&dhPromPort, "prometheus-port", 8080, "Prometheus metrics port")
	diskHealthCmd.Flags().StringVar(&dhDumpDirsFlag, "dump-dirs", "", "Comma separated list of device dump directories")
	diskHealthCmd.Flags().StringVar(&dhDrivedbFlag, "drivedb", "/var/lib/smartmeta/drivedb.h", "Comma separated list of drive database candidates")
	diskHealthCmd.Flags().BoolVar(&dhWatchDrivedb, "watch-drivedb", false, "Reload the drive database when the file changes")
	diskHealthCmd.Flags().StringArrayVar(&dhOverrides, "vendorattribute", nil, "Vendor attribute override, id,format[:byteorder][,name]")
	diskHealthCmd.Flags().IntVar(&dhInterval, "interval", 60, "Interval in seconds between collections")
	diskHealthCmd.Flags().StringVar(&dhNodeName, "node-name", "", "Node name attached to events (defaults to the host name)")
	diskHealthCmd.Flags().StringVar(&dhInstanceID, "instance-id", "", "Instance id attached to events")
	diskHealthCmd.Flags().StringVar(&dhS3Bucket, "s3-bucket", "", "S3 bucket for snapshot archiving (empty disables archiving)")
	diskHealthCmd.Flags().StringVar(&dhS3Prefix, "s3-prefix", "smart", "Key prefix for archived snapshots")
	diskHealthCmd.Flags().StringVar(&dhS3Region, "s3-region", "us-east-1", "S3 region")
	diskHealthCmd.Flags().StringVar(&dhS3Endpoint, "s3-endpoint", "", "Custom S3 endpoint for S3-compatible stores")
}

func validateDiskHealthConfig(config diskhealth.DiskHealthConfig) {
	missingParams := false

	if len(config.DumpDirs) == 0 {
		fmt.Println("Warning: --dump-dirs or DUMP_DIRS must be set")
		missingParams = true
	}

	if missingParams {
		fmt.Println("One or more required parameters are missing. Please provide them through flags or environment variables.")
		os.Exit(1)
	}
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
