// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

// DiskHealthConfig configures the disk health producer.
type DiskHealthConfig struct {
	NatsURL     string
	NatsSubject string
	UseNats     bool

	Prometheus     bool
	PrometheusPort int

	// DumpDirs are device dump directories (identity.json plus the two
	// raw 512-byte tables) produced by an out-of-process collector.
	DumpDirs []string

	// DrivedbPaths are candidate drive database files, tried in order.
	DrivedbPaths []string
	// WatchDrivedb reloads the first drivedb candidate on change.
	WatchDrivedb bool

	// VendorAttributes are extra "id,format[:byteorder][,name]" override
	// strings applied on top of database rules.
	VendorAttributes []string

	Interval   int // seconds between collections
	NodeName   string
	InstanceID string

	// S3 snapshot archiving (optional)
	S3Bucket    string
	S3Prefix    string
	S3Region    string
	S3Endpoint  string
	ArchiveToS3 bool
}
