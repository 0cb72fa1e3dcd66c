// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/host"

	"gitlab.clyso.com/clyso/smartmeta/pkg/ata"
	"gitlab.clyso.com/clyso/smartmeta/pkg/ata/smart"
	"gitlab.clyso.com/clyso/smartmeta/pkg/drivedb"
)

// DriveHealth is one decoded drive snapshot.
type DriveHealth struct {
	NodeName   string            `json:"node_name"`
	InstanceID string            `json:"instance_id"`
	Device     string            `json:"device"`
	Model      string            `json:"model"`
	Firmware   string            `json:"firmware"`
	Serial     string            `json:"serial,omitempty"`
	Family     string            `json:"family,omitempty"`
	Warning    string            `json:"warning,omitempty"`
	Attributes []smart.Attribute `json:"attributes"`
}

// StartMonitoring runs the producer loop: decode every configured dump
// directory on each tick, export to Prometheus and publish NATS events.
// It blocks until the context is done.
func StartMonitoring(ctx context.Context, cfg DiskHealthConfig) {
	fillNodeIdentity(&cfg)

	db, err := drivedb.Load(cfg.DrivedbPaths...)
	if err != nil {
		log.Warn().Err(err).Msg("no drive database loaded, decoding with generic defaults")
	}
	var dbPtr atomic.Pointer[drivedb.DB]
	dbPtr.Store(db)

	if cfg.WatchDrivedb && len(cfg.DrivedbPaths) > 0 {
		watcher, err := drivedb.Watch(cfg.DrivedbPaths[0], func(fresh *drivedb.DB) {
			dbPtr.Store(fresh)
		})
		if err != nil {
			log.Error().Err(err).Msg("drive database watcher failed to start")
		} else {
			defer watcher.Close()
		}
	}

	overrides := parseOverrides(cfg.VendorAttributes)

	var nc *nats.Conn
	if cfg.UseNats {
		nc, err = nats.Connect(cfg.NatsURL)
		if err != nil {
			log.Error().Err(err).Str("nats_url", cfg.NatsURL).Msg("error connecting to NATS server")
			return
		}
		defer nc.Close()
		log.Info().Str("nats_url", cfg.NatsURL).Msg("connected to NATS server")
	}

	if cfg.Prometheus {
		StartPrometheusServer(cfg.PrometheusPort)
	}

	var archiver *SnapshotArchiver
	if cfg.ArchiveToS3 {
		archiver, err = NewSnapshotArchiver(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("snapshot archiver disabled")
		}
	}

	ticker := time.NewTicker(time.Duration(cfg.Interval) * time.Second)
	defer ticker.Stop()

	for {
		snapshots := collect(cfg, dbPtr.Load(), overrides)

		if cfg.Prometheus {
			PublishToPrometheus(snapshots)
		}
		if nc != nil {
			if err := PublishToNATS(snapshots, nc, cfg.NatsSubject); err != nil {
				log.Error().Err(err).Msg("error publishing health events to NATS")
			}
		}
		if archiver != nil {
			archiver.Archive(ctx, snapshots)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// collect decodes every configured dump directory through the engine.
// Snapshots are rebuilt from scratch each cycle; nothing is cached between
// collections.
func collect(cfg DiskHealthConfig, db *drivedb.DB, overrides []drivedb.Attribute) []DriveHealth {
	var out []DriveHealth
	for _, dir := range cfg.DumpDirs {
		snap, err := collectOne(dir, db, overrides)
		if err != nil {
			log.Error().Err(err).Str("device", dir).Msg("error decoding device dump")
			continue
		}
		snap.NodeName = cfg.NodeName
		snap.InstanceID = cfg.InstanceID
		out = append(out, *snap)
	}
	return out
}

func collectOne(dir string, db *drivedb.DB, overrides []drivedb.Attribute) (*DriveHealth, error) {
	dev, err := ata.OpenFileDevice(dir)
	if err != nil {
		return nil, err
	}
	return QueryDevice(dev, dir, db, overrides)
}

// QueryDevice resolves a device's rules and decodes its SMART tables. Any
// transport satisfying IdentifyAndSmart works, not just file dumps.
func QueryDevice(dev ata.IdentifyAndSmart, name string, db *drivedb.DB, overrides []drivedb.Attribute) (*DriveHealth, error) {
	id, err := dev.Identity()
	if err != nil {
		return nil, err
	}
	if id.Smart != ata.Enabled {
		log.Debug().Str("device", name).Stringer("smart", id.Smart).Msg("skipping device, SMART not enabled")
		return &DriveHealth{Device: name, Model: id.Model, Firmware: id.Firmware, Serial: id.Serial}, nil
	}

	data, err := dev.ReadSmartData()
	if err != nil {
		return nil, err
	}
	thresh, err := dev.ReadSmartThresholds()
	if err != nil {
		return nil, err
	}

	meta := db.Resolve(id.Model, id.Firmware, id.Type, overrides)
	attrs, err := smart.ParseAttributes(data, thresh, meta)
	if err != nil {
		return nil, err
	}

	return &DriveHealth{
		Device:     name,
		Model:      id.Model,
		Firmware:   id.Firmware,
		Serial:     id.Serial,
		Family:     meta.Family,
		Warning:    meta.Warning,
		Attributes: attrs,
	}, nil
}

func parseOverrides(specs []string) []drivedb.Attribute {
	var out []drivedb.Attribute
	for _, spec := range specs {
		attr, err := drivedb.ParseVendorAttribute(spec)
		if err != nil {
			// a bad override is skipped, not fatal
			log.Warn().Err(err).Str("spec", spec).Msg("ignoring malformed vendor attribute override")
			continue
		}
		out = append(out, attr)
	}
	return out
}

func fillNodeIdentity(cfg *DiskHealthConfig) {
	if cfg.NodeName != "" {
		return
	}
	info, err := host.Info()
	if err != nil {
		log.Warn().Err(err).Msg("could not determine host name for node identity")
		return
	}
	cfg.NodeName = info.Hostname
}
