// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	attrValueGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smart_attribute_value",
			Help: "Normalized SMART attribute value",
		},
		[]string{"disk", "id", "attribute", "node", "instance"},
	)

	attrWorstGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smart_attribute_worst",
			Help: "Worst recorded normalized SMART attribute value",
		},
		[]string{"disk", "id", "attribute", "node", "instance"},
	)

	attrThreshGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smart_attribute_threshold",
			Help: "Failure threshold for the SMART attribute",
		},
		[]string{"disk", "id", "attribute", "node", "instance"},
	)

	attrRawGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smart_attribute_raw",
			Help: "Decoded raw value of the SMART attribute",
		},
		[]string{"disk", "id", "attribute", "node", "instance"},
	)

	warningGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smart_drive_warning",
			Help: "1 when the drive database carries an advisory warning for this drive",
		},
		[]string{"disk", "node", "instance"},
	)
)

func init() {
	prometheus.MustRegister(attrValueGauge)
	prometheus.MustRegister(attrWorstGauge)
	prometheus.MustRegister(attrThreshGauge)
	prometheus.MustRegister(attrRawGauge)
	prometheus.MustRegister(warningGauge)
}

// PublishToPrometheus updates the gauges from the latest snapshots.
func PublishToPrometheus(snapshots []DriveHealth) {
	for _, snap := range snapshots {
		warning := 0.0
		if snap.Warning != "" {
			warning = 1.0
		}
		warningGauge.WithLabelValues(snap.Device, snap.NodeName, snap.InstanceID).Set(warning)

		for _, attr := range snap.Attributes {
			name := attr.Name
			if name == "" {
				name = fmt.Sprintf("attribute_%d", attr.ID)
			}
			labels := []string{snap.Device, fmt.Sprintf("%d", attr.ID), name, snap.NodeName, snap.InstanceID}

			if attr.Value != nil {
				attrValueGauge.WithLabelValues(labels...).Set(float64(*attr.Value))
			}
			if attr.Worst != nil {
				attrWorstGauge.WithLabelValues(labels...).Set(float64(*attr.Worst))
			}
			if attr.Thresh != nil {
				attrThreshGauge.WithLabelValues(labels...).Set(float64(*attr.Thresh))
			}
			attrRawGauge.WithLabelValues(labels...).Set(float64(attr.Raw.Value()))
		}
	}
}

// StartPrometheusServer exposes the metrics endpoint.
func StartPrometheusServer(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", port)
		log.Info().Str("addr", addr).Msg("starting Prometheus metrics server")
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error().Err(err).Msg("error starting Prometheus metrics server")
		}
	}()
}
