// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// HealthEvent is the NATS payload for one drive snapshot.
type HealthEvent struct {
	EventID    string            `json:"event_id"`
	NodeName   string            `json:"node_name"`
	InstanceID string            `json:"instance_id"`
	Device     string            `json:"device"`
	EventType  string            `json:"event_type"` // "health", "health_alert" or "firmware_alert"
	Severity   string            `json:"severity"`   // "info", "warning" or "critical"
	Message    string            `json:"message"`
	Details    map[string]string `json:"details"`
}

// convertToHealthEvent classifies one snapshot. An attribute at or below
// its threshold escalates to critical; a drive database warning (typically
// a known-bad firmware notice) escalates to warning.
func convertToHealthEvent(snap DriveHealth) HealthEvent {
	details := make(map[string]string)
	severity := "info"
	eventType := "health"
	message := "SMART data collected successfully."

	if snap.Warning != "" {
		details["DatabaseWarning"] = snap.Warning
		severity = "warning"
		eventType = "firmware_alert"
		message = "Drive database carries an advisory warning for this drive."
	}

	for _, attr := range snap.Attributes {
		name := attr.Name
		if name == "" {
			name = fmt.Sprintf("attribute_%d", attr.ID)
		}
		details[name] = attr.Raw.String()

		if failure := attr.FailureIndicator(); failure != "-" {
			details[name+"_failing"] = failure
			severity = "critical"
			eventType = "health_alert"
			message = "SMART data indicates attribute failure."
		}
	}

	return HealthEvent{
		EventID:    uuid.NewString(),
		NodeName:   snap.NodeName,
		InstanceID: snap.InstanceID,
		Device:     snap.Device,
		EventType:  eventType,
		Severity:   severity,
		Message:    message,
		Details:    details,
	}
}

// PublishToNATS publishes one event per snapshot.
func PublishToNATS(snapshots []DriveHealth, nc *nats.Conn, subject string) error {
	for _, snap := range snapshots {
		event := convertToHealthEvent(snap)

		eventJSON, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := nc.Publish(subject, eventJSON); err != nil {
			return err
		}
	}
	return nil
}
