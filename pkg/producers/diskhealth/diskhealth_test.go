// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.clyso.com/clyso/smartmeta/pkg/ata"
	"gitlab.clyso.com/clyso/smartmeta/pkg/ata/smart"
	"gitlab.clyso.com/clyso/smartmeta/pkg/drivedb"
)

type stubDevice struct {
	identity ata.Identity
	data     []byte
	thresh   []byte
}

func (d *stubDevice) Identity() (ata.Identity, error) { return d.identity, nil }

func (d *stubDevice) ReadSmartData() ([]byte, error) { return d.data, nil }

func (d *stubDevice) ReadSmartThresholds() ([]byte, error) { return d.thresh, nil }

func buildTables() (data, thresh []byte) {
	data = make([]byte, smart.TableLen)
	thresh = make([]byte, smart.TableLen)

	// attribute 9: value 97, worst 95, raw 9000 minutes
	copy(data[2:], []byte{9, 0x32, 0, 97, 95, 0x28, 0x23, 0, 0, 0, 0, 0})
	// attribute 5: value 100, worst 100, raw 0
	copy(data[14:], []byte{5, 0x33, 0, 100, 100, 0, 0, 0, 0, 0, 0, 0})

	copy(thresh[2:], []byte{9, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	copy(thresh[14:], []byte{5, 36, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	return data, thresh
}

const testDB = `{ "Seagate Barracuda 7200.14 (AF)",
  "ST3000DM001-.*", "CC2[34]",
  "A firmware update is available.",
  "-v 9,min2hour,Power_On_Hours"
}`

func TestQueryDevice(t *testing.T) {
	db, err := drivedb.Parse(testDB)
	require.NoError(t, err)

	data, thresh := buildTables()
	dev := &stubDevice{
		identity: ata.Identity{
			Model:    "ST3000DM001-9YN166",
			Firmware: "CC24",
			Smart:    ata.Enabled,
		},
		data:   data,
		thresh: thresh,
	}

	snap, err := QueryDevice(dev, "/dev/sda", db, nil)
	require.NoError(t, err)

	assert.Equal(t, "Seagate Barracuda 7200.14 (AF)", snap.Family)
	assert.Equal(t, "A firmware update is available.", snap.Warning)
	require.Len(t, snap.Attributes, 2)

	hours := snap.Attributes[0]
	assert.Equal(t, uint8(9), hours.ID)
	assert.Equal(t, "Power_On_Hours", hours.Name)
	assert.Equal(t, "150h+00m", hours.Raw.Text)
}

func TestQueryDeviceSmartDisabled(t *testing.T) {
	dev := &stubDevice{
		identity: ata.Identity{Model: "M", Firmware: "F", Smart: ata.Disabled},
	}

	snap, err := QueryDevice(dev, "/dev/sdb", drivedb.Empty(), nil)
	require.NoError(t, err)
	assert.Empty(t, snap.Attributes)
	assert.Equal(t, "M", snap.Model)
}

func TestConvertToHealthEventClean(t *testing.T) {
	data, thresh := buildTables()
	attrs, err := smart.ParseAttributes(data, thresh, nil)
	require.NoError(t, err)

	event := convertToHealthEvent(DriveHealth{Device: "/dev/sda", Attributes: attrs})
	assert.Equal(t, "info", event.Severity)
	assert.Equal(t, "health", event.EventType)
	assert.NotEmpty(t, event.EventID)
}

func TestConvertToHealthEventFailingAttribute(t *testing.T) {
	data, thresh := buildTables()
	// push attribute 5's value below its threshold of 36
	data[2+12+3] = 30

	attrs, err := smart.ParseAttributes(data, thresh, nil)
	require.NoError(t, err)

	event := convertToHealthEvent(DriveHealth{Device: "/dev/sda", Attributes: attrs})
	assert.Equal(t, "critical", event.Severity)
	assert.Equal(t, "health_alert", event.EventType)
	assert.Equal(t, "NOW", event.Details["attribute_5_failing"])
}

func TestConvertToHealthEventDatabaseWarning(t *testing.T) {
	event := convertToHealthEvent(DriveHealth{
		Device:  "/dev/sda",
		Warning: "bad firmware",
	})
	assert.Equal(t, "warning", event.Severity)
	assert.Equal(t, "firmware_alert", event.EventType)
	assert.Equal(t, "bad firmware", event.Details["DatabaseWarning"])
}

func TestParseOverridesSkipsMalformed(t *testing.T) {
	out := parseOverrides([]string{"9,min2hour", "not-an-override", "194,tempminmax"})
	require.Len(t, out, 2)
	assert.Equal(t, "min2hour", out[0].Format)
	assert.Equal(t, "tempminmax", out[1].Format)
}
