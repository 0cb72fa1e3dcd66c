// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gitlab.clyso.com/clyso/smartmeta/pkg/ata"
	"gitlab.clyso.com/clyso/smartmeta/pkg/ata/smart"
	"gitlab.clyso.com/clyso/smartmeta/pkg/drivedb"
)

var (
	attrsDrivedbPaths []string
	attrsOverrides    []string
	attrsModel        string
	attrsFirmware     string
	attrsDriveType    string
	attrsJSON         bool
)

var attrsCmd = &cobra.Command{
	Use:   "attrs <dump-dir>",
	Short: "Decode the SMART attribute table of a dumped device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := ata.OpenFileDevice(args[0])
		if err != nil {
			return err
		}
		id, err := dev.Identity()
		if err != nil {
			return err
		}
		if attrsModel != "" {
			id.Model = attrsModel
		}
		if attrsFirmware != "" {
			id.Firmware = attrsFirmware
		}
		if attrsDriveType != "" {
			id.Type = drivedb.ParseDriveType(attrsDriveType)
		}

		db := loadDrivedb(attrsDrivedbPaths)
		meta := db.Resolve(id.Model, id.Firmware, id.Type, parseOverrideFlags(attrsOverrides))

		data, err := dev.ReadSmartData()
		if err != nil {
			return err
		}
		thresh, err := dev.ReadSmartThresholds()
		if err != nil {
			return err
		}
		attrs, err := smart.ParseAttributes(data, thresh, meta)
		if err != nil {
			return err
		}

		if attrsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(attrs)
		}

		printAttrTable(attrs)
		return nil
	},
}

func init() {
	attrsCmd.Flags().StringSliceVar(&attrsDrivedbPaths, "drivedb", nil, "Candidate drive database files, tried in order")
	attrsCmd.Flags().StringArrayVar(&attrsOverrides, "vendorattribute", nil, "Vendor attribute override, id,format[:byteorder][,name]")
	attrsCmd.Flags().StringVar(&attrsModel, "model", "", "Override the model string used for database matching")
	attrsCmd.Flags().StringVar(&attrsFirmware, "firmware", "", "Override the firmware string used for database matching")
	attrsCmd.Flags().StringVar(&attrsDriveType, "type", "", "Drive type hint (HDD or SSD)")
	attrsCmd.Flags().BoolVar(&attrsJSON, "json", false, "Print decoded attributes as JSON")
}

func printAttrTable(attrs []smart.Attribute) {
	fmt.Printf("%3s %-24s %-6s %5s %5s %6s %-5s %s\n",
		"ID#", "ATTRIBUTE_NAME", "FLAGS", "VALUE", "WORST", "THRESH", "FAIL", "RAW")
	for _, a := range attrs {
		name := a.Name
		if name == "" {
			name = "Unknown_Attribute"
		}
		fmt.Printf("%3d %-24s %-6s %5s %5s %6s %-5s %s\n",
			a.ID, name, a.FlagsString(),
			optByte(a.Value), optByte(a.Worst), optByte(a.Thresh),
			a.FailureIndicator(), a.Raw.String())
	}
}

func optByte(v *uint8) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// loadDrivedb never fails the command: a missing or broken database means
// attributes decode with generic defaults, same as an empty rule table.
func loadDrivedb(paths []string) *drivedb.DB {
	if len(paths) == 0 {
		return drivedb.Empty()
	}
	db, err := drivedb.Load(paths...)
	if err != nil {
		log.Warn().Err(err).Msg("no drive database loaded, decoding with generic defaults")
	}
	return db
}

func parseOverrideFlags(specs []string) []drivedb.Attribute {
	var out []drivedb.Attribute
	for _, spec := range specs {
		attr, err := drivedb.ParseVendorAttribute(spec)
		if err != nil {
			log.Warn().Err(err).Str("spec", spec).Msg("ignoring malformed vendor attribute override")
			continue
		}
		out = append(out, attr)
	}
	return out
}
