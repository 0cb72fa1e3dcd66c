// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.clyso.com/clyso/smartmeta/pkg/drivedb"
)

var (
	matchDrivedbPaths []string
	matchOverrides    []string
	matchModel        string
	matchFirmware     string
	matchDriveType    string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Show the drive database rules resolved for a model and firmware",
	RunE: func(cmd *cobra.Command, args []string) error {
		if matchModel == "" {
			return fmt.Errorf("--model is required")
		}

		db := loadDrivedb(matchDrivedbPaths)
		hint := drivedb.ParseDriveType(matchDriveType)
		meta := db.Resolve(matchModel, matchFirmware, hint, parseOverrideFlags(matchOverrides))

		if db.Version() != "" {
			fmt.Printf("Database version: %s\n", db.Version())
		}
		if meta.Family != "" {
			fmt.Printf("Model family:     %s\n", meta.Family)
		} else {
			fmt.Println("Model family:     (no matching record)")
		}
		if meta.Warning != "" {
			fmt.Printf("Warning:          %s\n", meta.Warning)
		}
		if len(meta.FirmwareBugs) > 0 {
			fmt.Printf("Firmware quirks:  %s\n", strings.Join(meta.FirmwareBugs, ", "))
		}

		rules := meta.Rules()
		ids := make([]int, 0, len(rules))
		for id := range rules {
			ids = append(ids, int(id))
		}
		sort.Ints(ids)

		for _, id := range ids {
			fmt.Printf("  -v %s\n", rules[uint8(id)].String())
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().StringSliceVar(&matchDrivedbPaths, "drivedb", nil, "Candidate drive database files, tried in order")
	matchCmd.Flags().StringArrayVar(&matchOverrides, "vendorattribute", nil, "Vendor attribute override, id,format[:byteorder][,name]")
	matchCmd.Flags().StringVar(&matchModel, "model", "", "Drive model string to match")
	matchCmd.Flags().StringVar(&matchFirmware, "firmware", "", "Drive firmware string to match")
	matchCmd.Flags().StringVar(&matchDriveType, "type", "", "Drive type hint (HDD or SSD)")
}
