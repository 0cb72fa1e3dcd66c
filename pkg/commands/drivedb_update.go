// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"gitlab.clyso.com/clyso/smartmeta/pkg/drivedb"
)

const defaultDrivedbURL = "https://raw.githubusercontent.com/smartmontools/smartmontools/master/smartmontools/drivedb.h"

var (
	updateURL    string
	updateTarget string
)

var drivedbUpdateCmd = &cobra.Command{
	Use:   "drivedb-update",
	Short: "Download the latest drive database and install it after validation",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(updateURL)
		if err != nil {
			return fmt.Errorf("downloading drive database: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("downloading drive database: unexpected status %s", resp.Status)
		}

		bar := progressbar.DefaultBytes(resp.ContentLength, "downloading drivedb")
		var buf bytes.Buffer
		if _, err := io.Copy(io.MultiWriter(&buf, bar), resp.Body); err != nil {
			return fmt.Errorf("downloading drive database: %w", err)
		}

		// parse before install so a broken download never replaces a
		// working database
		db, err := drivedb.Parse(buf.String())
		if err != nil {
			return fmt.Errorf("downloaded database failed validation: %w", err)
		}

		tmp := updateTarget + ".download"
		if err := os.MkdirAll(filepath.Dir(updateTarget), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
			return err
		}
		if err := os.Rename(tmp, updateTarget); err != nil {
			return err
		}

		log.Info().Str("path", updateTarget).Str("version", db.Version()).Int("entries", db.Len()).Msg("drive database installed")
		fmt.Printf("Installed %s (version %s, %d entries)\n", updateTarget, db.Version(), db.Len())
		return nil
	},
}

func init() {
	drivedbUpdateCmd.Flags().StringVar(&updateURL, "url", defaultDrivedbURL, "Drive database download URL")
	drivedbUpdateCmd.Flags().StringVar(&updateTarget, "output", "/var/lib/smartmeta/drivedb.h", "Install path for the downloaded database")
}
