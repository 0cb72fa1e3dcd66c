// SPDX-FileCopyrightText: 2025 Clyso GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"gitlab.clyso.com/clyso/smartmeta/pkg/commands"
)

func main() {
	commands.Execute()
}
