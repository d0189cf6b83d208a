// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-dgp/pkg/reduction/gp2dcp"
	"github.com/consensys/go-dgp/pkg/util"
	"github.com/spf13/cobra"
)

// canonCmd represents the canon command
var canonCmd = &cobra.Command{
	Use:   "canon [flags] problem_file",
	Short: "Reduce a geometric program to a convex program.",
	Long: `Reduce a disciplined geometric program to a disciplined convex program,
using a logarithmic change of variables, and print the result.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		stats := util.NewPerfStats()
		p := readProblemFile(args[0])
		//
		q, _, err := gp2dcp.New().Apply(p)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		if GetFlag(cmd, "stats") {
			stats.Log("Reduction")
		}
		//
		fmt.Print(q.String())
	},
}

func init() {
	rootCmd.AddCommand(canonCmd)
}
