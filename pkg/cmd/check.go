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

	"github.com/consensys/go-dgp/pkg/problem"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] problem_file(s)",
	Short: "Check whether one or more problems are disciplined.",
	Long: `Check whether one or more problems are disciplined geometric programs
(or, with --dcp, disciplined convex programs).  Every violation found is
reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		dcp := GetFlag(cmd, "dcp")
		failed := false
		//
		for _, filename := range args {
			p := readProblemFile(filename)
			failed = !checkProblem(filename, p, dcp) || failed
		}
		//
		if failed {
			os.Exit(1)
		}
	},
}

// Check a given problem, reporting each violation.  This returns true if the
// problem is disciplined.
func checkProblem(filename string, p *problem.Problem, dcp bool) bool {
	var (
		err  error
		kind = "DGP"
	)
	//
	if dcp {
		err, kind = p.CheckDCP(), "DCP"
	} else {
		err = p.CheckDGP()
	}
	//
	if err == nil {
		fmt.Printf("%s: %s\n", filename, kind)
		return true
	}
	//
	fmt.Printf("%s: not %s\n", filename, kind)
	//
	for _, violation := range multierr.Errors(err) {
		fmt.Printf("\t%s\n", violation)
	}
	//
	return false
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("dcp", false, "check for disciplined convex programs")
}
