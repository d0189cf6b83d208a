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
	"strconv"

	"github.com/consensys/go-dgp/pkg/expr"
	"github.com/consensys/go-dgp/pkg/problem"
	"github.com/consensys/go-dgp/pkg/reduction"
	"github.com/consensys/go-dgp/pkg/reduction/gp2dcp"
	"github.com/consensys/go-dgp/pkg/solver"
	"github.com/consensys/go-dgp/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve [flags] problem_file",
	Short: "Solve a geometric (or convex) program.",
	Long: `Solve a disciplined geometric program by reducing it to a disciplined
convex program, solving that and mapping the solution back.  With --dcp, the
problem is solved directly as a disciplined convex program.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		cfg := solver.DefaultConfig()
		cfg.Tolerance = GetFloat(cmd, "tolerance")
		cfg.MaxIterations = GetUint(cmd, "max-iter")
		//
		p := readProblemFile(args[0])
		//
		sol, err := solveProblem(p, solver.New(cfg), GetFlag(cmd, "dcp"), GetFlag(cmd, "stats"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		fmt.Printf("status: %s\n", sol.Status)
		fmt.Printf("value: %s\n", strconv.FormatFloat(sol.OptVal, 'g', -1, 64))
		//
		if sol.Status.SolutionPresent() {
			printSolution(p, sol)
		}
	},
}

// Solve a problem, either directly as a convex program or by first reducing it
// from a geometric program.  In both cases, any max atoms are replaced by their
// epigraph before solving.
func solveProblem(p *problem.Problem, s *solver.Solver, direct bool, stats bool) (*problem.Solution, error) {
	var (
		perf  = util.NewPerfStats()
		chain *reduction.Chain
	)
	//
	if direct {
		chain = reduction.NewChain(reduction.NewEpigraph())
	} else {
		chain = reduction.NewChain(gp2dcp.New(), reduction.NewEpigraph())
	}
	//
	q, data, err := chain.Apply(p)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("%s produced:\n%s", chain.Name(), q)
	//
	sol, err := s.Solve(q)
	if err != nil {
		return nil, err
	}
	//
	if sol, err = chain.Invert(sol, data); err != nil {
		return nil, err
	}
	//
	if stats {
		perf.Log("Solving")
	}
	//
	return sol, nil
}

// Print the value of every variable in the original problem.
func printSolution(p *problem.Problem, sol *problem.Solution) {
	vars := p.Variables()
	table := util.NewTablePrinter(2, uint(len(vars)))
	//
	for i, v := range vars {
		table.SetRow(uint(i), v.Name(), formatValue(sol.PrimalVars[v.ID()]))
	}
	//
	table.FitTerminal()
	table.Print()
}

// Format the value of a variable, or "-" if none was reported.
func formatValue(val *mat.Dense) string {
	if val == nil {
		return "-"
	}
	//
	return expr.NewConstant(val).Lisp().String()
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().Bool("dcp", false, "solve as a disciplined convex program")
	solveCmd.Flags().Float64("tolerance", solver.DefaultConfig().Tolerance, "constraint violation tolerance")
	solveCmd.Flags().Uint("max-iter", solver.DefaultConfig().MaxIterations, "maximum number of solver iterations")
}
