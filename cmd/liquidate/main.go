// Command liquidate generates a liquidation brief offline. It reads a brief
// request as JSON, runs the local heuristics, and prints canonical JSON, so
// recommendations can be produced and diffed without a running server.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erazemk/zapuscina/internal/liquidate"
	"github.com/erazemk/zapuscina/internal/model"
)

func main() {
	fs := flag.NewFlagSet("liquidate", flag.ContinueOnError)

	var planPath string
	fs.StringVar(&planPath, "path", "", "")
	fs.StringVar(&planPath, "p", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: liquidate [flags] [request.json]

Reads a liquidation brief request from the given file (or stdin when no file
is given), generates a brief with the local heuristics, and prints it as
canonical JSON.

Flags:
  -p, -path <path>   also generate a plan for the chosen path, one of:
                     pathA_maximizePrice, pathB_delegateConsign,
                     pathC_quickExit, donate
  -h, -help          show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(1))
		fs.Usage()
		os.Exit(1)
	}

	var chosen model.Path
	if planPath != "" {
		chosen = model.ParsePath(planPath)
		if chosen == model.PathUnknown {
			fmt.Fprintf(os.Stderr, "unknown path: %s\n", planPath)
			os.Exit(1)
		}
	}

	input := io.Reader(os.Stdin)
	if fs.NArg() == 1 && fs.Arg(0) != "-" {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		input = f
	}

	data, err := io.ReadAll(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading request: %v\n", err)
		os.Exit(1)
	}

	var req model.LiquidationBriefRequest
	if err := json.Unmarshal(data, &req); err != nil {
		fmt.Fprintf(os.Stderr, "error: decoding request: %v\n", err)
		os.Exit(1)
	}

	brief := liquidate.GenerateBrief(req)

	var output any = brief
	if chosen != model.PathUnknown {
		plan := liquidate.GeneratePlan(model.LiquidationPlanRequest{
			SchemaVersion: model.LiquidationSchemaVersion,
			Scope:         brief.Scope,
			ChosenPath:    chosen,
			Brief:         *brief,
			Title:         req.Title,
			Category:      req.Category,
		})
		output = map[string]any{"brief": brief, "plan": plan}
	}

	if err := printCanonical(output); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// printCanonical writes v to stdout as indented JSON with stable key order.
func printCanonical(v any) error {
	raw, err := model.CanonicalJSON(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = io.Copy(os.Stdout, &buf)
	return err
}
