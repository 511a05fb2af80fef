// Command vfs is the one-operation-per-invocation dispatcher for a
// virtual-filesystem image: it parses the argument vector, calls into the
// engine, and formats the result. It is deliberately the only layer that
// knows about human-readable output (spec §1's collaborators).
//
// Invocation syntax is IMAGE first, COMMAND second, per spec §6: `vfs
// <imagepath> <command> [operands...]`. Because the image path is a fixed
// positional argument shared by every command rather than a competing
// subcommand name, dispatch happens in the root app's Action instead of
// registering one cli.Command per operation.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/piolad/virtual-filesystem/engine"
	"github.com/piolad/virtual-filesystem/internal/presets"
)

// operation is one dispatch-table entry: its usage text for errors and the
// call that runs it. The operand-count check lives inside operate (see
// fixedOperands and runMkfs).
type operation struct {
	usage   string
	operate func(imagePath string, operands []string) error
}

var operations = map[string]operation{
	"mkfs": {"IMAGE mkfs (BYTES|PRESET)", runMkfs},
	"mkdir": {"IMAGE mkdir PATH", fixedOperands("IMAGE mkdir PATH", 1, func(image string, o []string) error {
		return engine.Mkdir(image, o[0])
	})},
	"rmdir": {"IMAGE rmdir PATH", fixedOperands("IMAGE rmdir PATH", 1, func(image string, o []string) error {
		return engine.Rmdir(image, o[0])
	})},
	"ls":   {"IMAGE ls PATH", fixedOperands("IMAGE ls PATH", 1, runLs)},
	"df":   {"IMAGE df", fixedOperands("IMAGE df", 0, runDf)},
	"lsdf": {"IMAGE lsdf PATH", fixedOperands("IMAGE lsdf PATH", 1, runLsdf)},
	"du":   {"IMAGE du PATH", fixedOperands("IMAGE du PATH", 1, runDu)},
	"crhl": {"IMAGE crhl SRC DST", fixedOperands("IMAGE crhl SRC DST", 2, func(image string, o []string) error {
		return engine.CreateHardLink(image, o[0], o[1])
	})},
	"rm": {"IMAGE rm PATH", fixedOperands("IMAGE rm PATH", 1, func(image string, o []string) error {
		return engine.Remove(image, o[0])
	})},
	"ext": {"IMAGE ext PATH N", fixedOperands("IMAGE ext PATH N", 2, runExt)},
	"red": {"IMAGE red PATH N", fixedOperands("IMAGE red PATH N", 2, runRed)},
	"ecpt": {"IMAGE ecpt HOST_PATH VFS_PATH", fixedOperands("IMAGE ecpt HOST_PATH VFS_PATH", 2, func(image string, o []string) error {
		return engine.ImportFromHost(image, o[0], o[1])
	})},
	"ecpf": {"IMAGE ecpf VFS_PATH HOST_PATH", fixedOperands("IMAGE ecpf VFS_PATH HOST_PATH", 2, func(image string, o []string) error {
		return engine.ExportToHost(image, o[0], o[1])
	})},
}

func main() {
	app := &cli.App{
		Name:      "vfs",
		Usage:     "inspect and modify a single-file UNIX-style disk image",
		ArgsUsage: "IMAGE COMMAND [operand...]",
		Action:    dispatch,
	}

	if err := app.Run(os.Args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stdout, usageErr.Error())
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "vfs: %s\n", err)
		os.Exit(2)
	}
}

// usageError marks an argument-parse failure, which spec §6 says gets its
// usage text on stdout and exit code 1 -- everything else is an engine
// error, printed to stderr with a nonzero exit.
type usageError struct{ message string }

func (e *usageError) Error() string { return e.message }

// dispatch reads IMAGE and COMMAND off the front of the argument vector and
// hands the rest to the matching operation, per spec §6's "first argument
// is the image path, second is the command, remaining are operands".
func dispatch(c *cli.Context) error {
	if c.NArg() < 2 {
		return &usageError{message: usageText()}
	}

	imagePath := c.Args().Get(0)
	command := c.Args().Get(1)
	operands := c.Args().Slice()[2:]

	op, known := operations[command]
	if !known {
		return &usageError{message: fmt.Sprintf("vfs: unknown command %q\n%s", command, usageText())}
	}
	return op.operate(imagePath, operands)
}

func usageText() string {
	var b strings.Builder
	b.WriteString("usage: vfs IMAGE COMMAND [operand...]\ncommands:\n")
	for _, name := range []string{"mkfs", "mkdir", "rmdir", "ls", "df", "lsdf", "du", "crhl", "rm", "ext", "red", "ecpt", "ecpf"} {
		fmt.Fprintf(&b, "  vfs %s\n", operations[name].usage)
	}
	return b.String()
}

// fixedOperands wraps run with an arity check, producing a usageError
// instead of an index-out-of-range panic when the operand count is wrong.
func fixedOperands(usage string, n int, run func(imagePath string, operands []string) error) func(string, []string) error {
	return func(imagePath string, operands []string) error {
		if len(operands) != n {
			return &usageError{message: "usage: vfs " + usage}
		}
		return run(imagePath, operands)
	}
}

func runMkfs(imagePath string, operands []string) error {
	if len(operands) != 1 {
		return &usageError{message: "usage: vfs IMAGE mkfs (BYTES|PRESET)"}
	}
	size, err := parseSize(operands[0])
	if err != nil {
		return err
	}
	return engine.Format(imagePath, size)
}

func parseSize(operand string) (uint64, error) {
	if n, err := strconv.ParseUint(operand, 10, 64); err == nil {
		return n, nil
	}
	if bytes, ok := presets.Resolve(operand); ok {
		return bytes, nil
	}
	return 0, &usageError{
		message: fmt.Sprintf(
			"%q is neither a byte count nor a known preset (%v)", operand, presets.Names()),
	}
}

func runLs(imagePath string, operands []string) error {
	result, err := engine.Ls(imagePath, operands[0])
	if err != nil {
		return err
	}
	printLs(operands[0], result)
	return nil
}

func printLs(path string, result engine.LsResult) {
	if !result.IsDir {
		fmt.Printf("%s  %d bytes\n", path, result.Size)
		return
	}
	for _, e := range result.Entries {
		kind := ""
		if e.IsDir {
			kind = "<DIR>"
		}
		fmt.Printf("%-30s %10d  %s\n", e.Name, e.Size, kind)
	}
}

func runDf(imagePath string, _ []string) error {
	result, err := engine.Df(imagePath)
	if err != nil {
		return err
	}
	fmt.Printf("blocks: %d total, %d free, %d used\n",
		result.TotalBlocks, result.FreeBlocks, result.UsedBlocks)
	fmt.Printf("inodes: %d total, %d free, %d used\n",
		result.TotalInodes, result.FreeInodes, result.UsedInodes)
	return nil
}

func runLsdf(imagePath string, operands []string) error {
	total, err := engine.Lsdf(imagePath, operands[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s  %d bytes\n", operands[0], total)
	return nil
}

func runDu(imagePath string, operands []string) error {
	entries, err := engine.Du(imagePath, operands[0])
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%10d  %s\n", e.Bytes, e.Path)
	}
	return nil
}

func runExt(imagePath string, operands []string) error {
	n, err := strconv.ParseUint(operands[1], 10, 32)
	if err != nil {
		return &usageError{message: "N must be a non-negative integer"}
	}
	return engine.Extend(imagePath, operands[0], uint32(n))
}

func runRed(imagePath string, operands []string) error {
	n, err := strconv.ParseUint(operands[1], 10, 32)
	if err != nil {
		return &usageError{message: "N must be a non-negative integer"}
	}
	return engine.Reduce(imagePath, operands[0], uint32(n))
}
