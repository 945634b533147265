package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"

	xgrid "github.com/KhanumRabiah/rstdoc-xgrid-workflow"
)

const defaultWidth = 80

func init() {
	version.SetDefaultModule("github.com/KhanumRabiah/rstdoc-xgrid-workflow")
}

func main() {
	var (
		widthFlag  int
		fitFlag    bool
		inPlace    bool
		toList     bool
		toGrid     bool
		untable    bool
		padFlag    int
		minColFlag int
		configPath string
	)

	flags := pflag.NewFlagSet("xgrid", pflag.ExitOnError)
	flags.IntVarP(&widthFlag, "width", "w", 0, "Fixed target width (0 keeps natural table widths)")
	flags.BoolVar(&fitFlag, "fit", false, "Use the terminal width as target width")
	flags.BoolVarP(&inPlace, "in-place", "i", false, "Rewrite files instead of writing to stdout")
	flags.BoolVar(&toList, "list", false, "Convert grid tables to list tables")
	flags.BoolVar(&toGrid, "grid", false, "Convert list tables to grid tables")
	flags.BoolVar(&untable, "untable", false, "Fold trivial single-column tables into paragraphs")
	flags.IntVar(&padFlag, "pad", 0, "Cell padding inside each border (default 1)")
	flags.IntVar(&minColFlag, "min-col", 0, "Minimum column width under a fixed target width")
	flags.StringVar(&configPath, "config", "", "Config file (default: nearest "+xgrid.ConfigFileName+")")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: xgrid [flags] [paths...]\n")
		fmt.Fprintln(os.Stderr, "\nPaths may be .rst files or directories (walked recursively).")
		fmt.Fprintln(os.Stderr, "If no path is provided, input is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if toList && toGrid {
		fmt.Fprintln(os.Stderr, "--list and --grid are mutually exclusive")
		os.Exit(2)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	width := resolveWidth(widthFlag, fitFlag, cfg)

	req := xgrid.ReflowRequest{
		Width:   width,
		ToList:  toList,
		ToGrid:  toGrid,
		Untable: untable,
		Render:  renderOptions(padFlag, minColFlag, cfg),
	}

	paths, err := collectFiles(flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	failed := false
	if len(paths) == 0 {
		if inPlace {
			fmt.Fprintln(os.Stderr, "--in-place requires file arguments")
			os.Exit(2)
		}
		req.Reader = os.Stdin
		req.Writer = os.Stdout
		rep, err := xgrid.Reflow(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "stdin: %v\n", err)
			os.Exit(1)
		}
		failed = reportFailures("stdin", rep)
	} else {
		for _, path := range paths {
			if processFile(path, req, inPlace) {
				failed = true
			}
		}
	}
	if failed {
		os.Exit(1)
	}
}

func loadConfig(explicit string) (*xgrid.FileConfig, error) {
	if explicit != "" {
		return xgrid.LoadConfig(explicit)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, nil
	}
	if path, ok := xgrid.FindConfig(wd); ok {
		return xgrid.LoadConfig(path)
	}
	return nil, nil
}

func resolveWidth(flag int, fit bool, cfg *xgrid.FileConfig) int {
	if flag > 0 {
		return flag
	}
	if fit {
		return terminalWidth(defaultWidth)
	}
	if cfg != nil && cfg.Width > 0 {
		return cfg.Width
	}
	return 0
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func renderOptions(pad, minCol int, cfg *xgrid.FileConfig) []xgrid.RenderOption {
	opts := cfg.RenderOptions()
	if pad > 0 {
		opts = append(opts, xgrid.WithPadding(pad))
	}
	if minCol > 0 {
		opts = append(opts, xgrid.WithMinColumnWidth(minCol))
	}
	return opts
}

func collectFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".rst") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// processFile reflows one file and reports whether any block failed.
func processFile(path string, req xgrid.ReflowRequest, inPlace bool) bool {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return true
	}
	var buf bytes.Buffer
	req.Reader = f
	if inPlace {
		req.Writer = &buf
	} else {
		req.Writer = os.Stdout
	}
	rep, err := xgrid.Reflow(req)
	_ = f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return true
	}
	failed := reportFailures(path, rep)
	if inPlace {
		if err := writeFile(path, buf.Bytes()); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			return true
		}
	}
	return failed
}

// reportFailures prints one diagnostic per failed block and reports whether
// there were any. Succeeded blocks are already written out.
func reportFailures(name string, rep *xgrid.Report) bool {
	for _, f := range rep.Failed {
		fmt.Fprintf(os.Stderr, "%s:%d: %v\n", name, f.Line, f.Err)
	}
	return len(rep.Failed) > 0
}

func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, info.Mode().Perm())
}

func atoi(value string) (int, error) {
	var n int
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, fmt.Errorf("invalid int")
		}
		n = n*10 + int(value[i]-'0')
	}
	return n, nil
}
