package tdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// BuildParameters is the parsed form of a command-line invocation.
type BuildParameters struct {
	Targets         []string
	Help            bool
	ListTargets     bool
	DescribeTargets bool
	Verbosity       int
	Mode            Mode
	ModeSet         bool
}

// ParseCommandLineArgs parses an order-independent flag vector into
// BuildParameters. It is deliberately dependency-free so that any consumer
// of this package can reuse it without pulling in a flag-parsing library.
func (c *Coordinator) ParseCommandLineArgs(argv []string) (*BuildParameters, error) {
	params := &BuildParameters{Verbosity: VerbosityWarnings}

	for _, a := range argv {
		switch {
		case a == "--help":
			params.Help = true
		case a == "--list-targets":
			params.ListTargets = true
		case a == "--describe-targets":
			params.DescribeTargets = true
		case a == "-v":
			params.Verbosity = VerbosityInfo
		case a == "-q":
			params.Verbosity = VerbosityErrors
		case strings.HasPrefix(a, "--verbosity="):
			n, err := strconv.Atoi(strings.TrimPrefix(a, "--verbosity="))
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "invalid --verbosity value"), "argument", a)
			}
			params.Verbosity = n
		case a == "--serial":
			params.Mode = Serial
			params.ModeSet = true
		case a == "--parallel":
			params.Mode = Parallel
			params.ModeSet = true
		case strings.HasPrefix(a, "-"):
			return nil, zerr.With(zerr.New("unrecognized argument"), "argument", a)
		default:
			params.Targets = append(params.Targets, normalizeTargetName(a))
		}
	}

	return params, nil
}

// normalizeTargetName converts backslashes to forward slashes, so target
// names survive shell tab-completion on Windows.
func normalizeTargetName(s string) string {
	return strings.ReplaceAll(s, "\\", "/")
}

// Run executes one parsed command-line invocation: help/listing requests
// short-circuit; otherwise it builds the requested (or default) targets.
func (c *Coordinator) Run(ctx context.Context, params *BuildParameters) error {
	if params.Help {
		fmt.Fprint(c.stdout, c.usage())
		return nil
	}
	if params.ListTargets {
		return c.listTargets(ctx)
	}
	if params.DescribeTargets {
		return c.describeTargets(ctx)
	}

	c.logger = LevelFilter(c.logger, params.Verbosity)

	mode := c.mode
	if params.ModeSet {
		if c.mode == Serial && params.Mode == Parallel {
			c.logger.Warn("builder is configured for serial execution; ignoring --parallel override")
		} else {
			mode = params.Mode
		}
	}

	targets := params.Targets
	if len(targets) == 0 {
		targets = c.defaultTargets
		if len(targets) == 0 {
			c.logger.Warn("no targets specified and no defaults configured")
			return nil
		}
	}

	_, err := c.BuildAll(withMode(ctx, mode), targets, nil)
	return err
}

// ProcessCommandLine parses and runs argv, always joining outstanding work
// before returning, and maps the outcome to a process exit code.
func (c *Coordinator) ProcessCommandLine(ctx context.Context, argv []string) int {
	params, err := c.ParseCommandLineArgs(argv)
	if err != nil {
		fmt.Fprintf(c.stderr, "%+v\n", err)
		return 1
	}

	runErr := c.Run(ctx, params)
	joinErr := c.Join()

	if runErr != nil {
		fmt.Fprintf(c.stderr, "%+v\n", runErr)
		return 1
	}
	if joinErr != nil {
		fmt.Fprintf(c.stderr, "%+v\n", joinErr)
		return 1
	}
	return 0
}

func (c *Coordinator) usage() string {
	name := c.scriptName
	if name == "" {
		name = "tdb"
	}
	return fmt.Sprintf(`usage: %s [options] [target...]

  --help               print this message and exit
  --list-targets       print one target name per line
  --describe-targets   print each target name with its description
  -v                   verbosity: info
  -q                   verbosity: errors
  --verbosity=<N>      explicit numeric verbosity (silent=0, errors=50, warnings=100, info=200, debug=300)
  --serial             force serial execution
  --parallel           allow parallel execution (ignored if the builder is serial-locked)
`, name)
}

func (c *Coordinator) listTargets(ctx context.Context) error {
	_, order, err := c.registry.Materialize(ctx)
	if err != nil {
		return err
	}
	for _, name := range order {
		fmt.Fprintln(c.stdout, name)
	}
	return nil
}

func (c *Coordinator) describeTargets(ctx context.Context) error {
	rules, order, err := c.registry.Materialize(ctx)
	if err != nil {
		return err
	}

	width := 0
	for _, name := range order {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range order {
		lines := strings.Split(rules[name].Description, "\n")
		fmt.Fprintf(c.stdout, "%-*s  %s\n", width, name, lines[0])
		pad := strings.Repeat(" ", width)
		for _, extra := range lines[1:] {
			fmt.Fprintf(c.stdout, "%s  %s\n", pad, extra)
		}
	}

	if len(c.defaultTargets) > 0 {
		fmt.Fprintf(c.stdout, "\ndefault targets: %s\n", strings.Join(c.defaultTargets, " "))
	}
	return nil
}
