package tdb

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"go.trai.ch/zerr"
)

const (
	directiveLiteralPrefix = "tdb:literal:"
	directiveTarget        = "tdb:target"
	directivePrereq        = "tdb:prereq"
	directivePrereqs       = "tdb:prereqs"
	directivePrefix        = "tdb:"
)

// rewriteArgs applies the command-argument rewriting rules to args,
// splicing tdb:prereqs into multiple output arguments.
func rewriteArgs(args []string, target Name, prereqs []Name) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, directiveLiteralPrefix):
			out = append(out, strings.TrimPrefix(a, directiveLiteralPrefix))
		case a == directiveTarget:
			out = append(out, target.String())
		case a == directivePrereq:
			if len(prereqs) == 0 {
				return nil, zerr.With(zerr.Wrap(ErrCommandRewrite, "target has no prerequisites"), "directive", a)
			}
			out = append(out, prereqs[0].String())
		case a == directivePrereqs:
			for _, p := range prereqs {
				out = append(out, p.String())
			}
		case strings.HasPrefix(a, directivePrefix):
			return nil, zerr.With(zerr.Wrap(ErrCommandRewrite, "unknown directive"), "directive", a)
		default:
			out = append(out, a)
		}
	}
	return out, nil
}

// resolveCallable chooses between a rule's inline build callable and the
// callable synthesized from its command vector. Returns nil, nil when the
// rule has neither — the Resolver treats that as "no build step; just
// verify what exists".
func resolveCallable(rule Rule) (BuildFunc, error) {
	hasInvoke := rule.Invoke != nil
	hasCommand := len(rule.Command) > 0

	switch {
	case hasInvoke && hasCommand:
		return nil, ErrConfiguration
	case hasInvoke:
		return rule.Invoke, nil
	case hasCommand:
		command := rule.Command
		return func(ctx context.Context, bc *BuildContext) error {
			return runCommand(ctx, bc, command)
		}, nil
	default:
		return nil, nil
	}
}

func runCommand(ctx context.Context, bc *BuildContext, command []string) error {
	rewritten, err := rewriteArgs(command, bc.Target, bc.Prereqs)
	if err != nil {
		return err
	}
	if len(rewritten) == 0 {
		return zerr.New("command vector rewrote to zero arguments")
	}

	cmd := exec.CommandContext(ctx, rewritten[0], rewritten[1:]...)
	cmd.Stdout = &logWriter{logger: bc.Logger, level: logLevelInfo}
	cmd.Stderr = &logWriter{logger: bc.Logger, level: logLevelError}

	if err := cmd.Run(); err != nil {
		wrapped := zerr.Wrap(ErrCommandExecution, err.Error())
		if exitErr, ok := err.(*exec.ExitError); ok {
			wrapped = zerr.With(wrapped, "exit_code", exitErr.ExitCode())
		}
		return zerr.With(wrapped, "command", strings.Join(rewritten, " "))
	}
	return nil
}

// resolveTransformer returns rule's wrapper transformer, or the identity
// transformer if none is set.
func resolveTransformer(rule Rule) Transformer {
	if rule.Transform != nil {
		return rule.Transform
	}
	return func(f BuildFunc) BuildFunc { return f }
}

type logLevel int

const (
	logLevelInfo logLevel = iota
	logLevelError
)

// logWriter adapts a Logger into an io.Writer for piping a spawned
// process's stdout/stderr, splitting on lines so each gets its own
// log call. A trailing partial line is held until its newline arrives.
type logWriter struct {
	logger Logger
	level  logLevel
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSuffix(string(w.buf.Next(i + 1)[:i]), "\r")
		switch w.level {
		case logLevelError:
			w.logger.Error(line)
		default:
			w.logger.Log(line)
		}
	}
	return len(p), nil
}
