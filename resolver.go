package tdb

import (
	"context"
	"os"

	"github.com/google/uuid"
	"go.trai.ch/zerr"
)

// dedup removes duplicate names, keeping first-occurrence order.
func dedup(names []Name) []Name {
	seen := make(map[string]bool, len(names))
	out := make([]Name, 0, len(names))
	for _, n := range names {
		k := n.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, n)
	}
	return out
}

func composePrereqs(rule Rule, global []string) ([]Name, error) {
	var names []Name
	if rule.Prereqs != nil {
		explicit, err := rule.Prereqs()
		if err != nil {
			return nil, err
		}
		names = append(names, explicit...)
	}
	for _, g := range global {
		names = append(names, NewName(g))
	}
	return dedup(names), nil
}

// resolveTarget is the Target Resolver: for one rule bound to one target,
// it gathers prerequisites, recursively drives their builds, compares
// mtimes, decides run-or-skip, invokes the rule, verifies and
// post-processes the artifact.
func (c *Coordinator) resolveTarget(ctx context.Context, name Name, rule Rule, trace Trace) (Result, error) {
	ruleType := rule.Type.orDefault()
	trace2 := append(trace.clone(), name.String())

	prereqNames, err := composePrereqs(rule, c.globalPrereqs)
	if err != nil {
		return Result{}, traced(err, trace2)
	}

	var current float64
	if ruleType == TypePhony {
		current = NegInf
	} else {
		current, err = c.oracle.Mtime(name.String(), NotFoundValue(NegInf), PosInf)
		if err != nil {
			return Result{}, traced(err, trace2)
		}
	}

	latest, err := c.buildAllInternal(ctx, prereqNames, trace2, c.modeFor(ctx))
	if err != nil {
		return Result{}, err
	}

	if current != NegInf && latest.Mtime <= current {
		c.logger.Log("up to date", "target", name.String())
		return Result{Mtime: current}, nil
	}

	callable, err := resolveCallable(rule)
	if err != nil {
		return Result{}, traced(zerr.With(zerr.Wrap(err, "invalid rule"), "target", name.String()), trace2)
	}
	transformer := resolveTransformer(rule)

	bc := &BuildContext{
		Coordinator: c,
		Logger:      c.logger,
		Prereqs:     prereqNames,
		Target:      name,
		Trace:       trace2,
	}

	inner := func(ctx context.Context, bc *BuildContext) error {
		if callable != nil {
			if err := callable(ctx, bc); err != nil {
				return err
			}
		} else {
			c.logger.Log("no rule; assumed up to date", "target", name.String())
		}
		if err := verifyArtifact(ruleType, name.String()); err != nil {
			return err
		}
		return postProcess(ruleType, name.String())
	}

	if err := transformer(inner)(ctx, bc); err != nil {
		applyFailurePolicy(ruleType, rule.KeepOnFailure, name.String())
		return Result{}, traced(zerr.With(zerr.Wrap(err, "build callable failed"), "target", name.String()), trace2)
	}

	var newMtime float64
	if ruleType == TypePhony {
		newMtime = PosInf
	} else {
		newMtime, err = c.oracle.Mtime(name.String(), NotFoundValue(NegInf), PosInf)
		if err != nil {
			return Result{}, traced(err, trace2)
		}
	}
	return Result{Mtime: newMtime}, nil
}

func verifyArtifact(t Type, path string) error {
	switch t {
	case TypeFile:
		info, err := os.Stat(path)
		if err != nil {
			return zerr.With(zerr.Wrap(ErrArtifactShape, "missing file after build"), "path", path)
		}
		if !info.Mode().IsRegular() {
			return zerr.With(zerr.Wrap(ErrArtifactShape, "expected regular file"), "path", path)
		}
	case TypeDirectory:
		info, err := os.Stat(path)
		if err != nil {
			return zerr.With(zerr.Wrap(ErrArtifactShape, "missing directory after build"), "path", path)
		}
		if !info.IsDir() {
			return zerr.With(zerr.Wrap(ErrArtifactShape, "expected directory"), "path", path)
		}
	}
	return nil
}

// postProcess refreshes a directory target's mtime by creating and
// immediately removing a short-lived placeholder file inside it, since
// some filesystems don't update a directory's own mtime when only a
// nested file changes.
func postProcess(t Type, path string) error {
	if t != TypeDirectory {
		return nil
	}
	placeholder := path + "/." + uuid.NewString() + ".tdb-touch"
	f, err := os.Create(placeholder)
	if err != nil {
		return zerr.Wrap(err, "failed to refresh directory mtime")
	}
	if err := f.Close(); err != nil {
		return zerr.Wrap(err, "failed to refresh directory mtime")
	}
	if err := os.Remove(placeholder); err != nil {
		return zerr.Wrap(err, "failed to remove directory mtime placeholder")
	}
	return nil
}

// applyFailurePolicy deletes a partial artifact after a failed build,
// unless the rule's keep-on-failure policy (explicit or default) says to
// keep it. Phony targets have no filesystem artifact and are left alone.
func applyFailurePolicy(t Type, keepOnFailure *bool, path string) {
	if t == TypePhony {
		return
	}
	keep := t != TypeFile
	if keepOnFailure != nil {
		keep = *keepOnFailure
	}
	if keep {
		return
	}
	_ = os.RemoveAll(path)
}
