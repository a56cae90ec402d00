// Package impact propagates a textual diff through the dependency
// graph to estimate blast radius and metric regressions.
package impact

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc"

	"github.com/ferrith/augur/pkg/facts"
	"github.com/ferrith/augur/pkg/report"
	"github.com/ferrith/augur/pkg/source"
)

// Analyzer runs diff impact analysis against two content sources.
type Analyzer struct {
	includeTests      bool
	minImprovementPct float64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithIncludeTests includes test files in both snapshots.
func WithIncludeTests() Option {
	return func(a *Analyzer) { a.includeTests = true }
}

// WithMinImprovementThreshold sets the minimum percentage change for a
// measured metric delta to count toward the improvement tally.
func WithMinImprovementThreshold(pct float64) Option {
	return func(a *Analyzer) { a.minImprovementPct = pct }
}

// New creates an impact analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{minImprovementPct: 5.0}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze resolves the parsed diff against the two content sources,
// builds the before and after snapshots concurrently and compares
// them. before holds the pre-change file content (typically a git
// tree), after the post-change content (typically the working tree);
// afterFiles is the full post-change corpus used for the dependency
// graph. A nil before source marks every before version unavailable.
func (a *Analyzer) Analyze(ctx context.Context, parsed *ParsedDiff, before, after source.ContentSource, afterFiles []string) (*Analysis, error) {
	changedAfter, changedBefore, origOf, diags := resolve(parsed)

	var (
		afterSnap   Snapshot
		afterErr    error
		beforeSnap  Snapshot
		unavailable map[string]bool
	)

	// The two snapshots are independent computations.
	var wg conc.WaitGroup
	wg.Go(func() {
		afterSnap, afterErr = buildSnapshot(ctx, after, afterFiles, a.includeTests)
	})
	wg.Go(func() {
		if before == nil {
			unavailable = allUnavailable(changedBefore)
			beforeSnap = Snapshot{Report: report.Build(nil, nil)}
			return
		}
		beforeSnap, unavailable = buildBefore(ctx, before, changedBefore, a.includeTests)
	})
	wg.Wait()

	if afterErr != nil {
		return nil, afterErr
	}

	changed, notMeasured := changedClasses(afterSnap, beforeSnap, changedAfter, changedBefore, origOf, unavailable)

	result := Compare(beforeSnap, afterSnap, changed, notMeasured, a.minImprovementPct)
	result.Diagnostics = append(result.Diagnostics, diags...)
	result.Diagnostics = append(result.Diagnostics, afterSnap.Report.Diagnostics...)
	return result, nil
}

// resolve splits the diff into the after-side and before-side path
// sets and records, per after path, where its before version lives
// (the original path for renames, the same path otherwise; absent for
// pure additions). Changes with no usable path are dropped with a
// diagnostic, never fatally.
func resolve(parsed *ParsedDiff) (afterPaths, beforePaths []string, origOf map[string]string, diags []report.Diagnostic) {
	origOf = make(map[string]string)
	for _, fc := range parsed.Files {
		switch fc.Kind {
		case ChangeAdded:
			afterPaths = append(afterPaths, fc.NewPath)
		case ChangeDeleted:
			beforePaths = append(beforePaths, fc.OrigPath)
		case ChangeModified, ChangeRenamed:
			afterPaths = append(afterPaths, fc.NewPath)
			beforePaths = append(beforePaths, fc.OrigPath)
			origOf[fc.NewPath] = fc.OrigPath
		default:
			diags = append(diags, report.Diagnostic{
				Kind:    report.DiagUnresolvedPath,
				Path:    fc.NewPath,
				Message: fmt.Sprintf("unrecognized change kind %q", fc.Kind),
			})
		}
	}
	return afterPaths, beforePaths, origOf, diags
}

// buildSnapshot extracts facts for every listed file from src and runs
// the full analysis. Per-file parse failures become diagnostics;
// unreadable files are skipped the same way.
func buildSnapshot(ctx context.Context, src source.ContentSource, files []string, includeTests bool) (Snapshot, error) {
	extractor := newExtractor(includeTests)
	defer extractor.Close()

	var (
		classes []facts.ClassFact
		diags   []report.Diagnostic
	)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}
		content, err := src.Read(path)
		if err != nil {
			diags = append(diags, report.Diagnostic{
				Kind:    report.DiagUnresolvedPath,
				Path:    path,
				Message: err.Error(),
			})
			continue
		}
		found, err := extractor.Extract(content, path)
		if err != nil {
			diags = append(diags, report.Diagnostic{
				Kind:    report.DiagParseFailure,
				Path:    path,
				Message: err.Error(),
			})
			continue
		}
		classes = append(classes, found...)
	}
	return Snapshot{Classes: classes, Report: report.Build(classes, diags)}, nil
}

// buildBefore extracts only the changed paths from the before source.
// Paths the source cannot provide are marked unavailable so their
// classes are excluded from measurement instead of compared against
// zero.
func buildBefore(ctx context.Context, src source.ContentSource, paths []string, includeTests bool) (Snapshot, map[string]bool) {
	extractor := newExtractor(includeTests)
	defer extractor.Close()

	unavailable := make(map[string]bool)
	var classes []facts.ClassFact
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		content, err := src.Read(path)
		if err != nil {
			unavailable[path] = true
			continue
		}
		found, err := extractor.Extract(content, path)
		if err != nil {
			unavailable[path] = true
			continue
		}
		classes = append(classes, found...)
	}
	return Snapshot{Classes: classes, Report: report.Build(classes, nil)}, unavailable
}

func newExtractor(includeTests bool) *facts.Extractor {
	if includeTests {
		return facts.New(facts.WithIncludeTestFiles())
	}
	return facts.New()
}

func allUnavailable(paths []string) map[string]bool {
	m := make(map[string]bool, len(paths))
	for _, p := range paths {
		m[p] = true
	}
	return m
}

// changedClasses derives the directly changed class set from both
// snapshots. After-side classes come from changed after paths;
// before-side classes of deleted files are included so removals show
// up as direct impact. notMeasured collects changed after-side classes
// whose before version could not be retrieved: pure additions, and
// files the before source failed to provide.
func changedClasses(after, before Snapshot, afterPaths, beforePaths []string, origOf map[string]string, unavailable map[string]bool) (changed, notMeasured []string) {
	afterSet := make(map[string]bool, len(afterPaths))
	for _, p := range afterPaths {
		afterSet[p] = true
	}
	beforeSet := make(map[string]bool, len(beforePaths))
	for _, p := range beforePaths {
		beforeSet[p] = true
	}

	seen := make(map[string]bool)
	for _, c := range after.Classes {
		if !afterSet[c.File] || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		changed = append(changed, c.Name)
		orig, hasBefore := origOf[c.File]
		if !hasBefore || unavailable[orig] {
			notMeasured = append(notMeasured, c.Name)
		}
	}
	// Classes that existed only before the change.
	for _, c := range before.Classes {
		if beforeSet[c.File] && !seen[c.Name] {
			seen[c.Name] = true
			changed = append(changed, c.Name)
		}
	}
	sort.Strings(changed)
	sort.Strings(notMeasured)
	return changed, notMeasured
}
