// Package generator runs scaffolding as an ordered pipeline of steps that can
// either write files or only preview them.
//
// # Pipelines
//
// A pipeline is built once, executed once and committed once:
//
//	p, err := generator.NewBuilder().
//	    WithDir(dir).
//	    DryRun(dryRun).
//	    WithGate(&generator.ConflictGate{Detector: d, Dir: dir}).
//	    WithSteps(steps...).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	if err := p.Execute(ctx); err != nil {
//	    return err
//	}
//	return p.Commit()
//
// Execute runs the gate and then every enabled step in order. The first
// error stops the run and nothing is rolled back. Commit prints the preview
// tree in a dry run.
//
// # Steps
//
// Steps describe their output twice: as preview tree entries (Env.Tree) and
// as Operations handed to Env.Apply. Apply validates every operation before
// executing any of them and does nothing at all in a dry run, so a dry run
// exercises the same code path as a real one.
//
// # Conflicts
//
// Detector looks for files a run would overwrite and asks before continuing.
// Declining yields a *ConflictError. Declining the single overwrite-mode
// confirmation yields ErrUserAborted.
//
// # Templates
//
// Renderer parses text/template files (usually from an embed.FS) once and
// caches them. The quote and tomlArray helpers are available in every
// template.
package generator
