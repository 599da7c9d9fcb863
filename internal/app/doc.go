// Package app provides the application context for agentspaces.
//
// App wires the storage resolver, git adapter, environment provisioner,
// audit log, workspace service and agent launcher together. Commands
// receive it through the command context:
//
//	a := app.New(app.WithBase(baseDir))
//	cmd.SetContext(app.NewContext(ctx, a))
//
//	// later, in a subcommand
//	a := app.FromContext(cmd.Context())
//
// Tests inject a mock executor and a temporary base:
//
//	a := app.New(
//	    app.WithBase(t.TempDir()),
//	    app.WithExecutor(system.NewMockExecutor()),
//	)
package app
