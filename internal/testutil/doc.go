// Package testutil provides shared setup for tests that need a real git
// repository.
//
// # Git Repositories
//
//	testutil.RequireGit(t)          // skip when git is missing
//	repo := testutil.GitRepo(t)     // repo with one commit
//	testutil.Git(t, repo, "branch", "feature")
//
// # Test Environment
//
// NewTestEnv chdirs into a fresh repository and builds an App on a
// temporary base directory. git runs for real while uv and claude go to a
// system.MockExecutor:
//
//	env := testutil.NewTestEnv(t)
//	ws := env.CreateWorkspace("Fix the login bug")
//	env.Executor.AddResponse("uv", []byte("uv 0.9.18"), nil)
//
// Pass env.AppOptions() to code that builds its own App.
package testutil
