// Package config manages the global agentspaces configuration.
//
// The configuration lives in <base>/config.json:
//
//	{
//	  // Launch agents in plan mode unless --no-plan-mode is given.
//	  "version": "1",
//	  "plan_mode_by_default": false
//	}
//
// Comments and trailing commas are accepted when reading. A missing or
// unreadable file is not an error: Load falls back to Default. Save always
// writes plain JSON through an atomic rename.
//
// Keys can be read and written by name, which backs the config get and
// config set commands:
//
//	cfg, err := config.Load(path).Set("plan_mode_by_default", "true")
//	if err == nil {
//	    err = config.Save(cfg, path)
//	}
package config
