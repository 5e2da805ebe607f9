// SPDX-License-Identifier: MPL-2.0

// Package loader turns a launcher description into a ready-to-run launcher.
//
// A description names the launcher type, its configuration, a software-level
// environment layer and optional per-addon environment layers:
//
//	{
//	  "launcherType": "bin",
//	  "config": {"executable": "/usr/bin/foo", "args": ["-v"]},
//	  "env": {
//	    "prepend":  {"PYTHONPATH": ["$ROOT/python"]},
//	    "append":   {"PATH": "$ROOT/bin"},
//	    "override": {"MODE": "batch"},
//	    "unset":    ["DEBUG"]
//	  },
//	  "addons": {
//	    "gpu": {"env": {"prepend": {"LD_LIBRARY_PATH": ["/opt/cuda/lib"]}}}
//	  }
//	}
//
// Descriptions can be written as JSON, TOML or CUE. Loader.Compose stacks the base
// environment, the software layer and the layers of every enabled addon (in
// addon name order) into one envmod.Modifier.
package loader
