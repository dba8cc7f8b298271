// Package config provides the settings for softwrap.
//
// Settings are resolved in layers, each overriding the one below:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by cmd)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← SOFTWRAP_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// A config file looks like:
//
//	[wrap]
//	width = 80
//	fold = true
//
//	[editor]
//	tab_size = 4
//
//	[logging]
//	level = "debug"
//	file = "/tmp/softwrap.log"
package config
