// Package configs provides embedded configuration templates for codecat.
//
// How Configuration Templates Work:
//
// Templates are embedded at build time using Go's //go:embed directive.
// This ensures they are available in ALL distributions:
//   - Source builds (go install)
//   - Binary releases
//   - Homebrew installations
//
// The templates are used by:
//   - cmd/codecat/cmd/config.go → `codecat config init` creates .codecat.yaml
//   - cmd/codecat/cmd/config.go → `codecat config init --user` creates
//     the user config at ~/.config/codecat/config.yaml
//
// Template files:
//   - project-config.example.yaml: Project-specific settings (output, ignore, limits)
//   - user-config.example.yaml: Machine-specific settings (ui, logging)
//
// Configuration Hierarchy (see internal/config/config.go Load()):
//  1. Hardcoded defaults (internal/config/config.go NewConfig())
//  2. User config (~/.config/codecat/config.yaml)
//  3. Project config (.codecat.yaml)
//  4. Environment variables (CODECAT_*)
//
// To modify templates, edit the .yaml files in this directory and rebuild.
// Changes will be embedded in the next build.
package configs

import _ "embed"

// UserConfigTemplate is the template for user/machine-level configuration.
// Created by: `codecat config init --user` at ~/.config/codecat/config.yaml
// Contains: Machine-specific settings like the progress renderer and log level.
// Use case: Settings that apply to all projects on this machine.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is the template for project-level configuration.
// Created by: `codecat config init` at .codecat.yaml in the project root
// Contains: Project-specific settings like the output path and extra ignore rules.
// Use case: Settings that are version-controlled with the project.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
