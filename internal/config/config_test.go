package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	// Given: no configuration file exists
	cfg := NewConfig()

	// Then: all defaults should be applied
	require.NotNil(t, cfg)

	// Output defaults
	assert.Equal(t, "", cfg.Output.Path) // derived from root basename at run time

	// Ignore defaults
	assert.Empty(t, cfg.Ignore.Patterns)
	assert.Empty(t, cfg.Ignore.Files)
	assert.False(t, cfg.Ignore.DisableGitignore)

	// Limits defaults
	assert.Equal(t, int64(10*1024*1024), cfg.Limits.MaxFileSize)

	// UI defaults
	assert.False(t, cfg.UI.NoTUI)
	assert.False(t, cfg.UI.NoColor)

	// Logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "", cfg.Logging.File) // resolved by the logging package
}

func TestConfig_VersionDefaultsToOne(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 1, cfg.Version)
}

// =============================================================================
// Configuration File Loading Tests
// =============================================================================

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	// Given: a directory with no .codecat.yaml
	tmpDir := t.TempDir()

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: defaults are returned without error
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, int64(10*1024*1024), cfg.Limits.MaxFileSize)
}

func TestLoad_YamlFile_OverridesDefaults(t *testing.T) {
	// Given: a directory with .codecat.yaml
	tmpDir := t.TempDir()
	configContent := `
version: 1
output:
  path: combined.md
ignore:
  patterns:
    - "*.tmp"
    - "secrets/"
limits:
  max_file_size: 1048576
logging:
  level: debug
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codecat.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: all overrides are applied
	require.NoError(t, err)
	assert.Equal(t, "combined.md", cfg.Output.Path)
	assert.Equal(t, []string{"*.tmp", "secrets/"}, cfg.Ignore.Patterns)
	assert.Equal(t, int64(1048576), cfg.Limits.MaxFileSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_YmlExtension_IsRecognized(t *testing.T) {
	// Given: a directory with .codecat.yml (alternative extension)
	tmpDir := t.TempDir()
	configContent := `
version: 1
output:
  path: from-yml.md
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codecat.yml"), []byte(configContent), 0o644)
	require.NoError(t, err)

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: .yml file is recognized
	require.NoError(t, err)
	assert.Equal(t, "from-yml.md", cfg.Output.Path)
}

func TestLoad_YamlPreferredOverYml(t *testing.T) {
	// Given: both .yaml and .yml exist
	tmpDir := t.TempDir()
	yamlContent := `
version: 1
output:
  path: from-yaml.md
`
	ymlContent := `
version: 1
output:
  path: from-yml.md
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codecat.yaml"), []byte(yamlContent), 0o644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(tmpDir, ".codecat.yml"), []byte(ymlContent), 0o644)
	require.NoError(t, err)

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: .yaml takes precedence
	require.NoError(t, err)
	assert.Equal(t, "from-yaml.md", cfg.Output.Path)
}

func TestLoad_InvalidYaml_ReturnsError(t *testing.T) {
	// Given: invalid YAML syntax
	tmpDir := t.TempDir()
	invalidContent := `
version: 1
ignore:
  patterns: [invalid yaml syntax
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codecat.yaml"), []byte(invalidContent), 0o644)
	require.NoError(t, err)

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: error is returned with clear message
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoad_InvalidFieldType_ReturnsError(t *testing.T) {
	// Given: wrong type for a YAML-accessible field
	tmpDir := t.TempDir()
	invalidContent := `
version: 1
limits:
  max_file_size: "not-a-number"
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codecat.yaml"), []byte(invalidContent), 0o644)
	require.NoError(t, err)

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: error is returned
	require.Error(t, err)
	assert.Nil(t, cfg)
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestLoad_UnsupportedVersion_ReturnsError(t *testing.T) {
	// Given: a config file declaring a future version
	tmpDir := t.TempDir()
	configContent := `
version: 2
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codecat.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: error is returned
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "version")
}

func TestLoad_InvalidLogLevel_ReturnsError(t *testing.T) {
	// Given: a config file with a bogus log level
	tmpDir := t.TempDir()
	configContent := `
version: 1
logging:
  level: loud
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codecat.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: error is returned
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidate_NegativeMaxFileSize_ReturnsError(t *testing.T) {
	cfg := NewConfig()
	cfg.Limits.MaxFileSize = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_file_size")
}

func TestValidate_Defaults_AreValid(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// Project Type Detection Tests
// =============================================================================

func TestDetectProjectType_GoMod_ReturnsGo(t *testing.T) {
	// Given: directory with go.mod
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte("module test"), 0o644)
	require.NoError(t, err)

	// When: detecting project type
	projectType := DetectProjectType(tmpDir)

	// Then: Go is detected
	assert.Equal(t, ProjectTypeGo, projectType)
}

func TestDetectProjectType_PackageJson_ReturnsNode(t *testing.T) {
	// Given: directory with package.json
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte("{}"), 0o644)
	require.NoError(t, err)

	// When: detecting project type
	projectType := DetectProjectType(tmpDir)

	// Then: Node is detected
	assert.Equal(t, ProjectTypeNode, projectType)
}

func TestDetectProjectType_PyprojectToml_ReturnsPython(t *testing.T) {
	// Given: directory with pyproject.toml
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "pyproject.toml"), []byte("[project]"), 0o644)
	require.NoError(t, err)

	// When: detecting project type
	projectType := DetectProjectType(tmpDir)

	// Then: Python is detected
	assert.Equal(t, ProjectTypePython, projectType)
}

func TestDetectProjectType_RequirementsTxt_ReturnsPython(t *testing.T) {
	// Given: directory with requirements.txt
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "requirements.txt"), []byte("requests==2.0"), 0o644)
	require.NoError(t, err)

	// When: detecting project type
	projectType := DetectProjectType(tmpDir)

	// Then: Python is detected
	assert.Equal(t, ProjectTypePython, projectType)
}

func TestDetectProjectType_NoMarkerFiles_ReturnsUnknown(t *testing.T) {
	// Given: directory with only random files
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "random.txt"), []byte("hello"), 0o644)
	require.NoError(t, err)

	// When: detecting project type
	projectType := DetectProjectType(tmpDir)

	// Then: Unknown is returned
	assert.Equal(t, ProjectTypeUnknown, projectType)
}

func TestDetectProjectType_Priority_GoOverNode(t *testing.T) {
	// Given: directory with both go.mod and package.json
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte("module test"), 0o644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte("{}"), 0o644)
	require.NoError(t, err)

	// When: detecting project type
	projectType := DetectProjectType(tmpDir)

	// Then: Go has priority
	assert.Equal(t, ProjectTypeGo, projectType)
}

func TestSuggestedIgnorePatterns_PerProjectType(t *testing.T) {
	assert.Contains(t, ProjectTypeGo.SuggestedIgnorePatterns(), "vendor/")
	assert.Contains(t, ProjectTypeNode.SuggestedIgnorePatterns(), "dist/")
	assert.Contains(t, ProjectTypePython.SuggestedIgnorePatterns(), ".venv/")
	assert.Nil(t, ProjectTypeUnknown.SuggestedIgnorePatterns())
}

// =============================================================================
// Project Root Discovery Tests
// =============================================================================

func TestFindProjectRoot_GitDirectory_ReturnsGitRoot(t *testing.T) {
	// Given: a nested directory in a git repo
	tmpDir := t.TempDir()
	gitDir := filepath.Join(tmpDir, ".git")
	nestedDir := filepath.Join(tmpDir, "src", "internal")
	require.NoError(t, os.Mkdir(gitDir, 0o755))
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	// When: finding project root from nested directory
	root, err := FindProjectRoot(nestedDir)

	// Then: git root is returned
	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestFindProjectRoot_ConfigFile_ReturnsConfigLocation(t *testing.T) {
	// Given: a directory with .codecat.yaml (no git)
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "src", "internal")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))
	err := os.WriteFile(filepath.Join(tmpDir, ".codecat.yaml"), []byte("version: 1"), 0o644)
	require.NoError(t, err)

	// When: finding project root from nested directory
	root, err := FindProjectRoot(nestedDir)

	// Then: config file location is returned
	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestFindProjectRoot_NoMarkers_ReturnsCurrentDir(t *testing.T) {
	// Given: a directory with no markers
	tmpDir := t.TempDir()

	// When: finding project root
	root, err := FindProjectRoot(tmpDir)

	// Then: current directory is returned
	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestProjectConfigPath_PrefersExistingYml(t *testing.T) {
	// Given: a directory with an existing .codecat.yml
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".codecat.yml"), []byte("version: 1"), 0o644))

	// Then: the existing spelling wins
	assert.Equal(t, filepath.Join(tmpDir, ".codecat.yml"), ProjectConfigPath(tmpDir))

	// And: a fresh directory gets the .yaml spelling
	freshDir := t.TempDir()
	assert.Equal(t, filepath.Join(freshDir, ".codecat.yaml"), ProjectConfigPath(freshDir))
}

// =============================================================================
// Environment Variable Override Tests
// =============================================================================

func TestLoad_EnvVarOverridesOutput(t *testing.T) {
	// Given: a config file with one output path and env var with another
	tmpDir := t.TempDir()
	configContent := `
version: 1
output:
  path: from-file.md
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codecat.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)
	t.Setenv("CODECAT_OUTPUT", "from-env.md")

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: env var takes precedence
	require.NoError(t, err)
	assert.Equal(t, "from-env.md", cfg.Output.Path)
}

func TestLoad_EnvVarOverridesLogLevel(t *testing.T) {
	// Given: env var for log level
	tmpDir := t.TempDir()
	t.Setenv("CODECAT_LOG_LEVEL", "debug")

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: env var is applied
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvVarOverridesMaxFileSize(t *testing.T) {
	// Given: YAML config with one limit and env var override
	tmpDir := t.TempDir()
	configContent := `
version: 1
limits:
  max_file_size: 1024
`
	err := os.WriteFile(filepath.Join(tmpDir, ".codecat.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)
	t.Setenv("CODECAT_MAX_FILE_SIZE", "2048")

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: env var takes precedence over YAML
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.Limits.MaxFileSize)
}

func TestLoad_EnvVarInvalidMaxFileSize_IsIgnored(t *testing.T) {
	// Given: a non-numeric size in the environment
	tmpDir := t.TempDir()
	t.Setenv("CODECAT_MAX_FILE_SIZE", "lots")

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: the default survives
	require.NoError(t, err)
	assert.Equal(t, int64(10*1024*1024), cfg.Limits.MaxFileSize)
}

func TestLoad_EnvVarBooleans(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "true", value: "true", expected: true},
		{name: "one", value: "1", expected: true},
		{name: "yes", value: "yes", expected: true},
		{name: "false", value: "false", expected: false},
		{name: "zero", value: "0", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("CODECAT_NO_TUI", tt.value)
			t.Setenv("CODECAT_DISABLE_GITIGNORE", tt.value)

			cfg, err := Load(tmpDir)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.UI.NoTUI)
			assert.Equal(t, tt.expected, cfg.Ignore.DisableGitignore)
		})
	}
}

func TestLoad_EnvVarEmptyString_DoesNotOverride(t *testing.T) {
	// Given: empty env var
	tmpDir := t.TempDir()
	t.Setenv("CODECAT_OUTPUT", "")

	// When: loading configuration
	cfg, err := Load(tmpDir)

	// Then: default is kept
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Output.Path)
}

// =============================================================================
// User/Global Configuration Tests
// =============================================================================

func TestGetUserConfigPath_DefaultsToXDGLocation(t *testing.T) {
	// Given: no XDG_CONFIG_HOME set
	t.Setenv("XDG_CONFIG_HOME", "")

	// When: getting user config path
	path := GetUserConfigPath()

	// Then: defaults to ~/.config/codecat/config.yaml
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	expected := filepath.Join(home, ".config", "codecat", "config.yaml")
	assert.Equal(t, expected, path)
}

func TestGetUserConfigPath_RespectsXDGConfigHome(t *testing.T) {
	// Given: XDG_CONFIG_HOME is set
	customConfig := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", customConfig)

	// When: getting user config path
	path := GetUserConfigPath()

	// Then: uses XDG_CONFIG_HOME
	expected := filepath.Join(customConfig, "codecat", "config.yaml")
	assert.Equal(t, expected, path)
}

func TestGetUserConfigDir_ReturnsParentOfConfigPath(t *testing.T) {
	// When: getting user config directory
	dir := GetUserConfigDir()
	path := GetUserConfigPath()

	// Then: directory is parent of config file
	assert.Equal(t, filepath.Dir(path), dir)
}

func TestUserConfigExists_ReturnsFalseWhenMissing(t *testing.T) {
	// Given: XDG_CONFIG_HOME points to empty directory
	emptyDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", emptyDir)

	// When: checking if user config exists
	exists := UserConfigExists()

	// Then: returns false
	assert.False(t, exists)
}

func TestUserConfigExists_ReturnsTrueWhenPresent(t *testing.T) {
	// Given: user config file exists
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	codecatDir := filepath.Join(configDir, "codecat")
	require.NoError(t, os.MkdirAll(codecatDir, 0o755))
	configPath := filepath.Join(codecatDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1"), 0o644))

	// When: checking if user config exists
	exists := UserConfigExists()

	// Then: returns true
	assert.True(t, exists)
}

func TestLoad_UserConfigOverridesDefaults(t *testing.T) {
	// Given: user config with a custom log level
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	codecatDir := filepath.Join(configDir, "codecat")
	require.NoError(t, os.MkdirAll(codecatDir, 0o755))
	userConfig := `
version: 1
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(filepath.Join(codecatDir, "config.yaml"), []byte(userConfig), 0o644))

	// When: loading configuration
	cfg, err := Load(projectDir)

	// Then: user config values are applied
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_ProjectConfigOverridesUserConfig(t *testing.T) {
	// Given: both user and project configs exist
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	// User config
	codecatDir := filepath.Join(configDir, "codecat")
	require.NoError(t, os.MkdirAll(codecatDir, 0o755))
	userConfig := `
version: 1
output:
  path: user.md
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(filepath.Join(codecatDir, "config.yaml"), []byte(userConfig), 0o644))

	// Project config (overrides user)
	projectConfig := `
version: 1
output:
  path: project.md
`
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".codecat.yaml"), []byte(projectConfig), 0o644))

	// When: loading configuration
	cfg, err := Load(projectDir)

	// Then: project config takes precedence
	require.NoError(t, err)
	assert.Equal(t, "project.md", cfg.Output.Path)
	// And: user config's log level is still used (not overridden by project)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_IgnorePatternsAccumulateAcrossLayers(t *testing.T) {
	// Given: user and project configs each adding patterns
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	codecatDir := filepath.Join(configDir, "codecat")
	require.NoError(t, os.MkdirAll(codecatDir, 0o755))
	userConfig := `
version: 1
ignore:
  patterns:
    - "*.swp"
`
	require.NoError(t, os.WriteFile(filepath.Join(codecatDir, "config.yaml"), []byte(userConfig), 0o644))

	projectConfig := `
version: 1
ignore:
  patterns:
    - "testdata/"
`
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".codecat.yaml"), []byte(projectConfig), 0o644))

	// When: loading configuration
	cfg, err := Load(projectDir)

	// Then: both layers' patterns survive, user first
	require.NoError(t, err)
	assert.Equal(t, []string{"*.swp", "testdata/"}, cfg.Ignore.Patterns)
}

func TestLoad_EnvVarOverridesUserAndProjectConfig(t *testing.T) {
	// Given: all three config sources exist
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	t.Setenv("CODECAT_OUTPUT", "env.md")

	// User config
	codecatDir := filepath.Join(configDir, "codecat")
	require.NoError(t, os.MkdirAll(codecatDir, 0o755))
	userConfig := `
version: 1
output:
  path: user.md
`
	require.NoError(t, os.WriteFile(filepath.Join(codecatDir, "config.yaml"), []byte(userConfig), 0o644))

	// Project config
	projectConfig := `
version: 1
output:
  path: project.md
`
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".codecat.yaml"), []byte(projectConfig), 0o644))

	// When: loading configuration
	cfg, err := Load(projectDir)

	// Then: env var has highest precedence
	require.NoError(t, err)
	assert.Equal(t, "env.md", cfg.Output.Path)
}

func TestLoad_InvalidUserConfig_ReturnsError(t *testing.T) {
	// Given: invalid user config
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	codecatDir := filepath.Join(configDir, "codecat")
	require.NoError(t, os.MkdirAll(codecatDir, 0o755))
	invalidConfig := `
version: 1
output:
  path: [invalid yaml
`
	require.NoError(t, os.WriteFile(filepath.Join(codecatDir, "config.yaml"), []byte(invalidConfig), 0o644))

	// When: loading configuration
	cfg, err := Load(projectDir)

	// Then: error is returned
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "user config")
}

// =============================================================================
// Round-Trip Tests
// =============================================================================

func TestWriteYAML_RoundTrips(t *testing.T) {
	// Given: a config with non-default values
	tmpDir := t.TempDir()
	cfg := NewConfig()
	cfg.Output.Path = "out.md"
	cfg.Ignore.Patterns = []string{"*.tmp"}
	cfg.Limits.MaxFileSize = 2048
	cfg.Logging.Level = "debug"

	// When: writing and loading it back
	path := filepath.Join(tmpDir, ".codecat.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(tmpDir)
	require.NoError(t, err)

	// Then: the values survive
	assert.Equal(t, "out.md", loaded.Output.Path)
	assert.Equal(t, []string{"*.tmp"}, loaded.Ignore.Patterns)
	assert.Equal(t, int64(2048), loaded.Limits.MaxFileSize)
	assert.Equal(t, "debug", loaded.Logging.Level)
}
