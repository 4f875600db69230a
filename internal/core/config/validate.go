package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/todos/internal/core/validate"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including endpoint syntax and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips the
// config file check). Validate is run first for structural checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateRemote(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Auth.Token != "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Auth",
			Item:     "token",
			Message:  "a token is stored in the config file; prefer `todos login` or $" + c.Auth.TokenEnv,
		})
	}

	if c.API.Timeout == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "API",
			Item:     "timeout",
			Message:  "no request timeout is set; a stalled service leaves operations pending",
		})
	}

	return warnings
}

func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("auth.session_file", c.Auth.SessionFile, parentIsDirectoryOrNotExist),
	)
}

func (c *Config) validateRemote() error {
	var errs criterio.FieldErrorsBuilder

	if err := validate.Endpoint(c.API.Endpoint); err != nil {
		errs = errs.Append("api.endpoint", err)
	}

	if c.Server.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
			errs = errs.Append("server.addr", fmt.Errorf("invalid listen address: %w", err))
		}
	}

	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func parentIsDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return isDirectoryOrNotExist(filepath.Dir(path))
}
