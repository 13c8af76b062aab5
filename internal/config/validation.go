package config

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/i18nkit/internal/charrange"
	"github.com/dbsmedya/i18nkit/internal/textcodec"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// ValidateScan checks the settings used by chncheck.
func (c *Config) ValidateScan() error {
	var errors ValidationErrors

	if c.Scan.Root == "" {
		errors = append(errors, ValidationError{
			Field:   "scan.root",
			Message: "directory to scan is required",
		})
	}

	if len(c.Scan.Extensions) == 0 {
		errors = append(errors, ValidationError{
			Field:   "scan.extensions",
			Message: "at least one extension must be given",
		})
	}
	errors = append(errors, validateNames("scan.excludes", c.Scan.Excludes)...)

	if len(c.Scan.Ranges) == 0 {
		errors = append(errors, ValidationError{
			Field:   "scan.ranges",
			Message: "at least one character range must be given",
		})
	}
	for i, entry := range c.Scan.Ranges {
		if _, err := charrange.Parse(entry); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("scan.ranges[%d]", i),
				Message: err.Error(),
			})
		}
	}

	errors = append(errors, validateEncoding("scan.encoding", c.Scan.Encoding)...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// ValidateReplace checks the settings used by i18nreplace.
func (c *Config) ValidateReplace() error {
	var errors ValidationErrors

	if c.Replace.RepositoryPath == "" {
		errors = append(errors, ValidationError{
			Field:   "replace.repository_path",
			Message: "repository path is required",
		})
	}

	if c.Replace.MappingFile == "" {
		errors = append(errors, ValidationError{
			Field:   "replace.json_file_path",
			Message: "mapping file is required",
		})
	}

	errors = append(errors, validateNames("replace.exclude_dirs", c.Replace.ExcludeDirs)...)
	errors = append(errors, validateEncoding("replace.encoding", c.Replace.Encoding)...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// validateNames rejects directory names that could never match a single path element.
func validateNames(field string, names []string) ValidationErrors {
	var errors ValidationErrors
	for i, name := range names {
		if name == "" || strings.ContainsAny(name, `/\`) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("%q must be a bare directory name", name),
			})
		}
	}
	return errors
}

func validateEncoding(field, name string) ValidationErrors {
	if _, err := textcodec.Lookup(name); err != nil {
		return ValidationErrors{{
			Field:   field,
			Message: err.Error(),
		}}
	}
	return nil
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
