package errors

import "fmt"

// WrapParseError wraps an annotation syntax error
func WrapParseError(item string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", item), cause)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configPath, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configPath)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_path", configPath).
		WithContext("operation", operation)
}

// WrapLoadError wraps package loading errors
func WrapLoadError(pattern string, cause error) *BaseError {
	return Wrap(LoadErrorCode, fmt.Sprintf("failed to load packages '%s'", pattern), cause).
		WithContext("pattern", pattern).
		WithSuggestions(
			"Run 'go build' on the package to see compiler errors",
			"Ensure the directories belong to the module in go.mod",
		)
}

// NewRegistrationError reports a strategy registration conflict
func NewRegistrationError(name, reason string) *BaseError {
	return Newf(RegistrationErrorCode, "failed to register strategy '%s': %s", name, reason).
		WithContext("strategy", name)
}
