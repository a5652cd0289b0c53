// Package constants defines shared configuration constants.
package constants

const (
	AppName = "camlsize"

	// ConfigFile is the config file looked up in the home directory.
	ConfigFile = ".camlsize.yaml"

	// ConfigEnv overrides the config file path.
	ConfigEnv = "CAMLSIZE_CONFIG"

	// DefaultTool is the symbol dump tool, run as `nm -n <binary>`.
	DefaultTool = "nm"

	DefaultFormat = "text"

	DefaultSort = "name"

	// DefaultWidth is the module name column width of text reports.
	DefaultWidth = 50

	DefaultLogLevel = "warn"
)
