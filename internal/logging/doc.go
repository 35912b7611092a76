// Package logging builds the zap logger used by the command line tools.
package logging
