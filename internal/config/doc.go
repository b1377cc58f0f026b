// The config package encapsulates configuration for the codecarve
// commands.
//
// When loading the configuration, the first and only argument is the path
// to the base directory rather than the path to the configuration file.
// The directory may contain a plain-text file called 'config' with one
// "key value" pair per line, corresponding to the C struct of this
// package. A missing file just means defaults, so the tool works with
// zero setup when wired up as a split hook.
package config
