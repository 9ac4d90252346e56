// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/vanderheijden86/treeview/pkg/version.Version=...".
package version

// Version is the treeview release.
var Version = "v0.1.0"
