// Package version reports the build version stamped via -ldflags.
package version

// version is overridden at build time:
//
//	go build -ldflags "-X storefront/pkg/version.version=1.2.3"
var version = "dev"

// Version returns the build version.
func Version() string {
	return version
}
