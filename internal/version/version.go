// Package version carries the build version, overridable at link time:
//
//	go build -ldflags "-X fqdnsan/internal/version.Version=v1.2.3" ./cmd/fqdnsan
package version

var Version = "dev"
