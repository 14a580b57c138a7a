// Package version holds the application version reported by the system endpoints.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/version.Version=1.2.3".
var Version = "dev"
