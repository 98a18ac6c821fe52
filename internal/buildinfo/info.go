// Package buildinfo holds version metadata injected at link time:
//
//	go build -ldflags "-X github.com/Wozniak7/Analisador-Financeiro/internal/buildinfo.Version=v1.2.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns "<version> (commit: <commit>, built: <date>)".
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
