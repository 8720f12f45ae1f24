// Package stocklist holds module-level metadata shared by the CLI and tooling.
package stocklist

// Version is the release version. Overridden at build time via
// -ldflags "-X github.com/mesh-intelligence/stocklist/pkg/stocklist.Version=...".
var Version = "0.1.0"
