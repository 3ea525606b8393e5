// Package misc holds program identity, normally set at build time with
// -ldflags "-X cssopt/misc.version=...".
package misc

var (
	appName = "cssopt"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
