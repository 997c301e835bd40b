// Command distro submits music releases for distribution from the
// command line.
//
//	distro validate release.yaml
//	distro submit release.yaml --prefill-tags
//	distro whoami
//	distro config init
//	distro config show
//	distro machine
//
// Settings are read from --config (default: the user config directory)
// and can be overridden with DISTRO_* environment variables.
package main
