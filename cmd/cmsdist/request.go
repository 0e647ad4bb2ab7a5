package main

import (
	"github.com/spf13/cobra"

	"github.com/cms-sw/cmsdist-installer/internal/config"
	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

// requestFlags carry per-request option overrides.
type requestFlags struct {
	prefix     string
	arch       string
	user       string
	repository string
	server     string
	serverPath string
	options    []string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.prefix, "prefix", "", messages.RequestFlagPrefix)
	fs.StringVar(&f.arch, "arch", "", messages.RequestFlagArch)
	fs.StringVar(&f.user, "user", "", messages.RequestFlagUser)
	fs.StringVar(&f.repository, "repository", "", messages.RequestFlagRepository)
	fs.StringVar(&f.server, "server", "", messages.RequestFlagServer)
	fs.StringVar(&f.serverPath, "server-path", "", messages.RequestFlagServerPath)
	fs.StringArrayVarP(&f.options, "option", "o", nil, messages.RequestFlagOption)
}

// Options merges -o pairs with the dedicated flags; dedicated flags win.
// Keys are not validated here.
func (f *requestFlags) Options() (config.Options, error) {
	opts := config.Options{}
	for _, raw := range f.options {
		key, value, err := config.ParseOption(raw)
		if err != nil {
			return nil, err
		}
		opts[key] = value
	}
	set := func(key, value string) {
		if value != "" {
			opts[key] = value
		}
	}
	set(config.KeyInstallPrefix, f.prefix)
	set(config.KeyArchitecture, f.arch)
	set(config.KeyInstallUser, f.user)
	set(config.KeyRepository, f.repository)
	set(config.KeyServer, f.server)
	set(config.KeyServerPath, f.serverPath)
	return opts, nil
}
