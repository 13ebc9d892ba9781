package engine

import (
	"github.com/spaghettifunk/conifer/engine/core"
	"github.com/spaghettifunk/conifer/engine/formation"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel core.LogLevel
	// Path of the TOML tuning file. Empty means built-in defaults.
	ConfigPath string
	// Element groups the scene contributes during FnBoot.
	GroupConfigs []*formation.GroupConfig
}
