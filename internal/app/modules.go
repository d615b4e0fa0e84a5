package app

import (
	"github.com/vk/missiongrid/internal/registry"
	"github.com/vk/missiongrid/modules/command"
	"github.com/vk/missiongrid/modules/env_vars"
	"github.com/vk/missiongrid/modules/file"
	"github.com/vk/missiongrid/modules/http_request"
	"github.com/vk/missiongrid/modules/noop"
	"github.com/vk/missiongrid/modules/print"
)

// coreModules is the default capability set. The chain module is registered
// separately in NewApp because it needs the engine it calls back into.
var coreModules = []registry.Module{
	&noop.Module{},
	&print.Module{},
	&command.Module{},
	&http_request.Module{},
	&file.Module{},
	&env_vars.Module{},
}
