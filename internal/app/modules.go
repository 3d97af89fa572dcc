package app

import (
	"github.com/vk/nodesmith/internal/registry"
	"github.com/vk/nodesmith/modules/math"
)

// coreModules lists the built-in node type modules registered when the
// caller does not supply its own set.
var coreModules = []registry.Module{
	&math.Module{},
}
