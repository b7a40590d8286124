package app

import (
	"github.com/featuregrid/featuregrid/internal/registry"
	"github.com/featuregrid/featuregrid/modules/buildmeta"
	"github.com/featuregrid/featuregrid/modules/discussion"
	"github.com/featuregrid/featuregrid/modules/gitstats"
	"github.com/featuregrid/featuregrid/modules/testmetrics"
)

// coreModules is the definitive list of feature node modules compiled into
// the featuregrid binary.
var coreModules = []registry.Module{
	&buildmeta.Module{},
	&gitstats.Module{},
	&testmetrics.Module{},
	&discussion.Module{},
}
