package fixturestore

import "github.com/kaspanet/chaingen/infrastructure/logger"

var log, _ = logger.Get(logger.SubsystemTags.FXST)
