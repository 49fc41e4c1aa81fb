package chaingen

import (
	"github.com/kaspanet/chaingen/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.CHGN)
