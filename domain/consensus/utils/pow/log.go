package pow

import (
	"github.com/kaspanet/chaingen/infrastructure/logger"
	"github.com/kaspanet/chaingen/util/panics"
)

var log, _ = logger.Get(logger.SubsystemTags.POWS)
var spawn = panics.GoroutineWrapperFunc(log)
