package main

import (
	"github.com/kaspanet/chaingen/infrastructure/logger"
	"github.com/kaspanet/chaingen/util/panics"
)

var (
	log, _ = logger.Get(logger.SubsystemTags.CGCL)
	spawn  = panics.GoroutineWrapperFunc(log)
)
