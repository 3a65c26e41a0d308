package main

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/config"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/gridsim"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogging()

	seed := uint64(time.Now().UnixNano())
	app := gridsim.NewApp(rand.New(rand.NewPCG(seed, seed>>1)), time.Now)

	addr := config.GridsimAddr()
	log.Info().Str("addr", addr).Str("unknown_zone", gridsim.UnknownZone).Msg("grid simulator listening; point EMAPS_API_URL at http://<addr>/v3")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
