package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/api"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/broker"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/config"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/http"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/repository"
	"github.com/ANIKETSHETTY47/grid-carbon-dashboard/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogging()

	var observers []service.Observer

	if config.DBDSN() != "" {
		db, err := database.Connect()
		if err != nil {
			log.Fatal().Err(err).Msg("db connect failed")
		}
		defer db.Close()
		if err := database.EnsureSchema(context.Background(), db); err != nil {
			log.Fatal().Err(err).Msg("db schema failed")
		}
		observers = append(observers, repository.New(db))
		log.Info().Msg("lookup audit enabled")
	}

	if config.MQTTBroker() != "" {
		client, err := broker.Connect(config.MQTTBroker(), config.MQTTClientID())
		if err != nil {
			log.Fatal().Err(err).Msg("mqtt connect")
		}
		defer client.Disconnect(250)
		observers = append(observers, broker.NewPublisher(client, config.MQTTTopicPrefix()))
		log.Info().Str("broker", config.MQTTBroker()).Msg("reading publisher enabled")
	}

	svcs := service.New(api.New(config.APIURL(), config.HTTPTimeout()), observers...)
	app := httpHandlers.NewApp(svcs)

	addr := config.DashboardAddr()
	log.Info().Str("addr", addr).Str("upstream", config.APIURL()).Msg("dashboard listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
