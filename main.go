package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cpsim/internal"
	"cpsim/internal/config"
	"cpsim/metrics"
	"cpsim/ocpp/provisioning"
	"cpsim/peer"
	"cpsim/scenario"
	"cpsim/station"
	"cpsim/types"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	withPeer := flag.Bool("peer", false, "start the built-in peer endpoint")
	runSession := flag.Bool("session", false, "run one charging session scenario and exit")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	var conf *config.Config
	var err error
	if *configPath != "" {
		conf, err = config.Load(*configPath)
	} else {
		conf, err = config.Default()
	}
	if err != nil {
		log.Println("configuration load failed", err)
		return
	}

	logger := internal.NewLogger()
	logger.SetDebugMode(*debug)

	if conf.Metrics.Enabled {
		go func() {
			if err := metrics.Listen(conf); err != nil {
				logger.Error("metrics endpoint", err)
			}
		}()
	}

	if *withPeer {
		server := peer.NewServer(conf, logger)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("peer endpoint stopped", err)
			}
		}()
		// give the listener a moment before dialing it
		time.Sleep(200 * time.Millisecond)
	}

	engine := station.NewEngine(conf, logger)
	if err = engine.Connect(); err != nil {
		log.Println("connection failed", err)
		return
	}
	defer engine.Stop()

	if *runSession {
		token := types.NewIdToken("100000C01", types.IdTokenTypeISO14443)
		runner := scenario.NewRunner(logger)
		if err = runner.Run(engine, scenario.ChargingSession(*token, 1, 1)); err != nil {
			log.Println("scenario failed", err)
			os.Exit(1)
		}
		return
	}

	if _, err = engine.Boot(provisioning.BootReasonPowerUp); err != nil {
		log.Println("boot failed", err)
		return
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
