package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/config"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/enrich"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/feeds"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/gtfs"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/gtfsrt"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/server"
)

func main() {
	mode := flag.String("mode", "serve", "serve|oneshot|watch")
	feedKey := flag.String("feed", "default", "feed key (subway key, lirr or mnr)")
	configPath := flag.String("config", "", "config file path (default config.yml)")
	withStops := flag.Bool("enrich", false, "join stop reference data into oneshot/watch output")
	pretty := flag.Bool("pretty", true, "human-readable log output")
	flag.Parse()

	initLogging(*pretty)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	fetcher := gtfsrt.NewClient(time.Duration(cfg.Fetch.TimeoutMS) * time.Millisecond)
	subway := feeds.NewService(feeds.NewRegistry(cfg.Feeds.Subway), fetcher)
	rail := feeds.NewService(feeds.NewRegistry(map[string]string{
		server.KeyLIRR: cfg.Feeds.LIRR,
		server.KeyMNR:  cfg.Feeds.MNR,
	}), fetcher)
	stops := gtfs.NewCache(stopsSource(cfg.Stops))

	switch *mode {
	case "serve":
		runServe(cfg, subway, rail, stops)
	case "oneshot":
		runOneshot(cfg, subway, rail, stops, *feedKey, *withStops)
	case "watch":
		runWatch(cfg, subway, rail, stops, *feedKey, *withStops)
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func initLogging(pretty bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func stopsSource(cfg config.StopsConfig) gtfs.Source {
	if cfg.Path != "" {
		return gtfs.FileSource(cfg.Path)
	}
	return gtfs.HTTPSource(&http.Client{Timeout: 30 * time.Second}, cfg.URL)
}

// serviceFor picks the commuter-rail service for its two fixed keys and
// the subway service for everything else, mirroring the route split.
func serviceFor(subway, rail *feeds.Service, key string) *feeds.Service {
	if key == server.KeyLIRR || key == server.KeyMNR {
		return rail
	}
	return subway
}

func runServe(cfg config.AppConfig, subway, rail *feeds.Service, stops *gtfs.Cache) {
	// Stop reference data is loaded off the request path; feed
	// retrieval never blocks on it.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := stops.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("stop reference load failed; serving without enrichment")
		}
	}()

	srv := server.New(cfg.Server.Port, subway, rail, stops, server.NewMetrics())
	srv.Start()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info().Msg("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}

func runOneshot(cfg config.AppConfig, subway, rail *feeds.Service, stops *gtfs.Cache, key string, withStops bool) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if withStops {
		if err := stops.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("stop reference load failed; output will be unenriched")
		}
	}
	msg, err := serviceFor(subway, rail, key).Feed(ctx, key)
	if err != nil {
		log.Fatal().Str("feed", key).Err(err).Msg("feed request failed")
	}
	var out any = msg
	if withStops {
		out = enrich.Feed(msg, stops.Index())
	}
	buf, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode feed")
	}
	fmt.Println(string(buf))
}

func runWatch(cfg config.AppConfig, subway, rail *feeds.Service, stops *gtfs.Cache, key string, withStops bool) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if withStops {
		if err := stops.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("stop reference load failed; watching without enrichment")
		}
	}
	cancel()

	interval := time.Duration(cfg.Poll.IntervalMS) * time.Millisecond
	poller := feeds.NewPoller(serviceFor(subway, rail, key), key, interval, func(msg *gtfsrt.FeedMessage, err error) {
		if err != nil {
			log.Error().Str("feed", key).Err(err).Msg("poll failed")
			return
		}
		evt := log.Info().
			Str("feed", key).
			Str("version", msg.Version).
			Int64("generated_at", msg.GeneratedAt).
			Int("entities", len(msg.Entities))
		if withStops {
			known := 0
			for _, e := range enrich.Entities(msg.Entities, stops.Index()) {
				for _, c := range e.Calls {
					if c.Known {
						known++
					}
				}
			}
			evt = evt.Int("known_stops", known)
		}
		evt.Msg("poll")
	})
	poller.Start()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	poller.Stop()
	log.Info().Msg("watch stopped")
}
