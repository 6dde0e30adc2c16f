// Command mqttsn-gateway runs one MQTT-SN gateway: a UDP transport, an
// upstream paho.mqtt.golang broker connection, and a Prometheus/pprof
// debug server, orchestrated the way the teacher's cmd/mqtt-server/main.go
// and server.go's Shutdown polling loop do.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-io/requests"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mqttsn-go/gateway/broker"
	"github.com/mqttsn-go/gateway/config"
	"github.com/mqttsn-go/gateway/gateway"
	"github.com/mqttsn-go/gateway/metrics"
	"github.com/mqttsn-go/gateway/transport"
)

// shutdownPollInterval is runLoop's tick period: each tick drives one
// Engine.Loop step, and the same select watches ctx for shutdown.
const shutdownPollInterval = 50 * time.Millisecond

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cmd := &cli.Command{
		Name:  "mqttsn-gateway",
		Usage: "MQTT-SN to MQTT transparent gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "./config/gateway.yaml", Usage: "path to gateway config file"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return run(ctx, c.String("config"))
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadGateway(configPath)
	if err != nil {
		return err
	}

	t, err := transport.NewUDP(cfg.Bind, cfg.Broadcast)
	if err != nil {
		return err
	}
	defer t.Close()

	var b *broker.Paho
	if cfg.Broker.URL != "" {
		clientID := cfg.Broker.ClientID
		if clientID == "" {
			clientID = requests.GenId()
		}
		b = broker.NewPaho(cfg.Broker.URL, clientID)
	}

	m := metrics.New()
	m.Register()

	var e *gateway.Engine
	if b != nil {
		e = gateway.New(t, b, cfg.GwID, gateway.WithMetrics(m))
	} else {
		e = gateway.New(t, nil, cfg.GwID, gateway.WithMetrics(m))
	}

	group, ctx := errgroup.WithContext(ctx)

	if b != nil {
		group.Go(func() error {
			b.Connect()
			return nil
		})
	}

	group.Go(func() error {
		mux := requests.NewServeMux(requests.URL(cfg.Debug.Addr))
		mux.Route("/metrics", promhttp.Handler())
		mux.Pprof()
		s := requests.NewServer(ctx, mux, requests.OnStart(func(s *http.Server) {
			log.Printf("[GATEWAY_DEBUG_HTTPD] %s", s.Addr)
		}))
		return s.ListenAndServe()
	})

	group.Go(func() error {
		return runLoop(ctx, e)
	})

	group.Go(func() error {
		return waitForSignal(ctx)
	})

	return group.Wait()
}

func runLoop(ctx context.Context, e *gateway.Engine) error {
	ticker := time.NewTicker(shutdownPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Loop(time.Now())
		}
	}
}

func waitForSignal(ctx context.Context) error {
	ignore := make(chan os.Signal, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(ignore, syscall.SIGHUP)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s := <-sig:
		log.Printf("[GATEWAY_SHUTDOWN] signal=%s", s)
		return nil
	}
}
