// Command mqttsn-client is an example sensor: it connects to the gateway
// named in its config (no SEARCHGW discovery), registers its publish
// topics, and emits a timestamp on the first one once a second, mirroring the teacher's cmd/mqtt-client/main.go orchestration
// (errgroup, signal-driven shutdown) adapted to the MQTT-SN state machine.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mqttsn-go/gateway"
	"github.com/mqttsn-go/gateway/client"
	"github.com/mqttsn-go/gateway/config"
	"github.com/mqttsn-go/gateway/packet"
	"github.com/mqttsn-go/gateway/transport"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cmd := &cli.Command{
		Name:  "mqttsn-client",
		Usage: "example MQTT-SN sensor client",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "./config/client.yaml", Usage: "path to client config file"},
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
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return err
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "mqttsn-" + uuid.NewString()
	}
	if len(cfg.Topics) == 0 {
		cfg.Topics = []string{"sensors/demo"}
	}

	t, err := transport.NewUDP(cfg.Bind, cfg.Broadcast)
	if err != nil {
		return err
	}
	defer t.Close()

	s := client.New(t,
		client.ClientID(cfg.ClientID),
		client.Keepalive(time.Duration(cfg.Keepalive)*time.Second),
		client.CleanSession(true),
		client.Gateways(&client.GatewayInfo{GwAddr: mqttsn.Address(cfg.Gateway), Available: true}),
		client.OnMessage(func(topicName, data []byte, flags packet.Flags) {
			log.Printf("[CLIENT_MESSAGE] topic=%s data=%s", topicName, data)
		}),
	)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return driveSession(ctx, s, cfg.Topics)
	})

	group.Go(func() error {
		return waitForSignal(ctx)
	})

	return group.Wait()
}

// driveSession runs the connect/register/publish sequence, then emits one
// publish per second on the tick, the same shape as the teacher's
// cmd/mqtt-client/main.go publish goroutine.
func driveSession(ctx context.Context, s *client.Session, topics []string) error {
	names := make([][]byte, len(topics))
	for i, t := range topics {
		names[i] = []byte(t)
	}

	s.Connect(time.Now(), 0, packet.Flags{}, uint16(s.Keepalive/time.Second))

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	registered := false
	publishTick := time.NewTicker(time.Second)
	defer publishTick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Disconnect(time.Now())
			return ctx.Err()
		case now := <-ticker.C:
			s.Loop(now)
			if !registered && s.State == client.StateActive {
				registered = s.RegisterTopics(now, names)
			}
		case now := <-publishTick.C:
			if registered {
				payload := []byte(fmt.Sprintf("%d", now.Unix()))
				if !s.Publish(now, names[0], payload, packet.Flags{}) {
					log.Printf("[CLIENT_PUBLISH_SKIPPED] not ready")
				}
			}
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
		log.Printf("[CLIENT_SHUTDOWN] signal=%s", s)
		return nil
	}
}
