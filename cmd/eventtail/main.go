// Command eventtail prints storefront events relayed to NATS.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ar-storefront-be/internal/config"
	"ar-storefront-be/internal/pkg/logger"
	"ar-storefront-be/pkg/events"
	pktNats "ar-storefront-be/pkg/nats"

	"github.com/fatih/color"
)

func main() {
	filter := flag.String("type", ">", "event type to follow, e.g. payment.charged")
	durable := flag.String("durable", "", "durable consumer name; empty follows new events only")
	flag.Parse()

	cfg := config.Load()
	fileLog := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	defer fileLog.Sync()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, pktNats.Subject(*filter), *durable, func(_ context.Context, e events.Event) error {
		fileLog.Info("EVENTTAIL", "event received", map[string]interface{}{
			"type":        e.EventType(),
			"occurred_at": e.Timestamp(),
			"payload":     e.Payload(),
		})

		payload, _ := json.Marshal(e.Payload())
		color.New(color.FgCyan).Printf("%s ", e.Timestamp().Format("15:04:05"))
		color.New(color.FgYellow, color.Bold).Printf("%-16s ", e.EventType())
		color.White("%s", payload)
		return nil
	})
	if err != nil {
		fileLog.Error("EVENTTAIL", "subscribe failed", map[string]interface{}{"error": err.Error()})
		log.Fatalf("Error: %v", err)
	}

	color.Green("Following %s on %s (Ctrl+C to stop)", pktNats.Subject(*filter), cfg.App.NatsURL)
	<-ctx.Done()
}
