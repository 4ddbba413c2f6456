package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/annel0/paintblocks/internal/eventbus"
)

const (
	defaultNatsURL = "nats://127.0.0.1:4222"
	timeFormat     = "2006-01-02T15:04:05Z"
)

func main() {
	var (
		natsURL    = flag.String("nats", defaultNatsURL, "NATS server URL")
		stream     = flag.String("stream", eventbus.DefaultStream, "JetStream stream name")
		eventTypes = flag.String("types", "", "Event types filter (comma-separated)")
		limit      = flag.Int("limit", 100, "Maximum number of events (0 — unlimited)")
		follow     = flag.Bool("follow", false, "Follow new events (like tail -f)")
		idle       = flag.Duration("idle", 2*time.Second, "Stop after this long without events (ignored with -follow)")
	)
	flag.Parse()

	bus, err := eventbus.NewJetStreamBus(*natsURL, *stream, 0)
	if err != nil {
		log.Fatalf("❌ Failed to connect to NATS: %v", err)
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	count, err := tailEvents(ctx, bus, &TailOptions{
		EventTypes: parseStringList(*eventTypes),
		Limit:      *limit,
		Follow:     *follow,
		Idle:       *idle,
	})
	if err != nil {
		log.Fatalf("❌ Tail failed: %v", err)
	}
	fmt.Printf("\n📊 Total events: %d\n", count)
}

type TailOptions struct {
	EventTypes []string
	Limit      int
	Follow     bool
	Idle       time.Duration
}

// tailEvents выводит события холстов из стрима, начиная с самых ранних
func tailEvents(ctx context.Context, bus eventbus.EventBus, opts *TailOptions) (int, error) {
	fmt.Printf("🎬 Tailing canvas events (limit: %d, follow: %v)\n", opts.Limit, opts.Follow)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var count int64
	seen := make(chan struct{}, 1)

	sub, err := bus.Subscribe(ctx, eventbus.Filter{Types: opts.EventTypes}, func(_ context.Context, ev *eventbus.Envelope) {
		n := atomic.AddInt64(&count, 1)
		if opts.Limit > 0 && n > int64(opts.Limit) {
			cancel()
			return
		}
		fmt.Println(formatEvent(ev))
		select {
		case seen <- struct{}{}:
		default:
		}
		if opts.Limit > 0 && n == int64(opts.Limit) {
			cancel()
		}
	})
	if err != nil {
		return 0, fmt.Errorf("subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		var idle <-chan time.Time
		if !opts.Follow {
			idle = time.After(opts.Idle)
		}
		select {
		case <-ctx.Done():
			return printed(atomic.LoadInt64(&count), opts.Limit), nil
		case <-seen:
		case <-idle:
			return printed(atomic.LoadInt64(&count), opts.Limit), nil
		}
	}
}

func printed(count int64, limit int) int {
	if limit > 0 && count > int64(limit) {
		return limit
	}
	return int(count)
}

// formatEvent форматирует событие для вывода
func formatEvent(ev *eventbus.Envelope) string {
	head := fmt.Sprintf("[%s] %-14s %s", ev.Timestamp.UTC().Format(timeFormat), ev.EventType, shortID(ev.ID))

	switch ev.EventType {
	case eventbus.EventCanvasWrapped:
		var p eventbus.CanvasWrappedPayload
		if err := eventbus.DecodePayload(ev, &p); err != nil {
			return head + " ⚠️ " + err.Error()
		}
		return fmt.Sprintf("%s 🧱 %v wraps %v", head, p.Pos, p.Painted)
	case eventbus.EventCanvasPainted:
		var p eventbus.CanvasPaintedPayload
		if err := eventbus.DecodePayload(ev, &p); err != nil {
			return head + " ⚠️ " + err.Error()
		}
		return fmt.Sprintf("%s 🖌  %v %s #%08X", head, p.Pos, p.Face, p.Color)
	default:
		return fmt.Sprintf("%s %d bytes", head, len(ev.Payload))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseStringList парсит список строк через запятую
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
