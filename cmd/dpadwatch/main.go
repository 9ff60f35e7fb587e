// Command dpadwatch connects to a running analogdpad server and logs d-pad
// transitions as the stick classifier reports them.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/lxzan/gws"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	url := pflag.String("url", "ws://localhost:8080/ws", "analogdpad WebSocket endpoint")
	player := pflag.Int("player", 0, "player index to follow (0 keeps the server default)")
	level := pflag.String("log-level", "info", "log level")
	pflag.Parse()

	lvl, err := log.ParseLevel(*level)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(lvl)

	w := newWatcher(*player)
	conn, _, err := gws.NewClient(w, &gws.ClientOption{Addr: *url})
	if err != nil {
		log.WithField("url", *url).Fatalf("Dial failed: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			conn.WriteClose(1000, nil)
		case <-w.done:
		}
	}()

	conn.ReadLoop()
}
