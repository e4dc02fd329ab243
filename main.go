package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/rpc"
	"os"
	"os/signal"
	"syscall"

	"emma-bridge-plugin/internal/channel"
	"emma-bridge-plugin/internal/config"
	"emma-bridge-plugin/internal/emma/remote"
	"emma-bridge-plugin/internal/host"
	"emma-bridge-plugin/internal/mainthread"
	"emma-bridge-plugin/internal/plugin"
	"emma-bridge-plugin/internal/push"
	"emma-bridge-plugin/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	port := flag.Int("port", cfg.Port, "TCP port for RPC server (required)")
	hostAddr := flag.String("host-addr", cfg.HostAddr, "host callback RPC address (required)")
	flag.Parse()
	cfg.Port, cfg.HostAddr = *port, *hostAddr
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	shutdown, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	inv, err := host.DialRPC(cfg.HostAddr)
	if err != nil {
		log.Fatal(err)
	}
	defer inv.Close()

	ui := mainthread.NewLoop()
	go ui.Run(ctx)
	defer ui.Close()

	p := plugin.New(plugin.Options{
		SDK:      remote.New(inv),
		Channel:  channel.New(inv),
		UI:       ui,
		Platform: host.Platform{Invoker: inv},
		Handlers: []push.Handler{host.DelegateHandler(inv)},
	})
	if err := rpc.RegisterName("Plugin", p); err != nil {
		log.Fatal(err)
	}
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("emma bridge plugin listening on %s (host %s)", addr, cfg.HostAddr)
	go rpc.Accept(ln)

	<-ctx.Done()
	log.Printf("emma bridge plugin shutting down")
	if err := ln.Close(); err != nil {
		log.Printf("close listener: %v", err)
	}
}
