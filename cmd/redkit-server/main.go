package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kvlink/redkit/server"
)

func main() {
	address := flag.String("address", ":6379", "address to listen on")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "per-request read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "per-reply write timeout")
	maxConnections := flag.Int("max-connections", 1000, "maximum concurrent connections, 0 for unlimited")
	flag.Parse()

	srv := server.New(*address)
	srv.ReadTimeout = *readTimeout
	srv.WriteTimeout = *writeTimeout
	srv.MaxConnections = *maxConnections

	if err := srv.Listen(); err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	if err := srv.Serve(); err != nil {
		log.Fatalf("serve error: %v", err)
	}
}
