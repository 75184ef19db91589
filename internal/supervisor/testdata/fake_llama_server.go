package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// Stands in for the llama.cpp server binary in supervisor tests. Accepts the
// flags the supervisor passes but, like the real server, takes no port flag;
// tests communicate the port via LLAMAD_FAKE_PORT. LLAMAD_FAKE_LOADING_MS
// simulates the model-loading phase with 503 responses.
func main() {
	var model string
	var ngl string
	flag.StringVar(&model, "m", "", "model path")
	flag.StringVar(&ngl, "ngl", "", "gpu layers")
	flag.Parse()

	port := os.Getenv("LLAMAD_FAKE_PORT")
	if port == "" {
		port = "8080"
	}
	loadingMS, _ := strconv.Atoi(os.Getenv("LLAMAD_FAKE_LOADING_MS"))
	readyAt := time.Now().Add(time.Duration(loadingMS) * time.Millisecond)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if time.Now().Before(readyAt) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading model"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%s", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for SIGTERM then shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
