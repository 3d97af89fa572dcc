package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// healthHandler reports liveness for the bridge server.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// nodesHandler serves the emitted JS registration bundle for all registered
// node types. The bundle is regenerated per request so manifest reloads are
// picked up without restarting.
func (a *App) nodesHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Nodes bundle requested.", "remote_addr", r.RemoteAddr)

	bundle, err := a.EmitBundle()
	if err != nil {
		a.logger.Error("Failed to emit nodes bundle.", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, bundle)
}

// startBridgeServer initializes and runs the editor bridge HTTP server.
func (a *App) startBridgeServer(ctx context.Context, appConfig *Config) {
	a.logger.Debug("Configuring editor bridge server.")

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/nodes.js", a.nodesHandler)
	mux.Handle("/socket.io/", a.newBridge(ctx, appConfig).ServeHandler(nil))

	addr := fmt.Sprintf(":%d", appConfig.ListenPort)
	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		a.logger.Info("🔌 Editor bridge server starting", "address", fmt.Sprintf("http://localhost%s/nodes.js", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Editor bridge server failed unexpectedly", "error", err)
		}
	}()
}

// closeBridgeServer shuts down the bridge server gracefully.
func (a *App) closeBridgeServer(ctx context.Context) {
	if a.httpServer == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	a.logger.Info("🔌 Shutting down editor bridge server...")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Editor bridge server shutdown failed", "error", err)
		return
	}
	a.logger.Debug("Editor bridge server shut down gracefully.")
}
