// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package rpcserver exposes the linker as a JSON-RPC 2.0 service over
// HTTP, for out-of-process callers (e.g. a build pipeline) that want
// xlinker as a long-running service instead of a CLI invocation.
package rpcserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dotandev/xlinker/internal/depthsort"
	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/indexer"
	"github.com/dotandev/xlinker/internal/logger"
	"github.com/dotandev/xlinker/internal/staticlink"
	"github.com/dotandev/xlinker/internal/telemetry"
)

// Config holds the server's listen address.
type Config struct {
	Port string
}

// Server is the linker's JSON-RPC facade: one method per public
// linker operation.
type Server struct{}

// NewServer creates a Server. The linker core is stateless, so there is
// nothing to wire beyond the zero value; NewServer exists to mirror the
// shape other daemon-style constructors in this codebase take.
func NewServer() *Server {
	return &Server{}
}

// StaticLinkRequest is the static_link RPC request.
type StaticLinkRequest struct {
	TargetName    string                    `json:"target_name"`
	TargetVersion string                    `json:"target_version"`
	Finalize      bool                      `json:"finalize"`
	Units         []entry.ImageCommonEntry  `json:"units"`
}

// StaticLinkResponse is the static_link RPC response.
type StaticLinkResponse struct {
	Module entry.ImageCommonEntry `json:"module"`
}

// StaticLink handles static_link RPC calls: merge sibling object units
// into one module.
func (s *Server) StaticLink(r *http.Request, req *StaticLinkRequest, resp *StaticLinkResponse) error {
	ctx := r.Context()
	tracer := telemetry.GetTracer()
	ctx, span := tracer.Start(ctx, "rpc_static_link")
	span.SetAttributes(attribute.String("target.name", req.TargetName), attribute.Int("unit.count", len(req.Units)))
	defer span.End()
	_ = ctx

	logger.Logger.Info("processing static_link RPC", "target", req.TargetName, "units", len(req.Units))

	module, err := staticlink.StaticLink(req.TargetName, req.TargetVersion, req.Finalize, req.Units)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("static link failed: %w", err)
	}

	*resp = StaticLinkResponse{Module: module}
	return nil
}

// DynamicIndexRequest is the dynamic_index RPC request. Modules[0] must
// be the application.
type DynamicIndexRequest struct {
	Modules []entry.ImageCommonEntry `json:"modules"`
}

// DynamicIndexResponse is the dynamic_index RPC response.
type DynamicIndexResponse struct {
	SortedModules []entry.ImageCommonEntry `json:"sorted_modules"`
	Index         entry.ImageIndexEntry    `json:"index"`
}

// DynamicIndex handles dynamic_index RPC calls: depth-sort the modules
// and build the cross-module image index.
func (s *Server) DynamicIndex(r *http.Request, req *DynamicIndexRequest, resp *DynamicIndexResponse) error {
	ctx := r.Context()
	tracer := telemetry.GetTracer()
	_, span := tracer.Start(ctx, "rpc_dynamic_index")
	span.SetAttributes(attribute.Int("module.count", len(req.Modules)))
	defer span.End()

	logger.Logger.Info("processing dynamic_index RPC", "modules", len(req.Modules))

	sorted, order, err := depthsort.SortByDepth(req.Modules)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("depth sort failed: %w", err)
	}

	index, err := indexer.BuildImageIndex(sorted, order, nil)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("image index build failed: %w", err)
	}

	*resp = DynamicIndexResponse{SortedModules: sorted, Index: index}
	return nil
}

// Start registers the JSON-RPC service and blocks serving HTTP until ctx
// is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, port string) error {
	server := rpc.NewServer()
	server.RegisterCodec(json2.NewCodec(), "application/json")
	server.RegisterCodec(json2.NewCodec(), "application/json;charset=UTF-8")

	if err := server.RegisterService(s, ""); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/rpc", server)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	logger.Logger.Info("starting JSON-RPC server", "port", port)

	httpServer := &http.Server{Addr: ":" + port, Handler: mux}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Error("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Logger.Info("shutting down JSON-RPC server")
	return httpServer.Shutdown(context.Background())
}
