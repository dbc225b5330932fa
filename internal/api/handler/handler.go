package handler

import (
	"context"
	"log/slog"

	"github.com/pbes/hscode-service/internal/reference"
	"github.com/pbes/hscode-service/internal/scan"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger      *slog.Logger
	ScanService *scan.Service
	Store       *scan.Store
	Index       *reference.Index

	// DBHealth checks the audit database when one is configured; nil
	// otherwise.
	DBHealth func(ctx context.Context) error
}

// ScanHandler handles HS code scan requests
type ScanHandler struct {
	logger  *slog.Logger
	service *scan.Service
	store   *scan.Store
}

// NewScanHandler creates a new ScanHandler instance
func NewScanHandler(deps *Dependencies) *ScanHandler {
	return &ScanHandler{
		logger:  deps.Logger,
		service: deps.ScanService,
		store:   deps.Store,
	}
}

// ReferenceHandler handles reference dataset requests
type ReferenceHandler struct {
	logger *slog.Logger
	index  *reference.Index
}

// NewReferenceHandler creates a new ReferenceHandler instance
func NewReferenceHandler(deps *Dependencies) *ReferenceHandler {
	return &ReferenceHandler{
		logger: deps.Logger,
		index:  deps.Index,
	}
}
