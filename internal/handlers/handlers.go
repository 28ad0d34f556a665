package handlers

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/logic"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// ReloadQueue defines the interface for the snapshot reload worker
type ReloadQueue interface {
	Enqueue(reason string) (string, bool)
	QueueDepth() int
}

type Config struct {
	Prediction logic.PredictionService
	Reloads    ReloadQueue
	Logger     *zap.Logger

	// BatchConcurrency bounds concurrent predictions within one batch request
	BatchConcurrency int
	MaxBatchSize     int
	// AdminToken guards /system endpoints. Empty disables them.
	AdminToken string
}

type Handler struct {
	prediction       logic.PredictionService
	reloads          ReloadQueue
	logger           *zap.SugaredLogger
	validator        *validator.Validate
	batchConcurrency int
	maxBatchSize     int
	adminTokenHash   string
}

func New(cfg Config) *Handler {
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 8
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 100
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handler{
		prediction:       cfg.Prediction,
		reloads:          cfg.Reloads,
		logger:           logger.Sugar(),
		validator:        validator.New(),
		batchConcurrency: cfg.BatchConcurrency,
		maxBatchSize:     cfg.MaxBatchSize,
	}
	if cfg.AdminToken != "" {
		h.adminTokenHash = hashToken(cfg.AdminToken)
	}
	return h
}
