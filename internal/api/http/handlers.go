package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"aurum/internal/adapters/provider"
	"aurum/internal/domain/asset"
	"aurum/internal/domain/insight"
	"aurum/internal/domain/technique"
	"aurum/internal/scheduler"
	syncsvc "aurum/internal/services/sync"
	"aurum/pkg/errors"
)

// SyncService is the sync engine surface the handlers depend on
type SyncService interface {
	Sync(ctx context.Context) (*syncsvc.RunResult, error)
	SimulateSync(ctx context.Context) (*syncsvc.RunResult, error)
	SaveIndividualAsset(ctx context.Context, symbol string, data *provider.Quote) (*asset.Asset, error)
	GetAssetInfo(ctx context.Context, symbol string) (*provider.Quote, error)
	GetAvailableSymbols(ctx context.Context) (map[asset.Type][]string, error)
}

// SchedulerService is the scheduler surface the handlers depend on
type SchedulerService interface {
	Start() error
	Stop()
	Status() scheduler.Status
	RunForPeriodicity(ctx context.Context, p technique.Periodicity) (*scheduler.BatchResult, error)
	RunManual(ctx context.Context, assetID, techniqueID uuid.UUID) (*insight.Insight, error)
}

func (s *Server) handleSync(c *gin.Context) {
	result, err := s.sync.Sync(c.Request.Context())
	if err != nil {
		// A rate-limit abort still carries partial progress worth returning
		if result != nil && errors.Is(err, errors.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, result)
			return
		}
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSimulateSync(c *gin.Context) {
	result, err := s.sync.SimulateSync(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// saveAssetRequest is the client-driven single-item payload: the caller
// already fetched the quote and hands over the fields to persist.
type saveAssetRequest struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Sector        string          `json:"sector"`
	MarketCap     decimal.Decimal `json:"market_cap"`
	Currency      string          `json:"currency"`
	Logo          string          `json:"logo"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (s *Server) handleSaveAsset(c *gin.Context) {
	var req saveAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	symbol := c.Param("symbol")
	quote := &provider.Quote{
		Symbol:        symbol,
		Name:          req.Name,
		Price:         req.Price,
		ChangePercent: req.ChangePercent,
		Sector:        req.Sector,
		MarketCap:     req.MarketCap,
		Currency:      req.Currency,
		Logo:          provider.LogoRef{Large: req.Logo},
		UpdatedAt:     req.UpdatedAt,
	}

	saved, err := s.sync.SaveIndividualAsset(c.Request.Context(), symbol, quote)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol":    saved.Symbol,
		"type":      saved.Type,
		"market":    saved.Market,
		"is_active": saved.IsActive,
	})
}

func (s *Server) handleAssetInfo(c *gin.Context) {
	quote, err := s.sync.GetAssetInfo(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol":         quote.Symbol,
		"name":           quote.Name,
		"price":          quote.Price,
		"change_percent": quote.ChangePercent,
		"sector":         quote.Sector,
		"market_cap":     quote.MarketCap,
		"currency":       quote.Currency,
		"updated_at":     quote.UpdatedAt,
	})
}

func (s *Server) handleAvailableSymbols(c *gin.Context) {
	grouped, err := s.sync.GetAvailableSymbols(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grouped)
}

func (s *Server) handleAssetLogo(c *gin.Context) {
	symbol := c.Param("symbol")

	name, ok := s.logos.Lookup(symbol)
	if !ok {
		s.respondError(c, errors.Wrapf(errors.ErrNotFound, "no logo stored for %s", symbol))
		return
	}

	path, err := s.logos.Path(name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.File(path)
}

func (s *Server) handleSchedulerStart(c *gin.Context) {
	if err := s.scheduler.Start(); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.scheduler.Status())
}

func (s *Server) handleSchedulerStop(c *gin.Context) {
	s.scheduler.Stop()
	c.JSON(http.StatusOK, s.scheduler.Status())
}

func (s *Server) handleSchedulerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.scheduler.Status())
}

func (s *Server) handleSchedulerRun(c *gin.Context) {
	p := technique.Periodicity(c.Param("periodicity"))
	result, err := s.scheduler.RunForPeriodicity(c.Request.Context(), p)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type manualAnalysisRequest struct {
	AssetID     uuid.UUID `json:"asset_id" binding:"required"`
	TechniqueID uuid.UUID `json:"technique_id" binding:"required"`
}

func (s *Server) handleManualAnalysis(c *gin.Context) {
	var req manualAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	ins, err := s.scheduler.RunManual(c.Request.Context(), req.AssetID, req.TechniqueID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"insight_id":     ins.ID,
		"recommendation": ins.Recommendation,
		"confidence":     ins.Confidence,
		"analysis":       ins.Analysis,
		"price":          ins.Price,
		"target_price":   ins.TargetPrice,
		"stop_loss":      ins.StopLoss,
		"executed_at":    ins.ExecutedAt,
	})
}
