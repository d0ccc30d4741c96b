package dto

import (
	"fmt"
	"time"

	"stock-watchlist/internal/model"
)

type TargetRequest struct {
	TargetType     string   `json:"target_type" validate:"required"`
	TargetPrice    float64  `json:"target_price" validate:"required,gt=0"`
	TrimPercentage *float64 `json:"trim_percentage" validate:"omitempty,gt=0,lte=100"`
	AlertNote      *string  `json:"alert_note"`
	IsActive       *bool    `json:"is_active"`
}

// Validate enforces the rules the evaluation engine deliberately does not:
// a known target type, and a trim percentage present exactly when the type
// is Trim.
func (r TargetRequest) Validate() error {
	targetType := model.TargetType(r.TargetType)
	if !targetType.Valid() {
		return fmt.Errorf("invalid target_type %q: must be one of Buy, Sell, DCA, Trim", r.TargetType)
	}
	if targetType == model.TargetTrim && r.TrimPercentage == nil {
		return fmt.Errorf("trim_percentage is required for Trim targets")
	}
	return nil
}

func (r TargetRequest) ToModel(stockID uint) model.Target {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	target := model.Target{
		StockID:     stockID,
		TargetType:  model.TargetType(r.TargetType),
		TargetPrice: r.TargetPrice,
		AlertNote:   r.AlertNote,
		IsActive:    &isActive,
	}
	if target.TargetType == model.TargetTrim {
		target.TrimPercentage = r.TrimPercentage
	}
	return target
}

type CreateStockRequest struct {
	Symbol      string          `json:"symbol" validate:"required"`
	CompanyName *string         `json:"company_name"`
	Targets     []TargetRequest `json:"targets" validate:"dive"`
	Tags        []string        `json:"tags"`
}

type UpdateStockRequest struct {
	CompanyName *string  `json:"company_name"`
	Exchange    *string  `json:"exchange"`
	Tags        []string `json:"tags"`
}

type GetStocksParam struct {
	Tag           string
	Search        string
	IncludePrices bool
}

// TargetStatus is the derived distance between the current price and a
// target, attached to target responses when a live price is known.
type TargetStatus struct {
	Difference        float64 `json:"difference"`
	DifferencePercent float64 `json:"difference_percent"`
	IsTriggered       bool    `json:"is_triggered"`
}

type TargetResponse struct {
	model.Target
	Status *TargetStatus `json:"status,omitempty"`
}

type LatestAlert struct {
	TriggeredAt time.Time        `json:"triggered_at"`
	TargetType  model.TargetType `json:"target_type"`
	TargetPrice float64          `json:"target_price"`
}

type StockResponse struct {
	ID           uint             `json:"id"`
	Symbol       string           `json:"symbol"`
	CompanyName  *string          `json:"company_name"`
	Exchange     *string          `json:"exchange"`
	Tags         []model.Tag      `json:"tags"`
	Targets      []TargetResponse `json:"targets"`
	NotesCount   int64            `json:"notes_count"`
	CurrentPrice *float64         `json:"current_price,omitempty"`
	RSI          *float64         `json:"rsi,omitempty"`
	LatestAlert  *LatestAlert     `json:"latest_alert,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type StockDetailResponse struct {
	StockResponse
	Notes   []model.Note   `json:"notes"`
	Holding *model.Holding `json:"holding,omitempty"`
}

type HoldingRequest struct {
	Shares      float64  `json:"shares" validate:"required,gt=0"`
	AverageCost *float64 `json:"average_cost" validate:"omitempty,gt=0"`
}

// PortfolioPosition is a holding enriched with live market value.
type PortfolioPosition struct {
	Symbol       string   `json:"symbol"`
	CompanyName  *string  `json:"company_name"`
	Shares       float64  `json:"shares"`
	AverageCost  *float64 `json:"average_cost"`
	CurrentPrice *float64 `json:"current_price"`
	MarketValue  *float64 `json:"market_value"`
	CostBasis    *float64 `json:"cost_basis"`
	GainLoss     *float64 `json:"gain_loss"`
	GainLossPct  *float64 `json:"gain_loss_percent"`
}

type PortfolioSummary struct {
	Positions        []PortfolioPosition `json:"positions"`
	TotalMarketValue float64             `json:"total_market_value"`
	TotalCostBasis   float64             `json:"total_cost_basis"`
	TotalGainLoss    float64             `json:"total_gain_loss"`
}

type NoteRequest struct {
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	NoteDate *string `json:"note_date"`
}

type TagRequest struct {
	Name  string  `json:"name" validate:"required"`
	Color *string `json:"color"`
}

type BatchPriceRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1"`
}

type PriceResponse struct {
	Symbol       string   `json:"symbol"`
	CurrentPrice *float64 `json:"current_price"`
}
