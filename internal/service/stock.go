package service

import (
	"context"
	"fmt"
	"time"

	"stock-watchlist/internal/dto"
	"stock-watchlist/internal/model"
	"stock-watchlist/internal/repository"
	"stock-watchlist/pkg/logger"
	"stock-watchlist/pkg/utils"
)

var (
	ErrStockNotFound      = fmt.Errorf("stock not found")
	ErrStockAlreadyExists = fmt.Errorf("stock already exists")
	ErrTargetNotFound     = fmt.Errorf("target not found")
	ErrNoteNotFound       = fmt.Errorf("note not found")
	ErrInvalidSymbol      = fmt.Errorf("unknown symbol")
)

// StockService owns the watchlist: stocks, their price targets, tags and
// notes. Multi-row writes go through the unit of work so a half-created
// stock never survives.
type StockService interface {
	CreateStock(ctx context.Context, req dto.CreateStockRequest) (*model.Stock, error)
	GetStocks(ctx context.Context, param dto.GetStocksParam) ([]dto.StockResponse, error)
	GetStockDetail(ctx context.Context, symbol string) (*dto.StockDetailResponse, error)
	UpdateStock(ctx context.Context, symbol string, req dto.UpdateStockRequest) (*model.Stock, error)
	DeleteStock(ctx context.Context, symbol string) error

	AddTarget(ctx context.Context, symbol string, req dto.TargetRequest) (*model.Target, error)
	UpdateTarget(ctx context.Context, targetID uint, req dto.TargetRequest) (*model.Target, error)
	SetTargetActive(ctx context.Context, targetID uint, active bool) error
	DeleteTarget(ctx context.Context, targetID uint) error

	AddNote(ctx context.Context, symbol string, req dto.NoteRequest) (*model.Note, error)
	UpdateNote(ctx context.Context, noteID uint, req dto.NoteRequest) (*model.Note, error)
	DeleteNote(ctx context.Context, noteID uint) error

	GetTags(ctx context.Context) ([]model.Tag, error)
	CreateTag(ctx context.Context, req dto.TagRequest) (*model.Tag, error)
	DeleteTag(ctx context.Context, tagID uint) error

	GetAlertHistory(ctx context.Context, symbol string, limit int) ([]model.AlertHistory, error)
	DeleteAlertHistory(ctx context.Context, id uint) error
}

type stockService struct {
	log    *logger.Logger
	repo   *repository.Repository
	quotes QuoteService
}

func NewStockService(log *logger.Logger, repo *repository.Repository, quotes QuoteService) StockService {
	return &stockService{log: log, repo: repo, quotes: quotes}
}

func (s *stockService) CreateStock(ctx context.Context, req dto.CreateStockRequest) (*model.Stock, error) {
	symbol := utils.NormalizeSymbol(req.Symbol)

	existing, err := s.repo.StockRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStockAlreadyExists
	}

	for _, target := range req.Targets {
		if err := target.Validate(); err != nil {
			return nil, err
		}
	}

	if !s.quotes.ValidateSymbol(ctx, symbol) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSymbol, symbol)
	}

	stock := &model.Stock{
		Symbol:      symbol,
		CompanyName: req.CompanyName,
	}

	// Name and exchange come from the quote source unless the caller gave
	// an explicit name.
	if info := s.quotes.GetCompanyInfo(ctx, symbol); info != nil {
		if stock.CompanyName == nil && info.Name != "" {
			stock.CompanyName = &info.Name
		}
		if info.Exchange != "" {
			stock.Exchange = &info.Exchange
		}
	}

	err = s.repo.UnitOfWork.Run(func(opts ...utils.DBOption) error {
		if err := s.repo.StockRepo.Create(ctx, stock, opts...); err != nil {
			return err
		}

		for _, targetReq := range req.Targets {
			target := targetReq.ToModel(stock.ID)
			if err := s.repo.TargetRepo.Create(ctx, &target, opts...); err != nil {
				return err
			}
			stock.Targets = append(stock.Targets, target)
		}

		tags, err := s.resolveTags(ctx, req.Tags, opts...)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := s.repo.TagRepo.ReplaceStockTags(ctx, stock, tags, opts...); err != nil {
				return err
			}
			stock.Tags = tags
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Stock added to watchlist",
		logger.StringField("symbol", symbol),
		logger.IntField("targets", len(stock.Targets)))
	return stock, nil
}

func (s *stockService) resolveTags(ctx context.Context, names []string, opts ...utils.DBOption) ([]model.Tag, error) {
	var tags []model.Tag
	for _, name := range names {
		if name == "" {
			continue
		}
		tag, err := s.repo.TagRepo.GetOrCreate(ctx, name, opts...)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (s *stockService) GetStocks(ctx context.Context, param dto.GetStocksParam) ([]dto.StockResponse, error) {
	stocks, err := s.repo.StockRepo.Get(ctx, repository.GetStocksParam{
		Tag:    param.Tag,
		Search: param.Search,
	}, utils.WithPreload("Targets"), utils.WithPreload("Tags"))
	if err != nil {
		return nil, err
	}

	stockIDs := make([]uint, 0, len(stocks))
	symbols := make([]string, 0, len(stocks))
	for _, stock := range stocks {
		stockIDs = append(stockIDs, stock.ID)
		symbols = append(symbols, stock.Symbol)
	}

	noteCounts, err := s.repo.NoteRepo.CountByStockIDs(ctx, stockIDs)
	if err != nil {
		return nil, err
	}
	latestAlerts, err := s.repo.AlertHistoryRepo.GetLatestByStockIDs(ctx, stockIDs)
	if err != nil {
		return nil, err
	}

	var prices map[string]*float64
	if param.IncludePrices {
		prices = s.quotes.GetPrices(ctx, symbols)
	}

	responses := make([]dto.StockResponse, 0, len(stocks))
	for _, stock := range stocks {
		var price *float64
		if prices != nil {
			price = prices[stock.Symbol]
		}
		responses = append(responses, s.toStockResponse(stock, price, noteCounts[stock.ID], latestAlerts))
	}
	return responses, nil
}

func (s *stockService) toStockResponse(stock model.Stock, price *float64, notesCount int64, latestAlerts map[uint]model.AlertHistory) dto.StockResponse {
	resp := dto.StockResponse{
		ID:           stock.ID,
		Symbol:       stock.Symbol,
		CompanyName:  stock.CompanyName,
		Exchange:     stock.Exchange,
		Tags:         stock.Tags,
		NotesCount:   notesCount,
		CurrentPrice: price,
		CreatedAt:    stock.CreatedAt,
		UpdatedAt:    stock.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []model.Tag{}
	}

	resp.Targets = make([]dto.TargetResponse, 0, len(stock.Targets))
	for _, target := range stock.Targets {
		resp.Targets = append(resp.Targets, dto.TargetResponse{
			Target: target,
			Status: targetStatus(target, price),
		})
	}

	if latest, ok := latestAlerts[stock.ID]; ok {
		resp.LatestAlert = &dto.LatestAlert{
			TriggeredAt: latest.TriggeredAt,
			TargetType:  latest.TargetType,
			TargetPrice: latest.TargetPrice,
		}
	}
	return resp
}

// targetStatus derives the live distance to a target. Unknown price means no
// status, and a zero target price cannot express a percent distance.
func targetStatus(target model.Target, price *float64) *dto.TargetStatus {
	if price == nil {
		return nil
	}

	diff := *price - target.TargetPrice
	status := &dto.TargetStatus{Difference: diff}
	if target.TargetPrice != 0 {
		status.DifferencePercent = diff / target.TargetPrice * 100
	}

	if target.TargetType.BuySide() {
		status.IsTriggered = *price <= target.TargetPrice
	} else {
		status.IsTriggered = *price >= target.TargetPrice
	}
	return status
}

func (s *stockService) GetStockDetail(ctx context.Context, symbol string) (*dto.StockDetailResponse, error) {
	symbol = utils.NormalizeSymbol(symbol)
	stock, err := s.repo.StockRepo.GetBySymbol(ctx, symbol,
		utils.WithPreload("Targets"), utils.WithPreload("Tags"),
		utils.WithPreload("Notes"), utils.WithPreload("Holding"))
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, ErrStockNotFound
	}

	price := s.quotes.GetPrice(ctx, symbol)
	latestAlerts, err := s.repo.AlertHistoryRepo.GetLatestByStockIDs(ctx, []uint{stock.ID})
	if err != nil {
		return nil, err
	}

	resp := &dto.StockDetailResponse{
		StockResponse: s.toStockResponse(*stock, price, int64(len(stock.Notes)), latestAlerts),
		Notes:         stock.Notes,
		Holding:       stock.Holding,
	}
	if resp.Notes == nil {
		resp.Notes = []model.Note{}
	}
	resp.RSI = s.quotes.GetRSI(ctx, symbol, 14)
	return resp, nil
}

func (s *stockService) UpdateStock(ctx context.Context, symbol string, req dto.UpdateStockRequest) (*model.Stock, error) {
	stock, err := s.repo.StockRepo.GetBySymbol(ctx, utils.NormalizeSymbol(symbol))
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, ErrStockNotFound
	}

	if req.CompanyName != nil {
		stock.CompanyName = req.CompanyName
	}
	if req.Exchange != nil {
		stock.Exchange = req.Exchange
	}

	err = s.repo.UnitOfWork.Run(func(opts ...utils.DBOption) error {
		if err := s.repo.StockRepo.Update(ctx, stock, opts...); err != nil {
			return err
		}
		if req.Tags != nil {
			tags, err := s.resolveTags(ctx, req.Tags, opts...)
			if err != nil {
				return err
			}
			if err := s.repo.TagRepo.ReplaceStockTags(ctx, stock, tags, opts...); err != nil {
				return err
			}
			stock.Tags = tags
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stock, nil
}

func (s *stockService) DeleteStock(ctx context.Context, symbol string) error {
	stock, err := s.repo.StockRepo.GetBySymbol(ctx, utils.NormalizeSymbol(symbol))
	if err != nil {
		return err
	}
	if stock == nil {
		return ErrStockNotFound
	}

	if err := s.repo.StockRepo.Delete(ctx, stock.ID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "Stock removed from watchlist", logger.StringField("symbol", stock.Symbol))
	return nil
}

func (s *stockService) AddTarget(ctx context.Context, symbol string, req dto.TargetRequest) (*model.Target, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	stock, err := s.repo.StockRepo.GetBySymbol(ctx, utils.NormalizeSymbol(symbol))
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, ErrStockNotFound
	}

	target := req.ToModel(stock.ID)
	if err := s.repo.TargetRepo.Create(ctx, &target); err != nil {
		return nil, err
	}
	return &target, nil
}

func (s *stockService) UpdateTarget(ctx context.Context, targetID uint, req dto.TargetRequest) (*model.Target, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	target, err := s.repo.TargetRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrTargetNotFound
	}

	target.TargetType = model.TargetType(req.TargetType)
	target.TargetPrice = req.TargetPrice
	target.AlertNote = req.AlertNote
	if target.TargetType == model.TargetTrim {
		target.TrimPercentage = req.TrimPercentage
	} else {
		target.TrimPercentage = nil
	}
	if req.IsActive != nil {
		target.IsActive = req.IsActive
	}

	if err := s.repo.TargetRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *stockService) SetTargetActive(ctx context.Context, targetID uint, active bool) error {
	target, err := s.repo.TargetRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrTargetNotFound
	}
	return s.repo.TargetRepo.SetActive(ctx, targetID, active)
}

func (s *stockService) DeleteTarget(ctx context.Context, targetID uint) error {
	target, err := s.repo.TargetRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrTargetNotFound
	}
	return s.repo.TargetRepo.Delete(ctx, targetID)
}

func (s *stockService) AddNote(ctx context.Context, symbol string, req dto.NoteRequest) (*model.Note, error) {
	stock, err := s.repo.StockRepo.GetBySymbol(ctx, utils.NormalizeSymbol(symbol))
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, ErrStockNotFound
	}

	note := &model.Note{
		StockID: stock.ID,
		Title:   req.Title,
		Content: req.Content,
	}
	if noteDate, err := parseNoteDate(req.NoteDate); err != nil {
		return nil, err
	} else {
		note.NoteDate = noteDate
	}

	if err := s.repo.NoteRepo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *stockService) UpdateNote(ctx context.Context, noteID uint, req dto.NoteRequest) (*model.Note, error) {
	note, err := s.repo.NoteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	note.Title = req.Title
	note.Content = req.Content
	if noteDate, err := parseNoteDate(req.NoteDate); err != nil {
		return nil, err
	} else if noteDate != nil {
		note.NoteDate = noteDate
	}

	if err := s.repo.NoteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func parseNoteDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid note_date %q: expected YYYY-MM-DD", *raw)
	}
	return &parsed, nil
}

func (s *stockService) DeleteNote(ctx context.Context, noteID uint) error {
	note, err := s.repo.NoteRepo.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNoteNotFound
	}
	return s.repo.NoteRepo.Delete(ctx, noteID)
}

func (s *stockService) GetTags(ctx context.Context) ([]model.Tag, error) {
	return s.repo.TagRepo.GetAll(ctx)
}

func (s *stockService) CreateTag(ctx context.Context, req dto.TagRequest) (*model.Tag, error) {
	tag := &model.Tag{Name: req.Name, Color: req.Color}
	if err := s.repo.TagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *stockService) DeleteTag(ctx context.Context, tagID uint) error {
	return s.repo.TagRepo.Delete(ctx, tagID)
}

func (s *stockService) GetAlertHistory(ctx context.Context, symbol string, limit int) ([]model.AlertHistory, error) {
	param := repository.GetAlertHistoryParam{Limit: limit}
	if symbol != "" {
		stock, err := s.repo.StockRepo.GetBySymbol(ctx, utils.NormalizeSymbol(symbol))
		if err != nil {
			return nil, err
		}
		if stock == nil {
			return nil, ErrStockNotFound
		}
		param.StockIDs = []uint{stock.ID}
	}
	return s.repo.AlertHistoryRepo.Get(ctx, param)
}

func (s *stockService) DeleteAlertHistory(ctx context.Context, id uint) error {
	return s.repo.AlertHistoryRepo.Delete(ctx, id)
}
