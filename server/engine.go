package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sheetung/SpendFlow/server/db"
)

// PurchaseStore is the slice of the query layer the command engine needs.
// *db.Queries satisfies it; tests substitute doubles.
type PurchaseStore interface {
	CreatePurchase(ctx context.Context, arg db.CreatePurchaseParams) (int64, error)
	ListPurchasesByUser(ctx context.Context, userID string) ([]db.Purchase, error)
	DeletePurchase(ctx context.Context, id int64) (bool, error)
}

const usageText = "🛒 消费记录插件\n" +
	"格式：jw [物品] [平台] [价格] <日期>\n" +
	"示例：jw 显卡 京东 2999 2024-04-27\n" +
	"其他命令：\n" +
	"jw v → 查看统计\n" +
	"jw d 序号 → 删除记录"

// Engine turns one command's argument tokens into a reply, calling the store
// as needed. It owns all business decisions: parsing, validation, amortization
// and virtual-index resolution.
type Engine struct {
	store  PurchaseStore
	logger *log.Logger
	now    func() time.Time
}

func NewEngine(store PurchaseStore, logger *log.Logger) *Engine {
	return &Engine{store: store, logger: logger, now: time.Now}
}

// Execute routes args (the tokens after the command prefix) and always returns
// a reply string; every failure, anticipated or not, becomes a user message.
func (e *Engine) Execute(ctx context.Context, userID string, args []string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("command panicked", "user", userID, "panic", r)
			reply = fmt.Sprintf("⚠️ 命令执行出错: %v", r)
		}
	}()

	if len(args) == 0 {
		return usageText
	}

	var err error
	switch {
	case args[0] == "v":
		reply, err = e.showStats(ctx, userID)
	case args[0] == "d" && len(args) > 1:
		reply, err = e.deleteByVirtualIndex(ctx, userID, args[1])
	default:
		reply, err = e.addPurchase(ctx, userID, args)
	}
	if err != nil {
		return e.errorReply(userID, err)
	}
	return reply
}

func (e *Engine) addPurchase(ctx context.Context, userID string, args []string) (string, error) {
	parsed, err := ParsePurchase(args, e.now())
	if err != nil {
		return "", err
	}

	// The reply echoes a "today" marker when the user gave no explicit date.
	dateLabel := "今日"
	date := parsed.Date
	if date == "" {
		date = e.now().Format(dateLayout)
	} else {
		dateLabel = date
	}

	id, err := e.store.CreatePurchase(ctx, db.CreatePurchaseParams{
		UserID:       userID,
		ItemName:     parsed.ItemName,
		Platform:     parsed.Platform,
		Price:        parsed.Price,
		PurchaseDate: date,
	})
	if err != nil {
		return "", fmt.Errorf("saving purchase: %w", err)
	}

	e.logger.Info("purchase recorded", "user", userID, "id", id, "item", parsed.ItemName, "price", parsed.Price)
	return fmt.Sprintf("✅ 已记录 #%d\n▫️物品：%s\n▫️平台：%s\n▫️金额：%.2f元\n▫️日期：%s",
		id, parsed.ItemName, parsed.Platform, parsed.Price, dateLabel), nil
}

func (e *Engine) showStats(ctx context.Context, userID string) (string, error) {
	records, err := e.store.ListPurchasesByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("loading purchases: %w", err)
	}
	if len(records) == 0 {
		return "📭 暂无消费记录", nil
	}
	return BuildStatsReport(records, e.now()), nil
}

// deleteByVirtualIndex resolves a 1-based position in the freshly fetched
// date-descending list back to a stable id and deletes that record. The list
// is never cached from an earlier stats call.
func (e *Engine) deleteByVirtualIndex(ctx context.Context, userID, rawIndex string) (string, error) {
	records, err := e.store.ListPurchasesByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("loading purchases: %w", err)
	}

	idx, err := strconv.Atoi(rawIndex)
	if err != nil {
		return "", ErrNonNumericIndex
	}
	if idx < 1 || idx > len(records) {
		return "", ErrInvalidIndex
	}

	target := records[idx-1]
	deleted, err := e.store.DeletePurchase(ctx, target.ID)
	if err != nil {
		return "", fmt.Errorf("deleting purchase: %w", err)
	}
	if !deleted {
		// Concurrent delete between the list fetch and this call.
		return "", ErrRecordNotFound
	}

	e.logger.Info("purchase deleted", "user", userID, "id", target.ID, "index", idx)
	return fmt.Sprintf("✅ 已删除记录 #%d\n▫️物品：%s\n▫️平台：%s\n▫️金额：%.2f元\n▫️日期：%s",
		idx, target.ItemName, target.Platform, target.Price, target.PurchaseDate), nil
}

func (e *Engine) errorReply(userID string, err error) string {
	switch {
	case errors.Is(err, ErrDateFormat):
		return "❌ 日期格式错误，请使用类似 2024-04-27 的格式"
	case errors.Is(err, ErrFutureDate):
		return "❌ 消费日期不能晚于今天"
	case errors.Is(err, ErrInsufficientArgs):
		return "❌ 参数不足\n格式：jw [物品] [平台] [价格] <日期>"
	case errors.Is(err, ErrNonNumericPrice):
		return "❌ 价格必须为数字"
	case errors.Is(err, ErrNonNumericIndex):
		return "❌ 请输入数字序号"
	case errors.Is(err, ErrInvalidIndex):
		return "❌ 无效序号"
	case errors.Is(err, ErrRecordNotFound):
		return "❌ 删除失败"
	default:
		e.logger.Error("command failed", "user", userID, "error", err)
		return fmt.Sprintf("⚠️ 命令执行出错: %v", err)
	}
}
