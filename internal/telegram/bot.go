package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shopping-list/internal/app"
	"shopping-list/internal/clipper"
	"shopping-list/internal/config"
	"shopping-list/internal/metrics"
	"shopping-list/internal/recipe"
	"shopping-list/internal/shopping"
)

const (
	historyLimit   = 5
	reportFileName = "shopping-list.txt"
	toggleAction   = "toggle"
)

const helpText = `🛒 *Shopping List Bot*

/recipes - pick recipes (optionally /recipes MealType:Dinner)
/selected - show the current selection
/clear - clear the selection
/generate [print|notes] - build the shopping list
/history - recent shopping lists
/show <id> - send a list from history again
/help - this message

Send a recipe URL to import it.`

// botAPI is the subset of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// Bot wraps the Telegram API and the shopping list app.
type Bot struct {
	api          botAPI
	app          *app.App
	clipper      *clipper.Clipper
	metricsStore *metrics.Store
	cfg          *config.Config
	logger       *log.Logger

	mu         sync.Mutex
	selections map[int64]*app.Selection // by chat ID

	wg sync.WaitGroup
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	a *app.App,
	clip *clipper.Clipper,
	metricsStore *metrics.Store,
	logger *log.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	logger.Info("authorized on account", "user", api.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook for %s: %w", webhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	logger.Info("webhook set", "response", resp.Description)

	return newBot(api, cfg, a, clip, metricsStore, logger), nil
}

func newBot(api botAPI, cfg *config.Config, a *app.App, clip *clipper.Clipper, metricsStore *metrics.Store, logger *log.Logger) *Bot {
	return &Bot{
		api:          api,
		app:          a,
		clipper:      clip,
		metricsStore: metricsStore,
		cfg:          cfg,
		logger:       logger,
		selections:   make(map[int64]*app.Selection),
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Wait blocks until every in-flight message has been handled.
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Error("error parsing update", "err", err)
		return
	}

	var from *tgbotapi.User
	switch {
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	case update.Message != nil:
		from = update.Message.From
	default:
		return
	}

	if from == nil || !b.cfg.IsAllowed(from.ID) {
		if from != nil {
			b.logger.Warn("unauthorized access attempt", "user_id", from.ID, "username", from.UserName)
		}
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if update.CallbackQuery != nil {
			b.handleCallbackQuery(update.CallbackQuery)
			return
		}
		b.processMessage(update.Message)
	}()
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID

	// Detect if it's a URL (Clipper mode)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleClipperRequest(chatID, text)
		return
	}

	ctx := context.Background()
	cmd, args := parseCommand(text)
	switch cmd {
	case "recipes":
		b.handleRecipes(chatID, args)
	case "selected":
		b.handleSelected(chatID)
	case "clear":
		b.withSelection(chatID, func(s *app.Selection) { s.Clear() })
		b.reply(chatID, "🧹 Selection cleared.")
	case "generate":
		b.handleGenerate(ctx, chatID, args)
	case "history":
		b.handleHistory(ctx, chatID)
	case "show":
		b.handleShow(ctx, chatID, args)
	case "metrics":
		if msg.From.ID != b.cfg.AdminTelegramID {
			b.reply(chatID, "⛔ Access Denied: Admin only.")
			return
		}
		b.handleMetricsCommand(ctx, chatID)
	default:
		m := tgbotapi.NewMessage(chatID, helpText)
		m.ParseMode = "Markdown"
		b.send(m)
	}
}

// parseCommand splits "/generate@MyBot print" into "generate" and "print".
func parseCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, args, _ := strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

func (b *Bot) withSelection(chatID int64, fn func(s *app.Selection)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.selections[chatID]
	if !ok {
		s = b.app.NewSelection()
		b.selections[chatID] = s
	}
	fn(s)
}

func (b *Bot) selectedNames(chatID int64) []string {
	var names []string
	b.withSelection(chatID, func(s *app.Selection) { names = s.Names() })
	return names
}

func (b *Bot) handleRecipes(chatID int64, args string) {
	all := b.app.Recipes()
	var indices []int
	if args != "" {
		tag, err := recipe.ParseTag(args)
		if err != nil {
			b.reply(chatID, fmt.Sprintf("❌ %v", err))
			return
		}
		for i, rec := range all {
			if rec.HasTag(tag) {
				indices = append(indices, i)
			}
		}
	} else {
		for i := range all {
			indices = append(indices, i)
		}
	}

	if len(indices) == 0 {
		b.reply(chatID, "📭 No recipes found.")
		return
	}

	m := tgbotapi.NewMessage(chatID, "📖 Tap a recipe to add or remove it:")
	m.ReplyMarkup = b.recipeKeyboard(chatID, all, indices)
	b.send(m)
}

func (b *Bot) recipeKeyboard(chatID int64, all []recipe.Recipe, indices []int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	b.withSelection(chatID, func(s *app.Selection) {
		for _, i := range indices {
			label := all[i].Name
			if s.Contains(label) {
				label = "✅ " + label
			}
			data := fmt.Sprintf("%s|%d", toggleAction, i)
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
		}
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	action, arg, ok := strings.Cut(query.Data, "|")
	if !ok || action != toggleAction || query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	all := b.app.Recipes()
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 || idx >= len(all) {
		b.api.Request(tgbotapi.NewCallback(query.ID, "Unknown recipe"))
		return
	}
	name := all[idx].Name

	var selected bool
	b.withSelection(chatID, func(s *app.Selection) { selected = s.Toggle(name) })

	// Answer callback to remove spinner
	answer := "Removed " + name
	if selected {
		answer = "Added " + name
	}
	b.api.Request(tgbotapi.NewCallback(query.ID, answer))

	indices := keyboardIndices(query.Message.ReplyMarkup)
	if len(indices) == 0 {
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, query.Message.MessageID, b.recipeKeyboard(chatID, all, indices))
	b.send(edit)
}

// keyboardIndices recovers which recipes an inline keyboard listed.
func keyboardIndices(markup *tgbotapi.InlineKeyboardMarkup) []int {
	if markup == nil {
		return nil
	}
	var out []int
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData == nil {
				continue
			}
			action, arg, ok := strings.Cut(*btn.CallbackData, "|")
			if !ok || action != toggleAction {
				continue
			}
			if i, err := strconv.Atoi(arg); err == nil {
				out = append(out, i)
			}
		}
	}
	return out
}

func (b *Bot) handleSelected(chatID int64) {
	names := b.selectedNames(chatID)
	if len(names) == 0 {
		b.reply(chatID, "Nothing selected yet. Use /recipes to pick some.")
		return
	}
	var sb strings.Builder
	sb.WriteString("🧾 Selected recipes:\n")
	for _, n := range names {
		sb.WriteString(fmt.Sprintf("• %s\n", n))
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleGenerate(ctx context.Context, chatID int64, args string) {
	format := b.cfg.ReportFormat
	if args != "" {
		f, err := shopping.ParseFormat(args)
		if err != nil {
			b.reply(chatID, fmt.Sprintf("❌ %v", err))
			return
		}
		format = f
	}

	res, err := b.app.Report(ctx, "telegram", b.selectedNames(chatID), format)
	switch {
	case errors.Is(err, shopping.ErrEmptyList):
		b.reply(chatID, "🛒 Nothing to buy. Use /recipes to pick some recipes first.")
		return
	case err != nil:
		b.logger.Error("error generating shopping list", "chat_id", chatID, "err", err)
		b.reply(chatID, fmt.Sprintf("❌ Error generating shopping list: %v", err))
		return
	}

	caption := fmt.Sprintf("🛒 %d ingredients from %d recipes", res.List.Len(), len(res.List.RecipeNames()))
	if res.ListID != "" {
		caption += fmt.Sprintf("\nID: %s", res.ListID)
	}
	b.sendReport(chatID, res.Report, caption)
}

func (b *Bot) sendReport(chatID int64, report, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: reportFileName, Bytes: []byte(report)})
	doc.Caption = caption
	b.send(doc)
}

func (b *Bot) handleHistory(ctx context.Context, chatID int64) {
	records, err := b.app.History(ctx, historyLimit)
	if err != nil {
		b.logger.Error("error fetching history", "err", err)
		b.reply(chatID, "❌ Error fetching history.")
		return
	}
	if len(records) == 0 {
		b.reply(chatID, "📭 No shopping lists yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🗂 Recent shopping lists:\n\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("• %s (%s)\n  %s\n  /show %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Format, strings.Join(r.Recipes, ", "), r.ID))
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleShow(ctx context.Context, chatID int64, id string) {
	if id == "" {
		b.reply(chatID, "Usage: /show <id>")
		return
	}
	rec, err := b.app.Show(ctx, id)
	if err != nil {
		if errors.Is(err, app.ErrListNotFound) {
			b.reply(chatID, "📭 No shopping list with that ID.")
			return
		}
		b.logger.Error("error fetching shopping list", "id", id, "err", err)
		b.reply(chatID, "❌ Error fetching shopping list.")
		return
	}
	b.sendReport(chatID, rec.List.Render(rec.Format), fmt.Sprintf("🛒 From %s", rec.CreatedAt.Format("2006-01-02 15:04")))
}

func (b *Bot) handleClipperRequest(chatID int64, url string) {
	sentMsg, err := b.api.Send(tgbotapi.NewMessage(chatID, "✂️ Clipping recipe..."))
	if err != nil {
		b.logger.Error("failed to send initial reply", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := b.clipper.ClipURL(ctx, url)
	var finalText string
	if errors.Is(err, clipper.ErrRecipeExists) {
		finalText = "⚠️ A recipe with that name already exists, nothing was saved."
	} else if err != nil {
		b.logger.Error("error clipping recipe", "url", url, "err", err)
		finalText = fmt.Sprintf("❌ Error clipping recipe: %v", err)
	} else {
		finalText = fmt.Sprintf("✅ Recipe saved: %s (%d ingredients)", res.Recipe.Name, len(res.Recipe.Ingredients))
		if len(res.Skipped) > 0 {
			finalText += "\nSkipped lines:\n• " + strings.Join(res.Skipped, "\n• ")
		}
	}
	b.send(tgbotapi.NewEditMessageText(chatID, sentMsg.MessageID, finalText))
}

func (b *Bot) handleMetricsCommand(ctx context.Context, chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(ctx, 7)
	if err != nil {
		b.logger.Error("error fetching metrics", "err", err)
		b.reply(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d lists, %d recipes, %.0fms avg\n", d.Date, d.Generations, d.TotalRecipes, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s in %d files\n", health.DataDiskSize, health.DataFiles))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	b.send(msg)
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("failed to send telegram message", "err", err)
	}
}
