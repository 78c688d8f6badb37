package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"taskflow/internal/i18n"
	"taskflow/internal/model"
	"taskflow/internal/service"
	"taskflow/internal/store"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageDescription
	stagePriority
	stageCategory
	stageDueDate
)

const (
	cbTogglePrefix  = "toggle:"
	cbDeletePrefix  = "delete:"
	cbConfirmPrefix = "confirm:"
	cbCancelPrefix  = "cancel:"
)

const (
	btnSkip         = "⏭️ Passer"
	btnCancelDialog = "⏪ Annuler la saisie"
	menuNewTask     = "➕ Nouvelle tâche"
	menuTasks       = "📋 Tâches"
	menuStats       = "📊 Tableau de bord"
	menuHelp        = "ℹ️ Aide"
	maxListed       = 20
)

// API is the part of tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type conversationState struct {
	stage conversationStage
	input service.TaskInput
}

// Deps are the services the bot drives.
type Deps struct {
	Store   *store.Store
	Tasks   *service.TaskService
	Reports *service.ReportService
	Themes  *service.ThemeService
}

// Bot serves a single owner chat on top of the task store.
type Bot struct {
	api        API
	updates    func() (tgbotapi.UpdatesChannel, func())
	deps       Deps
	ownerID    int64
	systemDark bool
	logger     *zap.Logger
	now        func() time.Time

	mu           sync.Mutex
	conversation *conversationState
}

// New connects to Telegram with token.
func New(token string, ownerID int64, systemDark bool, deps Deps, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	b := newBot(api, ownerID, systemDark, deps, logger)
	b.updates = func() (tgbotapi.UpdatesChannel, func()) {
		cfg := tgbotapi.NewUpdate(0)
		cfg.Timeout = 60
		return api.GetUpdatesChan(cfg), api.StopReceivingUpdates
	}
	b.logger.Info("bot authorized", zap.String("account", api.Self.UserName))
	return b, nil
}

func newBot(api API, ownerID int64, systemDark bool, deps Deps, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:        api,
		deps:       deps,
		ownerID:    ownerID,
		systemDark: systemDark,
		logger:     logger,
		now:        time.Now,
	}
}

// Start polls updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.updates == nil {
		return errors.New("bot has no update source")
	}
	updates, stop := b.updates()
	b.logger.Info("start polling updates")

	go func() {
		<-ctx.Done()
		stop()
	}()

	for update := range updates {
		b.HandleUpdate(ctx, update)
	}
	return ctx.Err()
}

// HandleUpdate processes one update. A panic inside a handler is logged and
// answered with the generic error message instead of stopping the bot.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	chatID := chatOf(update)
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic", zap.Any("panic", r), zap.Int64("chat", chatID))
			if chatID != 0 {
				_ = b.sendText(chatID, fmt.Sprintf("<b>%s</b>\n%s", i18n.T("errorOccurred"), i18n.T("errorMessage")))
			}
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			b.logger.Warn("handle callback", zap.Error(err))
		}
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.logger.Warn("handle message", zap.Error(err))
		}
	}
}

func chatOf(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

func (b *Bot) isOwner(user *tgbotapi.User) bool {
	return user != nil && user.ID == b.ownerID
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !b.isOwner(msg.From) {
		if msg.From != nil {
			b.logger.Warn("ignore message from stranger", zap.Int64("user", msg.From.ID))
		}
		return nil
	}

	if !msg.IsCommand() && strings.TrimSpace(msg.Text) == btnCancelDialog {
		b.clearConversation()
		return b.sendText(msg.Chat.ID, "⏪ Saisie annulée.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		b.logger.Info("command", zap.String("command", msg.Command()), zap.String("args", msg.CommandArguments()))
		return b.handleCommand(ctx, msg)
	}

	if b.getConversation() != nil {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "Je n'ai pas compris. Utilisez /newtask pour ajouter une tâche ou /help pour la liste des commandes.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		return b.handleHelp(msg)
	case "newtask":
		return b.startNewTaskConversation(msg)
	case "tasks":
		return b.handleListTasks(msg, args)
	case "search":
		b.deps.Store.SetSearchTerm(args)
		return b.sendTaskList(msg.Chat.ID)
	case "toggle":
		return b.handleToggle(ctx, msg.Chat.ID, args)
	case "delete":
		return b.askDeleteConfirmation(msg.Chat.ID, args)
	case "stats":
		return b.sendText(msg.Chat.ID, b.deps.Reports.Dashboard(b.now()).HTML())
	case "theme":
		return b.handleTheme(ctx, msg.Chat.ID, args)
	case "cancel":
		b.clearConversation()
		return b.sendText(msg.Chat.ID, "⏪ Saisie annulée.")
	default:
		return b.sendText(msg.Chat.ID, "Commande inconnue. Voir /help.")
	}
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>TaskFlow</b>\n" +
		"• /newtask — ajouter une tâche pas à pas\n" +
		"• /tasks [all|active|completed] — lister les tâches\n" +
		"• /search &lt;texte&gt; — filtrer par titre ou description (vide pour effacer)\n" +
		"• /toggle &lt;id&gt; — terminer ou rouvrir une tâche\n" +
		"• /delete &lt;id&gt; — supprimer une tâche\n" +
		"• /stats — tableau de bord\n" +
		"• /theme [light|dark|system|toggle] — thème\n" +
		"• /cancel — annuler la saisie en cours"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case menuNewTask:
		return true, b.startNewTaskConversation(msg)
	case menuTasks:
		return true, b.sendTaskList(msg.Chat.ID)
	case menuStats:
		return true, b.sendText(msg.Chat.ID, b.deps.Reports.Dashboard(b.now()).HTML())
	case menuHelp:
		return true, b.handleHelp(msg)
	}
	return false, nil
}

func (b *Bot) startNewTaskConversation(msg *tgbotapi.Message) error {
	b.setConversation(&conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID,
		fmt.Sprintf("🆕 <b>%s</b>\n%s", i18n.T("addTask"), i18n.T("whatNeedsDone")), cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation()
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTitle:
		state.input.Title = text
		if err := b.fieldError(state.input, "title"); err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, escape(err.Error()), cancelKeyboard())
		}
		state.stage = stageDescription
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ "+i18n.T("additionalDetails"), skipKeyboard())
	case stageDescription:
		if !isSkipInput(text) {
			state.input.Description = text
		}
		if err := b.fieldError(state.input, "description"); err != nil {
			state.input.Description = ""
			return b.sendWithReplyMarkup(msg.Chat.ID, escape(err.Error()), skipKeyboard())
		}
		state.stage = stagePriority
		return b.sendWithReplyMarkup(msg.Chat.ID, "🔥 "+i18n.T("priorityLevel"), priorityKeyboard())
	case stagePriority:
		if !isSkipInput(text) {
			p, ok := parsePriority(text)
			if !ok {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Choisissez une priorité.", priorityKeyboard())
			}
			state.input.Priority = p
		}
		state.stage = stageCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 "+i18n.T("category"), categoryKeyboard())
	case stageCategory:
		if !isSkipInput(text) {
			c, ok := parseCategory(text)
			if !ok {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Choisissez une catégorie.", categoryKeyboard())
			}
			state.input.Category = c
		}
		state.stage = stageDueDate
		return b.sendWithReplyMarkup(msg.Chat.ID,
			fmt.Sprintf("⏰ %s %s, format <code>2025-11-30</code>", i18n.T("dueDate"), i18n.T("optional")), skipKeyboard())
	case stageDueDate:
		if !isSkipInput(text) {
			state.input.DueDate = text
		}
		if err := b.fieldError(state.input, "dueDate"); err != nil {
			state.input.DueDate = ""
			return b.sendWithReplyMarkup(msg.Chat.ID, escape(err.Error()), skipKeyboard())
		}
		err := b.finishTaskCreation(ctx, msg.Chat.ID, state.input)
		b.clearConversation()
		return err
	default:
		b.clearConversation()
		return b.sendText(msg.Chat.ID, "Saisie réinitialisée. Recommencez avec /newtask.")
	}
}

// fieldError runs the form rules and returns the error for one field only.
func (b *Bot) fieldError(input service.TaskInput, field string) error {
	_, err := b.deps.Tasks.Normalize(input)
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields[field]
	}
	return nil
}

func (b *Bot) finishTaskCreation(ctx context.Context, chatID int64, input service.TaskInput) error {
	b.deps.Store.SetLoading(true)
	defer b.deps.Store.SetLoading(false)
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("chat action", zap.Error(err))
	}

	task, err := b.deps.Tasks.CreateTask(ctx, input)
	if err != nil && task.ID == "" {
		return b.sendText(chatID, fmt.Sprintf("Impossible d'enregistrer la tâche : %s", escape(err.Error())))
	}
	if err != nil {
		b.logger.Error("task kept in memory only", zap.String("id", task.ID), zap.Error(err))
	}
	b.logger.Info("task created", zap.String("id", task.ID))

	text := fmt.Sprintf("✅ <b>%s</b>\n%s", i18n.T("taskCreated"), service.FormatTask(task, b.now(), true))
	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(text))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendTaskList(chatID)
}

func (b *Bot) handleListTasks(msg *tgbotapi.Message, args string) error {
	if args != "" {
		f, err := store.ParseFilter(strings.ToLower(args))
		if err != nil {
			return b.sendText(msg.Chat.ID, "Filtre inconnu. Utilisez all, active ou completed.")
		}
		b.deps.Store.SetFilter(f)
	}
	return b.sendTaskList(msg.Chat.ID)
}

func (b *Bot) sendTaskList(chatID int64) error {
	tasks := b.deps.Store.FilteredTasks()
	filter := b.deps.Store.Filter()
	term := b.deps.Store.SearchTerm()

	var header strings.Builder
	header.WriteString(fmt.Sprintf("📋 <b>%s</b> · %s", i18n.T("tasks"), filterLabel(filter)))
	if term != "" {
		header.WriteString(fmt.Sprintf(" · 🔎 %s", escape(term)))
	}
	header.WriteString("\n\n")

	if len(tasks) == 0 {
		hint := i18n.T("noTasksYet")
		if term != "" || filter != store.FilterAll {
			hint = i18n.T("noTasksFound") + "\n" + i18n.T("tryAdjusting")
		}
		return b.sendText(chatID, header.String()+hint)
	}

	shown := tasks
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	body := service.FormatTaskList(shown, b.now(), true)
	if len(tasks) > maxListed {
		body += fmt.Sprintf("\n… +%d", len(tasks)-maxListed)
	}

	msg := tgbotapi.NewMessage(chatID, header.String()+body)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = taskKeyboard(shown)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleToggle(ctx context.Context, chatID int64, ref string) error {
	if ref == "" {
		return b.sendText(chatID, "Indiquez l'identifiant : /toggle 1a2b3c4d")
	}
	task, err := b.deps.Tasks.Resolve(ref)
	if err != nil {
		return b.sendText(chatID, b.resolveError(err))
	}
	return b.toggleAndRefresh(ctx, chatID, task.ID)
}

func (b *Bot) toggleAndRefresh(ctx context.Context, chatID int64, id string) error {
	task, err := b.deps.Tasks.ToggleTask(ctx, id)
	if errors.Is(err, store.ErrTaskNotFound) {
		return b.sendText(chatID, i18n.T("taskNotFound"))
	}
	if err != nil {
		b.logger.Error("toggle not persisted", zap.String("id", id), zap.Error(err))
	}
	state := "↩️"
	if task.Completed {
		state = "✅"
	}
	if err := b.sendText(chatID, fmt.Sprintf("%s «%s»", state, escape(task.Title))); err != nil {
		return err
	}
	return b.sendTaskList(chatID)
}

func (b *Bot) askDeleteConfirmation(chatID int64, ref string) error {
	if ref == "" {
		return b.sendText(chatID, "Indiquez l'identifiant : /delete 1a2b3c4d")
	}
	task, err := b.deps.Tasks.Resolve(ref)
	if err != nil {
		return b.sendText(chatID, b.resolveError(err))
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🗑 %s\n«%s»", i18n.T("confirmDelete"), escape(task.Title)))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = confirmKeyboard(task.ID)
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) deleteAndRefresh(ctx context.Context, chatID int64, id string) error {
	err := b.deps.Tasks.DeleteTask(ctx, id)
	if errors.Is(err, store.ErrTaskNotFound) {
		return b.sendText(chatID, i18n.T("taskNotFound"))
	}
	if err != nil {
		b.logger.Error("delete not persisted", zap.String("id", id), zap.Error(err))
	}
	if err := b.sendText(chatID, "🗑 "+i18n.T("taskDeleted")); err != nil {
		return err
	}
	return b.sendTaskList(chatID)
}

func (b *Bot) resolveError(err error) string {
	if errors.Is(err, service.ErrAmbiguousID) {
		return "Plusieurs tâches correspondent, précisez l'identifiant."
	}
	return i18n.T("taskNotFound")
}

func (b *Bot) handleTheme(ctx context.Context, chatID int64, arg string) error {
	themes := b.deps.Themes
	switch strings.ToLower(arg) {
	case "":
	case "toggle":
		if _, err := themes.Toggle(ctx, b.systemDark); err != nil {
			return b.sendText(chatID, escape(err.Error()))
		}
	default:
		theme, err := model.ParseTheme(arg)
		if err != nil {
			return b.sendText(chatID, "Thème inconnu. Utilisez light, dark, system ou toggle.")
		}
		if err := themes.SetTheme(ctx, theme); err != nil {
			return b.sendText(chatID, escape(err.Error()))
		}
	}
	theme := themes.Theme(ctx)
	shown := i18n.T("light")
	if themes.IsDark(ctx, b.systemDark) {
		shown = i18n.T("dark")
	}
	return b.sendText(chatID, fmt.Sprintf("🎨 %s : %s (%s)", i18n.T("theme"), i18n.T(string(theme)), strings.ToLower(shown)))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Debug("answer callback", zap.Error(err))
	}
	if !b.isOwner(cb.From) || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID

	switch data := cb.Data; {
	case strings.HasPrefix(data, cbTogglePrefix):
		return b.toggleAndRefresh(ctx, chatID, strings.TrimPrefix(data, cbTogglePrefix))
	case strings.HasPrefix(data, cbDeletePrefix):
		return b.askDeleteConfirmation(chatID, strings.TrimPrefix(data, cbDeletePrefix))
	case strings.HasPrefix(data, cbConfirmPrefix):
		return b.deleteAndRefresh(ctx, chatID, strings.TrimPrefix(data, cbConfirmPrefix))
	case strings.HasPrefix(data, cbCancelPrefix):
		return b.sendText(chatID, "↩️ "+i18n.T("cancel"))
	default:
		return fmt.Errorf("unknown callback %q", data)
	}
}

// SendDigest sends the dashboard to the owner.
func (b *Bot) SendDigest(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.sendText(b.ownerID, b.deps.Reports.Dashboard(b.now()).HTML())
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setConversation(state *conversationState) {
	b.mu.Lock()
	b.conversation = state
	b.mu.Unlock()
}

func (b *Bot) getConversation() *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversation
}

func (b *Bot) clearConversation() {
	b.setConversation(nil)
}

func filterLabel(f store.Filter) string {
	switch f {
	case store.FilterActive:
		return i18n.T("active")
	case store.FilterCompleted:
		return i18n.T("completed")
	default:
		return i18n.T("allTasks")
	}
}

func parsePriority(text string) (model.Priority, bool) {
	if p, err := model.ParsePriority(text); err == nil {
		return p, true
	}
	for _, p := range model.Priorities {
		if strings.EqualFold(text, i18n.T(string(p))) {
			return p, true
		}
	}
	return "", false
}

func parseCategory(text string) (model.Category, bool) {
	if c, err := model.ParseCategory(text); err == nil {
		return c, true
	}
	for _, c := range model.Categories {
		if strings.EqualFold(text, i18n.T("categories."+string(c))) {
			return c, true
		}
	}
	return "", false
}

func isSkipInput(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case strings.ToLower(btnSkip), "-", "skip", "passer":
		return true
	}
	return false
}

func shortTitle(title string, maxLen int) string {
	r := []rune(strings.TrimSpace(title))
	if len(r) <= maxLen {
		return string(r)
	}
	return string(r[:maxLen-1]) + "…"
}

func escape(s string) string {
	return html.EscapeString(s)
}
