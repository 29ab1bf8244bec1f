package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gmsas95/habitlens/internal/channels"
	"github.com/gmsas95/habitlens/internal/notify"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMessage struct {
	ChatID string
	Text   string
}

type fakeAPI struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"result": map[string]interface{}{"id": 42, "is_bot": true, "first_name": "Lens", "username": "lens_bot"},
		})
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		r.ParseForm()
		f.mu.Lock()
		fail := f.fail
		if !fail {
			f.sent = append(f.sent, sentMessage{ChatID: r.FormValue("chat_id"), Text: r.FormValue("text")})
		}
		f.mu.Unlock()
		if fail {
			json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error_code": 400, "description": "chat not found"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"result": map[string]interface{}{"message_id": 7, "date": 0, "chat": map[string]interface{}{"id": 1, "type": "private"}},
		})
	default:
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "result": []interface{}{}})
	}
}

func (f *fakeAPI) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func setupTestBot(t *testing.T, chatIDs ...int64) (*Bot, *fakeAPI) {
	api := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(srv.Close)

	bot, err := NewBot(Config{
		Token:    "test-token",
		ChatIDs:  chatIDs,
		Endpoint: srv.URL + "/bot%s/%s",
	}, channels.NewCommands(nil), zap.NewNop())
	require.NoError(t, err)
	return bot, api
}

func command(chatID int64, text string) tgbotapi.Update {
	cmd := strings.SplitN(text, " ", 2)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func TestNewBot_RequiresToken(t *testing.T) {
	_, err := NewBot(Config{}, nil, nil)
	assert.Error(t, err)
}

func TestBot_Info(t *testing.T) {
	bot, _ := setupTestBot(t, 1, 2)

	assert.Equal(t, "telegram", bot.Name())
	info := bot.GetBotInfo()
	assert.Equal(t, "lens_bot", info["username"])
	assert.Equal(t, 2, info["chats"])
}

func TestBot_Notify(t *testing.T) {
	bot, api := setupTestBot(t, 100, 200)

	err := bot.Notify(context.Background(), notify.Message{HabitName: "Read", Title: "Streak at risk", Body: "Log today"})
	require.NoError(t, err)

	sent := api.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "100", sent[0].ChatID)
	assert.Equal(t, "200", sent[1].ChatID)
	assert.Equal(t, "Read: Streak at risk\nLog today", sent[0].Text)
}

func TestBot_NotifyError(t *testing.T) {
	bot, api := setupTestBot(t, 100)
	api.fail = true

	err := bot.Notify(context.Background(), notify.Message{Title: "x"})
	assert.Error(t, err)
}

func TestBot_HandleCommand(t *testing.T) {
	bot, api := setupTestBot(t, 100)

	require.NoError(t, bot.handleUpdate(command(100, "/help")))
	require.NoError(t, bot.handleUpdate(command(100, "/habits")))

	sent := api.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, channels.HelpText, sent[0].Text)
	assert.Equal(t, "Habit tracking is not available right now.", sent[1].Text)
}

func TestBot_IgnoresUnknownChats(t *testing.T) {
	bot, api := setupTestBot(t, 100)

	require.NoError(t, bot.handleUpdate(command(999, "/help")))
	require.NoError(t, bot.handleUpdate(tgbotapi.Update{}))

	assert.Empty(t, api.messages())
}
