package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"daily_reminder_bot/internal/app"
	"daily_reminder_bot/internal/domain/reminder"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

// fakeContext overrides the handful of telebot.Context methods the handlers use.
type fakeContext struct {
	telebot.Context
	sender    *telebot.User
	chat      *telebot.Chat
	args      []string
	callback  *telebot.Callback
	sent      []string
	edited    []string
	responses int
}

func newFakeContext(userID, chatID int64, args ...string) *fakeContext {
	return &fakeContext{
		sender: &telebot.User{ID: userID},
		chat:   &telebot.Chat{ID: chatID},
		args:   args,
	}
}

func (c *fakeContext) Sender() *telebot.User       { return c.sender }
func (c *fakeContext) Chat() *telebot.Chat         { return c.chat }
func (c *fakeContext) Args() []string              { return c.args }
func (c *fakeContext) Callback() *telebot.Callback { return c.callback }

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

func (c *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	c.edited = append(c.edited, fmt.Sprint(what))
	return nil
}

func (c *fakeContext) Respond(_ ...*telebot.CallbackResponse) error {
	c.responses++
	return nil
}

type mockReminders struct {
	mock.Mock
}

func (m *mockReminders) RegisterReminder(ctx context.Context, conversationID, ownerID int64, hour, minute int) (time.Duration, error) {
	args := m.Called(ctx, conversationID, ownerID, hour, minute)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *mockReminders) ResetReminders(ctx context.Context, conversationID int64) (int, error) {
	args := m.Called(ctx, conversationID)
	return args.Int(0), args.Error(1)
}

func (m *mockReminders) ListReminders(ctx context.Context, conversationID int64) ([]*reminder.Schedule, error) {
	args := m.Called(ctx, conversationID)
	schedules, _ := args.Get(0).([]*reminder.Schedule)
	return schedules, args.Error(1)
}

type mockPrompts struct {
	mock.Mock
}

func (m *mockPrompts) SendPrompt(ctx context.Context, conversationID int64) error {
	return m.Called(ctx, conversationID).Error(0)
}

func (m *mockPrompts) RecordValue(ctx context.Context, userID int64, option int) (string, error) {
	args := m.Called(ctx, userID, option)
	return args.String(0), args.Error(1)
}

func quietEntry() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func newHandlers(r *mockReminders, p *mockPrompts) *handlers {
	return &handlers{ctx: context.Background(), reminders: r, prompts: p, logger: quietEntry()}
}

func TestHandlers_Usage(t *testing.T) {
	c := newFakeContext(1, 1)
	require.NoError(t, newHandlers(&mockReminders{}, &mockPrompts{}).onUsage(c))
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "/remind <hour:mins>")
}

func TestUsageFallbacksCoverNonTextMessages(t *testing.T) {
	assert.Subset(t, usageFallbacks, []string{telebot.OnText, telebot.OnMedia, telebot.OnSticker})
}

func TestHandlers_RemindRegistersForChat(t *testing.T) {
	r := &mockReminders{}
	r.On("RegisterReminder", mock.Anything, int64(-100), int64(7), 14, 30).Return(30*time.Minute, nil).Once()

	c := newFakeContext(7, -100, "14:30")
	require.NoError(t, newHandlers(r, &mockPrompts{}).onRemind(c))

	r.AssertExpectations(t)
	assert.Equal(t, []string{"Okay! Next reminder in 30m 0s (at 14:30)"}, c.sent)
}

func TestHandlers_RemindRejectsBadInput(t *testing.T) {
	for _, args := range [][]string{nil, {"14:30", "extra"}, {"noon"}, {"25:00"}} {
		r := &mockReminders{}
		c := newFakeContext(7, 7, args...)
		require.NoError(t, newHandlers(r, &mockPrompts{}).onRemind(c))
		assert.Equal(t, []string{remindUsageText}, c.sent)
		r.AssertNotCalled(t, "RegisterReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestHandlers_RemindStoreFailure(t *testing.T) {
	r := &mockReminders{}
	r.On("RegisterReminder", mock.Anything, int64(7), int64(7), 8, 0).
		Return(time.Duration(0), &reminder.StoreError{Op: "create", Err: errors.New("disk full")})

	c := newFakeContext(7, 7, "08:00")
	require.NoError(t, newHandlers(r, &mockPrompts{}).onRemind(c))
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "Could not save")
}

func TestHandlers_Reset(t *testing.T) {
	r := &mockReminders{}
	r.On("ResetReminders", mock.Anything, int64(7)).Return(2, nil).Once()

	c := newFakeContext(7, 7)
	require.NoError(t, newHandlers(r, &mockPrompts{}).onReset(c))
	assert.Equal(t, []string{"Done! Removed 2 reminder(s)."}, c.sent)
}

func TestHandlers_ResetPartialFailure(t *testing.T) {
	r := &mockReminders{}
	r.On("ResetReminders", mock.Anything, int64(7)).Return(1, errors.New("delete failed"))

	c := newFakeContext(7, 7)
	require.NoError(t, newHandlers(r, &mockPrompts{}).onReset(c))
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "run /reset again")
}

func TestHandlers_Status(t *testing.T) {
	r := &mockReminders{}
	r.On("ListReminders", mock.Anything, int64(7)).
		Return([]*reminder.Schedule{{Hour: 8}, {Hour: 21, Minute: 30}}, nil).Once()
	r.On("ListReminders", mock.Anything, int64(8)).Return(nil, nil).Once()

	h := newHandlers(r, &mockPrompts{})
	c := newFakeContext(7, 7)
	require.NoError(t, h.onStatus(c))
	assert.Equal(t, []string{"Reminders: 08:00, 21:30"}, c.sent)

	c = newFakeContext(8, 8)
	require.NoError(t, h.onStatus(c))
	assert.Equal(t, []string{"No reminders set"}, c.sent)
}

func TestHandlers_ValueSendsPromptToChat(t *testing.T) {
	p := &mockPrompts{}
	p.On("SendPrompt", mock.Anything, int64(-5)).Return(nil).Once()

	require.NoError(t, newHandlers(&mockReminders{}, p).onValue(newFakeContext(7, -5)))
	p.AssertExpectations(t)
}

func TestHandlers_OptionRecordsAndEdits(t *testing.T) {
	p := &mockPrompts{}
	p.On("RecordValue", mock.Anything, int64(7), 2).Return("good", nil).Once()

	c := newFakeContext(7, 7)
	c.callback = &telebot.Callback{Unique: app.PromptButtonUnique, Data: "2"}
	require.NoError(t, newHandlers(&mockReminders{}, p).onOption(c))

	assert.Equal(t, []string{"Saved: good"}, c.edited)
	assert.Equal(t, 1, c.responses)
}

func TestHandlers_OptionRejectsMalformedPayload(t *testing.T) {
	p := &mockPrompts{}
	c := newFakeContext(7, 7)
	c.callback = &telebot.Callback{Data: "x"}

	require.NoError(t, newHandlers(&mockReminders{}, p).onOption(c))
	assert.Empty(t, c.edited)
	assert.Equal(t, 1, c.responses)
	p.AssertNotCalled(t, "RecordValue", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlers_OptionUnknownIndex(t *testing.T) {
	p := &mockPrompts{}
	p.On("RecordValue", mock.Anything, int64(7), 9).Return("", fmt.Errorf("%w: 9", app.ErrUnknownOption))

	c := newFakeContext(7, 7)
	c.callback = &telebot.Callback{Data: "9"}
	require.NoError(t, newHandlers(&mockReminders{}, p).onOption(c))
	assert.Empty(t, c.edited)
}

func TestAuthMiddleware(t *testing.T) {
	mw := AuthMiddleware(app.NewAccessService([]int64{7}), quietEntry())
	calls := 0
	next := mw(func(telebot.Context) error {
		calls++
		return nil
	})

	require.NoError(t, next(newFakeContext(7, 7)))
	require.NoError(t, next(newFakeContext(8, 8)))

	denied := newFakeContext(9, 9)
	denied.callback = &telebot.Callback{Data: "1"}
	require.NoError(t, next(denied))

	noSender := newFakeContext(0, 0)
	noSender.sender = nil
	require.NoError(t, next(noSender))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, denied.responses)
}
