package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"calendrette/internal/domain/auth"
	"calendrette/internal/domain/period"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type sentMessage struct {
	chatID int64
	text   string
	opts   *telebot.SendOptions
}

type fakeTelegramClient struct {
	sent []sentMessage
	err  error
}

func (c *fakeTelegramClient) SendMessage(chatID int64, text string, opts *telebot.SendOptions) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentMessage{chatID: chatID, text: text, opts: opts})
	return nil
}

const ownerID int64 = 4242

func newReminderFixture(t *testing.T, drafts ...period.Draft) (*ReminderServiceImpl, *fakeTelegramClient, *fixture) {
	t.Helper()
	f := newFixture(t, auth.Unauthenticated())
	f.seedLocal(t, drafts...)
	client := &fakeTelegramClient{}
	return NewReminderServiceImpl(f.svc, client, quietLogger(), ownerID, 2, 28), client, f
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(period.DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestReminderService_SendDueReminders(t *testing.T) {
	tests := []struct {
		name     string
		today    string
		contains string
		button   bool
	}{
		{name: "heads-up", today: "2025-01-27", contains: "expected in 2 days, on 2025-01-29"},
		{name: "expected today", today: "2025-01-29", contains: "expected today", button: true},
		{name: "ovulation", today: "2025-01-15", contains: "peak ovulation"},
		{name: "quiet day", today: "2025-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, client, _ := newReminderFixture(t, period.Draft{StartDate: "2025-01-01", PredictedDate: "2025-01-29"})

			n, err := svc.SendDueReminders(context.Background(), day(t, tt.today).Add(9*time.Hour))
			require.NoError(t, err)

			if tt.contains == "" {
				assert.Zero(t, n)
				assert.Empty(t, client.sent)
				return
			}
			require.Equal(t, 1, n)
			require.Len(t, client.sent, 1)
			msg := client.sent[0]
			assert.Equal(t, ownerID, msg.chatID)
			assert.Contains(t, msg.text, tt.contains)

			if !tt.button {
				assert.Nil(t, msg.opts)
				return
			}
			require.NotNil(t, msg.opts)
			require.Len(t, msg.opts.ReplyMarkup.InlineKeyboard, 1)
			btn := msg.opts.ReplyMarkup.InlineKeyboard[0][0]
			assert.Equal(t, RecordStartCallback, btn.Unique)
			assert.Equal(t, "2025-01-29", btn.Data)
		})
	}
}

func TestReminderService_SendErrorsAreNotFatal(t *testing.T) {
	svc, client, _ := newReminderFixture(t, period.Draft{StartDate: "2025-01-01", PredictedDate: "2025-01-29"})
	client.err = errors.New("bot was blocked by the user")

	n, err := svc.SendDueReminders(context.Background(), day(t, "2025-01-29"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReminderService_RecordStart(t *testing.T) {
	ctx := context.Background()

	t.Run("default cycle length", func(t *testing.T) {
		svc, _, f := newReminderFixture(t)

		id, err := svc.RecordStart(ctx, time.Date(2025, 3, 10, 15, 30, 0, 0, time.Local))
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		records, err := f.svc.Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "2025-03-10", records[0].StartDate)
		assert.Equal(t, "2025-04-07", records[0].PredictedDate)
	})

	t.Run("average of recorded cycles", func(t *testing.T) {
		svc, _, f := newReminderFixture(t,
			period.Draft{StartDate: "2025-01-01", PredictedDate: "2025-01-29"},
			period.Draft{StartDate: "2025-02-01", PredictedDate: "2025-03-04"},
		)

		_, err := svc.RecordStart(ctx, day(t, "2025-03-10"))
		require.NoError(t, err)

		records, err := f.svc.Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "2025-04-09", records[0].PredictedDate)
	})

	t.Run("duplicate start", func(t *testing.T) {
		svc, _, _ := newReminderFixture(t, period.Draft{StartDate: "2025-03-10", PredictedDate: "2025-04-07"})

		id, err := svc.RecordStart(ctx, day(t, "2025-03-10"))
		require.NoError(t, err)
		assert.Empty(t, id)
	})
}
