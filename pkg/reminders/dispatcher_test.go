package reminders

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/channels"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/config"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

type fakeDispatchStore struct {
	due      []models.Reminder
	dueErr   error
	visas    map[string]*models.Visa
	profiles map[string]*models.Profile

	marked          []string
	markErr         error
	markUncommitted bool
}

func (f *fakeDispatchStore) DueReminders(ctx context.Context, today time.Time) ([]models.Reminder, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	return f.due, nil
}

func (f *fakeDispatchStore) GetVisaByID(ctx context.Context, id string) (*models.Visa, error) {
	visa, ok := f.visas[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return visa, nil
}

func (f *fakeDispatchStore) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return profile, nil
}

func (f *fakeDispatchStore) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	if f.markUncommitted {
		return false, nil
	}
	f.marked = append(f.marked, id)
	return true, nil
}

// mailRegistry builds a registry whose email channel posts to the given
// test server. Telegram and wechat stay unconfigured.
func mailRegistry(t *testing.T, serverURL string) *channels.Registry {
	t.Helper()
	cfg := &config.Config{
		Mail: config.MailConfig{
			APIKey:      "test-key",
			FromAddress: "noreply@visatrack.test",
			FromName:    "VisaTrack",
			APIBaseURL:  serverURL,
		},
		Telegram: config.TelegramConfig{APIBaseURL: serverURL},
		WeChat:   config.WeChatConfig{APIBaseURL: serverURL},
	}
	return channels.NewRegistry(cfg, newTestLogger(t))
}

func dueReminder(id, channel string) models.Reminder {
	return models.Reminder{
		ID:           id,
		VisaID:       "visa-1",
		UserID:       "user-1",
		ReminderDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		DaysBefore:   7,
		ReminderType: models.ReminderType7Days,
		Channel:      channel,
	}
}

func dispatchStore(due ...models.Reminder) *fakeDispatchStore {
	return &fakeDispatchStore{
		due:      due,
		visas:    map[string]*models.Visa{"visa-1": testVisa()},
		profiles: map[string]*models.Profile{"user-1": testProfile(models.LanguageEnglish)},
	}
}

func TestDispatchNothingDue(t *testing.T) {
	store := dispatchStore()
	dispatcher := NewDispatcher(store, mailRegistry(t, "http://unused.invalid"), newTestLogger(t))

	result, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No reminders to send", result.Message)
	assert.Zero(t, result.Total)
	assert.Zero(t, result.Sent)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Details)
}

func TestDispatchSelectionErrorAborts(t *testing.T) {
	store := &fakeDispatchStore{dueErr: fmt.Errorf("connection reset")}
	dispatcher := NewDispatcher(store, mailRegistry(t, "http://unused.invalid"), newTestLogger(t))

	_, err := dispatcher.Dispatch(context.Background())
	assert.ErrorContains(t, err, "select due reminders")
}

func TestDispatchEmailSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := dispatchStore(dueReminder("rem-1", models.ChannelEmail))
	dispatcher := NewDispatcher(store, mailRegistry(t, server.URL), newTestLogger(t))

	result, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Reminders processed", result.Message)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Sent)
	assert.Zero(t, result.Failed)

	require.Len(t, result.Details, 1)
	assert.Equal(t, "rem-1", result.Details[0].ReminderID)
	assert.Equal(t, "Thailand", result.Details[0].VisaCountry)
	assert.Equal(t, models.ChannelEmail, result.Details[0].Channel)
	assert.Equal(t, DetailStatusSent, result.Details[0].Status)

	assert.Equal(t, []string{"rem-1"}, store.marked)
}

func TestDispatchProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	store := dispatchStore(dueReminder("rem-1", models.ChannelEmail))
	dispatcher := NewDispatcher(store, mailRegistry(t, server.URL), newTestLogger(t))

	result, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Sent)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Details, 1)
	assert.Equal(t, DetailStatusFailed, result.Details[0].Status)

	// Failed occurrences stay unsent and are retried next run.
	assert.Empty(t, store.marked)
}

func TestDispatchChannelDisabledByPreference(t *testing.T) {
	store := dispatchStore(dueReminder("rem-1", models.ChannelEmail))
	store.profiles["user-1"].NotificationEmail = false

	dispatcher := NewDispatcher(store, mailRegistry(t, "http://unused.invalid"), newTestLogger(t))

	result, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, store.marked)
}

func TestDispatchUnconfiguredChannelFails(t *testing.T) {
	// Telegram has no bot token configured in the registry.
	store := dispatchStore(dueReminder("rem-1", models.ChannelTelegram))
	store.profiles["user-1"].NotificationTelegram = true
	store.profiles["user-1"].TelegramID = "12345"

	dispatcher := NewDispatcher(store, mailRegistry(t, "http://unused.invalid"), newTestLogger(t))

	result, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, store.marked)
}

func TestDispatchUnknownChannelFails(t *testing.T) {
	store := dispatchStore(dueReminder("rem-1", models.ChannelSMS))
	store.profiles["user-1"].NotificationSMS = true

	dispatcher := NewDispatcher(store, mailRegistry(t, "http://unused.invalid"), newTestLogger(t))

	result, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	// With the sms preference on, the failure reason is the missing
	// delivery implementation, not the preference gate.
	reminder := store.due[0]
	sent, reason := dispatcher.deliver(context.Background(), &reminder, store.visas["visa-1"], store.profiles["user-1"], "body")
	assert.False(t, sent)
	assert.Equal(t, "unsupported channel: sms", reason)
}

func TestDispatchMissingVisaCountsFailed(t *testing.T) {
	store := dispatchStore(dueReminder("rem-1", models.ChannelEmail))
	delete(store.visas, "visa-1")

	dispatcher := NewDispatcher(store, mailRegistry(t, "http://unused.invalid"), newTestLogger(t))

	result, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, result.Details)
}

func TestDispatchMarkSentFailureCountsFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := dispatchStore(dueReminder("rem-1", models.ChannelEmail))
	store.markErr = fmt.Errorf("disk full")

	dispatcher := NewDispatcher(store, mailRegistry(t, server.URL), newTestLogger(t))

	result, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Sent)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Details, 1)
	assert.Equal(t, DetailStatusFailed, result.Details[0].Status)
}

func TestDispatchAlreadyCommittedStillCountsSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := dispatchStore(dueReminder("rem-1", models.ChannelEmail))
	store.markUncommitted = true

	dispatcher := NewDispatcher(store, mailRegistry(t, server.URL), newTestLogger(t))

	result, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Zero(t, result.Failed)
}

func TestDispatchMixedOutcomes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := dispatchStore(
		dueReminder("rem-1", models.ChannelEmail),
		dueReminder("rem-2", models.ChannelTelegram), // unconfigured
		dueReminder("rem-3", models.ChannelEmail),
	)
	store.profiles["user-1"].NotificationTelegram = true

	dispatcher := NewDispatcher(store, mailRegistry(t, server.URL), newTestLogger(t))

	result, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, result.Total, result.Sent+result.Failed)
	assert.Len(t, result.Details, 3)
}

func TestDispatchUsesLocalizedMessage(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := dispatchStore(dueReminder("rem-1", models.ChannelEmail))
	store.profiles["user-1"].LanguagePreference = models.LanguageChinese

	dispatcher := NewDispatcher(store, mailRegistry(t, server.URL), newTestLogger(t))

	_, err := dispatcher.Dispatch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(gotBody), "您好")
}
