package session

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/spanbot/internal/selector"
	"github.com/example/spanbot/pkg/models"
)

type fakeStore struct {
	history *models.History
	saved   int
	loadErr error
	saveErr error
}

func (f *fakeStore) LoadOrDefault() (*models.History, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.history == nil {
		f.history = models.NewHistory()
	}
	return f.history, nil
}

func (f *fakeStore) Save(h *models.History) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved++
	f.history = h
	return nil
}

type fakeSource struct {
	catalogs map[string][]models.Word
	err      error
}

func (f *fakeSource) Words(category string) ([]models.Word, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.catalogs[category], nil
}

type fakeDeliverer struct {
	digests []Digest
	err     error
}

func (f *fakeDeliverer) Deliver(d Digest) error {
	if f.err != nil {
		return f.err
	}
	f.digests = append(f.digests, d)
	return nil
}

type fakeInbox struct {
	body string
	ok   bool
	err  error
}

func (f *fakeInbox) RecentReply(since time.Time) (string, bool, error) {
	return f.body, f.ok, f.err
}

func testWords(difficulty float64, ids ...int) []models.Word {
	words := make([]models.Word, len(ids))
	for i, id := range ids {
		words[i] = models.Word{ID: id, Spanish: "palabra", English: "word", Difficulty: difficulty}
	}
	return words
}

func newOrchestrator(store *fakeStore, source *fakeSource, deliverer *fakeDeliverer) *Orchestrator {
	return &Orchestrator{
		Store:     store,
		Source:    source,
		Selector:  selector.New(rand.New(rand.NewSource(1))),
		Deliverer: deliverer,
		Now: func() time.Time {
			return time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
		},
	}
}

func TestSendCycleMarksUsedOnlyOnSuccess(t *testing.T) {
	hist := models.NewHistory()
	hist.MarkUsed(models.CategoryVerbs, 1)
	hist.MarkUsed(models.CategoryVerbs, 2)

	store := &fakeStore{history: hist}
	source := &fakeSource{catalogs: map[string][]models.Word{
		models.CategoryVerbs:      testWords(2.0, 1, 2, 3),
		models.CategoryAdjectives: testWords(2.0, 10, 11),
	}}
	deliverer := &fakeDeliverer{}

	orch := newOrchestrator(store, source, deliverer)
	result, err := orch.SendCycle(false, false)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Verb.ID, "only unused verb must be picked")
	assert.False(t, result.VerbReset)
	assert.True(t, result.Delivered)

	require.Len(t, deliverer.digests, 1)
	assert.Equal(t, 1, store.saved)
	assert.True(t, store.history.IsUsed(models.CategoryVerbs, 3))
	assert.True(t, store.history.IsUsed(models.CategoryAdjectives, result.Adjective.ID))
	assert.Equal(t, 1, store.history.TotalSent)

	require.Len(t, store.history.SentEmails, 1)
	rec := store.history.SentEmails[0]
	assert.Equal(t, "2026-08-25", rec.Date)
	assert.Equal(t, 3, rec.VerbID)
	assert.True(t, rec.Success)
	assert.Equal(t, 2.0, rec.DifficultyLevel)
}

func TestSendCycleDeliveryFailureLeavesStateUntouched(t *testing.T) {
	store := &fakeStore{}
	source := &fakeSource{catalogs: map[string][]models.Word{
		models.CategoryVerbs:      testWords(2.0, 5),
		models.CategoryAdjectives: testWords(2.0, 6),
	}}
	deliverer := &fakeDeliverer{err: errors.New("smtp: connection refused")}

	orch := newOrchestrator(store, source, deliverer)
	_, err := orch.SendCycle(false, false)

	assert.ErrorIs(t, err, ErrDelivery)
	assert.Zero(t, store.saved, "state must not be persisted on delivery failure")
	assert.False(t, store.history.IsUsed(models.CategoryVerbs, 5), "word 5 stays eligible next run")
	assert.Zero(t, store.history.TotalSent)
	assert.Empty(t, store.history.SentEmails)
}

func TestSendCycleDryRun(t *testing.T) {
	store := &fakeStore{}
	source := &fakeSource{catalogs: map[string][]models.Word{
		models.CategoryVerbs:      testWords(2.0, 1),
		models.CategoryAdjectives: testWords(2.0, 2),
	}}
	deliverer := &fakeDeliverer{}

	orch := newOrchestrator(store, source, deliverer)
	result, err := orch.SendCycle(true, false)

	require.NoError(t, err)
	assert.False(t, result.Delivered)
	assert.Empty(t, deliverer.digests)
	assert.Zero(t, store.saved)
}

func TestSendCycleResetSignalsDigest(t *testing.T) {
	hist := models.NewHistory()
	hist.MarkUsed(models.CategoryVerbs, 1)
	hist.MarkUsed(models.CategoryVerbs, 2)

	store := &fakeStore{history: hist}
	source := &fakeSource{catalogs: map[string][]models.Word{
		models.CategoryVerbs:      testWords(2.0, 1, 2),
		models.CategoryAdjectives: testWords(2.0, 3),
	}}
	deliverer := &fakeDeliverer{}

	orch := newOrchestrator(store, source, deliverer)
	result, err := orch.SendCycle(false, false)

	require.NoError(t, err)
	assert.True(t, result.VerbReset)
	assert.False(t, result.AdjectiveReset)
	assert.Contains(t, []int{1, 2}, result.Verb.ID)

	require.Len(t, deliverer.digests, 1)
	assert.True(t, deliverer.digests[0].VerbReset)

	// After the reset only the delivered verb is marked used.
	assert.Equal(t, []int{result.Verb.ID}, store.history.Used[models.CategoryVerbs])
}

func TestSendCycleEmptyCatalog(t *testing.T) {
	store := &fakeStore{}
	source := &fakeSource{catalogs: map[string][]models.Word{}}

	orch := newOrchestrator(store, source, &fakeDeliverer{})
	_, err := orch.SendCycle(false, false)

	assert.ErrorIs(t, err, selector.ErrNoCandidates)
	assert.Zero(t, store.saved)
}

func TestSendCycleUsesCurrentDifficulty(t *testing.T) {
	hist := models.NewHistory()
	hist.CurrentDifficulty = 4.0

	store := &fakeStore{history: hist}
	source := &fakeSource{catalogs: map[string][]models.Word{
		models.CategoryVerbs:      testWords(4.0, 1),
		models.CategoryAdjectives: testWords(4.0, 2),
	}}

	orch := newOrchestrator(store, source, &fakeDeliverer{})
	result, err := orch.SendCycle(false, false)

	require.NoError(t, err)
	assert.Equal(t, 4.0, result.Difficulty)
	assert.Equal(t, "Advanced", result.DifficultyName)
}

func TestFeedbackCycleAppliesAndPersists(t *testing.T) {
	hist := models.NewHistory()
	hist.CurrentDifficulty = 3.0

	store := &fakeStore{history: hist}
	orch := &Orchestrator{
		Store: store,
		Inbox: &fakeInbox{body: "This was too hard for me", ok: true},
		Now: func() time.Time {
			return time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
		},
	}

	result, err := orch.FeedbackCycle(time.Now().AddDate(0, 0, -2))

	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "hard", result.Keyword)
	assert.Equal(t, 2.5, result.NewLevel)

	assert.Equal(t, 1, store.saved)
	assert.Equal(t, 2.5, store.history.CurrentDifficulty)
	require.Len(t, store.history.Adjustments, 1)
	assert.Equal(t, 3.0, store.history.Adjustments[0].OldLevel)
	assert.Equal(t, 2.5, store.history.Adjustments[0].NewLevel)
}

func TestFeedbackCycleNoReply(t *testing.T) {
	store := &fakeStore{}
	orch := &Orchestrator{Store: store, Inbox: &fakeInbox{ok: false}}

	result, err := orch.FeedbackCycle(time.Now())

	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Zero(t, store.saved)
}

func TestFeedbackCycleNoKeywordLeavesStateUnchanged(t *testing.T) {
	store := &fakeStore{}
	orch := &Orchestrator{Store: store, Inbox: &fakeInbox{body: "muchas gracias", ok: true}}

	result, err := orch.FeedbackCycle(time.Now())

	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Zero(t, store.saved)
}

func TestFeedbackCycleInboxError(t *testing.T) {
	store := &fakeStore{}
	orch := &Orchestrator{Store: store, Inbox: &fakeInbox{err: errors.New("imap: login failed")}}

	_, err := orch.FeedbackCycle(time.Now())

	assert.Error(t, err)
	assert.Zero(t, store.saved)
}
