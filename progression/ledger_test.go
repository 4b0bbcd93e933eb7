package progression

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinquest-app/quest_api/model"
	"github.com/coinquest-app/quest_api/shared"
)

func newSession() *SessionContext {
	return NewSessionContext("parent01", "child01", shared.FirstUnit)
}

func TestRecordPassCollectedIdempotent(t *testing.T) {
	sess := newSession()
	entry := &model.MainGameLevelEntry{}

	sess.MarkEarned(MinigamesPass)
	first := RecordPassCollected(sess, shared.FirstUnit, entry, MinigamesPass)
	require.True(t, first.Collected)
	assert.Equal(t, map[string]bool{"minigames_pass_collected": true}, first.PatchFields)

	// Second attempt: flag already permanent, even if the session claims it
	// was earned again.
	sess.MarkEarned(MinigamesPass)
	second := RecordPassCollected(sess, shared.FirstUnit, entry, MinigamesPass)
	assert.False(t, second.Collected)
	assert.Empty(t, second.PatchFields)
	assert.Empty(t, second.UnlockDeltas)
	assert.True(t, entry.MinigamesPassCollected)
}

func TestRecordPassCollectedRequiresSessionEarn(t *testing.T) {
	sess := newSession()
	entry := &model.MainGameLevelEntry{}

	res := RecordPassCollected(sess, shared.FirstUnit, entry, VocabsPass)
	assert.False(t, res.Collected)
	assert.False(t, entry.VocabsPassCollected)
}

func TestLessonFlashPairedUnlock(t *testing.T) {
	t.Run("first half alone flips no buttons", func(t *testing.T) {
		sess := newSession()
		entry := &model.MainGameLevelEntry{}

		sess.MarkEarned(LessonPass)
		res := RecordPassCollected(sess, shared.FirstUnit, entry, LessonPass)
		require.True(t, res.Collected)
		assert.Empty(t, res.UnlockDeltas)
	})

	t.Run("second half fires both buttons once", func(t *testing.T) {
		sess := newSession()
		entry := &model.MainGameLevelEntry{LessonPassCollected: true}

		sess.MarkEarned(FlashPass)
		res := RecordPassCollected(sess, shared.FirstUnit, entry, FlashPass)
		require.True(t, res.Collected)
		require.Contains(t, res.UnlockDeltas, shared.FirstUnit)
		assert.Equal(t, map[string]bool{
			shared.StageLesson:    true,
			shared.StageFlashcard: true,
		}, res.UnlockDeltas[shared.FirstUnit])

		// Redundant re-collection fires nothing further.
		sess.MarkEarned(FlashPass)
		again := RecordPassCollected(sess, shared.FirstUnit, entry, FlashPass)
		assert.Empty(t, again.UnlockDeltas)
	})

	t.Run("order does not matter", func(t *testing.T) {
		sess := newSession()
		entry := &model.MainGameLevelEntry{FlashPassCollected: true}

		sess.MarkEarned(LessonPass)
		res := RecordPassCollected(sess, shared.FirstUnit, entry, LessonPass)
		require.True(t, res.Collected)
		assert.Len(t, res.UnlockDeltas[shared.FirstUnit], 2)
	})
}

func TestSingleButtonUnlocks(t *testing.T) {
	cases := []struct {
		kind   PassKind
		button string
	}{
		{MinigamesPass, shared.StageMinigames},
		{VocabsPass, shared.StageVocabs},
		{CalculatorPass, shared.StageCalculator},
		{VideoPass, shared.StageVideo},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			sess := newSession()
			entry := &model.MainGameLevelEntry{}

			sess.MarkEarned(tc.kind)
			res := RecordPassCollected(sess, shared.FirstUnit, entry, tc.kind)
			require.True(t, res.Collected)
			assert.Equal(t, map[string]bool{tc.button: true}, res.UnlockDeltas[shared.FirstUnit])
		})
	}
}

func TestTriviaPassesFlipNoButtons(t *testing.T) {
	for _, kind := range []PassKind{FlashTrivia, MinigamesTrivia, VocabsTrivia, CalculatorTrivia, VideoTrivia} {
		t.Run(string(kind), func(t *testing.T) {
			sess := newSession()
			entry := &model.MainGameLevelEntry{}

			sess.MarkEarned(kind)
			res := RecordPassCollected(sess, shared.FirstUnit, entry, kind)
			require.True(t, res.Collected)
			assert.Empty(t, res.UnlockDeltas)
			assert.True(t, entry.FlagSet(kind.CollectedField()))
		})
	}
}

func TestRecordPassCollectedNilEntry(t *testing.T) {
	sess := newSession()
	sess.MarkEarned(VideoPass)

	res := RecordPassCollected(sess, shared.FirstUnit, nil, VideoPass)
	assert.False(t, res.Collected)
}

func TestSessionContextConcurrentEarnAndCollect(t *testing.T) {
	sess := newSession()
	entry := &model.MainGameLevelEntry{}
	kinds := []PassKind{
		LessonPass, FlashPass, MinigamesPass, VocabsPass,
		CalculatorPass, VideoPass,
	}

	// Earn reports land on their own requests, concurrently with each other
	// and with a collect in flight.
	var wg sync.WaitGroup
	for _, kind := range kinds {
		wg.Add(1)
		go func(kind PassKind) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sess.MarkEarned(kind)
			}
		}(kind)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			RecordPassCollected(sess, shared.FirstUnit, entry, MinigamesPass)
		}
	}()
	wg.Wait()

	for _, kind := range kinds[:2] {
		assert.True(t, sess.Earned(kind))
	}
	assert.True(t, entry.MinigamesPassCollected)
}

func TestParsePassKind(t *testing.T) {
	kind, ok := ParsePassKind("calculator_trivia")
	require.True(t, ok)
	assert.True(t, kind.IsTrivia())
	assert.Equal(t, "calculator_trivia_collected", kind.CollectedField())

	_, ok = ParsePassKind("bogus")
	assert.False(t, ok)
}
