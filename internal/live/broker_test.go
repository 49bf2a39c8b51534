package live

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRoutesByTopic(t *testing.T) {
	b := NewBroker(4)
	lessons := b.Subscribe(TopicLessons)
	mine := b.Subscribe(AccountTopic("a1"), TopicLive)
	defer lessons.Cancel()
	defer mine.Cancel()

	require.NoError(t, b.Publish(TopicLive, map[string]bool{"isLive": true}))
	require.NoError(t, b.Publish(AccountTopic("a2"), "other"))

	select {
	case ev := <-mine.Events():
		assert.Equal(t, TopicLive, ev.Topic)
		var got map[string]bool
		require.NoError(t, json.Unmarshal(ev.Data, &got))
		assert.True(t, got["isLive"])
	default:
		t.Fatal("expected live event")
	}

	assert.Len(t, lessons.Events(), 0)
	assert.Len(t, mine.Events(), 0)
}

func drain(sub *Subscription) []string {
	var got []string
	for {
		select {
		case ev := <-sub.Events():
			got = append(got, ev.Topic+"="+string(ev.Data))
		default:
			return got
		}
	}
}

func TestFullQueueKeepsNewestPerTopic(t *testing.T) {
	b := NewBroker(2)
	sub := b.Subscribe(TopicClasses)
	defer sub.Cancel()

	for i := 1; i <= 3; i++ {
		require.NoError(t, b.Publish(TopicClasses, i))
	}

	assert.Equal(t, []string{"classes=3"}, drain(sub))
}

func TestFullQueueKeepsOtherTopics(t *testing.T) {
	b := NewBroker(2)
	account := AccountTopic("1")
	sub := b.Subscribe(TopicLessons, account)
	defer sub.Cancel()

	require.NoError(t, b.Publish(TopicLessons, map[string]int{"v": 1}))
	require.NoError(t, b.Publish(account, map[string]int{"v": 1}))
	require.NoError(t, b.Publish(account, map[string]int{"v": 2}))
	require.NoError(t, b.Publish(account, map[string]int{"v": 3}))

	assert.Equal(t, []string{`lessons={"v":1}`, `account:1={"v":3}`}, drain(sub))
}

func TestFullQueueWithMoreTopicsThanSlots(t *testing.T) {
	b := NewBroker(2)
	sub := b.Subscribe(TopicLessons, TopicClasses, TopicLive)
	defer sub.Cancel()

	require.NoError(t, b.Publish(TopicLessons, 1))
	require.NoError(t, b.Publish(TopicClasses, 2))
	require.NoError(t, b.Publish(TopicLive, 3))

	assert.Equal(t, []string{"classes=2", "live=3"}, drain(sub))
}

func TestCancel(t *testing.T) {
	b := NewBroker(0)
	sub := b.Subscribe(TopicLessons)
	assert.Equal(t, 1, b.Subscribers())

	sub.Cancel()
	sub.Cancel()
	assert.Equal(t, 0, b.Subscribers())

	_, open := <-sub.Events()
	assert.False(t, open)

	// Publishing after cancel must not panic
	assert.NoError(t, b.Publish(TopicLessons, "x"))
}

func TestPublishRejectsUnencodable(t *testing.T) {
	b := NewBroker(1)
	assert.Error(t, b.Publish(TopicLive, make(chan int)))
}

func TestGenerateRoomName(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z]+-[a-z]+-[a-z0-9]{4}$`)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		name, err := GenerateRoomName()
		require.NoError(t, err)
		assert.Regexp(t, pattern, name)
		seen[name] = true
	}
	assert.Greater(t, len(seen), 1)
}
