package services

import (
	"testing"
	"time"

	"swingfox_server/models"

	"github.com/stretchr/testify/assert"
)

func messageAt(id string, createdAt time.Time, seq int64) models.Message {
	return models.Message{
		MessageID: id,
		Seq:       seq,
		CreatedAt: createdAt.Format(time.RFC3339),
		Body:      "body " + id,
	}
}

func TestPartitionByDay_GroupsAndOrders(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)

	// Input arrives newest first, as the store returns it.
	newestFirst := []models.Message{
		messageAt("m4", now, 4),
		messageAt("m3", now.Add(-time.Hour), 3),
		messageAt("m2", yesterday, 2),
		messageAt("m1", yesterday.Add(-time.Hour), 1),
	}

	groups := partitionByDay(newestFirst, now.AddDate(0, 0, -7))

	assert.Len(t, groups, 2)
	assert.Equal(t, now.Local().Format("2006-01-02"), groups[0].Date)
	assert.Equal(t, yesterday.Local().Format("2006-01-02"), groups[1].Date)

	// Within a day, messages read chronologically.
	assert.Equal(t, []string{"m3", "m4"}, []string{groups[0].Messages[0].MessageID, groups[0].Messages[1].MessageID})
	assert.Equal(t, []string{"m1", "m2"}, []string{groups[1].Messages[0].MessageID, groups[1].Messages[1].MessageID})
}

func TestPartitionByDay_CutoffExcludesOldMessages(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	newestFirst := []models.Message{
		messageAt("recent", now, 2),
		messageAt("ancient", now.AddDate(0, 0, -30), 1),
	}

	groups := partitionByDay(newestFirst, now.AddDate(0, 0, -7))

	assert.Len(t, groups, 1)
	assert.Equal(t, "recent", groups[0].Messages[0].MessageID)
}

func TestPartitionByDay_EveryMessageAppearsOnce(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	var newestFirst []models.Message
	for i := 9; i >= 0; i-- {
		newestFirst = append([]models.Message{messageAt("m", now.Add(-time.Duration(i)*6*time.Hour), int64(10-i))}, newestFirst...)
	}

	groups := partitionByDay(newestFirst, now.AddDate(0, 0, -7))

	total := 0
	for _, g := range groups {
		total += len(g.Messages)
	}
	assert.Equal(t, len(newestFirst), total)
}

func TestPartitionByDay_SkipsUnparsableTimestamps(t *testing.T) {
	now := time.Now()
	newestFirst := []models.Message{
		messageAt("good", now, 2),
		{MessageID: "bad", CreatedAt: "not-a-timestamp", Seq: 1},
	}

	groups := partitionByDay(newestFirst, now.AddDate(0, 0, -7))

	assert.Len(t, groups, 1)
	assert.Len(t, groups[0].Messages, 1)
}

func TestMatchesQuery(t *testing.T) {
	assert.True(t, matchesQuery("See you at the Party tonight", "party"))
	assert.True(t, matchesQuery("ÑANDÚ", "ñandú"))
	assert.False(t, matchesQuery("hello there", "party"))
	assert.False(t, matchesQuery("", "party"))
}

func TestReverseMessages(t *testing.T) {
	msgs := []models.Message{{MessageID: "a"}, {MessageID: "b"}, {MessageID: "c"}}

	reverseMessages(msgs)

	assert.Equal(t, "c", msgs[0].MessageID)
	assert.Equal(t, "b", msgs[1].MessageID)
	assert.Equal(t, "a", msgs[2].MessageID)
}

func TestSortNewestFirst_TiesBreakOnSeq(t *testing.T) {
	now := time.Now()
	msgs := []models.Message{
		messageAt("older", now.Add(-time.Minute), 1),
		messageAt("tie-low", now, 2),
		messageAt("tie-high", now, 3),
	}

	sortNewestFirst(msgs)

	assert.Equal(t, "tie-high", msgs[0].MessageID)
	assert.Equal(t, "tie-low", msgs[1].MessageID)
	assert.Equal(t, "older", msgs[2].MessageID)
}
