package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pocketspace/internal/domain/entity"
)

func at(minute, second int) time.Time {
	return time.Date(2026, 3, 14, 10, minute, second, 0, time.UTC)
}

func textMsg(id string, createdAt time.Time) *entity.Message {
	return &entity.Message{ID: id, Type: entity.MessageText, Text: id, CreatedAt: createdAt}
}

func TestOrderForDisplayPendingLast(t *testing.T) {
	resolved := textMsg("resolved", at(5, 0))
	pendingA := textMsg("pending-a", time.Time{})
	pendingB := textMsg("pending-b", time.Time{})
	later := textMsg("later", at(6, 0))

	ordered := OrderForDisplay([]*entity.Message{pendingA, later, pendingB, resolved})

	assert.Equal(t, "resolved", ordered[0].ID)
	assert.Equal(t, "later", ordered[1].ID)
	// Pending messages keep their relative insertion order at the tail.
	assert.Equal(t, "pending-a", ordered[2].ID)
	assert.Equal(t, "pending-b", ordered[3].ID)
}

func TestRenderTimelineLabelsEndOfMinuteRuns(t *testing.T) {
	// Three in the same minute, then one in the next minute.
	messages := []*entity.Message{
		textMsg("a", at(5, 10)),
		textMsg("b", at(5, 20)),
		textMsg("c", at(5, 45)),
		textMsg("d", at(6, 1)),
	}

	rendered := RenderTimeline(messages)

	assert.False(t, rendered[0].ShowTimeLabel)
	assert.False(t, rendered[1].ShowTimeLabel)
	assert.True(t, rendered[2].ShowTimeLabel) // last of the 10:05 run
	assert.True(t, rendered[3].ShowTimeLabel) // last message overall
}

func TestRenderTimelineMinuteBoundaryNotElapsed(t *testing.T) {
	// 59 seconds apart but in the same minute: no label on the first.
	sameMinute := RenderTimeline([]*entity.Message{
		textMsg("a", at(5, 0)),
		textMsg("b", at(5, 59)),
	})
	assert.False(t, sameMinute[0].ShowTimeLabel)

	// 2 seconds apart across the boundary: both labeled.
	crossMinute := RenderTimeline([]*entity.Message{
		textMsg("a", at(5, 59)),
		textMsg("b", at(6, 1)),
	})
	assert.True(t, crossMinute[0].ShowTimeLabel)
	assert.True(t, crossMinute[1].ShowTimeLabel)
}

func TestRenderTimelinePendingForcesLabel(t *testing.T) {
	rendered := RenderTimeline([]*entity.Message{
		textMsg("resolved", at(5, 0)),
		textMsg("pending", time.Time{}),
	})

	// The resolved message cannot be grouped with a pending neighbor.
	assert.True(t, rendered[0].ShowTimeLabel)
	assert.True(t, rendered[1].ShowTimeLabel)
}

func TestRenderTimelineSystemMessagesCentered(t *testing.T) {
	rendered := RenderTimeline([]*entity.Message{
		{ID: "sys", Type: entity.MessageSystem, SenderID: entity.SystemSenderID, Text: "Room created", CreatedAt: at(5, 0)},
		textMsg("a", at(5, 30)),
	})

	assert.True(t, rendered[0].Centered)
	assert.False(t, rendered[0].ShowTimeLabel)
	assert.False(t, rendered[1].Centered)
}

func TestRenderTimelineStickerResolution(t *testing.T) {
	rendered := RenderTimeline([]*entity.Message{
		{ID: "known", Type: entity.MessageSticker, StickerID: "thanks", CreatedAt: at(5, 0)},
		{ID: "unknown", Type: entity.MessageSticker, StickerID: "no-such", Text: "[sticker]", CreatedAt: at(6, 0)},
	})

	assert.Equal(t, "stickers/thanks.png", rendered[0].StickerAsset)
	// Unknown ids resolve to nothing; the raw text stays as the fallback.
	assert.Empty(t, rendered[1].StickerAsset)
	assert.Equal(t, "[sticker]", rendered[1].Text)
}
