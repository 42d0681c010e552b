package service

import (
	"sort"
	"time"

	"pocketspace/internal/domain/entity"
)

// RenderedMessage is a message prepared for display: classified, with its
// sticker asset resolved and the timestamp-label decision made.
type RenderedMessage struct {
	*entity.Message

	// ShowTimeLabel is true when this message ends a same-minute run.
	ShowTimeLabel bool `json:"show_time_label"`
	// Centered is true for system messages, which bypass sender alignment
	// and never carry a time label.
	Centered bool `json:"centered"`
	// StickerAsset is the resolved catalog asset for sticker messages. Empty
	// when the sticker id is unknown; the raw text is displayed instead.
	StickerAsset string `json:"sticker_asset,omitempty"`
}

// OrderForDisplay sorts messages by server write time ascending. Messages
// whose server timestamp has not resolved yet order last, preserving their
// relative insertion order.
func OrderForDisplay(messages []*entity.Message) []*entity.Message {
	out := make([]*entity.Message, len(messages))
	copy(out, messages)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pending() || out[j].Pending() {
			return !out[i].Pending() && out[j].Pending()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// minuteKey collapses a timestamp to its (year, month, day, hour, minute)
// tuple. A pending timestamp yields the empty key, which compares unequal to
// every real key so a pending message always gets a time label.
func minuteKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("200601021504")
}

// showTimeLabel reports whether message i of an ordered list gets a time
// label: it is the last message, or the next message falls in a different
// minute.
func showTimeLabel(ordered []*entity.Message, i int) bool {
	if i == len(ordered)-1 {
		return true
	}
	cur := minuteKey(ordered[i].CreatedAt)
	next := minuteKey(ordered[i+1].CreatedAt)
	if cur == "" || next == "" {
		return true
	}
	return cur != next
}

// RenderTimeline orders a room's messages for display and annotates each with
// its presentation classification.
func RenderTimeline(messages []*entity.Message) []RenderedMessage {
	ordered := OrderForDisplay(messages)

	out := make([]RenderedMessage, 0, len(ordered))
	for i, m := range ordered {
		r := RenderedMessage{Message: m}

		switch m.Type {
		case entity.MessageSystem:
			r.Centered = true
		case entity.MessageSticker:
			if sticker, ok := entity.ResolveSticker(m.StickerID); ok {
				r.StickerAsset = sticker.Asset
			}
			r.ShowTimeLabel = showTimeLabel(ordered, i)
		default:
			r.ShowTimeLabel = showTimeLabel(ordered, i)
		}

		out = append(out, r)
	}
	return out
}
