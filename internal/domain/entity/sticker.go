package entity

// Sticker is a compile-time catalog entry mapping a sticker id to its asset.
type Sticker struct {
	ID    string `json:"id"`
	Asset string `json:"asset"`
	Label string `json:"label"`
}

var stickerCatalog = map[string]Sticker{
	"thanks":    {ID: "thanks", Asset: "stickers/thanks.png", Label: "Thanks!"},
	"ok":        {ID: "ok", Asset: "stickers/ok.png", Label: "OK"},
	"sorry":     {ID: "sorry", Asset: "stickers/sorry.png", Label: "Sorry"},
	"deal":      {ID: "deal", Asset: "stickers/deal.png", Label: "Deal!"},
	"wave":      {ID: "wave", Asset: "stickers/wave.png", Label: "Hello"},
	"heart":     {ID: "heart", Asset: "stickers/heart.png", Label: "Heart"},
	"box":       {ID: "box", Asset: "stickers/box.png", Label: "Packed"},
	"thumbs_up": {ID: "thumbs_up", Asset: "stickers/thumbs_up.png", Label: "Good"},
}

// ResolveSticker looks a sticker id up in the static catalog. Lookups are by
// exact id only; callers must fall back to the message's raw text when the
// id is unknown.
func ResolveSticker(id string) (Sticker, bool) {
	s, ok := stickerCatalog[id]
	return s, ok
}

// StickerCatalog returns every catalog entry, for the client's sticker picker.
func StickerCatalog() []Sticker {
	out := make([]Sticker, 0, len(stickerCatalog))
	for _, s := range stickerCatalog {
		out = append(out, s)
	}
	return out
}
