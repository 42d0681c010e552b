package entity

import "time"

type ListingImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

// Listing is a storage space offered for short-term rental.
type Listing struct {
	ID          string         `json:"id" firestore:"id"`
	OwnerID     string         `json:"owner_id" firestore:"ownerId"`
	Title       string         `json:"title" firestore:"title"`
	Description string         `json:"description" firestore:"description"`
	Address     string         `json:"address" firestore:"address"`
	Latitude    float64        `json:"latitude" firestore:"latitude"`
	Longitude   float64        `json:"longitude" firestore:"longitude"`
	SizeM2      float64        `json:"size_m2" firestore:"sizeM2"`
	PricePerDay int64          `json:"price_per_day" firestore:"pricePerDay"`
	AvailFrom   time.Time      `json:"avail_from" firestore:"availFrom"`
	AvailUntil  time.Time      `json:"avail_until" firestore:"availUntil"`
	Images      []ListingImage `json:"images" firestore:"images"`
	Status      string         `json:"status" firestore:"status"` // "active", "paused", "rented"
	Views       int64          `json:"views" firestore:"views"`
	CreatedAt   time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// PreviewImageURLs returns the listing photos in display order, for use as a
// chat room's preview strip.
func (l *Listing) PreviewImageURLs() []string {
	urls := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		urls = append(urls, img.URL)
	}
	return urls
}
