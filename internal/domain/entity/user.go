package entity

import "time"

// User is a PocketSpace account, keyed "<provider>:<providerUID>" so the same
// person signing in through a different provider gets a distinct account.
type User struct {
	ID        string `json:"id" firestore:"id"`
	Provider  string `json:"provider" firestore:"provider"` // "naver", "kakao", "google", "apple"
	Email     string `json:"email,omitempty" firestore:"email,omitempty"`
	Nickname  string `json:"nickname" firestore:"nickname"`
	PhotoURL  string `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	Region    string `json:"region,omitempty" firestore:"region,omitempty"`
	PushToken string `json:"push_token,omitempty" firestore:"pushToken,omitempty"`
	Status    string `json:"status" firestore:"status"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
