package models

import "time"

// User represents a registered user
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Gender       *string    `json:"gender,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Preferences  *string    `json:"preferences,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Age          *int       `json:"age,omitempty"`
	PushToken    *string    `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Profile is the public card of a user
type Profile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	PhotoKey    *string   `json:"-"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Description *string   `json:"description,omitempty"`
	Interests   *string   `json:"interests,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Admin marks a user with administrative rights
type Admin struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	IsBlocked bool   `json:"is_blocked"`
}

// Like is a one-directional interest from UserID to LikedUserID
type Like struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	LikedUserID string    `json:"liked_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Match is a mutual like. UserID < LikedUserID always holds.
type Match struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	LikedUserID string    `json:"liked_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Partner returns the other member of the match
func (m *Match) Partner(userID string) string {
	if m.UserID == userID {
		return m.LikedUserID
	}
	return m.UserID
}

// Has reports whether userID is a member of the match
func (m *Match) Has(userID string) bool {
	return m.UserID == userID || m.LikedUserID == userID
}

// Message is a direct message between matched users
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Stats holds aggregate counters
type Stats struct {
	Users    int `json:"users"`
	Matches  int `json:"matches"`
	Messages int `json:"messages"`
}

// CanonicalPair orders two user ids so that a pair is stored once
func CanonicalPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
