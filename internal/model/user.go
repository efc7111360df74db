package model

import "time"

// Identity is what the identity provider vouches for after token verification
type Identity struct {
	SubjectID  string  `json:"uid"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	ProfilePic *string `json:"picture,omitempty"`
}

// UserRole of a marketplace account
type UserRole string

const (
	RoleTenant UserRole = "tenant"
	RoleOwner  UserRole = "owner"
	RoleBoth   UserRole = "both"
)

// User is the local account record keyed by the provider subject id
type User struct {
	ID             string    `json:"id" db:"id"`
	FirebaseUID    string    `json:"firebaseUid" db:"firebase_uid"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	ProfilePic     *string   `json:"profilePic,omitempty" db:"profile_pic"`
	Role           UserRole  `json:"role" db:"role"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	GoogleVerified bool      `json:"googleVerified" db:"google_verified"`
	PhoneProvided  bool      `json:"phoneProvided" db:"phone_provided"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// TenantProfile holds a tenant's search preferences
type TenantProfile struct {
	UserID        string      `json:"userId" db:"user_id"`
	Age           *int        `json:"age,omitempty" db:"age"`
	Occupation    *TenantType `json:"occupation,omitempty" db:"occupation"`
	Organization  *string     `json:"organization,omitempty" db:"organization"`
	Budget        *float64    `json:"budget,omitempty" db:"budget"`
	PreferredCity *string     `json:"preferredCity,omitempty" db:"preferred_city"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`
}

// TenantProfileRequest is the upsert body of POST /api/tenant/profile
type TenantProfileRequest struct {
	Age           *int        `json:"age" binding:"omitempty,min=16,max=120"`
	Occupation    *TenantType `json:"occupation" binding:"omitempty,oneof=Student 'Working Professional'"`
	Organization  *string     `json:"organization"`
	Budget        *float64    `json:"budget" binding:"omitempty,min=0"`
	PreferredCity *string     `json:"preferredCity"`
}

// Chat is a conversation between a tenant and a listing owner
type Chat struct {
	ID         string        `json:"id" db:"id"`
	PropertyID string        `json:"propertyId" db:"property_id"`
	TenantID   string        `json:"tenantId" db:"tenant_id"`
	OwnerID    string        `json:"ownerId" db:"owner_id"`
	Messages   []ChatMessage `json:"messages" db:"-"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time     `json:"updatedAt" db:"updated_at"`
}

// ChatMessage is one message of an owner chat
type ChatMessage struct {
	ID        int64     `json:"id" db:"id"`
	ChatID    string    `json:"-" db:"chat_id"`
	SenderID  string    `json:"senderId" db:"sender_id"`
	Text      string    `json:"text" db:"text"`
	Timestamp time.Time `json:"timestamp" db:"sent_at"`
}

// StartChatRequest opens (or reopens) the chat for a listing
type StartChatRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
}

// SendMessageRequest appends a message to a chat
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}
