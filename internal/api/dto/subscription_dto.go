package dto

// LoginRequest carries the submitted admin credential pair.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// CreateSubscriptionRequest payload for new subscriptions.
type CreateSubscriptionRequest struct {
	Name    string `form:"name"`
	Content string `form:"content"`
}

// UpdateSubscriptionRequest payload for edits.
type UpdateSubscriptionRequest struct {
	ID      int64  `form:"id"`
	Name    string `form:"name"`
	Content string `form:"content"`
}

// TargetIDRequest payload for toggle/delete/rotate.
type TargetIDRequest struct {
	ID int64 `form:"id"`
}
