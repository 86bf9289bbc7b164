package discovery

import "github.com/google/uuid"

// Referral is the (creator, content) pair recorded on a wishlist save that
// followed a video view.
type Referral struct {
	CreatorID uuid.UUID `json:"creator_id"`
	ContentID uuid.UUID `json:"content_id"`
}
