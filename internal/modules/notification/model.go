// README: Notification record and producer-set categories.
package notification

import (
	"time"

	"shoerack/internal/types"
)

// Category tags a notification at creation time. The storefront picks the
// badge icon from this tag; it is never inferred from the title text.
type Category string

const (
	CategoryOrderStatus Category = "order_status"
	CategoryPromo       Category = "promo"
	CategorySystem      Category = "system"
)

type Notification struct {
	ID        types.ID  `json:"id"`
	OwnerID   types.ID  `json:"ownerId"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Category  Category  `json:"category"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
