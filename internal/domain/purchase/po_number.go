package purchase

import (
	"fmt"
	"math/rand"
	"time"
)

// PONumberPrefix is the leading tag of every generated order number
const PONumberPrefix = "PO"

// PONumberMaxAttempts bounds the collision retry loop when generating a
// unique order number
const PONumberMaxAttempts = 10

// NewPONumberCandidate builds an order number candidate for the given day.
// Format: PO-YYYYMMDD-XXXX with a random 4-digit suffix. Uniqueness is
// checked by the caller against the store; on collision a fresh candidate
// is drawn.
func NewPONumberCandidate(day time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", PONumberPrefix, day.Format("20060102"), rand.Intn(10000))
}
