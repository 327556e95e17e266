package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/speps/go-hashids/v2"
)

// ReferenceGenerator produces the short public codes printed on bookings
// (emails, push notifications, front desk). Codes are opaque: the hashid
// encodes the user id and a timestamp, the uuid fragment breaks ties within
// the same millisecond.
type ReferenceGenerator struct {
	h *hashids.HashID
}

func NewReferenceGenerator(salt string) (*ReferenceGenerator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 6
	hd.Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("reference generator: %w", err)
	}
	return &ReferenceGenerator{h: h}, nil
}

// Generate returns a code like "CB-7NQ4WM-A1B2".
func (g *ReferenceGenerator) Generate(userID int64) string {
	tag, err := g.h.EncodeInt64([]int64{userID, time.Now().UnixMilli()})
	if err != nil {
		// EncodeInt64 only fails on empty input; fall back to a plain nonce.
		tag = strings.ToUpper(uuid.NewString()[:6])
	}
	nonce := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("CB-%s-%s", tag, nonce)
}
