package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

const orderNumberPrefix = "ORD"

// OrderNumberGenerator produces human-readable order identifiers of the form
// ORD<8-digit-time-suffix><3-digit-random>. The result is unique with
// overwhelming probability but not guaranteed; the unique index on
// orders.order_number is the actual correctness backstop, and a collision
// surfaces as a retryable conflict.
type OrderNumberGenerator struct {
	clock  func() time.Time
	random func(n int) int
}

// NewOrderNumberGenerator constructs a generator with the supplied clock and
// random source. Nil arguments fall back to the wall clock and math/rand.
func NewOrderNumberGenerator(clock func() time.Time, random func(n int) int) *OrderNumberGenerator {
	if clock == nil {
		clock = time.Now
	}
	if random == nil {
		random = rand.Intn
	}
	return &OrderNumberGenerator{clock: clock, random: random}
}

// Generate returns a new order number token.
func (g *OrderNumberGenerator) Generate() string {
	millis := strconv.FormatInt(g.clock().UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return fmt.Sprintf("%s%s%03d", orderNumberPrefix, millis, g.random(1000))
}
