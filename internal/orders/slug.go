package orders

import (
	"crypto/rand"
	"math/big"
)

const (
	slugPrefix   = "order-"
	slugAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	slugLength   = 9
)

// NewSlug generates a customer-facing order reference like "order-k3f9x2m1q".
func NewSlug() string {
	buf := make([]byte, slugLength)
	max := big.NewInt(int64(len(slugAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic(err)
		}
		buf[i] = slugAlphabet[n.Int64()]
	}
	return slugPrefix + string(buf)
}
