// Package gateway holds the payment-gateway client.  The gateway's
// internal processing is opaque to this service: the only outbound
// interaction is producing a hosted checkout URL for a correlation
// reference, and outcomes come back through the callback webhook.
package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Redirect is the hosted-checkout gateway client.  It builds the checkout
// URL the customer is redirected to; the provider reads the correlation
// reference, amount and return URL from the query string.
type Redirect struct {
	base string
}

// NewRedirect returns a Redirect client rooted at the provider's checkout
// base URL.
func NewRedirect(base string) *Redirect {
	return &Redirect{base: strings.TrimRight(base, "/")}
}

// CreateCheckout returns the hosted checkout URL for one payment attempt.
func (g *Redirect) CreateCheckout(_ context.Context, txRef string, amountCents uint32, currency, returnURL string) (string, error) {
	if txRef == "" {
		return "", fmt.Errorf("gateway: empty tx_ref")
	}
	v := url.Values{}
	v.Set("tx_ref", txRef)
	v.Set("amount", fmt.Sprintf("%d", amountCents))
	v.Set("currency", currency)
	if returnURL != "" {
		v.Set("return_url", returnURL)
	}
	return g.base + "?" + v.Encode(), nil
}
