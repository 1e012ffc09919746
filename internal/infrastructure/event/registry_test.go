package event

import (
	"testing"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	registry := NewHandlerRegistry()
	specific := newTestHandler(pricing.EventTypeQuoteComputed)
	wildcard := newTestHandler()

	registry.Register(specific, pricing.EventTypeQuoteComputed)
	registry.Register(specific, pricing.EventTypeQuoteComputed)
	registry.Register(wildcard)

	handlers := registry.GetHandlers(pricing.EventTypeQuoteComputed)
	assert.Len(t, handlers, 2)
	assert.Same(t, specific, handlers[0], "type handlers come first")

	handlers = registry.GetHandlers("pricing.list.updated")
	assert.Len(t, handlers, 1)
	assert.Same(t, wildcard, handlers[0])
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	h1 := newTestHandler(pricing.EventTypeQuoteComputed)
	h2 := newTestHandler(pricing.EventTypeQuoteComputed)
	wildcard := newTestHandler()

	registry.Register(h1, pricing.EventTypeQuoteComputed)
	registry.Register(h2, pricing.EventTypeQuoteComputed)
	registry.Register(wildcard)

	registry.Unregister(h1)
	registry.Unregister(wildcard)

	handlers := registry.GetHandlers(pricing.EventTypeQuoteComputed)
	assert.Len(t, handlers, 1)
	assert.Same(t, h2, handlers[0])

	registry.Unregister(h2)
	assert.Empty(t, registry.GetHandlers(pricing.EventTypeQuoteComputed))
}
