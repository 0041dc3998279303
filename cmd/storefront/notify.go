package main

import (
	"storefront-client/internal/domain"
	"storefront-client/pkg/logger"
)

// toastNotifier translates store mutation outcomes into the user-visible
// messages a toast widget would show. It is the only place that decides
// wording; the stores just report what changed.
type toastNotifier struct{}

func (toastNotifier) Notify(c domain.Change) {
	label := c.Label
	if label == "" {
		label = "Item"
	}

	switch c.Kind {
	case domain.ChangeAdded:
		switch c.Store {
		case "cart":
			logger.Info().Msgf("%s added to cart", label)
		case "wishlist":
			logger.Info().Msgf("%s added to wishlist", label)
		case "orders":
			logger.Info().Msgf("Order %s placed", label)
		default:
			logger.Info().Msgf("%s selected", label)
		}
	case domain.ChangeQuantityUpdated:
		logger.Info().Msgf("%s quantity updated to %d", label, c.Quantity)
	case domain.ChangeRemoved:
		switch c.Store {
		case "cart":
			logger.Info().Msgf("%s removed from cart", label)
		case "wishlist":
			logger.Info().Msgf("%s removed from wishlist", label)
		default:
			logger.Info().Msgf("%s deselected", label)
		}
	case domain.ChangeCleared:
		logger.Info().Msgf("%s cleared", c.Store)
	case domain.ChangeAlreadyPresent:
		logger.Info().Msgf("%s is already in your wishlist", label)
	case domain.ChangeRejected:
		logger.Warn().Msg(c.Reason)
	}
}
