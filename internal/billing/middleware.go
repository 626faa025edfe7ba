package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarshsingh05/paperly-backend/internal/shared/server/middleware"
	"github.com/adarshsingh05/paperly-backend/internal/shared/server/respond"
)

const subscriptionKey = "subscription"

// RequireSubscription gates premium routes: 403 when the user never paid,
// 402 when the last paid period has lapsed.
func RequireSubscription(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserIDFromContext(c)
		info, err := svc.CheckSubscription(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check subscription", nil)
			c.Abort()
			return
		}
		switch {
		case info.Active:
			c.Set(subscriptionKey, info)
			c.Next()
		case info.Expired:
			respond.Error(c, http.StatusPaymentRequired, "subscription_expired", "subscription has expired", nil)
			c.Abort()
		default:
			respond.Error(c, http.StatusForbidden, "no_subscription", "an active subscription is required", nil)
			c.Abort()
		}
	}
}

// SubscriptionFromContext fetches the info stored by RequireSubscription.
func SubscriptionFromContext(c *gin.Context) (SubscriptionInfo, bool) {
	val, ok := c.Get(subscriptionKey)
	if !ok {
		return SubscriptionInfo{}, false
	}
	info, ok := val.(SubscriptionInfo)
	return info, ok
}
