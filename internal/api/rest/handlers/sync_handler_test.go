package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhoini/Subscription-dashboard/internal/service"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

type stubSyncService struct {
	summary service.PassSummary
	err     error
}

func (s stubSyncService) RunPass(context.Context) (service.PassSummary, error) {
	return s.summary, s.err
}

func newSyncTestRouter(svc service.SyncService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)

	r := gin.New()
	r.POST("/sync/notifications", NewSyncHandler(svc, log).GenerateNotifications)
	return r
}

func TestSyncHandlerGenerateNotifications(t *testing.T) {
	t.Run("returns pass summary", func(t *testing.T) {
		router := newSyncTestRouter(stubSyncService{
			summary: service.PassSummary{
				NotificationsCreated: 3,
				SubscriptionsUpdated: 1,
				SkippedMissingRefs:   2,
			},
		})

		w := httptest.NewRecorder()
		req, err := http.NewRequest(http.MethodPost, "/sync/notifications", nil)
		require.NoError(t, err)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"success":true,"notificationsCreated":3,"subscriptionsUpdated":1,"skippedMissingRefs":2}`,
			w.Body.String(),
		)
	})

	t.Run("reports failure without a summary", func(t *testing.T) {
		router := newSyncTestRouter(stubSyncService{err: errors.New("store unavailable")})

		w := httptest.NewRecorder()
		req, err := http.NewRequest(http.MethodPost, "/sync/notifications", nil)
		require.NoError(t, err)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to generate notifications"}`, w.Body.String())
	})
}
