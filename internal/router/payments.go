package router

import (
	"io"
	"net/http"

	"coursely/internal/enrollment"
	"coursely/internal/payments"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"
)

// maxWebhookBody bounds webhook payload reads.
const maxWebhookBody = 1 << 16

// PaymentDeps carries what the webhook endpoint needs.
type PaymentDeps struct {
	Ledger   *enrollment.Ledger
	Payments *payments.Client
}

func PaymentRoutes(deps PaymentDeps) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/webhook", stripeWebhookHandler(deps))
	return router
}

// POST: /webhook
//
// The payment provider retries deliveries until it sees a 2xx, so the
// handler only returns an error status when retrying could help. Duplicate
// events are absorbed by the ledger.
func stripeWebhookHandler(deps PaymentDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			http.Error(w, "error reading request body", http.StatusServiceUnavailable)
			return
		}

		event, err := deps.Payments.ParseWebhookEvent(payload, r.Header.Get("Stripe-Signature"))
		if err != nil {
			glog.Errorf("webhook signature verification failed: %v\n", err)
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}

		switch event.Kind {
		case payments.EventCompleted:
			err = deps.Ledger.RecordPurchaseCompletion(r.Context(), event.PurchaseID)
		case payments.EventFailed:
			err = deps.Ledger.RecordPurchaseFailure(r.Context(), event.PurchaseID)
		}
		if err != nil {
			glog.Errorf("error processing payment event for purchase %v: %v\n", event.PurchaseID, err)
			http.Error(w, "error processing event", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
