package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

// Posts a rotating checkpoint sequence at a running service instance.
// Set SEED_SHIPMENT_ID and SEED_USER_ID to rows that exist in the target DB.
func main() {
	shipmentID := envOr("SEED_SHIPMENT_ID", uuid.New().String())
	userID := envOr("SEED_USER_ID", uuid.New().String())

	statuses := []string{
		"Loaded", "QrScanned", "ArrivedHub", "DepartedHub",
		"OutForDelivery", "DeliveryAttempt", "Delivered", "Exception",
	}

	for index := 0; ; index++ {
		body, err := json.Marshal(map[string]any{
			"shipment_id": shipmentID,
			"status_code": statuses[index%len(statuses)],
			"remarks":     fmt.Sprintf("seeded checkpoint %d", index),
			"action_type": "Seeded",
			"latitude":    19.432608,
			"longitude":   -99.133209,
		})
		if err != nil {
			panic(err)
		}

		req, err := http.NewRequest(http.MethodPost, "http://localhost:8080/checkpoints", bytes.NewReader(body))
		if err != nil {
			panic(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-Id", userID)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			panic(err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			panic(fmt.Errorf("resp.StatusCode (%d) != 201", resp.StatusCode))
		}

		time.Sleep(200 * time.Millisecond)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
