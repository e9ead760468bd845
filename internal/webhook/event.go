package webhook

import "encoding/json"

// Event is a notification whose signature has been verified. It is only ever
// constructed by the Verifier; handlers decode Data into the concrete Stripe
// type for the kinds they know about.
type Event struct {
	ID   string
	Kind string
	Data json.RawMessage
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

func parseEvent(body []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{}, ErrMalformedPayload
	}
	if env.ID == "" || env.Type == "" {
		return Event{}, ErrMalformedPayload
	}
	return Event{ID: env.ID, Kind: env.Type, Data: env.Data.Object}, nil
}
